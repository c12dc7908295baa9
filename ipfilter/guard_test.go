package ipfilter

import (
	"errors"
	"net/http"
	"testing"

	"github.com/abczzz13/reqguard/clientaddr"
	"github.com/google/go-cmp/cmp"
)

func TestGuard_Evaluate(t *testing.T) {
	entries := []Entry{
		{Address: "192.168.0.196"},
		{Address: "192.168.0.197", Denied: true},
	}

	tests := []struct {
		name    string
		entries []Entry
		build   func() *http.Request
		want    Result
	}{
		{
			name:    "listed and allowed",
			entries: entries,
			build:   func() *http.Request { return newTestRequest("192.168.0.196:5000", "/") },
			want:    Result{Decision: Allow, Reason: ReasonAllowed, Address: "192.168.0.196", Source: clientaddr.SourceWebHost},
		},
		{
			name:    "listed and denied",
			entries: entries,
			build:   func() *http.Request { return newTestRequest("192.168.0.197:5000", "/") },
			want:    Result{Decision: Deny, Reason: ReasonDeniedEntry, Address: "192.168.0.197", Source: clientaddr.SourceWebHost},
		},
		{
			name:    "not listed",
			entries: []Entry{{Address: "192.168.0.196"}},
			build:   func() *http.Request { return newTestRequest("192.168.0.197:5000", "/") },
			want:    Result{Decision: Deny, Reason: ReasonNoMatch, Address: "192.168.0.197", Source: clientaddr.SourceWebHost},
		},
		{
			name:    "no address resolvable",
			entries: entries,
			build:   func() *http.Request { return newTestRequest("", "/") },
			want:    Result{Decision: Deny, Reason: ReasonNoAddress},
		},
		{
			name:    "present context without address",
			entries: entries,
			build: func() *http.Request {
				req := newTestRequest("", "/")
				return req.WithContext(clientaddr.WithRemoteEndpoint(req.Context(), clientaddr.RemoteEndpoint{}))
			},
			want: Result{Decision: Deny, Reason: ReasonNoAddress, Source: clientaddr.SourceSelfHost},
		},
		{
			name:    "empty list fails open",
			entries: nil,
			build:   func() *http.Request { return newTestRequest("8.8.8.8:5000", "/") },
			want:    Result{Decision: Allow, Reason: ReasonListEmpty, Address: "8.8.8.8", Source: clientaddr.SourceWebHost},
		},
		{
			name:    "empty list with no address still allows",
			entries: nil,
			build:   func() *http.Request { return newTestRequest("", "/") },
			want:    Result{Decision: Allow, Reason: ReasonListEmpty},
		},
		{
			name:    "loopback bypasses list",
			entries: []Entry{{Address: "127.0.0.1", Denied: true}},
			build:   func() *http.Request { return newTestRequest("127.0.0.1:5000", "/") },
			want:    Result{Decision: Allow, Reason: ReasonLocal},
		},
		{
			name:    "no IPv4-mapped normalization",
			entries: []Entry{{Address: "10.0.0.1"}},
			build:   func() *http.Request { return newTestRequest("[::ffff:10.0.0.1]:5000", "/") },
			want:    Result{Decision: Deny, Reason: ReasonNoMatch, Address: "::ffff:10.0.0.1", Source: clientaddr.SourceWebHost},
		},
		{
			name:    "no subnet matching",
			entries: []Entry{{Address: "10.0.0.0/8"}},
			build:   func() *http.Request { return newTestRequest("10.0.0.1:5000", "/") },
			want:    Result{Decision: Deny, Reason: ReasonNoMatch, Address: "10.0.0.1", Source: clientaddr.SourceWebHost},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := mustNewGuard(t, WithEntries(tt.entries...))

			got := guard.EvaluateDetail(tt.build())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EvaluateDetail() mismatch (-want +got):\n%s", diff)
			}
			if guard.Evaluate(tt.build()) != tt.want.Decision {
				t.Errorf("Evaluate() disagrees with EvaluateDetail()")
			}
		})
	}
}

func TestGuard_LocalSignalWins(t *testing.T) {
	alwaysLocal := func(*http.Request) bool { return true }

	for _, entries := range [][]Entry{
		nil,
		{{Address: "192.168.0.197", Denied: true}},
		{{Address: "1.1.1.1"}},
	} {
		guard := mustNewGuard(t, WithEntries(entries...), WithLocalFunc(alwaysLocal))
		for _, remote := range []string{"", "192.168.0.197:1", "8.8.8.8:1"} {
			if got := guard.Evaluate(newTestRequest(remote, "/")); got != Allow {
				t.Errorf("Evaluate(%q) with entries %v = %v, want allow", remote, entries, got)
			}
		}
	}
}

func TestGuard_PinnedLocalContext(t *testing.T) {
	guard := mustNewGuard(t, WithEntries(Entry{Address: "1.1.1.1"}))

	req := newTestRequest("192.168.0.197:5000", "/")
	req = req.WithContext(clientaddr.WithLocal(req.Context(), true))

	if got := guard.Evaluate(req); got != Allow {
		t.Errorf("Evaluate() = %v, want allow", got)
	}
}

func TestGuard_CustomResolver(t *testing.T) {
	resolver := clientaddr.MustNew(clientaddr.WithHostingMode(clientaddr.HostingForwarded))
	guard := mustNewGuard(t,
		WithEntries(Entry{Address: "203.0.113.9"}),
		WithResolver(resolver),
	)

	req := newTestRequest("10.0.0.1:443", "/")
	req.Header.Set("X-Forwarded-For", "203.0.113.9:5000, 10.0.0.1")

	got := guard.EvaluateDetail(req)
	want := Result{Decision: Allow, Reason: ReasonAllowed, Address: "203.0.113.9", Source: clientaddr.SourceXForwardedFor}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EvaluateDetail() mismatch (-want +got):\n%s", diff)
	}
}

func TestGuard_NilRequest(t *testing.T) {
	guard := mustNewGuard(t, WithEntries(Entry{Address: "1.1.1.1"}))
	if got := guard.Evaluate(nil); got != Deny {
		t.Errorf("Evaluate(nil) = %v, want deny", got)
	}

	open := mustNewGuard(t)
	if got := open.Evaluate(nil); got != Allow {
		t.Errorf("Evaluate(nil) with empty list = %v, want allow", got)
	}
}

func TestGuard_Metrics(t *testing.T) {
	metrics := newMockMetrics()
	guard := mustNewGuard(t,
		WithEntries(Entry{Address: "192.168.0.196"}, Entry{Address: "192.168.0.197", Denied: true}),
		WithMetrics(metrics),
	)

	guard.Evaluate(newTestRequest("192.168.0.196:1", "/"))
	guard.Evaluate(newTestRequest("192.168.0.196:2", "/"))
	guard.Evaluate(newTestRequest("192.168.0.197:1", "/"))
	guard.Evaluate(newTestRequest("127.0.0.1:1", "/"))

	tests := []struct {
		decision Decision
		reason   string
		want     int
	}{
		{Allow, ReasonAllowed, 2},
		{Deny, ReasonDeniedEntry, 1},
		{Allow, ReasonLocal, 1},
		{Deny, ReasonNoMatch, 0},
	}

	for _, tt := range tests {
		if got := metrics.count(tt.decision, tt.reason); got != tt.want {
			t.Errorf("count(%v, %s) = %d, want %d", tt.decision, tt.reason, got, tt.want)
		}
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "duplicate entries", opts: []Option{WithEntries(Entry{Address: "1.1.1.1"}, Entry{Address: "1.1.1.1", Denied: true})}},
		{name: "empty address", opts: []Option{WithEntries(Entry{Address: "  "})}},
		{name: "nil resolver", opts: []Option{WithResolver(nil)}},
		{name: "nil local func", opts: []Option{WithLocalFunc(nil)}},
		{name: "nil logger", opts: []Option{WithLogger(nil)}},
		{name: "typed nil logger", opts: []Option{WithLogger((*capturedLogger)(nil))}},
		{name: "nil metrics", opts: []Option{WithMetrics(nil)}},
		{name: "empty deny message", opts: []Option{WithDenyMessage("")}},
		{name: "nil metrics factory", opts: []Option{WithMetricsFactory(nil)}},
		{name: "failing metrics factory", opts: []Option{WithMetricsFactory(func() (Metrics, error) {
			return nil, errors.New("register failed")
		})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); err == nil {
				t.Error("New() error = nil, want non-nil")
			}
		})
	}
}

func TestDecision_String(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Allow, "allow"},
		{Deny, "deny"},
		{Decision(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
