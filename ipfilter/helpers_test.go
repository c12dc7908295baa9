package ipfilter

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
)

type capturedLogEntry struct {
	ctx   context.Context
	msg   string
	attrs map[string]any
}

type capturedLogger struct {
	mu      sync.Mutex
	entries []capturedLogEntry
}

func (l *capturedLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, capturedLogEntry{
		ctx:   ctx,
		msg:   msg,
		attrs: attrsToMap(args),
	})
}

func (l *capturedLogger) snapshot() []capturedLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]capturedLogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func attrsToMap(args []any) map[string]any {
	attrs := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs[key] = args[i+1]
	}
	return attrs
}

type decisionKey struct {
	decision Decision
	reason   string
}

type mockMetrics struct {
	mu     sync.Mutex
	counts map[decisionKey]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{counts: make(map[decisionKey]int)}
}

func (m *mockMetrics) RecordDecision(decision Decision, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[decisionKey{decision, reason}]++
}

func (m *mockMetrics) count(decision Decision, reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[decisionKey{decision, reason}]
}

func mustNewGuard(t *testing.T, opts ...Option) *Guard {
	t.Helper()

	guard, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return guard
}

func newTestRequest(remoteAddr, path string) *http.Request {
	req := &http.Request{
		RemoteAddr: remoteAddr,
		Header:     make(http.Header),
	}

	if path != "" {
		req.URL = &url.URL{Path: path}
	}

	return req
}
