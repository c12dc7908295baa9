package correlation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestID_StableWithinScope(t *testing.T) {
	p := NewProperties()

	first := ID(p)
	second := ID(p)

	if first == uuid.Nil {
		t.Fatal("ID() returned uuid.Nil")
	}
	if first != second {
		t.Errorf("ID() = %v then %v, want identical", first, second)
	}
}

func TestID_ReplacesNil(t *testing.T) {
	p := NewProperties()
	p.Set(IDKey, uuid.Nil)

	id := ID(p)
	if id == uuid.Nil {
		t.Fatal("ID() kept uuid.Nil")
	}

	stored, ok := Lookup[uuid.UUID](p, IDKey)
	if !ok || stored != id {
		t.Errorf("stored = %v, %v, want %v, true", stored, ok, id)
	}
}

func TestID_KeepsExisting(t *testing.T) {
	want := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	p := NewProperties()
	p.Set(IDKey, want)

	if got := ID(p); got != want {
		t.Errorf("ID() = %v, want %v", got, want)
	}
}

func TestID_WrongTypeIsReplaced(t *testing.T) {
	p := NewProperties()
	p.Set(IDKey, "not-a-uuid")

	id := ID(p)
	if id == uuid.Nil {
		t.Fatal("ID() returned uuid.Nil")
	}
	if got, _ := Lookup[uuid.UUID](p, IDKey); got != id {
		t.Errorf("stored = %v, want %v", got, id)
	}
}

func TestID_Concurrent(t *testing.T) {
	p := NewProperties()

	const workers = 16
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = ID(p)
		}()
	}
	wg.Wait()

	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("ids[%d] = %v, want %v", i, id, ids[0])
		}
	}
}

func TestID_NilProperties(t *testing.T) {
	if ID(nil) == uuid.Nil {
		t.Error("ID(nil) returned uuid.Nil")
	}
}

func TestLookup(t *testing.T) {
	p := NewProperties()
	p.Set("count", 3)

	tests := []struct {
		name   string
		props  *Properties
		key    string
		want   int
		wantOK bool
	}{
		{name: "present", props: p, key: "count", want: 3, wantOK: true},
		{name: "missing", props: p, key: "other"},
		{name: "nil bag", props: nil, key: "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup[int](tt.props, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := Lookup[string](p, "count"); ok {
		t.Error("Lookup[string]() matched an int value")
	}

	p.Delete("count")
	if _, ok := p.Get("count"); ok {
		t.Error("Get() found deleted key")
	}
}

func TestWithID(t *testing.T) {
	ctx, first := WithID(context.Background())
	if FromContext(ctx) == nil {
		t.Fatal("WithID() did not attach properties")
	}

	ctx2, second := WithID(ctx)
	if ctx2 != ctx {
		t.Error("WithID() replaced a context that already had properties")
	}
	if first != second {
		t.Errorf("WithID() = %v then %v, want identical", first, second)
	}
}

func TestMiddleware(t *testing.T) {
	var (
		seen   uuid.UUID
		seenOK bool
	)
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		r2, id := FromRequest(r)
		if r2 != r {
			t.Error("FromRequest() rebuilt request under middleware")
		}
		seen = id
		seenOK = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !seenOK {
		t.Fatal("handler not called")
	}
	header := rec.Header().Get(HeaderName)
	if header != seen.String() {
		t.Errorf("%s = %q, want %q", HeaderName, header, seen)
	}

	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec2.Header().Get(HeaderName) == header {
		t.Error("two requests shared a correlation id")
	}
}

func TestFromRequest_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req2, id := FromRequest(req)
	if req2 == req {
		t.Fatal("FromRequest() did not attach properties")
	}
	if _, again := FromRequest(req2); again != id {
		t.Errorf("FromRequest() = %v then %v, want identical", id, again)
	}
}
