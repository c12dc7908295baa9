// Package correlation assigns a stable identifier to every inbound request.
//
// The identifier lives in a per-request [Properties] bag carried by the
// request context. It is generated on first access and reused for the rest
// of the request, including error handling that runs after the main handler.
package correlation

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const (
	// HeaderName is the response header echoing the request's identifier.
	HeaderName = "X-Correlation-ID"

	// IDKey is the property key under which the identifier is stored.
	IDKey = "correlation_id"
)

// Properties is a request-scoped property bag. It is safe for concurrent use
// by the goroutines serving a single request.
type Properties struct {
	mu     sync.Mutex
	values map[string]any
}

// NewProperties returns an empty property bag.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (p *Properties) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[key] = value
}

// Delete removes key from the bag.
func (p *Properties) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.values, key)
}

// Lookup returns the value stored under key when it has type T.
func Lookup[T any](p *Properties, key string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}

	v, ok := p.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// ID returns the identifier stored in p, generating and storing a new random
// one when none is stored or the stored one is [uuid.Nil].
//
// A nil p yields a fresh identifier that is not retained.
func ID(p *Properties) uuid.UUID {
	if p == nil {
		return uuid.New()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.values[IDKey].(uuid.UUID); ok && id != uuid.Nil {
		return id
	}

	id := uuid.New()
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[IDKey] = id
	return id
}

type propertiesKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Properties) context.Context {
	return context.WithValue(ctx, propertiesKey{}, p)
}

// FromContext returns the property bag carried by ctx, or nil.
func FromContext(ctx context.Context) *Properties {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(propertiesKey{}).(*Properties)
	return p
}

// WithID returns the identifier for ctx. When ctx carries no property bag, a
// new one is attached to the returned context.
func WithID(ctx context.Context) (context.Context, uuid.UUID) {
	if p := FromContext(ctx); p != nil {
		return ctx, ID(p)
	}

	p := NewProperties()
	return NewContext(ctx, p), ID(p)
}

// FromRequest returns the identifier for r together with a request whose
// context carries it. The returned request is r itself when r already has a
// property bag.
func FromRequest(r *http.Request) (*http.Request, uuid.UUID) {
	ctx, id := WithID(r.Context())
	if ctx == r.Context() {
		return r, id
	}
	return r.WithContext(ctx), id
}

// Middleware attaches a fresh property bag to every request, assigns the
// identifier and echoes it in the X-Correlation-ID response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := NewProperties()
		w.Header().Set(HeaderName, ID(p).String())
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p)))
	})
}
