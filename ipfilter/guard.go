package ipfilter

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Guard decides whether a request may proceed based on its client address.
//
// Guard instances are safe for concurrent reuse.
type Guard struct {
	config *config
}

// New creates a Guard from one or more Option builders.
func New(opts ...Option) (*Guard, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Guard{config: cfg}, nil
}

// Evaluate returns the access decision for r.
func (g *Guard) Evaluate(r *http.Request) Decision {
	return g.EvaluateDetail(r).Decision
}

// EvaluateDetail returns the access decision for r together with the reason
// and the resolved address.
func (g *Guard) EvaluateDetail(r *http.Request) Result {
	result := g.evaluate(r)
	g.config.metrics.RecordDecision(result.Decision, result.Reason)
	return result
}

func (g *Guard) evaluate(r *http.Request) Result {
	if r != nil && g.config.isLocal(r) {
		return Result{Decision: Allow, Reason: ReasonLocal}
	}

	resolution, _ := g.config.resolver.Resolve(r)

	if g.config.list.Len() == 0 {
		return Result{Decision: Allow, Reason: ReasonListEmpty, Address: resolution.Address, Source: resolution.Source}
	}

	result := Result{Decision: Deny, Address: resolution.Address, Source: resolution.Source}
	if resolution.Address == "" {
		result.Reason = ReasonNoAddress
		return result
	}

	denied, found := g.config.list.lookup(resolution.Address)
	switch {
	case !found:
		result.Reason = ReasonNoMatch
	case denied:
		result.Reason = ReasonDeniedEntry
	default:
		result.Decision = Allow
		result.Reason = ReasonAllowed
	}

	return result
}

// Allowed reports whether r may proceed.
func (g *Guard) Allowed(r *http.Request) bool {
	return g.Evaluate(r) == Allow
}

// Middleware wraps next so that denied requests receive a 403 response and
// never reach next.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := g.EvaluateDetail(r)
		if result.Decision == Allow {
			next.ServeHTTP(w, r)
			return
		}

		g.config.logger.WarnContext(r.Context(), "request denied by ip filter",
			"reason", result.Reason,
			"address", result.Address,
			"source", result.Source,
			"path", requestPath(r),
			"remote_addr", r.RemoteAddr,
		)
		writeJSONError(w, g.config.denyMessage, http.StatusForbidden)
	})
}

// MiddlewareFunc is Middleware for handler functions.
func (g *Guard) MiddlewareFunc(next http.HandlerFunc) http.HandlerFunc {
	return g.Middleware(next).ServeHTTP
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}{
		Error: message,
		Code:  code,
	})
}
