package corspolicy

import (
	"fmt"
	"net/http"

	"github.com/jub0bs/cors"
)

// Config translates p into a CORS middleware configuration. Any-flags map to
// the single-asterisk pattern of the corresponding field.
func (p Policy) Config() cors.Config {
	return cors.Config{
		Origins:         withWildcard(p.allowAnyOrigin, p.origins),
		Methods:         withWildcard(p.allowAnyMethod, p.methods),
		RequestHeaders:  withWildcard(p.allowAnyHeader, p.headers),
		ResponseHeaders: p.ExposedHeaders(),
	}
}

func withWildcard(wildcard bool, values []string) []string {
	if wildcard {
		return []string{Wildcard}
	}
	return append([]string(nil), values...)
}

// Middleware builds a CORS middleware enforcing p.
//
// A policy that allows no origin yields a passthrough middleware: requests
// reach the wrapped handler but never receive CORS response headers, so
// browsers keep their same-origin restrictions.
func Middleware(p Policy) (func(http.Handler) http.Handler, error) {
	if p.AllowsNoOrigin() {
		return passthrough, nil
	}

	mw, err := cors.NewMiddleware(p.Config())
	if err != nil {
		return nil, fmt.Errorf("invalid cors policy: %w", err)
	}
	return mw.Wrap, nil
}

func passthrough(h http.Handler) http.Handler { return h }

// Handler wraps h with the policy that lookup returns for name. Pass
// [Registry.Lookup] or [Cache.Get].
func Handler(lookup func(name string) Policy, name string, h http.Handler) (http.Handler, error) {
	mw, err := Middleware(lookup(name))
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", name, err)
	}
	return mw(h), nil
}
