package clientaddr

import (
	"net/http"
	"net/netip"
	"strings"
)

// GatewayHeader returns middleware that lifts the caller address from header
// into a GatewayContext when the request was relayed by one of the trusted
// proxies.
//
// Requests whose peer address is outside trusted, or that do not carry the
// header, pass through untouched. For list-valued headers only the first
// entry is used, with any port suffix stripped.
//
// A relayed request is local only when the lifted address is loopback, so a
// proxy on the same host does not make every caller local.
func GatewayHeader(header string, trusted []netip.Prefix) func(http.Handler) http.Handler {
	header = http.CanonicalHeaderKey(strings.TrimSpace(header))
	matcher := newPrefixMatcher(trusted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values := r.Header.Values(header)
			if len(values) == 0 || matcher.empty() {
				next.ServeHTTP(w, r)
				return
			}

			peer, err := netip.ParseAddr(hostOnly(r.RemoteAddr))
			if err != nil || !matcher.contains(peer) {
				next.ServeHTTP(w, r)
				return
			}

			first, _, _ := strings.Cut(values[0], ",")
			lifted := hostOnly(first)

			ctx := WithGateway(r.Context(), GatewayContext{RemoteIPAddress: lifted})
			ctx = WithLocal(ctx, isLoopback(lifted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isLoopback(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	return err == nil && ip.Unmap().IsLoopback()
}
