package clientaddr

import (
	"net/http"
)

const (
	// SourceWebHost resolves from Request.RemoteAddr.
	SourceWebHost = "webhost"
	// SourceSelfHost resolves from a RemoteEndpoint in the request context.
	SourceSelfHost = "selfhost"
	// SourceGateway resolves from a GatewayContext in the request context.
	SourceGateway = "gateway"
	// SourceXForwardedFor resolves from the first X-Forwarded-For entry.
	SourceXForwardedFor = "x_forwarded_for"
)

// Source extracts a caller address from one transport context.
//
// Lookup reports present=false when the context the source understands is
// not attached to the request. A present context may still yield an empty
// address.
type Source interface {
	Name() string
	Lookup(r *http.Request) (addr string, present bool)
}

// WebHost returns the source for requests served directly by net/http.
func WebHost() Source { return webHostSource{} }

// SelfHost returns the source for requests accepted by a self-hosted listener
// that records the remote endpoint via ConnContext or WithRemoteEndpoint.
func SelfHost() Source { return selfHostSource{} }

// Gateway returns the source for requests relayed by an API gateway that
// hands over the caller address via WithGateway or GatewayHeader.
func Gateway() Source { return gatewaySource{} }

// ForwardedForSource returns a source reporting the original client of the
// X-Forwarded-For chain. The header is client-controlled unless a trusted
// proxy overwrites it; only opt into this source behind such a proxy.
func ForwardedForSource() Source { return forwardedForSource{} }

type webHostSource struct{}

func (webHostSource) Name() string { return SourceWebHost }

func (webHostSource) Lookup(r *http.Request) (string, bool) {
	if r.RemoteAddr == "" {
		return "", false
	}

	return hostOnly(r.RemoteAddr), true
}

type selfHostSource struct{}

func (selfHostSource) Name() string { return SourceSelfHost }

func (selfHostSource) Lookup(r *http.Request) (string, bool) {
	ep, ok := RemoteEndpointFromContext(r.Context())
	if !ok {
		return "", false
	}

	return ep.Address, true
}

type gatewaySource struct{}

func (gatewaySource) Name() string { return SourceGateway }

func (gatewaySource) Lookup(r *http.Request) (string, bool) {
	gc, ok := GatewayFromContext(r.Context())
	if !ok {
		return "", false
	}

	return gc.RemoteIPAddress, true
}

type forwardedForSource struct{}

func (forwardedForSource) Name() string { return SourceXForwardedFor }

func (forwardedForSource) Lookup(r *http.Request) (string, bool) {
	if len(r.Header.Values(headerXForwardedFor)) == 0 {
		return "", false
	}

	chain := ForwardedFor(r)
	if len(chain) == 0 {
		return "", true
	}

	return chain[0], true
}
