package clientaddr

import (
	"context"
	"net"
	"strconv"
)

// RemoteEndpoint describes the peer of a connection accepted by a self-hosted
// listener.
type RemoteEndpoint struct {
	Address string
	Port    int
}

// GatewayContext carries the caller address handed over by an API gateway or
// reverse proxy sitting in front of the application.
type GatewayContext struct {
	RemoteIPAddress string
}

type (
	remoteEndpointKey struct{}
	gatewayKey        struct{}
	localKey          struct{}
)

// WithRemoteEndpoint returns a copy of ctx carrying ep.
func WithRemoteEndpoint(ctx context.Context, ep RemoteEndpoint) context.Context {
	return context.WithValue(ctx, remoteEndpointKey{}, ep)
}

// RemoteEndpointFromContext returns the RemoteEndpoint stored in ctx, if any.
func RemoteEndpointFromContext(ctx context.Context) (RemoteEndpoint, bool) {
	if ctx == nil {
		return RemoteEndpoint{}, false
	}
	ep, ok := ctx.Value(remoteEndpointKey{}).(RemoteEndpoint)
	return ep, ok
}

// WithGateway returns a copy of ctx carrying gc.
func WithGateway(ctx context.Context, gc GatewayContext) context.Context {
	return context.WithValue(ctx, gatewayKey{}, gc)
}

// GatewayFromContext returns the GatewayContext stored in ctx, if any.
func GatewayFromContext(ctx context.Context) (GatewayContext, bool) {
	if ctx == nil {
		return GatewayContext{}, false
	}
	gc, ok := ctx.Value(gatewayKey{}).(GatewayContext)
	return gc, ok
}

// WithLocal returns a copy of ctx that pins the "is local" signal reported by
// IsLocal, overriding the loopback check on the peer address.
func WithLocal(ctx context.Context, local bool) context.Context {
	return context.WithValue(ctx, localKey{}, local)
}

func localFromContext(ctx context.Context) (bool, bool) {
	if ctx == nil {
		return false, false
	}
	local, ok := ctx.Value(localKey{}).(bool)
	return local, ok
}

// ConnContext records the remote endpoint of c in ctx. It has the signature of
// http.Server.ConnContext:
//
//	srv := &http.Server{ConnContext: clientaddr.ConnContext}
func ConnContext(ctx context.Context, c net.Conn) context.Context {
	if c == nil || c.RemoteAddr() == nil {
		return ctx
	}

	return WithRemoteEndpoint(ctx, endpointFromAddr(c.RemoteAddr()))
}

func endpointFromAddr(addr net.Addr) RemoteEndpoint {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return RemoteEndpoint{Address: a.IP.String(), Port: a.Port}
	case *net.UDPAddr:
		return RemoteEndpoint{Address: a.IP.String(), Port: a.Port}
	}

	raw := addr.String()
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return RemoteEndpoint{Address: hostOnly(raw)}
	}

	p, _ := strconv.Atoi(port)
	return RemoteEndpoint{Address: host, Port: p}
}
