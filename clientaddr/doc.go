// Package clientaddr resolves the caller's address from the transport context
// an HTTP request arrived through.
//
// A request may reach the application through one of several hosting modes:
//
//   - webhost: served directly by net/http, the address is Request.RemoteAddr
//   - selfhost: served from a custom listener that records the remote endpoint
//     in the request context (see ConnContext and WithRemoteEndpoint)
//   - gateway: served behind an API gateway or reverse proxy that hands the
//     caller address over in the request context (see WithGateway and
//     GatewayHeader)
//
// The hosting mode is selected once when the Resolver is built. In auto mode
// the sources are consulted in the order webhost, selfhost, gateway and the
// first source whose context is present decides the result, even when the
// address it carries is empty.
//
// # Basic Usage
//
//	resolver, err := clientaddr.New(clientaddr.WithHostingMode(clientaddr.HostingAuto))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if addr, ok := resolver.Address(req); ok {
//	    fmt.Println("client:", addr)
//	}
//
// # Forwarded Chains
//
// ForwardedFor exposes the proxy chain carried in the X-Forwarded-For header.
// It is informational: a Resolver only consults X-Forwarded-For when
// HostingForwarded is selected. A chain longer than DefaultMaxChainLength is
// discarded as a whole rather than truncated.
//
// # Thread Safety
//
// Resolver instances are safe for concurrent use. They are typically created
// once at application startup and reused across all requests.
package clientaddr
