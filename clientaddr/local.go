package clientaddr

import (
	"net/http"
	"net/netip"
)

// IsLocal reports the transport-level "is local" signal of r: true when the
// connection peer is a loopback address.
//
// A value pinned with WithLocal takes precedence over the peer check, which
// lets hosting adapters that know better (for example a unix socket listener)
// report locality themselves.
func IsLocal(r *http.Request) bool {
	if r == nil {
		return false
	}

	if local, ok := localFromContext(r.Context()); ok {
		return local
	}

	peer, err := netip.ParseAddr(hostOnly(r.RemoteAddr))
	if err != nil {
		return false
	}

	return peer.Unmap().IsLoopback()
}
