// Package ipfilter restricts access to an HTTP application with a configured
// allow/deny list of client addresses.
//
// # Decision Rules
//
// A Guard evaluates every request to Allow or Deny:
//
//   - local (loopback) callers are always allowed
//   - an empty list allows everyone; filtering is opt-in
//   - otherwise the resolved client address must exactly match an entry that
//     is not denied; an unresolvable address, a denied entry or no matching
//     entry is denied
//
// Addresses are compared as strings. There is no CIDR matching and no
// normalization of IPv4-mapped IPv6 forms.
//
// # Basic Usage
//
//	list, err := ipfilter.NewList([]ipfilter.Entry{
//	    {Address: "192.168.0.196"},
//	    {Address: "192.168.0.197", Denied: true},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	guard, err := ipfilter.New(ipfilter.WithList(list))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.ListenAndServe(":8080", guard.Middleware(mux))
//
// # Observability
//
// Denials are reported to an optional Logger (a *slog.Logger satisfies it)
// and every decision to optional Metrics. A Prometheus implementation lives
// in github.com/abczzz13/reqguard/prometheus.
//
// # Thread Safety
//
// Guard and List are immutable after construction and safe for concurrent
// use.
package ipfilter
