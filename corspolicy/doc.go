// Package corspolicy resolves named CORS policies from configuration.
//
// A policy table is a list of [Entry] values, typically decoded from a YAML
// file or environment variables. Each entry names a policy and carries its
// allowed headers, methods and origins as either the wildcard "*" or a
// semicolon-delimited list:
//
//	entries := []corspolicy.Entry{{
//		Name:    "public-api",
//		Origins: "https://app.example.com; https://admin.example.com",
//		Methods: "GET;POST;PUT",
//		Headers: "*",
//	}}
//
//	policy := corspolicy.Resolve("public-api", entries)
//
// Resolution never fails. Unknown names resolve to the default-deny policy,
// which allows no origin, method or header. Stray delimiters and whitespace
// (including line breaks) around list items are dropped.
//
// # Registration
//
// Routes look policies up by name through a [Registry]. [FromEntries] builds
// one over a configured policy table, and [Registry.Register] adds policies
// produced in code. A [Cache] memoizes lookups so each name is parsed once.
//
// # Negotiation
//
// This package does not emit CORS response headers itself. [Policy.Config]
// and [Middleware] translate a resolved policy into a
// [github.com/jub0bs/cors] middleware, which performs the actual
// preflight and actual-request handling.
//
// # Thread safety
//
// [Policy] is an immutable value. [Registry] and [Cache] are safe for
// concurrent use.
package corspolicy
