// Package errhandler renders handler errors as content-negotiated
// diagnostic payloads.
//
// Every rendered payload carries the request's correlation identifier
// (see package correlation) so a user-visible error can be matched with
// server-side logs. Error details, meaning the classified status and
// message plus the error text, are disclosed only to local callers or when
// the configured detail policy allows it. Everyone else receives a generic
// 500 response.
//
// Basic usage:
//
//	h, err := errhandler.New(errhandler.WithLogger(slog.Default()))
//	if err != nil {
//		return err
//	}
//
//	mux.Handle("/api/", h.Recover(api))
//
// Handlers that return errors can call [Handler.Handle] directly.
//
// The response format follows the request's Accept header: JSON by default,
// XML when the caller prefers application/xml or text/xml.
package errhandler
