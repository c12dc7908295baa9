package ipfilter

import (
	"context"
)

// Logger records denied requests.
//
// Implementations should be safe for concurrent use, as a single Guard
// instance is typically shared across many goroutines.
//
// The provided context comes from the inbound HTTP request and can carry
// tracing metadata.
//
// The interface mirrors slog's WarnContext signature, so *slog.Logger can be
// used directly without an adapter.
type Logger interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) WarnContext(context.Context, string, ...any) {}
