package errhandler

import "context"

// Logger records handled errors.
//
// The method signature intentionally mirrors slog.Logger.ErrorContext so
// *slog.Logger can be passed directly.
type Logger interface {
	ErrorContext(ctx context.Context, msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) ErrorContext(context.Context, string, ...any) {}
