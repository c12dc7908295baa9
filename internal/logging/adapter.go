package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abczzz13/reqguard/correlation"
)

// Adapter exposes a zerolog logger through the slog-shaped WarnContext and
// ErrorContext methods expected by ipfilter and errhandler.
//
// Arguments are alternating key/value pairs. The request's correlation id is
// added when ctx carries one.
type Adapter struct {
	logger *zerolog.Logger
}

// Adapt wraps logger so it can be passed to ipfilter.WithLogger and
// errhandler.WithLogger.
func Adapt(logger *zerolog.Logger) Adapter {
	return Adapter{logger: logger}
}

// WarnContext logs msg at warn level.
func (a Adapter) WarnContext(ctx context.Context, msg string, args ...any) {
	a.emit(ctx, a.logger.Warn(), msg, args)
}

// ErrorContext logs msg at error level.
func (a Adapter) ErrorContext(ctx context.Context, msg string, args ...any) {
	a.emit(ctx, a.logger.Error(), msg, args)
}

func (a Adapter) emit(ctx context.Context, ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	if id, ok := correlationID(ctx); ok {
		ev = ev.Str("correlation_id", id.String())
	}
	ev.Fields(args).Msg(msg)
}

func correlationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := correlation.Lookup[uuid.UUID](correlation.FromContext(ctx), correlation.IDKey)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
