package logging

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// AccessLog logs one line per completed request and makes a request-scoped
// logger available through zerolog.Ctx.
func AccessLog(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lctx := logger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)
			if id, ok := correlationID(r.Context()); ok {
				lctx = lctx.Str("correlation_id", id.String())
			}
			reqLogger := lctx.Logger()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(reqLogger.WithContext(r.Context())))

			reqLogger.Info().
				Str("remote_addr", r.RemoteAddr).
				Int("status", rec.status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Msg("request completed")
		})
	}
}
