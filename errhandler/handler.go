package errhandler

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/munnerz/goautoneg"

	"github.com/abczzz13/reqguard/correlation"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeXML     = "application/xml"
	contentTypeTextXML = "text/xml"
)

var offers = []string{contentTypeJSON, contentTypeXML, contentTypeTextXML}

// Handler turns errors into diagnostic responses.
//
// Handler instances are safe for concurrent reuse.
type Handler struct {
	config *config
}

// New creates a Handler from one or more Option builders.
func New(opts ...Option) (*Handler, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Handler{config: cfg}, nil
}

// Build returns the payload and status code Handle would write for err.
func (h *Handler) Build(r *http.Request, err error) (ErrorData, int) {
	r, id := correlation.FromRequest(r)

	data := ErrorData{
		Message:    DefaultMessage,
		DateTime:   h.config.now(),
		RequestURI: requestURI(r),
		ErrorID:    id,
	}
	status := http.StatusInternalServerError

	if err == nil || !h.disclose(r) {
		return data, status
	}

	err = firstLeaf(err)
	status = h.config.classifier.StatusCode(err)
	data.Message = h.config.classifier.Message(err)
	data.Exception = exceptionData(err)

	return data, status
}

// Handle logs err and writes its payload to w.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	r, _ = correlation.FromRequest(r)
	data, status := h.Build(r, err)

	h.config.logger.ErrorContext(r.Context(), "request failed",
		"error_id", data.ErrorID.String(),
		"status", status,
		"path", requestPath(r),
		"error", errorText(err),
	)

	write(w, r, status, data)
}

// Recover wraps next so that panics are rendered through Handle.
// http.ErrAbortHandler is re-raised untouched.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, _ = correlation.FromRequest(r)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if ok {
				err = fmt.Errorf("panic: %w", err)
			} else {
				err = fmt.Errorf("panic: %v", rec)
			}

			h.config.logger.ErrorContext(r.Context(), "recovered panic",
				"path", requestPath(r),
				"stack", string(debug.Stack()),
			)
			h.Handle(w, r, err)
		}()

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) disclose(r *http.Request) bool {
	return h.config.isLocal(r) || h.config.includeDetail(r)
}

func exceptionData(err error) *ExceptionData {
	chain := Flatten(err)
	ex := &ExceptionData{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}
	for _, cause := range chain[1:] {
		ex.Causes = append(ex.Causes, cause.Error())
	}
	return ex
}

func write(w http.ResponseWriter, r *http.Request, status int, data ErrorData) {
	contentType := negotiate(r.Header.Get("Accept"))

	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(correlation.HeaderName, data.ErrorID.String())
	w.WriteHeader(status)

	if contentType == contentTypeJSON {
		json.NewEncoder(w).Encode(data)
		return
	}

	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(data)
}

func negotiate(accept string) string {
	if accept == "" {
		return contentTypeJSON
	}
	if ct := goautoneg.Negotiate(accept, offers); ct != "" {
		return ct
	}
	return contentTypeJSON
}

func requestURI(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	if r.URL.IsAbs() {
		return r.URL.String()
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
