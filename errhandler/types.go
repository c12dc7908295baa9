package errhandler

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultMessage is the message shown when error details are withheld or the
// classifier has nothing more specific to say.
const DefaultMessage = "An unexpected error occurred! The error ID will be helpful to debug the problem"

// ErrorData is the diagnostic payload written for a handled error.
type ErrorData struct {
	XMLName    xml.Name       `json:"-" xml:"ErrorData"`
	Message    string         `json:"message" xml:"Message"`
	DateTime   time.Time      `json:"date_time" xml:"DateTime"`
	RequestURI string         `json:"request_uri" xml:"RequestUri"`
	ErrorID    uuid.UUID      `json:"error_id" xml:"ErrorId"`
	Exception  *ExceptionData `json:"exception,omitempty" xml:"Exception,omitempty"`
}

// ExceptionData describes the error behind a payload. It is only present
// when details are disclosed.
type ExceptionData struct {
	Type    string   `json:"type" xml:"Type"`
	Message string   `json:"message" xml:"Message"`
	Causes  []string `json:"causes,omitempty" xml:"Causes>Cause,omitempty"`
}

// Classifier maps an error to a response status and message.
type Classifier interface {
	StatusCode(err error) int
	Message(err error) string
}

// StatusError attaches an HTTP status and a user-facing message to an error.
type StatusError struct {
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// DefaultClassifier honours *StatusError anywhere in the chain and reports
// everything else as a 500 with [DefaultMessage].
type DefaultClassifier struct{}

func (DefaultClassifier) StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code <= 599 {
		return statusErr.Code
	}
	return http.StatusInternalServerError
}

func (DefaultClassifier) Message(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return DefaultMessage
}
