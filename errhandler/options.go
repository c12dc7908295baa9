package errhandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/abczzz13/reqguard/clientaddr"
)

// Option configures a Handler.
type Option func(*config) error

type config struct {
	classifier    Classifier
	isLocal       func(*http.Request) bool
	includeDetail func(*http.Request) bool
	logger        Logger
	now           func() time.Time
}

func defaultConfig() *config {
	return &config{
		classifier:    DefaultClassifier{},
		isLocal:       clientaddr.IsLocal,
		includeDetail: func(*http.Request) bool { return false },
		logger:        noopLogger{},
		now:           time.Now,
	}
}

// WithClassifier sets the error classifier.
func WithClassifier(c Classifier) Option {
	return func(cfg *config) error {
		if c == nil {
			return errors.New("classifier cannot be nil")
		}
		cfg.classifier = c
		return nil
	}
}

// WithLocalFunc overrides how local callers are detected.
func WithLocalFunc(isLocal func(*http.Request) bool) Option {
	return func(cfg *config) error {
		if isLocal == nil {
			return errors.New("local func cannot be nil")
		}
		cfg.isLocal = isLocal
		return nil
	}
}

// WithIncludeErrorDetail sets the policy that discloses error details to
// non-local callers.
func WithIncludeErrorDetail(include func(*http.Request) bool) Option {
	return func(cfg *config) error {
		if include == nil {
			return errors.New("error detail func cannot be nil")
		}
		cfg.includeDetail = include
		return nil
	}
}

// AlwaysIncludeErrorDetail discloses details to every caller.
func AlwaysIncludeErrorDetail(*http.Request) bool { return true }

// WithLogger sets the logger used for handled errors and recovered panics.
func WithLogger(logger Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock sets the time source for ErrorData.DateTime.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
