package ipfilter

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/abczzz13/reqguard/clientaddr"
)

// DefaultDenyMessage is the body message of the 403 response.
const DefaultDenyMessage = "Cannot view this resource"

// Option configures a Guard.
type Option func(*config) error

type config struct {
	list        List
	entries     []Entry
	useEntries  bool
	resolver    *clientaddr.Resolver
	isLocal     func(*http.Request) bool
	logger      Logger
	metrics     Metrics
	denyMessage string
}

func defaultConfig() *config {
	return &config{
		isLocal:     clientaddr.IsLocal,
		logger:      noopLogger{},
		metrics:     noopMetrics{},
		denyMessage: DefaultDenyMessage,
	}
}

// WithList sets a pre-validated allow/deny list.
func WithList(list List) Option {
	return func(c *config) error {
		c.list = list
		c.useEntries = false
		return nil
	}
}

// WithEntries sets raw entries that are validated with NewList when the
// Guard is built.
func WithEntries(entries ...Entry) Option {
	entries = append([]Entry(nil), entries...)

	return func(c *config) error {
		c.entries = entries
		c.useEntries = true
		return nil
	}
}

// WithResolver sets the client address resolver. The default resolver uses
// clientaddr.HostingAuto.
func WithResolver(resolver *clientaddr.Resolver) Option {
	return func(c *config) error {
		if resolver == nil {
			return fmt.Errorf("resolver cannot be nil")
		}
		c.resolver = resolver
		return nil
	}
}

// WithLocalFunc replaces the "is local" signal, clientaddr.IsLocal by default.
func WithLocalFunc(fn func(*http.Request) bool) Option {
	return func(c *config) error {
		if fn == nil {
			return fmt.Errorf("local func cannot be nil")
		}
		c.isLocal = fn
		return nil
	}
}

// WithLogger sets the logger used for denied requests.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics implementation.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		return nil
	}
}

// WithMetricsFactory installs the Metrics returned by factory. It lets
// adapters that may fail during registration plug in as a single Option.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}
		metrics, err := factory()
		if err != nil {
			return err
		}
		c.metrics = metrics
		return nil
	}
}

// WithDenyMessage overrides DefaultDenyMessage.
func WithDenyMessage(msg string) Option {
	return func(c *config) error {
		if msg == "" {
			return fmt.Errorf("deny message cannot be empty")
		}
		c.denyMessage = msg
		return nil
	}
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.useEntries {
		list, err := NewList(cfg.entries)
		if err != nil {
			return nil, err
		}
		cfg.list = list
	}

	if cfg.resolver == nil {
		resolver, err := clientaddr.New()
		if err != nil {
			return nil, err
		}
		cfg.resolver = resolver
	}

	if isNilInterface(cfg.logger) {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if isNilInterface(cfg.metrics) {
		return nil, fmt.Errorf("metrics cannot be nil")
	}

	return cfg, nil
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
