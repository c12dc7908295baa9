package clientaddr

import (
	"fmt"
	"net/http"
	"strings"
)

// HostingMode selects which transport contexts a Resolver consults.
type HostingMode int

const (
	// Start at 1 to avoid zero-value confusion and make invalid modes
	// explicit.
	//
	// HostingAuto consults webhost, selfhost and gateway in that order.
	HostingAuto HostingMode = iota + 1
	// HostingWebHost consults Request.RemoteAddr only.
	HostingWebHost
	// HostingSelfHost consults the RemoteEndpoint context only.
	HostingSelfHost
	// HostingGateway consults the GatewayContext only.
	HostingGateway
	// HostingForwarded consults the first X-Forwarded-For entry only.
	HostingForwarded
)

// String returns the canonical text representation of m.
func (m HostingMode) String() string {
	switch m {
	case HostingAuto:
		return "auto"
	case HostingWebHost:
		return SourceWebHost
	case HostingSelfHost:
		return SourceSelfHost
	case HostingGateway:
		return SourceGateway
	case HostingForwarded:
		return "forwarded"
	default:
		return "unknown"
	}
}

func (m HostingMode) valid() bool {
	return m >= HostingAuto && m <= HostingForwarded
}

// ParseHostingMode parses the text form produced by HostingMode.String.
// An empty string selects HostingAuto.
func ParseHostingMode(s string) (HostingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HostingAuto, nil
	case SourceWebHost:
		return HostingWebHost, nil
	case SourceSelfHost:
		return HostingSelfHost, nil
	case SourceGateway:
		return HostingGateway, nil
	case "forwarded", SourceXForwardedFor:
		return HostingForwarded, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownHostingMode, s)
	}
}

func (m HostingMode) sources() []Source {
	switch m {
	case HostingWebHost:
		return []Source{WebHost()}
	case HostingSelfHost:
		return []Source{SelfHost()}
	case HostingGateway:
		return []Source{Gateway()}
	case HostingForwarded:
		return []Source{ForwardedForSource()}
	default:
		return []Source{WebHost(), SelfHost(), Gateway()}
	}
}

// Option configures a Resolver.
type Option func(*config) error

type config struct {
	mode    HostingMode
	sources []Source
}

// WithHostingMode selects the built-in sources for mode.
func WithHostingMode(mode HostingMode) Option {
	return func(c *config) error {
		if !mode.valid() {
			return fmt.Errorf("%w %d", ErrUnknownHostingMode, mode)
		}
		c.mode = mode
		c.sources = nil
		return nil
	}
}

// WithSources replaces the consulted sources with a custom ordered list. At
// least one source is required.
func WithSources(sources ...Source) Option {
	sources = append([]Source(nil), sources...)

	return func(c *config) error {
		if len(sources) == 0 {
			return ErrNoSources
		}
		for i, s := range sources {
			if s == nil {
				return fmt.Errorf("source %d is nil", i)
			}
		}
		c.sources = sources
		return nil
	}
}

// Resolver resolves the caller address of a request from an ordered list of
// sources fixed at construction time.
//
// Resolver instances are safe for concurrent reuse.
type Resolver struct {
	sources []Source
	name    string
}

// New creates a Resolver. Without options it behaves as HostingAuto.
func New(opts ...Option) (*Resolver, error) {
	cfg := &config{mode: HostingAuto}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	sources := cfg.sources
	if sources == nil {
		sources = cfg.mode.sources()
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("invalid configuration: %w", ErrNoSources)
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}

	return &Resolver{
		sources: sources,
		name:    "chained[" + strings.Join(names, ",") + "]",
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Resolver {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve consults the sources in order and returns the result of the first
// one whose context is present, even if that context carries no address.
// ok is false when no source context is attached to r.
func (res *Resolver) Resolve(r *http.Request) (Resolution, bool) {
	if r == nil {
		return Resolution{}, false
	}

	for _, source := range res.sources {
		addr, present := source.Lookup(r)
		if present {
			return Resolution{Address: addr, Source: source.Name()}, true
		}
	}

	return Resolution{}, false
}

// Address resolves only the caller address. It returns ok=false when no
// source context is present or the present context carries an empty address.
func (res *Resolver) Address(r *http.Request) (string, bool) {
	resolution, ok := res.Resolve(r)
	if !ok || resolution.Address == "" {
		return "", false
	}

	return resolution.Address, true
}

// Name describes the consulted sources, for example "chained[webhost,selfhost,gateway]".
func (res *Resolver) Name() string {
	return res.name
}
