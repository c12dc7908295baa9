package corspolicy

import (
	"slices"
	"strings"
)

// Wildcard is the raw configuration value that allows any origin, method or
// header.
const Wildcard = "*"

const listSeparator = ";"

// Entry is one named policy in a configuration table.
type Entry struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	Headers string `mapstructure:"headers" json:"headers" yaml:"headers"`
	Methods string `mapstructure:"methods" json:"methods" yaml:"methods"`
	Origins string `mapstructure:"origins" json:"origins" yaml:"origins"`

	// ExposedHeaders is a literal list; nil means absent.
	ExposedHeaders *string `mapstructure:"exposed_headers" json:"exposed_headers,omitempty" yaml:"exposed_headers,omitempty"`
}

// Policy is a resolved CORS policy.
//
// The zero value is the default-deny policy. Accessors return copies, so a
// Policy can be shared freely between goroutines.
type Policy struct {
	allowAnyOrigin bool
	origins        []string
	allowAnyMethod bool
	methods        []string
	allowAnyHeader bool
	headers        []string
	exposedHeaders []string
}

// AllowAnyOrigin reports whether the origins field was the wildcard.
func (p Policy) AllowAnyOrigin() bool { return p.allowAnyOrigin }

// Origins returns a copy of the allowed origins in configuration order.
func (p Policy) Origins() []string { return slices.Clone(p.origins) }

// AllowAnyMethod reports whether the methods field was the wildcard.
func (p Policy) AllowAnyMethod() bool { return p.allowAnyMethod }

// Methods returns a copy of the allowed methods.
func (p Policy) Methods() []string { return slices.Clone(p.methods) }

// AllowAnyHeader reports whether the headers field was the wildcard.
func (p Policy) AllowAnyHeader() bool { return p.allowAnyHeader }

// Headers returns a copy of the allowed request headers.
func (p Policy) Headers() []string { return slices.Clone(p.headers) }

// ExposedHeaders returns a copy of the exposed response headers. A "*" entry
// is kept literally.
func (p Policy) ExposedHeaders() []string { return slices.Clone(p.exposedHeaders) }

// IsDefaultDeny reports whether p allows nothing at all.
func (p Policy) IsDefaultDeny() bool {
	return p.Equal(Policy{})
}

// AllowsNoOrigin reports whether no cross-origin caller can match p.
func (p Policy) AllowsNoOrigin() bool {
	return !p.allowAnyOrigin && len(p.origins) == 0
}

// Equal reports whether p and other describe the same policy. Nil and empty
// lists compare equal.
func (p Policy) Equal(other Policy) bool {
	return p.allowAnyOrigin == other.allowAnyOrigin &&
		p.allowAnyMethod == other.allowAnyMethod &&
		p.allowAnyHeader == other.allowAnyHeader &&
		slices.Equal(p.origins, other.origins) &&
		slices.Equal(p.methods, other.methods) &&
		slices.Equal(p.headers, other.headers) &&
		slices.Equal(p.exposedHeaders, other.exposedHeaders)
}

// Resolve builds the policy named name from entries.
//
// The first entry whose Name matches exactly wins. When no entry matches,
// Resolve returns the default-deny policy.
func Resolve(name string, entries []Entry) Policy {
	for i := range entries {
		if entries[i].Name == name {
			return fromEntry(&entries[i])
		}
	}

	return Policy{}
}

func fromEntry(e *Entry) Policy {
	var p Policy
	p.allowAnyHeader, p.headers = parseField(e.Headers)
	p.allowAnyMethod, p.methods = parseField(e.Methods)
	p.allowAnyOrigin, p.origins = parseField(e.Origins)
	if e.ExposedHeaders != nil {
		p.exposedHeaders = splitList(*e.ExposedHeaders)
	}
	return p
}

func parseField(raw string) (wildcard bool, values []string) {
	if raw == Wildcard {
		return true, nil
	}
	return false, splitList(raw)
}

// splitList splits a semicolon-delimited list, trimming every item and
// dropping empty ones.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var values []string
	for part := range strings.SplitSeq(raw, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
