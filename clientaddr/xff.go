package clientaddr

import (
	"net/http"
	"strings"
)

const (
	// DefaultMaxChainLength is the maximum number of entries accepted in a
	// forwarded chain. Typical proxy chains rarely exceed 5-10 entries; the
	// bound keeps a hostile header from forcing large allocations.
	DefaultMaxChainLength = 100

	// typicalChainCapacity is the initial capacity used when parsing chains.
	typicalChainCapacity = 8

	headerXForwardedFor = "X-Forwarded-For"
)

// ForwardedFor returns the X-Forwarded-For chain of r with the port suffix
// stripped from every entry.
//
// All header lines are combined in wire order, entries are trimmed and empty
// entries are dropped. The first element is the original client under the
// conventional forwarding order. A missing header yields nil.
//
// A chain longer than DefaultMaxChainLength is not truncated: ForwardedFor
// returns nil for it, so callers never see a partial chain. Use
// ParseForwardedFor to receive the *ChainTooLongError instead.
func ForwardedFor(r *http.Request) []string {
	if r == nil {
		return nil
	}

	chain, err := ParseForwardedFor(r.Header.Values(headerXForwardedFor), DefaultMaxChainLength)
	if err != nil {
		return nil
	}

	return chain
}

// ParseForwardedFor parses raw X-Forwarded-For header values into an ordered
// chain of addresses without port suffixes.
//
// A maxLength <= 0 disables the length check.
func ParseForwardedFor(values []string, maxLength int) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, typicalChainCapacity)
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			addr := hostOnly(part)
			if addr == "" {
				continue
			}

			var err error
			parts, err = appendChainPart(parts, addr, headerXForwardedFor, maxLength)
			if err != nil {
				return nil, err
			}
		}
	}

	return parts, nil
}

// appendChainPart appends one parsed chain part while enforcing maxLength.
func appendChainPart(parts []string, part, header string, maxLength int) ([]string, error) {
	if maxLength > 0 && len(parts) >= maxLength {
		return nil, &ChainTooLongError{
			Header:      header,
			ChainLength: len(parts) + 1,
			MaxLength:   maxLength,
		}
	}

	return append(parts, part), nil
}
