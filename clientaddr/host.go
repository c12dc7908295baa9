package clientaddr

import (
	"net"
	"strings"
)

// hostOnly strips an optional port suffix from an address as reported by a
// transport. It handles:
//   - Leading/trailing whitespace: "  192.168.1.1  "
//   - Port suffixes: "192.168.1.1:8080" or "[::1]:8080"
//   - IPv6 brackets: "[::1]"
//
// Bare IPv6 addresses such as "2001:db8::1" are returned unchanged. No other
// normalization is applied: the result is compared by string equality
// downstream, so "::ffff:10.0.0.1" stays distinct from "10.0.0.1".
func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}

	return trimMatchedPair(s, '[', ']')
}

// trimMatchedPair removes one leading and trailing delimiter when both match.
func trimMatchedPair(s string, start, end byte) string {
	if len(s) < 2 {
		return s
	}

	if s[0] != start || s[len(s)-1] != end {
		return s
	}

	return s[1 : len(s)-1]
}

// trimMatchedChar removes one matching leading and trailing character.
func trimMatchedChar(s string, ch byte) string {
	return trimMatchedPair(s, ch, ch)
}
