package clientaddr

import (
	"errors"
	"strings"
	"testing"
)

func FuzzParseForwardedFor(f *testing.F) {
	for _, seed := range []string{
		"1.1.1.1",
		"1.1.1.1:443, 8.8.8.8",
		"[2606:4700:4700::1]:443",
		" , ,",
		"",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		chain, err := ParseForwardedFor([]string{raw}, DefaultMaxChainLength)
		if err != nil {
			if !errors.Is(err, ErrChainTooLong) {
				t.Fatalf("unexpected error type for %q: %v", raw, err)
			}
			return
		}

		for _, part := range chain {
			if part == "" {
				t.Fatalf("empty chain entry for %q", raw)
			}
			if strings.Contains(part, ",") {
				t.Fatalf("chain entry %q contains delimiter", part)
			}
		}
	})
}
