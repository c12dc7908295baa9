package ipfilter

import (
	"fmt"
	"testing"
)

func BenchmarkGuard_Evaluate_Allowed(b *testing.B) {
	entries := make([]Entry, 0, 256)
	for i := range 256 {
		entries = append(entries, Entry{Address: fmt.Sprintf("10.0.%d.%d", i/16, i%16)})
	}
	guard, _ := New(WithEntries(entries...))
	req := newTestRequest("10.0.15.15:12345", "/")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if guard.Evaluate(req) != Allow {
			b.Fatal("expected allow")
		}
	}
}

func BenchmarkGuard_Evaluate_EmptyList(b *testing.B) {
	guard, _ := New()
	req := newTestRequest("8.8.8.8:12345", "/")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if guard.Evaluate(req) != Allow {
			b.Fatal("expected allow")
		}
	}
}
