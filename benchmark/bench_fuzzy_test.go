//nolint:testpackage
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-opttab/internal/fuzzy"
)

// Category: suggestions

var suggestionSpellings = []string{
	"--verbose", "--version", "--validate", "--output", "--optimize",
	"--include", "--warning", "--target", "--debug", "--trace",
}

func BenchmarkFuzzyBestSpelling(b *testing.B) {
	m := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s := m.BestSpelling("--verbos", suggestionSpellings); s != "--verbose" {
			b.Fatalf("suggestion = %q", s)
		}
	}
}

func BenchmarkFuzzyNoMatch(b *testing.B) {
	m := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s := m.BestSpelling("--zzzzzzzz", suggestionSpellings); s != "" {
			b.Fatalf("unexpected suggestion %q", s)
		}
	}
}
