package phrase

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/index"
)

func benchIndex(b *testing.B, docs int) *index.Index {
	b.Helper()
	words := []string{"distributed", "search", "analytics", "platform", "indexing", "query", "engine", "ranking"}
	builder := index.NewBuilder()
	for i := 0; i < docs; i++ {
		text := fmt.Sprintf("%s %s engine covers %s query ranking for search engine users",
			words[i%len(words)], words[(i+1)%len(words)], words[(i+3)%len(words)])
		if _, err := builder.Add(fmt.Sprintf("doc-%05d.txt", i), text); err != nil {
			b.Fatal(err)
		}
	}
	return builder.Build()
}

func BenchmarkMatch(b *testing.B) {
	ix := benchIndex(b, 10000)
	cases := map[string][]string{
		"two_terms":   {"search", "engine"},
		"three_terms": {"query", "ranking", "search"},
		"absent":      {"search", "missing"},
	}
	for name, terms := range cases {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Match(ix, terms)
			}
		})
	}
}
