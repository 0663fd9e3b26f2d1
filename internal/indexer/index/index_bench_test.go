package index

import (
	"fmt"
	"testing"
)

// BenchmarkBuilderAdd measures per-document insert throughput.
func BenchmarkBuilderAdd(b *testing.B) {
	builder := NewBuilder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		builder.Add(docID, "this is a benchmark document with several terms for testing the indexing performance of our positional index")
	}
}

// BenchmarkBuild measures the cost of freezing 5 000 documents.
func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		builder := NewBuilder()
		for d := 0; d < 5000; d++ {
			builder.Add(fmt.Sprintf("doc-%d", d), "freeze benchmark with multiple terms and documents")
		}
		b.StartTimer()
		ix := builder.Build()
		_ = ix
	}
}

// BenchmarkPositionsParallel measures concurrent read throughput over a
// frozen index of 10 000 documents.
func BenchmarkPositionsParallel(b *testing.B) {
	builder := NewBuilder()
	for i := 0; i < 10000; i++ {
		builder.Add(fmt.Sprintf("doc-%05d", i), "search engine with positional indexing and phrase processing")
	}
	ix := builder.Build()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var doc DocID
		for pb.Next() {
			positions := ix.Positions("phrase", doc%10000)
			_ = positions
			doc++
		}
	})
}
