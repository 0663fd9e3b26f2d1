// Package phrase answers exact phrase queries from positional postings.
package phrase

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/index"
)

// Match returns the ids of documents containing terms as a contiguous,
// ordered run, sorted ascending. A term missing from the whole corpus empties
// the result even if earlier terms already matched.
func Match(ix *index.Index, terms []string) []string {
	matched := make([]string, 0)
	if len(terms) == 0 || !ix.Contains(terms[0]) {
		return matched
	}

	// candidates maps a document to the positions where the phrase so far ends.
	first := ix.Postings(terms[0])
	candidates := make(map[index.DocID][]int, len(first))
	for _, posting := range first {
		candidates[posting.DocID] = append([]int(nil), posting.Positions...)
	}

	for _, term := range terms[1:] {
		if !ix.Contains(term) {
			return matched
		}
		for doc, ends := range candidates {
			next := advance(ends, ix.Positions(term, doc))
			if len(next) == 0 {
				delete(candidates, doc)
				continue
			}
			candidates[doc] = next
		}
		if len(candidates) == 0 {
			return matched
		}
	}

	// Handles are assigned in name order, so sorting them sorts the names.
	docs := make([]index.DocID, 0, len(candidates))
	for doc := range candidates {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
	for _, doc := range docs {
		matched = append(matched, ix.DocName(doc))
	}
	return matched
}

// advance keeps p+1 for every p in ends whose successor appears in positions.
// Both inputs are ascending, and so is the result.
func advance(ends, positions []int) []int {
	var next []int
	j := 0
	for _, p := range ends {
		want := p + 1
		for j < len(positions) && positions[j] < want {
			j++
		}
		if j == len(positions) {
			break
		}
		if positions[j] == want {
			next = append(next, want)
		}
	}
	return next
}
