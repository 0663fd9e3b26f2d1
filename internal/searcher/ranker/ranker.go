// Package ranker weighs terms by inverse document frequency and ranks
// documents for keyword queries by summed TF-IDF.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/index"
)

type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// IDFMap holds a weight for every indexed term and nothing else.
type IDFMap map[string]float64

// IDF is ln(N / DF). It is zero when the term occurs in every document and
// for degenerate inputs.
func IDF(totalDocs, docFreq int) float64 {
	if totalDocs <= 0 || docFreq <= 0 {
		return 0
	}
	return math.Log(float64(totalDocs) / float64(docFreq))
}

// ComputeIDF weighs every term of ix. An index over zero documents yields an
// empty map.
func ComputeIDF(ix *index.Index) IDFMap {
	n := ix.DocCount()
	if n <= 0 {
		return IDFMap{}
	}
	idf := make(IDFMap, ix.TermCount())
	for _, term := range ix.Terms() {
		idf[term] = IDF(n, ix.DocFreq(term))
	}
	return idf
}

// Rank scores every document containing a query term by
// sum(TF(term, doc) * idf[term]) over the query terms. A term repeated in the
// query contributes once per occurrence. Documents whose score stays at zero
// are left out. Results are ordered by score, highest first, then by document
// id. limit <= 0 returns everything.
func Rank(ix *index.Index, idf IDFMap, terms []string, limit int) []ScoredDoc {
	scores := make(map[index.DocID]float64)
	for _, term := range terms {
		weight, ok := idf[term]
		if !ok {
			continue
		}
		for _, posting := range ix.Postings(term) {
			scores[posting.DocID] += float64(posting.Frequency()) * weight
		}
	}

	type scored struct {
		doc   index.DocID
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for doc, score := range scores {
		if score == 0 {
			continue
		}
		ranked = append(ranked, scored{doc: doc, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		// handles follow document id order
		return ranked[i].doc < ranked[j].doc
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]ScoredDoc, len(ranked))
	for i, r := range ranked {
		result[i] = ScoredDoc{
			DocID: ix.DocName(r.doc),
			Score: r.score,
		}
	}
	return result
}
