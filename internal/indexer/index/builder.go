package index

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/errors"
)

// Builder accumulates positional postings for a corpus snapshot. It is not
// safe for concurrent use; Build hands the postings to an immutable Index.
type Builder struct {
	postings map[string]map[string][]int
	docs     map[string]struct{}
}

func NewBuilder() *Builder {
	return &Builder{
		postings: make(map[string]map[string][]int),
		docs:     make(map[string]struct{}),
	}
}

// Add tokenizes text and records every term position under docID. It returns
// the number of terms indexed. A document with no terms still counts toward
// the corpus size.
func (b *Builder) Add(docID string, text string) (int, error) {
	if _, exists := b.docs[docID]; exists {
		return 0, fmt.Errorf("adding %q: %w", docID, apperrors.ErrDuplicateDocument)
	}
	b.docs[docID] = struct{}{}

	tokens := tokenizer.Tokenize(text)
	for _, token := range tokens {
		docs, exists := b.postings[token.Term]
		if !exists {
			docs = make(map[string][]int)
			b.postings[token.Term] = docs
		}
		docs[docID] = append(docs[docID], token.Position)
	}
	return len(tokens), nil
}

// DocCount is the number of documents added so far.
func (b *Builder) DocCount() int {
	return len(b.docs)
}

// Build freezes the accumulated postings into an Index and resets the
// builder. Handles are assigned after sorting document names, so the result
// does not depend on the order in which documents were added.
func (b *Builder) Build() *Index {
	names := make([]string, 0, len(b.docs))
	for name := range b.docs {
		names = append(names, name)
	}
	sort.Strings(names)

	handles := make(map[string]DocID, len(names))
	for i, name := range names {
		handles[name] = DocID(i)
	}

	terms := make(map[string]PostingList, len(b.postings))
	for term, docs := range b.postings {
		list := make(PostingList, 0, len(docs))
		for name, positions := range docs {
			list = append(list, Posting{
				DocID:     handles[name],
				Positions: positions,
			})
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].DocID < list[j].DocID
		})
		terms[term] = list
	}

	b.postings = make(map[string]map[string][]int)
	b.docs = make(map[string]struct{})

	return newIndex(terms, names, handles)
}
