package parser

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/tokenizer"
)

type Kind int

const (
	Keyword Kind = iota
	Phrase
)

func (k Kind) String() string {
	switch k {
	case Phrase:
		return "phrase"
	default:
		return "keyword"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "keyword":
		*k = Keyword
	case "phrase":
		*k = Phrase
	default:
		return fmt.Errorf("unknown query kind %q", text)
	}
	return nil
}

// Query is a parsed search request. Terms come from the document tokenizer,
// so stop words and punctuation are already gone and duplicates are kept.
type Query struct {
	Kind  Kind
	Terms []string
	Raw   string
}

// Empty reports whether nothing is left to match after normalisation, e.g.
// `""` or a phrase made only of stop words.
func (q *Query) Empty() bool {
	return len(q.Terms) == 0
}

// Parse treats input wrapped in a pair of double quotes as a phrase and
// anything else as keywords. A lone or unmatched quote is just punctuation.
func Parse(raw string) *Query {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		return &Query{
			Kind:  Phrase,
			Terms: tokenizer.Normalize(trimmed[1 : len(trimmed)-1]),
			Raw:   raw,
		}
	}
	return &Query{
		Kind:  Keyword,
		Terms: tokenizer.Normalize(trimmed),
		Raw:   raw,
	}
}
