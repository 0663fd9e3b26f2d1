// Package tokenizer turns raw text into the ordered term sequence used by both
// the indexer and the query parser. Text is lower-cased, ASCII punctuation is
// deleted, the remainder is split on whitespace and stop-words are dropped.
package tokenizer

import (
	"strings"
)

// punctuation is the ASCII punctuation set. Characters are removed rather
// than treated as separators, so "state-of-the-art" becomes one term.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "on": {}, "and": {},
	"a": {}, "an": {}, "of": {}, "to": {}, "in": {},
}

var stripper = strings.NewReplacer(punctuationPairs()...)

// Token represents a single normalised term and its zero-based ordinal among
// the terms that survived normalisation.
type Token struct {
	Term     string
	Position int
}

// Normalize returns the terms of text in order. Empty and all-stop-word input
// yields an empty, non-nil slice.
func Normalize(text string) []string {
	text = stripper.Replace(strings.ToLower(text))
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if IsStopWord(word) {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

// Tokenize is Normalize with positions attached.
func Tokenize(text string) []Token {
	terms := Normalize(text)
	tokens := make([]Token, len(terms))
	for pos, term := range terms {
		tokens[pos] = Token{Term: term, Position: pos}
	}
	return tokens
}

func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func punctuationPairs() []string {
	pairs := make([]string, 0, 2*len(punctuation))
	for _, r := range punctuation {
		pairs = append(pairs, string(r), "")
	}
	return pairs
}
