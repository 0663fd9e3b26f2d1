package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"sentence with stop words", "The Cat sat on the MAT.", []string{"cat", "sat", "mat"}},
		{"only stop words", "the is at on and a an of to in", []string{}},
		{"only punctuation", "!@#$%^&*()", []string{}},
		{"punctuation is deleted not split", "state-of-the-art", []string{"stateoftheart"}},
		{"apostrophe", "Don't stop", []string{"dont", "stop"}},
		{"quotes stripped", `"machine learning"`, []string{"machine", "learning"}},
		{"mixed whitespace", "  search\tengine\n\nindex  ", []string{"search", "engine", "index"}},
		{"digits kept", "go 1.25 release", []string{"go", "125", "release"}},
		{"duplicates preserved", "data data data", []string{"data", "data", "data"}},
		{"stop word revealed after stripping", "(the) a.", []string{}},
		{"non-ascii punctuation kept", "café—bar", []string{"café—bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestTokenizePositionsAreOrdinalsAfterFiltering(t *testing.T) {
	tokens := Tokenize("The quick brown fox and the lazy dog")

	want := []Token{
		{Term: "quick", Position: 0},
		{Term: "brown", Position: 1},
		{Term: "fox", Position: 2},
		{Term: "lazy", Position: 3},
		{Term: "dog", Position: 4},
	}
	assert.Equal(t, want, tokens)
}

func TestNormalizeIsSymmetricForQueries(t *testing.T) {
	doc := Normalize("Machine Learning, in practice!")
	query := Normalize("machine learning in PRACTICE")
	assert.Equal(t, doc, query)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("in"))
	assert.False(t, IsStopWord("The"))
	assert.False(t, IsStopWord("for"))
}
