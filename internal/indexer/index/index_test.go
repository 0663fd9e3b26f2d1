package index

import (
	"errors"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/positional-search/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, docs map[string]string, order ...string) *Index {
	t.Helper()
	b := NewBuilder()
	for _, name := range order {
		_, err := b.Add(name, docs[name])
		require.NoError(t, err)
	}
	return b.Build()
}

func TestBuildRecordsPositions(t *testing.T) {
	docs := map[string]string{
		"a.txt": "Search engines index the web. Search is fun.",
		"b.txt": "An index of terms",
	}
	ix := buildIndex(t, docs, "a.txt", "b.txt")

	require.Equal(t, 2, ix.DocCount())
	a, ok := ix.Lookup("a.txt")
	require.True(t, ok)
	b, ok := ix.Lookup("b.txt")
	require.True(t, ok)

	// a.txt normalises to [search engines index web search fun]
	assert.Equal(t, []int{0, 4}, ix.Positions("search", a))
	assert.Equal(t, []int{2}, ix.Positions("index", a))
	assert.Equal(t, []int{0}, ix.Positions("index", b))
	assert.Nil(t, ix.Positions("search", b))
	assert.Equal(t, 2, ix.DocFreq("index"))
	assert.Equal(t, 1, ix.DocFreq("search"))
	assert.False(t, ix.Contains("the"), "stop words are never indexed")
	assert.Equal(t, 0, ix.DocFreq("missing"))
}

func TestBuildIsOrderIndependent(t *testing.T) {
	docs := map[string]string{
		"b.txt": "learning machine is boring",
		"a.txt": "machine learning is fun",
		"c.txt": "deep learning machine learning",
	}
	first := buildIndex(t, docs, "a.txt", "b.txt", "c.txt")
	second := buildIndex(t, docs, "c.txt", "b.txt", "a.txt")

	assert.Equal(t, first.Docs(), second.Docs())
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, first.Docs())
}

func TestIndexInvariants(t *testing.T) {
	docs := map[string]string{
		"1": "alpha beta alpha gamma alpha",
		"2": "beta beta delta",
		"3": "the of and",
		"4": "gamma alpha",
	}
	ix := buildIndex(t, docs, "1", "2", "3", "4")
	n := ix.DocCount()
	require.Equal(t, 4, n)

	for _, entry := range ix.Entries() {
		df := len(entry.Postings)
		assert.GreaterOrEqual(t, df, 1, entry.Term)
		assert.LessOrEqual(t, df, n, entry.Term)
		for i, p := range entry.Postings {
			if i > 0 {
				assert.Less(t, uint32(entry.Postings[i-1].DocID), uint32(p.DocID), "postings sorted by doc")
			}
			require.NotEmpty(t, p.Positions, entry.Term)
			for j := 1; j < len(p.Positions); j++ {
				assert.Less(t, p.Positions[j-1], p.Positions[j], "positions strictly increasing")
			}
		}
	}
}

func TestDocumentWithoutTermsCountsTowardN(t *testing.T) {
	ix := buildIndex(t, map[string]string{"x": "the a an", "y": "word"}, "x", "y")

	assert.Equal(t, 2, ix.DocCount())
	assert.Equal(t, 1, ix.TermCount())
	assert.Equal(t, Stats{Documents: 2, Terms: 1, Postings: 1, Positions: 1}, ix.Stats())
}

func TestAddRejectsDuplicateDocument(t *testing.T) {
	b := NewBuilder()
	_, err := b.Add("a.txt", "one")
	require.NoError(t, err)

	_, err = b.Add("a.txt", "two")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateDocument))
}

func TestBuildResetsBuilder(t *testing.T) {
	b := NewBuilder()
	n, err := b.Add("a.txt", "one two")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := b.Build()
	assert.Equal(t, 0, b.DocCount())

	_, err = b.Add("a.txt", "three")
	require.NoError(t, err, "a reset builder accepts previously seen ids")
	second := b.Build()

	assert.True(t, first.Contains("one"))
	assert.False(t, second.Contains("one"))
	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

func TestEmptyIndex(t *testing.T) {
	ix := Empty()

	assert.Equal(t, 0, ix.DocCount())
	assert.Empty(t, ix.Terms())
	assert.Nil(t, ix.Postings("anything"))
	assert.Equal(t, "", ix.DocName(0))
	_, ok := ix.Lookup("a.txt")
	assert.False(t, ok)
}

func TestPostingListFind(t *testing.T) {
	pl := PostingList{
		{DocID: 1, Positions: []int{0}},
		{DocID: 4, Positions: []int{2, 7}},
		{DocID: 9, Positions: []int{3}},
	}

	p, ok := pl.Find(4)
	require.True(t, ok)
	assert.Equal(t, 2, p.Frequency())

	_, ok = pl.Find(5)
	assert.False(t, ok)
	_, ok = pl.Find(10)
	assert.False(t, ok)
	_, ok = PostingList(nil).Find(0)
	assert.False(t, ok)
}
