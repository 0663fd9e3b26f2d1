package index

import "sort"

// DocID is the interned handle of a document inside one frozen Index.
// Handles are dense, start at zero and follow the lexicographic order of the
// document names.
type DocID uint32

// Posting is one document's occurrences of a term. Positions are strictly
// increasing token ordinals.
type Posting struct {
	DocID     DocID
	Positions []int
}

// Frequency is the term frequency of the posting.
func (p Posting) Frequency() int {
	return len(p.Positions)
}

// PostingList is sorted by DocID.
type PostingList []Posting

// Find returns the posting for doc using binary search.
func (pl PostingList) Find(doc DocID) (Posting, bool) {
	i := sort.Search(len(pl), func(i int) bool { return pl[i].DocID >= doc })
	if i < len(pl) && pl[i].DocID == doc {
		return pl[i], true
	}
	return Posting{}, false
}

type TermEntry struct {
	Term     string
	Postings PostingList
}

// Stats summarises the size of an Index.
type Stats struct {
	Documents int `json:"documents"`
	Terms     int `json:"terms"`
	Postings  int `json:"postings"`
	Positions int `json:"positions"`
}
