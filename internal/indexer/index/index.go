package index

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

// Index is a frozen positional inverted index: term -> document -> positions.
// It is never mutated after Build, so any number of goroutines may read it
// without locking. Slices returned by its methods are shared and must not be
// modified.
type Index struct {
	terms       map[string]PostingList
	docs        []string
	handles     map[string]DocID
	stats       Stats
	fingerprint string
}

func newIndex(terms map[string]PostingList, docs []string, handles map[string]DocID) *Index {
	ix := &Index{
		terms:   terms,
		docs:    docs,
		handles: handles,
	}
	ix.stats = Stats{Documents: len(docs), Terms: len(terms)}
	for _, list := range terms {
		ix.stats.Postings += len(list)
		for _, p := range list {
			ix.stats.Positions += len(p.Positions)
		}
	}
	ix.fingerprint = ix.computeFingerprint()
	return ix
}

// Empty returns an index over zero documents.
func Empty() *Index {
	return newIndex(map[string]PostingList{}, nil, map[string]DocID{})
}

// DocCount is N, the number of documents in the corpus snapshot, including
// documents that produced no terms.
func (ix *Index) DocCount() int {
	return len(ix.docs)
}

func (ix *Index) TermCount() int {
	return len(ix.terms)
}

// Contains reports whether term occurs anywhere in the corpus.
func (ix *Index) Contains(term string) bool {
	_, ok := ix.terms[term]
	return ok
}

// DocFreq is the number of documents containing term.
func (ix *Index) DocFreq(term string) int {
	return len(ix.terms[term])
}

// Postings returns the posting list of term sorted by DocID, or nil.
func (ix *Index) Postings(term string) PostingList {
	return ix.terms[term]
}

// Positions returns the positions of term in doc, or nil.
func (ix *Index) Positions(term string, doc DocID) []int {
	p, ok := ix.terms[term].Find(doc)
	if !ok {
		return nil
	}
	return p.Positions
}

// DocName resolves a handle back to the document id it was interned from.
func (ix *Index) DocName(doc DocID) string {
	if int(doc) >= len(ix.docs) {
		return ""
	}
	return ix.docs[doc]
}

// Lookup resolves a document id to its handle.
func (ix *Index) Lookup(name string) (DocID, bool) {
	doc, ok := ix.handles[name]
	return doc, ok
}

// Docs returns every document id in handle order.
func (ix *Index) Docs() []string {
	return ix.docs
}

// Terms returns every indexed term, sorted.
func (ix *Index) Terms() []string {
	terms := make([]string, 0, len(ix.terms))
	for term := range ix.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Entries lists the whole index sorted by term.
func (ix *Index) Entries() []TermEntry {
	terms := ix.Terms()
	entries := make([]TermEntry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: ix.terms[term],
		})
	}
	return entries
}

func (ix *Index) Stats() Stats {
	return ix.stats
}

// Fingerprint identifies the content of the index. Two indexes built from the
// same corpus snapshot share a fingerprint.
func (ix *Index) Fingerprint() string {
	return ix.fingerprint
}

func (ix *Index) computeFingerprint() string {
	h := sha256.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeInt(len(ix.docs))
	for _, name := range ix.docs {
		writeInt(len(name))
		h.Write([]byte(name))
	}
	for _, entry := range ix.Entries() {
		writeInt(len(entry.Term))
		h.Write([]byte(entry.Term))
		writeInt(len(entry.Postings))
		for _, p := range entry.Postings {
			writeInt(int(p.DocID))
			writeInt(len(p.Positions))
			for _, pos := range p.Positions {
				writeInt(pos)
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:12])
}
