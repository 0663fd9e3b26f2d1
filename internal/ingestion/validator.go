package ingestion

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/positional-search/internal/indexer/corpus"
)

const (
	maxIDLength      = 255
	maxContentLength = 1 << 20
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	DocID  string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return fmt.Sprintf("document %q: %s", e.DocID, strings.Join(parts, "; "))
}

// ValidateDocument checks a document is storable in the corpus table. Empty
// content is allowed; such a document still counts toward N.
func ValidateDocument(doc corpus.Document) error {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(doc.ID) == "":
		errs["doc_id"] = "doc_id is required"
	case len(doc.ID) > maxIDLength:
		errs["doc_id"] = fmt.Sprintf("doc_id must be at most %d bytes", maxIDLength)
	case !utf8.ValidString(doc.ID):
		errs["doc_id"] = "doc_id must be valid UTF-8"
	}
	switch {
	case len(doc.Text) > maxContentLength:
		errs["content"] = fmt.Sprintf("content must be at most %d bytes", maxContentLength)
	case !utf8.ValidString(doc.Text):
		errs["content"] = "content must be valid UTF-8"
	case strings.ContainsRune(doc.Text, 0):
		errs["content"] = "content must not contain NUL bytes"
	}
	if len(errs) > 0 {
		return &ValidationError{DocID: doc.ID, Fields: errs}
	}
	return nil
}
