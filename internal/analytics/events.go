package analytics

import (
	"time"

	"github.com/google/uuid"
)

// SearchEvent is published once per answered query.
type SearchEvent struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Query       string    `json:"query"`
	Terms       []string  `json:"terms"`
	TotalHits   int       `json:"total_hits"`
	Returned    int       `json:"returned"`
	LatencyMs   float64   `json:"latency_ms"`
	CacheHit    bool      `json:"cache_hit"`
	Fingerprint string    `json:"index_fingerprint"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
}

// NewSearchEvent stamps an event with a fresh id and the current time.
func NewSearchEvent(kind, query string, terms []string) SearchEvent {
	return SearchEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Query:     query,
		Terms:     terms,
		Timestamp: time.Now().UTC(),
	}
}

// ZeroResult reports whether the query matched nothing.
func (e SearchEvent) ZeroResult() bool {
	return e.TotalHits == 0
}
