package triage

import (
	"context"
	"sort"
)

// Store is the persistence interface for intake records.
type Store interface {
	Get(ctx context.Context, id string) (*Record, bool, error)
	Put(ctx context.Context, r *Record) error
	// ListWaiting returns waiting records in queue order. limit <= 0 means no limit.
	ListWaiting(ctx context.Context, limit int) ([]*Record, error)
}

// SortQueue orders records the way the waiting room is served: highest score
// first, then earliest arrival, then ID for a stable tie-break.
func SortQueue(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Assessment.PriorityScore != b.Assessment.PriorityScore {
			return a.Assessment.PriorityScore > b.Assessment.PriorityScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
