package search

import (
	"context"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

// Repository fetches candidates whose name, tags or summary contain query.
// Order is meaningful (most recently updated first) and kept for score ties.
type Repository interface {
	FetchMatching(ctx context.Context, query string, limit int) ([]candidate.Candidate, error)
}

// SearchLogger records a search without blocking the caller.
type SearchLogger interface {
	Log(ctx context.Context, query, userAgent string, resultCount int)
}

// Recorder observes search outcomes (metrics). Optional.
type Recorder interface {
	ObserveSearch(outcome string, results int)
}
