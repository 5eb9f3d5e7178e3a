package searchlog

import (
	"context"

	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// Repository persists per-day search counters.
type Repository interface {
	// Record atomically adds one search (and clicks) to the (query, day) counter,
	// creating it when absent.
	Record(ctx context.Context, query string, day domlog.Day, clicks int64) error
	// Top returns the n most searched queries of day.
	Top(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error)
}

// Recorder observes log write outcomes (metrics). Optional.
type Recorder interface {
	ObserveLogWrite(status string)
}
