package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	HashStore
	CounterStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// CounterKind selects the data structure a CounterOp increments.
type CounterKind int

const (
	// CounterHash increments a hash field (HINCRBY).
	CounterHash CounterKind = iota
	// CounterSortedSet increments a sorted set member score (ZINCRBY).
	CounterSortedSet
)

// CounterOp is one atomic increment in a pipelined batch.
type CounterOp struct {
	Kind   CounterKind
	Key    string
	Member string // hash field or sorted set member
	Delta  int64
}

// ScoredMember is one sorted set entry.
type ScoredMember struct {
	Member string
	Score  float64
}

// CounterStore provides atomic counters with optional expiry.
type CounterStore interface {
	// Incr applies ops in one round-trip. Each op is atomic on its own.
	Incr(ctx context.Context, ops []CounterOp) error
	// Expire sets TTL on a key. When nx=true, only if the key has no expiry yet.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	// ZTop returns the n highest scored members, highest first.
	ZTop(ctx context.Context, key string, n int) ([]ScoredMember, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
