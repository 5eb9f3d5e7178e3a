// Package searchlog stores per-day search counters in Valkey/Redis.
//
// Each (day, query) pair is a hash with "searches" and "clicks" fields;
// a per-day sorted set ranks queries by search count for trending.
// Keys expire after the retention period, set once on first write.
package searchlog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/db"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// DefaultRetention keeps daily counters for a month.
const DefaultRetention = 30 * 24 * time.Hour

const (
	fieldSearches = "searches"
	fieldClicks   = "clicks"
)

// store is the consumer interface for search log operations (ISP).
type store interface {
	Incr(ctx context.Context, ops []db.CounterOp) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements the search log repository on counters.
type Repo struct {
	store     store
	prefix    string
	retention time.Duration
}

// New creates a search log repository. A non-positive retention uses DefaultRetention.
func New(s store, prefix string, retention time.Duration) *Repo {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Repo{store: s, prefix: prefix, retention: retention}
}

// Record adds one search and clicks to the (query, day) counter.
// HINCRBY creates missing hashes, so concurrent first writes never lose a count.
func (r *Repo) Record(ctx context.Context, query string, day domlog.Day, clicks int64) error {
	counter := r.counterKey(day, query)
	rank := r.rankKey(day)

	ops := []db.CounterOp{
		{Kind: db.CounterHash, Key: counter, Member: fieldSearches, Delta: 1},
		{Kind: db.CounterHash, Key: counter, Member: fieldClicks, Delta: clicks},
		{Kind: db.CounterSortedSet, Key: rank, Member: query, Delta: 1},
	}
	if err := r.store.Incr(ctx, ops); err != nil {
		return fmt.Errorf("record search %q on %s: %w", query, day, err)
	}

	for _, key := range []string{counter, rank} {
		if err := r.store.Expire(ctx, key, r.retention, true); err != nil {
			return fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return nil
}

// Top returns the n most searched queries of day, ties broken by query.
func (r *Repo) Top(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error) {
	if n <= 0 {
		return []domlog.Entry{}, nil
	}

	members, err := r.store.ZTop(ctx, r.rankKey(day), n)
	if err != nil {
		return nil, fmt.Errorf("top searches on %s: %w", day, err)
	}
	if len(members) == 0 {
		return []domlog.Entry{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = r.counterKey(day, m.Member)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load counters on %s: %w", day, err)
	}

	out := make([]domlog.Entry, 0, len(members))
	for i, m := range members {
		e := domlog.Entry{Query: m.Member, Day: day, Searches: int64(m.Score)}
		if i < len(hashes) && hashes[i] != nil {
			if v, err := strconv.ParseInt(hashes[i][fieldSearches], 10, 64); err == nil {
				e.Searches = v
			}
			if v, err := strconv.ParseInt(hashes[i][fieldClicks], 10, 64); err == nil {
				e.Clicks = v
			}
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Searches != out[j].Searches {
			return out[i].Searches > out[j].Searches
		}
		return out[i].Query < out[j].Query
	})
	return out, nil
}

func (r *Repo) counterKey(day domlog.Day, query string) string {
	return r.prefix + "searchlog:" + day.String() + ":q:" + query
}

func (r *Repo) rankKey(day domlog.Day) string {
	return r.prefix + "searchlog:" + day.String() + ":rank"
}
