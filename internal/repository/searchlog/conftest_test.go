package searchlog

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/db"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	incrFn         func(ctx context.Context, ops []db.CounterOp) error
	expireFn       func(ctx context.Context, key string, ttl time.Duration, nx bool) error
	zTopFn         func(ctx context.Context, key string, n int) ([]db.ScoredMember, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
}

func (m *mockStore) Incr(ctx context.Context, ops []db.CounterOp) error {
	if m.incrFn != nil {
		return m.incrFn(ctx, ops)
	}
	return nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireFn != nil {
		return m.expireFn(ctx, key, ttl, nx)
	}
	return nil
}

func (m *mockStore) ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error) {
	if m.zTopFn != nil {
		return m.zTopFn(ctx, key, n)
	}
	return nil, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "dreamdex:", time.Hour), ms
}

func mustDay(t *testing.T, s string) domlog.Day {
	t.Helper()
	d, err := domlog.ParseDay(s)
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	return d
}
