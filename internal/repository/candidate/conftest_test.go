package candidate

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/db"
	domcand "github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn               func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn          func(ctx context.Context, items []db.HashSetItem) error
	hgetAllMultiFn       func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn               func(ctx context.Context, pattern string) ([]string, error)
	searchTextFn         func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	createIndexFn        func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn        func(ctx context.Context, name string) (bool, error)
	supportsTextSearchFn func(ctx context.Context) bool
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsTextSearch(ctx context.Context) bool {
	if m.supportsTextSearchFn != nil {
		return m.supportsTextSearchFn(ctx)
	}
	return false
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "dreamdex:"), ms
}

func mustCandidate(t *testing.T, id, name string, tags []string, pop int64, updated time.Time) domcand.Candidate {
	t.Helper()
	c, err := domcand.New(id, name, tags, name+" 꿈 해몽", pop, updated)
	if err != nil {
		t.Fatalf("candidate.New: %v", err)
	}
	return c
}

func ids(cs []domcand.Candidate) []string {
	out := make([]string, len(cs))
	for i := range cs {
		out[i] = cs[i].ID()
	}
	return out
}
