package candidate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/db"
	domcand "github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// --- EnsureIndex ---

func TestEnsureIndex_SkipsWithoutTextSearch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) {
		t.Fatal("IndexExists must not be called")
		return false, nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	var created *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected CreateIndex call")
	}
	if created.Name != "dreamdex:symbol:idx" {
		t.Errorf("index name = %q", created.Name)
	}
	if len(created.Prefixes) != 1 || created.Prefixes[0] != "dreamdex:symbol:" {
		t.Errorf("prefixes = %v", created.Prefixes)
	}
	if len(created.Fields) != 5 {
		t.Errorf("expected 5 fields, got %d", len(created.Fields))
	}
}

func TestEnsureIndex_ExistingIsNoop(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called")
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_RaceOnCreate(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("ErrIndexExists should be ignored, got %v", err)
	}
}

func TestEnsureIndex_InfoError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	ms.indexExistsFn = func(context.Context, string) (bool, error) {
		return false, errors.New("connection reset")
	}

	if err := repo.EnsureIndex(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- Upsert ---

func TestUpsert_WritesHash(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey, gotFields = key, fields
		return nil
	}

	c := mustCandidate(t, "snake", "뱀", []string{"뱀꿈", "태몽"}, 1200, t0)
	if err := repo.Upsert(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "dreamdex:symbol:snake" {
		t.Errorf("key = %q", gotKey)
	}
	if gotFields["tags"] != "뱀꿈|태몽" {
		t.Errorf("tags = %q", gotFields["tags"])
	}
	if gotFields["popularity"] != "1200" {
		t.Errorf("popularity = %q", gotFields["popularity"])
	}
	if gotFields["updated_at"] != "1772366400000" {
		t.Errorf("updated_at = %q", gotFields["updated_at"])
	}
}

func TestUpsert_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(context.Context, string, map[string]string) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("boom")}
	}

	err := repo.Upsert(context.Background(), mustCandidate(t, "snake", "뱀", nil, 0, t0))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error in chain, got %v", err)
	}
}

// --- FetchMatching (FT.SEARCH) ---

func TestUpsertMany_Batches(t *testing.T) {
	repo, ms := newTestRepo(t)

	cs := make([]domcand.Candidate, scanBatch+2)
	for i := range cs {
		cs[i] = mustCandidate(t, fmt.Sprintf("s%d", i), "뱀", nil, 0, time.Time{})
	}

	var sizes []int
	var lastKey string
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		sizes = append(sizes, len(items))
		lastKey = items[len(items)-1].Key
		return nil
	}

	if err := repo.UpsertMany(context.Background(), cs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != scanBatch || sizes[1] != 2 {
		t.Errorf("batch sizes = %v", sizes)
	}
	if want := fmt.Sprintf("dreamdex:symbol:s%d", scanBatch+1); lastKey != want {
		t.Errorf("last key = %q, want %q", lastKey, want)
	}
}

func TestUpsertMany_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		t.Fatal("HSetMulti must not be called")
		return nil
	}
	if err := repo.UpsertMany(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertMany_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("boom")}
	}

	err := repo.UpsertMany(context.Background(), []domcand.Candidate{
		mustCandidate(t, "a", "뱀", nil, 0, time.Time{}),
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error, got %v", err)
	}
}

func TestFetchMatching_Search(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.IndexName != "dreamdex:symbol:idx" {
			t.Errorf("index = %q", q.IndexName)
		}
		if q.SortBy != "updated_at" || q.SortAsc {
			t.Errorf("sort = %q asc=%v", q.SortBy, q.SortAsc)
		}
		if q.Limit != 30 {
			t.Errorf("limit = %d", q.Limit)
		}
		if want := `(@name|summary:(*뱀* *꿈*)) | (@tags:{*뱀\ 꿈*})`; q.Query != want {
			t.Errorf("query = %s, want %s", q.Query, want)
		}
		if q.Offset != 0 {
			t.Errorf("offset = %d", q.Offset)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key: "dreamdex:symbol:snake",
				Fields: map[string]string{
					"name":       "뱀 꿈",
					"tags":       "뱀꿈|태몽",
					"summary":    "재물운",
					"popularity": "100",
					"updated_at": "1772366400000",
				},
			}},
		}, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀 꿈", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.ID() != "snake" || c.Name() != "뱀 꿈" || c.Popularity() != 100 {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if tags := c.Tags(); len(tags) != 2 || tags[1] != "태몽" {
		t.Errorf("tags = %v", tags)
	}
	if !c.UpdatedAt().Equal(t0) {
		t.Errorf("updated = %v", c.UpdatedAt())
	}
}

func TestBuildMatchQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"뱀", `(@name|summary:(*뱀*)) | (@tags:{*뱀*})`},
		{"무서운  꿈", `(@name|summary:(*무서운* *꿈*)) | (@tags:{*무서운\ \ 꿈*})`},
		{"R&D", `(@name|summary:(*R* *D*)) | (@tags:{*R\&D*})`},
	}
	for _, tt := range tests {
		got, ok := buildMatchQuery(tt.query)
		if !ok || got != tt.want {
			t.Errorf("buildMatchQuery(%q) = %s, %v; want %s", tt.query, got, ok, tt.want)
		}
	}

	if _, ok := buildMatchQuery(`","`); ok {
		t.Error("separator-only query must not build an FT query")
	}
}

func TestFetchMatching_SearchRechecksAndPages(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	hit := func(id, name string) db.SearchEntry {
		return db.SearchEntry{Key: "dreamdex:symbol:" + id, Fields: map[string]string{"name": name}}
	}
	pages := map[int][]db.SearchEntry{
		0: {hit("a", "뱀 꿈"), hit("b", "꿈 속의 뱀")},
		2: {hit("c", "큰 뱀 꿈"), hit("d", "뱀 꿈 해몽")},
	}
	var offsets []int
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		offsets = append(offsets, q.Offset)
		return &db.SearchResult{Total: 4, Entries: pages[q.Offset]}, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀 꿈", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID() != "a" || got[1].ID() != "c" {
		t.Errorf("got %v", ids(got))
	}
	if len(offsets) != 2 || offsets[1] != 2 {
		t.Errorf("offsets = %v", offsets)
	}
}

func TestFetchMatching_SearchStopsAtTotal(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }

	calls := 0
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		calls++
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{
			Key: "dreamdex:symbol:x", Fields: map[string]string{"name": "꿈 뱀"},
		}}}, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀 꿈", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 || calls != 1 {
		t.Errorf("got %d candidates in %d calls", len(got), calls)
	}
}

func TestFetchMatching_SeparatorQueryScans(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		t.Fatal("SearchText must not be called")
		return nil, nil
	}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"dreamdex:symbol:q"}, nil
	}
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return []map[string]string{{"name": `","꿈`}}, nil
	}

	got, err := repo.FetchMatching(context.Background(), `","`, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "q" {
		t.Errorf("got %v", ids(got))
	}
}

func TestFetchMatching_SearchError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.supportsTextSearchFn = func(context.Context) bool { return true }
	searchErr := &db.Error{Op: db.OpSearch, Err: errors.New("Unknown Index name")}
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		return nil, searchErr
	}

	_, err := repo.FetchMatching(context.Background(), "뱀", 10)
	if !errors.Is(err, searchErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestFetchMatching_ZeroLimit(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		t.Fatal("Scan must not be called")
		return nil, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀", 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

// --- FetchMatching (scan fallback) ---

func TestFetchMatching_ScanFiltersAndOrders(t *testing.T) {
	repo, ms := newTestRepo(t)

	hashes := map[string]map[string]string{
		"dreamdex:symbol:a": {"name": "뱀", "tags": "", "popularity": "10", "updated_at": "1000"},
		"dreamdex:symbol:b": {"name": "돼지", "tags": "뱀꿈", "popularity": "5", "updated_at": "3000"},
		"dreamdex:symbol:c": {"name": "용", "summary": "하늘", "updated_at": "2000"},
		"dreamdex:symbol:d": {"name": "구렁이", "summary": "큰 뱀", "updated_at": "2000"},
	}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "dreamdex:symbol:*" {
			t.Errorf("pattern = %q", pattern)
		}
		return []string{"dreamdex:symbol:d", "dreamdex:symbol:c", "dreamdex:symbol:b", "dreamdex:symbol:a"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, k := range keys {
			out[i] = hashes[k]
		}
		return out, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"b", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID() != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID(), id)
		}
	}
}

func TestFetchMatching_ScanLimit(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"dreamdex:symbol:a", "dreamdex:symbol:b", "dreamdex:symbol:c"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i := range keys {
			out[i] = map[string]string{"name": "뱀"}
		}
		return out, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}

func TestFetchMatching_ScanSkipsVanishedKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"dreamdex:symbol:gone"}, nil
	}

	got, err := repo.FetchMatching(context.Background(), "뱀", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestFetchMatching_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return nil, &db.Error{Op: db.OpScan, Err: errors.New("timeout")}
	}

	if _, err := repo.FetchMatching(context.Background(), "뱀", 5); err == nil {
		t.Fatal("expected error")
	}
}

// --- dto ---

func TestParseHashFields_Malformed(t *testing.T) {
	c := parseHashFields("x", map[string]string{
		"name":       "뱀",
		"popularity": "many",
		"updated_at": "-1",
	})
	if c.Popularity() != 0 {
		t.Errorf("popularity = %d", c.Popularity())
	}
	if !c.UpdatedAt().IsZero() {
		t.Errorf("updated = %v", c.UpdatedAt())
	}
	if len(c.Tags()) != 0 {
		t.Errorf("tags = %v", c.Tags())
	}
}

func TestBuildHashFields_ZeroTime(t *testing.T) {
	c := mustCandidate(t, "x", "뱀", nil, 0, time.Time{})
	if got := buildHashFields(&c)["updated_at"]; got != "0" {
		t.Errorf("updated_at = %q, want 0", got)
	}
}
