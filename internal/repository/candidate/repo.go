package candidate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/dreamdex/internal/db"
	domcand "github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

// scanBatch bounds a single HSET or HGETALL pipeline.
const scanBatch = 500

// maxSearchPages bounds FT.SEARCH round-trips per fetch.
const maxSearchPages = 5

// ftSeparators are the characters the FT tokenizer splits TEXT fields on.
const ftSeparators = ",.<>{}[]\"':;!@#$%^&*()-+=~"

// store is the consumer interface for candidate operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo stores candidates as hashes and fetches them via FT.SEARCH,
// or via SCAN when the backend has no text search.
type Repo struct {
	store  store
	prefix string
}

// New creates a candidate repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// EnsureIndex creates the symbol index when text search is available.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if !r.store.SupportsTextSearch(ctx) {
		return nil
	}

	def := buildIndex(r.prefix)
	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		return nil
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Upsert writes a candidate hash, replacing previous fields.
func (r *Repo) Upsert(ctx context.Context, c domcand.Candidate) error {
	key := keyPrefix(r.prefix) + c.ID()
	if err := r.store.HSet(ctx, key, buildHashFields(&c)); err != nil {
		return fmt.Errorf("upsert symbol %s: %w", c.ID(), err)
	}
	return nil
}

// UpsertMany writes candidates in pipelined batches.
func (r *Repo) UpsertMany(ctx context.Context, cs []domcand.Candidate) error {
	for start := 0; start < len(cs); start += scanBatch {
		end := min(start+scanBatch, len(cs))
		items := make([]db.HashSetItem, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, db.HashSetItem{
				Key:    keyPrefix(r.prefix) + cs[i].ID(),
				Fields: buildHashFields(&cs[i]),
			})
		}
		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("upsert symbols %d..%d: %w", start, end-1, err)
		}
	}
	return nil
}

// FetchMatching returns up to limit candidates mentioning query,
// most recently updated first.
func (r *Repo) FetchMatching(ctx context.Context, query string, limit int) ([]domcand.Candidate, error) {
	if limit <= 0 || query == "" {
		return []domcand.Candidate{}, nil
	}
	if r.store.SupportsTextSearch(ctx) {
		return r.search(ctx, query, limit)
	}
	return r.scan(ctx, query, limit)
}

// search runs the tokenized FT query and keeps hits that contain query
// verbatim, paging until limit hits are collected. Queries made only of
// separator characters cannot be expressed as FT terms and use scan.
func (r *Repo) search(ctx context.Context, query string, limit int) ([]domcand.Candidate, error) {
	ftQuery, ok := buildMatchQuery(query)
	if !ok {
		return r.scan(ctx, query, limit)
	}

	kp := keyPrefix(r.prefix)
	out := make([]domcand.Candidate, 0, limit)
	offset := 0
	for page := 0; page < maxSearchPages; page++ {
		sr, err := r.store.SearchText(ctx, &db.TextQuery{
			IndexName: indexName(r.prefix),
			Query:     ftQuery,
			SortBy:    fieldUpdatedAt,
			Offset:    offset,
			Limit:     limit,
		})
		if err != nil {
			return nil, fmt.Errorf("search symbols: %w", err)
		}

		for _, e := range sr.Entries {
			c := parseHashFields(strings.TrimPrefix(e.Key, kp), e.Fields)
			if !c.Mentions(query) {
				continue
			}
			out = append(out, c)
			if len(out) == limit {
				return out, nil
			}
		}

		offset += len(sr.Entries)
		if len(sr.Entries) < limit || offset >= sr.Total {
			break
		}
	}
	return out, nil
}

// scan loads every symbol hash and filters in process.
func (r *Repo) scan(ctx context.Context, query string, limit int) ([]domcand.Candidate, error) {
	kp := keyPrefix(r.prefix)
	keys, err := r.store.Scan(ctx, kp+"*")
	if err != nil {
		return nil, fmt.Errorf("scan symbols: %w", err)
	}
	sort.Strings(keys)

	var matched []domcand.Candidate
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		hashes, err := r.store.HGetAllMulti(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("load symbols: %w", err)
		}
		for i, m := range hashes {
			if len(m) == 0 {
				continue
			}
			c := parseHashFields(strings.TrimPrefix(keys[start+i], kp), m)
			if c.Mentions(query) {
				matched = append(matched, c)
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt().After(matched[j].UpdatedAt())
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	if matched == nil {
		matched = []domcand.Candidate{}
	}
	return matched, nil
}

// buildMatchQuery selects symbols whose name or summary holds every token of
// query as an infix, or that have a tag containing query. Hits are a superset
// of the verbatim matches. ok is false when query has no tokens.
func buildMatchQuery(query string) (q string, ok bool) {
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(ftSeparators, r)
	})
	if len(tokens) == 0 {
		return "", false
	}

	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = "*" + db.EscapeText(t) + "*"
	}
	return fmt.Sprintf("(@%s|%s:(%s)) | (@%s:{*%s*})",
		fieldName, fieldSummary, strings.Join(terms, " "), fieldTags, db.EscapeTag(query)), true
}
