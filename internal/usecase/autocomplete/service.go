// Package autocomplete suggests completions for a partially typed query.
package autocomplete

import (
	"strings"

	"github.com/kailas-cloud/dreamdex/internal/domain/keyword"
)

// DefaultLimit is the maximum number of suggestions.
const DefaultLimit = 8

// Service matches a prefix against a names pool and the keyword table phrases.
type Service struct {
	names   []string
	phrases []string
	limit   int
}

// New creates a Service. The pools are copied; limit <= 0 means DefaultLimit.
func New(names []string, table *keyword.Table, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	n := make([]string, len(names))
	copy(n, names)
	return &Service{names: n, phrases: table.Phrases(), limit: limit}
}

// Suggest returns up to limit distinct entries starting with prefix:
// names first, then keyword phrases, each in pool order.
// Matching is a case-sensitive literal prefix; an empty prefix yields nothing.
func (s *Service) Suggest(prefix string) []string {
	out := make([]string, 0, s.limit)
	if prefix == "" {
		return out
	}

	seen := make(map[string]struct{}, s.limit)
	for _, pool := range [][]string{s.names, s.phrases} {
		for _, v := range pool {
			if !strings.HasPrefix(v, prefix) {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
			if len(out) == s.limit {
				return out
			}
		}
	}
	return out
}
