package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/dreamdex/internal/domain"
)

// Search parameter limits.
const (
	// MaxLength is the maximum accepted query length in bytes.
	MaxLength        = 256
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultMinLength = 1
)

// Policy holds the normalization rules applied to incoming queries.
type Policy struct {
	DefaultLimit int
	MaxLimit     int
	MinLength    int // in runes, after trimming
}

// DefaultPolicy returns the production policy: limit 20 (max 100), any non-blank query.
func DefaultPolicy() Policy {
	return Policy{
		DefaultLimit: DefaultLimit,
		MaxLimit:     MaxLimit,
		MinLength:    DefaultMinLength,
	}
}

// Query is a normalized search query.
type Query struct {
	text     string
	limit    int
	tooShort bool
}

// Parse trims raw and normalizes limit.
// Blank input is ErrQueryRequired. A non-positive limit falls back to the default,
// a limit above MaxLimit is clamped. A query shorter than MinLength is valid but
// reported by TooShort so callers can answer with guidance instead of results.
func (p Policy) Parse(raw string, limit int) (Query, error) {
	p = p.withDefaults()

	text := strings.TrimSpace(raw)
	if text == "" {
		return Query{}, domain.ErrQueryRequired
	}
	if len(text) > MaxLength {
		return Query{}, fmt.Errorf("%w (max %d bytes)", domain.ErrQueryTooLong, MaxLength)
	}

	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	return Query{
		text:     text,
		limit:    limit,
		tooShort: utf8.RuneCountInString(text) < p.MinLength,
	}, nil
}

func (p Policy) withDefaults() Policy {
	if p.DefaultLimit <= 0 {
		p.DefaultLimit = DefaultLimit
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = MaxLimit
	}
	if p.DefaultLimit > p.MaxLimit {
		p.DefaultLimit = p.MaxLimit
	}
	if p.MinLength <= 0 {
		p.MinLength = 1
	}
	return p
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// Limit returns the maximum number of results.
func (q *Query) Limit() int { return q.limit }

// TooShort reports whether the query is below the minimum length.
func (q *Query) TooShort() bool { return q.tooShort }
