package candidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain"
)

// MaxIDLength bounds candidate identifiers (they are part of storage keys).
const MaxIDLength = 256

// TagSeparator joins tags in stored lists; tags cannot contain it.
const TagSeparator = "|"

// Candidate is a searchable dream symbol (immutable value object).
type Candidate struct {
	id         string
	name       string
	tags       []string
	summary    string
	popularity int64
	updatedAt  time.Time
}

// New validates and creates a Candidate.
// Tags are trimmed, empty tags dropped, order preserved. A tag containing
// TagSeparator is rejected.
func New(
	id, name string, tags []string, summary string,
	popularity int64, updatedAt time.Time,
) (Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Candidate{}, fmt.Errorf("%w: id is required", domain.ErrInvalidCandidate)
	}
	if len(id) > MaxIDLength {
		return Candidate{}, fmt.Errorf("%w: id too long (max %d)", domain.ErrInvalidCandidate, MaxIDLength)
	}
	if strings.TrimSpace(name) == "" {
		return Candidate{}, fmt.Errorf("%w: name is required", domain.ErrInvalidCandidate)
	}
	if popularity < 0 {
		return Candidate{}, fmt.Errorf("%w: popularity must be non-negative", domain.ErrInvalidCandidate)
	}

	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(t, TagSeparator) {
			return Candidate{}, fmt.Errorf("%w: tag %q must not contain %q",
				domain.ErrInvalidCandidate, t, TagSeparator)
		}
		cleaned = append(cleaned, t)
	}

	return Candidate{
		id:         id,
		name:       name,
		tags:       cleaned,
		summary:    summary,
		popularity: popularity,
		updatedAt:  updatedAt,
	}, nil
}

// Reconstruct creates a Candidate without validation (storage hydration).
func Reconstruct(
	id, name string, tags []string, summary string,
	popularity int64, updatedAt time.Time,
) Candidate {
	return Candidate{
		id:         id,
		name:       name,
		tags:       tags,
		summary:    summary,
		popularity: popularity,
		updatedAt:  updatedAt,
	}
}

// ID returns the unique identifier.
func (c *Candidate) ID() string { return c.id }

// Name returns the display name.
func (c *Candidate) Name() string { return c.name }

// Tags returns a copy of the tags in display order.
func (c *Candidate) Tags() []string {
	if c.tags == nil {
		return nil
	}
	out := make([]string, len(c.tags))
	copy(out, c.tags)
	return out
}

// Summary returns the free-text description.
func (c *Candidate) Summary() string { return c.summary }

// Popularity returns the view/click driven popularity score.
func (c *Candidate) Popularity() int64 { return c.popularity }

// UpdatedAt returns the last content edit time. Zero means unknown.
func (c *Candidate) UpdatedAt() time.Time { return c.updatedAt }

// HasTagWithin reports whether any tag is a substring of s.
func (c *Candidate) HasTagWithin(s string) bool {
	for _, t := range c.tags {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Mentions reports whether query is a substring of the name, a tag or the summary.
func (c *Candidate) Mentions(query string) bool {
	if strings.Contains(c.name, query) || strings.Contains(c.summary, query) {
		return true
	}
	for _, t := range c.tags {
		if strings.Contains(t, query) {
			return true
		}
	}
	return false
}
