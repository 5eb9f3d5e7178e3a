// Package relevance scores candidates against a search query.
//
// The score is a sum of independent signals: literal matches in name, tags and
// summary, keyword-table expansions, popularity and recency. It is unbounded
// above and never negative.
package relevance

import (
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	"github.com/kailas-cloud/dreamdex/internal/domain/keyword"
)

// Default signal weights.
const (
	NameMatchWeight    = 100.0
	TagMatchWeight     = 50.0
	SummaryMatchWeight = 30.0
	KeywordMatchWeight = 40.0

	// PopularityUnit popularity points are worth one relevance point, up to PopularityCap.
	PopularityUnit = 100.0
	PopularityCap  = 20.0

	// RecencyMax decays by one point every RecencyDecayDays days.
	RecencyMax       = 10.0
	RecencyDecayDays = 30.0
)

const day = 24 * time.Hour

// Weights configures a Scorer.
type Weights struct {
	Name             float64
	Tag              float64
	Summary          float64
	Keyword          float64
	PopularityUnit   float64
	PopularityCap    float64
	RecencyMax       float64
	RecencyDecayDays float64
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Name:             NameMatchWeight,
		Tag:              TagMatchWeight,
		Summary:          SummaryMatchWeight,
		Keyword:          KeywordMatchWeight,
		PopularityUnit:   PopularityUnit,
		PopularityCap:    PopularityCap,
		RecencyMax:       RecencyMax,
		RecencyDecayDays: RecencyDecayDays,
	}
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.w = w }
}

// Scorer computes relevance scores. Safe for concurrent use.
type Scorer struct {
	table *keyword.Table
	w     Weights
}

// NewScorer creates a Scorer over the given expansion table (nil means no expansions).
func NewScorer(table *keyword.Table, opts ...Option) *Scorer {
	s := &Scorer{table: table, w: DefaultWeights()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Breakdown is the per-signal contribution of one score.
type Breakdown struct {
	Name       float64
	Tags       float64
	Summary    float64
	Keywords   float64
	Popularity float64
	Recency    float64
}

// Total sums all signals.
func (b Breakdown) Total() float64 {
	return b.Name + b.Tags + b.Summary + b.Keywords + b.Popularity + b.Recency
}

// Score returns the relevance of c for query at time now.
// An empty query scores 0; callers are expected to reject it earlier.
func (s *Scorer) Score(c *candidate.Candidate, query string, now time.Time) float64 {
	return s.Explain(c, query, now).Total()
}

// Explain returns the individual signals behind Score.
func (s *Scorer) Explain(c *candidate.Candidate, query string, now time.Time) Breakdown {
	if query == "" {
		return Breakdown{}
	}

	var b Breakdown
	name := c.Name()
	tags := c.Tags()

	if strings.Contains(name, query) {
		b.Name = s.w.Name
	}
	for _, t := range tags {
		if strings.Contains(t, query) {
			b.Tags += s.w.Tag
		}
	}
	if strings.Contains(c.Summary(), query) {
		b.Summary = s.w.Summary
	}
	for _, kw := range s.table.Expand(query) {
		if strings.Contains(name, kw) || anyContains(tags, kw) {
			b.Keywords += s.w.Keyword
		}
	}

	b.Popularity = s.popularity(c.Popularity())
	b.Recency = s.recency(c.UpdatedAt(), now)
	return b
}

func (s *Scorer) popularity(p int64) float64 {
	if p <= 0 || s.w.PopularityUnit <= 0 {
		return 0
	}
	return math.Min(float64(p)/s.w.PopularityUnit, s.w.PopularityCap)
}

// recency is 0 for an unknown update time; future timestamps count as today.
func (s *Scorer) recency(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() || s.w.RecencyDecayDays <= 0 {
		return 0
	}
	days := float64(now.Sub(updatedAt)) / float64(day)
	if days < 0 {
		days = 0
	}
	return math.Max(0, s.w.RecencyMax-days/s.w.RecencyDecayDays)
}

func anyContains(ss []string, sub string) bool {
	for _, s := range ss {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
