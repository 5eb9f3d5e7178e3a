package result

import "github.com/kailas-cloud/dreamdex/internal/domain/candidate"

// Result is a single ranked search hit: the candidate plus its per-request score.
type Result struct {
	candidate candidate.Candidate
	score     float64
}

// New creates a search result.
func New(c candidate.Candidate, score float64) Result {
	return Result{candidate: c, score: score}
}

// Candidate returns the matched candidate record.
func (r *Result) Candidate() candidate.Candidate { return r.candidate }

// ID returns the candidate identifier.
func (r *Result) ID() string { return r.candidate.ID() }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }
