package dreamdex

import (
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain"
	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/result"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
	searchuc "github.com/kailas-cloud/dreamdex/internal/usecase/search"
)

// Errors returned by the Client. Match with errors.Is.
var (
	ErrQueryRequired    = domain.ErrQueryRequired
	ErrQueryTooLong     = domain.ErrQueryTooLong
	ErrSearchFailed     = domain.ErrSearchFailed
	ErrInvalidCandidate = domain.ErrInvalidCandidate
)

// KeywordEntry maps a phrase visitors type to symbol keywords.
type KeywordEntry struct {
	Phrase   string
	Keywords []string
}

// Symbol is a searchable dream symbol.
type Symbol struct {
	ID         string
	Name       string
	Tags       []string
	Summary    string
	Popularity int64
	UpdatedAt  time.Time // zero = unknown
}

// ScoredSymbol is a Symbol with its relevance score.
type ScoredSymbol struct {
	Symbol
	Score float64
}

// SearchResult is the answer to Client.Search.
type SearchResult struct {
	Query           string
	Results         []ScoredSymbol
	Recommendations []Symbol
	Total           int
	Message         string // guidance for short queries and empty results
}

// TrendingEntry is one query's counters for a day.
type TrendingEntry struct {
	Query    string
	Searches int64
	Clicks   int64
}

func (s Symbol) toCandidate() (candidate.Candidate, error) {
	return candidate.New(s.ID, s.Name, s.Tags, s.Summary, s.Popularity, s.UpdatedAt) //nolint:wrapcheck // domain error
}

func fromCandidate(c *candidate.Candidate) Symbol {
	return Symbol{
		ID:         c.ID(),
		Name:       c.Name(),
		Tags:       c.Tags(),
		Summary:    c.Summary(),
		Popularity: c.Popularity(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

func fromResult(r *result.Result) ScoredSymbol {
	c := r.Candidate()
	return ScoredSymbol{Symbol: fromCandidate(&c), Score: r.Score()}
}

func fromOutcome(out *searchuc.Outcome) *SearchResult {
	res := &SearchResult{
		Query:           out.Query,
		Results:         make([]ScoredSymbol, len(out.Results)),
		Recommendations: make([]Symbol, len(out.Recommendations)),
		Total:           out.Total,
		Message:         out.Message,
	}
	for i := range out.Results {
		res.Results[i] = fromResult(&out.Results[i])
	}
	for i := range out.Recommendations {
		res.Recommendations[i] = fromCandidate(&out.Recommendations[i])
	}
	return res
}

func fromEntries(entries []domlog.Entry) []TrendingEntry {
	out := make([]TrendingEntry, len(entries))
	for i, e := range entries {
		out[i] = TrendingEntry{Query: e.Query, Searches: e.Searches, Clicks: e.Clicks}
	}
	return out
}
