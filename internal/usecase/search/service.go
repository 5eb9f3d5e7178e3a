package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain"
	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/query"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/relevance"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/result"
)

// Search outcome labels reported to the Recorder.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeTooShort  = "too_short"
	OutcomeError     = "error"
	OutcomeBadQuery  = "bad_query"
	noResultsMessage = "검색 결과가 없습니다. 다른 검색어로 다시 시도해 주세요."
)

// Defaults for Config.
const (
	DefaultFetchMultiplier     = 2
	DefaultRecommendationCount = 3
)

// Config tunes the orchestrator.
type Config struct {
	Policy              query.Policy
	FetchMultiplier     int // candidates fetched per requested result
	RecommendationCount int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Policy:              query.DefaultPolicy(),
		FetchMultiplier:     DefaultFetchMultiplier,
		RecommendationCount: DefaultRecommendationCount,
	}
}

// Outcome is the answer to one search call.
type Outcome struct {
	Query           string
	Results         []result.Result
	Recommendations []candidate.Candidate
	Total           int
	// Message is user-facing guidance for short queries and empty results.
	Message string
}

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service ranks candidates for a query and derives recommendations.
type Service struct {
	repo   Repository
	scorer *relevance.Scorer
	log    SearchLogger
	rec    Recorder
	cfg    Config
	now    func() time.Time
}

// New creates a search service. log may be nil (no search logging).
func New(repo Repository, scorer *relevance.Scorer, log SearchLogger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		scorer: scorer,
		log:    log,
		cfg:    DefaultConfig(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg.FetchMultiplier < 1 {
		s.cfg.FetchMultiplier = 1
	}
	if s.cfg.RecommendationCount < 0 {
		s.cfg.RecommendationCount = 0
	}
	return s
}

// Search runs a ranked search.
//
// Blank queries fail with domain.ErrQueryRequired. Queries below the minimum
// length return an empty Outcome carrying a guidance Message. A store failure
// is reported as domain.ErrSearchFailed. The search is logged for every query
// that reaches the store; logging never blocks or fails the call.
func (s *Service) Search(ctx context.Context, raw string, limit int, userAgent string) (Outcome, error) {
	q, err := s.cfg.Policy.Parse(raw, limit)
	if err != nil {
		s.observe(OutcomeBadQuery, 0)
		return Outcome{}, fmt.Errorf("parse query: %w", err)
	}

	if q.TooShort() {
		s.observe(OutcomeTooShort, 0)
		return emptyOutcome(q.Text(), s.shortQueryMessage()), nil
	}

	cands, err := s.repo.FetchMatching(ctx, q.Text(), q.Limit()*s.cfg.FetchMultiplier)
	if err != nil {
		s.record(ctx, q.Text(), userAgent, 0)
		s.observe(OutcomeError, 0)
		return Outcome{}, fmt.Errorf("%w: fetch candidates: %w", domain.ErrSearchFailed, err)
	}

	results := s.rank(cands, q.Text(), q.Limit())
	recs := Recommend(cands, q.Text(), s.cfg.RecommendationCount)
	s.record(ctx, q.Text(), userAgent, len(results))

	out := Outcome{
		Query:           q.Text(),
		Results:         results,
		Recommendations: recs,
		Total:           len(results),
	}
	if len(results) == 0 {
		out.Message = noResultsMessage
		s.observe(OutcomeEmpty, 0)
	} else {
		s.observe(OutcomeOK, len(results))
	}
	return out, nil
}

// rank scores every candidate, stable-sorts by score and truncates to limit.
// Equal scores keep the store order.
func (s *Service) rank(cands []candidate.Candidate, text string, limit int) []result.Result {
	now := s.now()
	scored := make([]result.Result, len(cands))
	for i := range cands {
		scored[i] = result.New(cands[i], s.scorer.Score(&cands[i], text, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Recommend picks up to n candidates having a tag that is a substring of text,
// most popular first. It ignores relevance and looks at the whole pool.
func Recommend(pool []candidate.Candidate, text string, n int) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, n)
	if n <= 0 {
		return out
	}
	for i := range pool {
		if pool[i].HasTagWithin(text) {
			out = append(out, pool[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity() > out[j].Popularity()
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *Service) shortQueryMessage() string {
	minLen := s.cfg.Policy.MinLength
	if minLen <= 0 {
		minLen = 1
	}
	return fmt.Sprintf("검색어를 %d글자 이상 입력해 주세요.", minLen)
}

func (s *Service) record(ctx context.Context, text, userAgent string, resultCount int) {
	if s.log != nil {
		s.log.Log(ctx, text, userAgent, resultCount)
	}
}

func (s *Service) observe(outcome string, results int) {
	if s.rec != nil {
		s.rec.ObserveSearch(outcome, results)
	}
}

func emptyOutcome(text, msg string) Outcome {
	return Outcome{
		Query:           text,
		Results:         []result.Result{},
		Recommendations: []candidate.Candidate{},
		Message:         msg,
	}
}
