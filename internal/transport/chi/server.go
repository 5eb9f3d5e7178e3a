// Package chi serves the dreamdex HTTP API on a chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/domain"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
	logpkg "github.com/kailas-cloud/dreamdex/internal/logger"
	"github.com/kailas-cloud/dreamdex/internal/metrics"
	healthuc "github.com/kailas-cloud/dreamdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dreamdex/internal/usecase/search"
)

// Client-facing error messages.
const (
	msgQueryRequired = `Query parameter "q" is required`
	msgQueryTooLong  = "Query is too long"
	msgSearchFailed  = "Failed to fetch search results"
	msgInvalidDate   = "Invalid date, expected YYYY-MM-DD"
	msgTrendingFail  = "Failed to fetch trending searches"
	msgInternal      = "internal error"
)

// typeAutocomplete switches /api/search into prefix suggestions.
const typeAutocomplete = "autocomplete"

// Searcher runs ranked searches.
type Searcher interface {
	Search(ctx context.Context, raw string, limit int, userAgent string) (searchuc.Outcome, error)
}

// Suggester completes query prefixes.
type Suggester interface {
	Suggest(prefix string) []string
}

// TrendingReader reads per-day top queries.
type TrendingReader interface {
	Trending(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	suggest       Suggester
	trending      TrendingReader
	health        HealthChecker
	logger        *zap.Logger
	apiKeys       []string
	now           func() time.Time
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKeys protects analytics routes with Bearer tokens.
func WithAPIKeys(keys []string) Option {
	return func(s *Server) { s.apiKeys = keys }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	suggest Suggester,
	trending TrendingReader,
	health HealthChecker,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		search:   search,
		suggest:  suggest,
		trending: trending,
		health:   health,
		logger:   logger,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrQueryRequired, http.StatusBadRequest, msgQueryRequired),
		sentinelHandler(domain.ErrQueryTooLong, http.StatusBadRequest, msgQueryTooLong),
		sentinelHandler(domain.ErrInvalidDate, http.StatusBadRequest, msgInvalidDate),
		sentinelHandler(domain.ErrSearchFailed, http.StatusInternalServerError, msgSearchFailed),
	}
	return s
}

// Router builds the chi router with the middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware("/metrics"))

	r.Get("/api/search", s.Search)
	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(s.apiKeys))
		r.Get("/api/search/trending", s.Trending)
	})
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Search handles GET /api/search?q=&limit=[&type=autocomplete].
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var qp *string
	if err := runtime.BindQueryParameter("form", true, false, "q", params, &qp); err != nil {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}
	var q string
	if qp != nil {
		q = *qp
	}

	if params.Get("type") == typeAutocomplete {
		writeJSON(w, http.StatusOK, suggestResponse{Suggestions: s.suggest.Suggest(strings.TrimSpace(q))})
		return
	}

	out, err := s.search.Search(r.Context(), q, s.bindLimit(r, params), r.UserAgent())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcomeToResponse(&out))
}

// Trending handles GET /api/search/trending?date=YYYY-MM-DD&limit=n.
func (s *Server) Trending(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	day := domlog.DayOf(s.now())
	if raw := params.Get("date"); raw != "" {
		parsed, err := domlog.ParseDay(raw)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		day = parsed
	}

	entries, err := s.trending.Trending(r.Context(), day, s.bindLimit(r, params))
	if err != nil {
		logpkg.FromContext(r.Context()).Error("trending failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgTrendingFail)
		return
	}

	writeJSON(w, http.StatusOK, trendingToResponse(day, entries))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// bindLimit reads the optional limit parameter. An unparsable value means
// "not set" (0) and the use case applies its default.
func (s *Server) bindLimit(r *http.Request, params url.Values) int {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		logpkg.FromContext(r.Context()).Debug("ignoring invalid limit",
			zap.String("limit", params.Get("limit")),
			zap.Error(err),
		)
		return 0
	}
	if limit == nil {
		return 0
	}
	return *limit
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
