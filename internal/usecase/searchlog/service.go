// Package searchlog records searches into per-day statistics off the request path.
package searchlog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// Write statuses reported to the Recorder.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDropped = "dropped"
)

// Defaults for the worker pool.
const (
	DefaultPoolSize     = 16
	DefaultWriteTimeout = 2 * time.Second
	DefaultTrendingN    = 10
	MaxTrendingN        = 50
)

// ErrClosed is returned by HealthCheck after Close.
var ErrClosed = errors.New("search log closed")

// Option configures a Service.
type Option func(*Service)

// WithPoolSize sets the number of concurrent writers.
func WithPoolSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithWriteTimeout bounds each detached write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is a fire-and-forget search logger backed by a bounded worker pool.
type Service struct {
	repo     Repository
	pool     *ants.Pool
	poolSize int
	timeout  time.Duration
	rec      Recorder
	logger   *zap.Logger
	now      func() time.Time
	closed   atomic.Bool
}

// New creates a Service and starts its worker pool.
func New(repo Repository, logger *zap.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:     repo,
		poolSize: DefaultPoolSize,
		timeout:  DefaultWriteTimeout,
		logger:   logger,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	pool, err := ants.NewPool(s.poolSize,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			s.logger.Error("search log writer panic", zap.Any("panic", p))
			s.observe(StatusError)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create search log pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Log schedules a counter update for query and returns immediately.
// The write outlives ctx cancellation but is bounded by the write timeout.
// Failures and overload are logged and counted, never returned.
func (s *Service) Log(ctx context.Context, query, userAgent string, resultCount int) {
	day := domlog.DayOf(s.now())
	clicks := domlog.ClickIncrement(resultCount)
	detached := context.WithoutCancel(ctx)

	s.logger.Debug("search logged",
		zap.String("query", query),
		zap.String("user_agent", userAgent),
		zap.Int("result_count", resultCount),
	)

	err := s.pool.Submit(func() {
		wctx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if err := s.repo.Record(wctx, query, day, clicks); err != nil {
			s.logger.Warn("search log write failed",
				zap.String("query", query),
				zap.String("day", day.String()),
				zap.Error(err),
			)
			s.observe(StatusError)
			return
		}
		s.observe(StatusOK)
	})
	if err != nil {
		s.logger.Warn("search log write dropped", zap.String("query", query), zap.Error(err))
		s.observe(StatusDropped)
	}
}

// Trending returns the n most searched queries of day (UTC today when zero).
// n <= 0 means DefaultTrendingN; n is capped at MaxTrendingN.
func (s *Service) Trending(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error) {
	if day.IsZero() {
		day = domlog.DayOf(s.now())
	}
	if n <= 0 {
		n = DefaultTrendingN
	}
	if n > MaxTrendingN {
		n = MaxTrendingN
	}

	entries, err := s.repo.Top(ctx, day, n)
	if err != nil {
		return nil, fmt.Errorf("top searches %s: %w", day, err)
	}
	return entries, nil
}

// HealthCheck fails once the logger has been closed.
func (s *Service) HealthCheck(_ context.Context) error {
	if s.closed.Load() || s.pool.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close stops accepting writes and waits up to timeout for in-flight ones.
func (s *Service) Close(timeout time.Duration) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release search log pool: %w", err)
	}
	return nil
}

func (s *Service) observe(status string) {
	if s.rec != nil {
		s.rec.ObserveLogWrite(status)
	}
}
