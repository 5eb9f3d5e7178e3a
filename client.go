// Package dreamdex embeds dream-symbol search in a Go program: relevance
// ranked search with keyword expansion, recommendations, autocomplete and
// per-day trending queries over Valkey, Redis or SQLite.
package dreamdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/app"
	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	"github.com/kailas-cloud/dreamdex/internal/domain/keyword"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
	"github.com/kailas-cloud/dreamdex/internal/metrics"
)

// Client is the dreamdex entry point. Safe for concurrent use.
type Client struct {
	app *app.App
}

// New creates a Client and connects to the configured store.
func New(opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	if cc.cfg.Database.Driver == "" {
		return nil, errors.New("dreamdex: storage required (use WithValkey, WithRedis or WithSQLite)")
	}
	// HTTP settings are unused in-process; a valid port keeps Validate happy.
	cc.cfg.HTTP.Port = 1
	cc.cfg.ApplyDefaults()
	if err := cc.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dreamdex: %w", err)
	}

	logger := cc.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	appOpts, err := cc.appOptions()
	if err != nil {
		return nil, err
	}

	a, err := app.New(context.Background(), cc.cfg, logger, appOpts...)
	if err != nil {
		return nil, fmt.Errorf("dreamdex: %w", err)
	}
	return &Client{app: a}, nil
}

func (cc *clientConfig) appOptions() ([]app.Option, error) {
	var opts []app.Option
	if cc.metrics {
		metrics.RegisterSearchMetrics()
		opts = append(opts, app.WithRecorder(metrics.NewRecorder()))
	}

	if len(cc.keywords) == 0 && len(cc.names) == 0 {
		return opts, nil
	}

	f := keyword.File{Names: cc.names}
	if len(cc.keywords) > 0 {
		entries := make([]keyword.Entry, len(cc.keywords))
		for i, e := range cc.keywords {
			entries[i] = keyword.Entry{Phrase: e.Phrase, Keywords: e.Keywords}
		}
		table, err := keyword.New(entries)
		if err != nil {
			return nil, fmt.Errorf("dreamdex: keywords: %w", err)
		}
		f.Table = table
	}
	return append(opts, app.WithKeywords(f)), nil
}

// Close drains pending search log writes and releases the store.
func (c *Client) Close() error {
	if c.app == nil {
		return nil
	}
	if err := c.app.Close(); err != nil {
		return fmt.Errorf("dreamdex: close: %w", err)
	}
	return nil
}

// Ping reports whether the store and the search log are healthy.
func (c *Client) Ping(ctx context.Context) error {
	report := c.app.Health.Check(ctx)
	for name, res := range report.Checks {
		if res != "ok" {
			return fmt.Errorf("dreamdex: %s check failed", name)
		}
	}
	return nil
}

// Search ranks symbols for q. limit <= 0 uses the default.
// A blank q fails with ErrQueryRequired; a store failure with ErrSearchFailed.
func (c *Client) Search(ctx context.Context, q string, limit int) (*SearchResult, error) {
	out, err := c.app.Search.Search(ctx, q, limit, "")
	if err != nil {
		return nil, fmt.Errorf("dreamdex: %w", err)
	}
	return fromOutcome(&out), nil
}

// Suggest completes a query prefix from symbol names and keyword phrases.
func (c *Client) Suggest(prefix string) []string {
	return c.app.Autocomplete.Suggest(prefix)
}

// Trending returns the n most searched queries on the UTC day of date
// (today when date is zero).
func (c *Client) Trending(ctx context.Context, date time.Time, n int) ([]TrendingEntry, error) {
	var day domlog.Day
	if !date.IsZero() {
		day = domlog.DayOf(date)
	}
	entries, err := c.app.SearchLog.Trending(ctx, day, n)
	if err != nil {
		return nil, fmt.Errorf("dreamdex: %w", err)
	}
	return fromEntries(entries), nil
}

// Upsert validates and stores a symbol, replacing any previous version.
func (c *Client) Upsert(ctx context.Context, s Symbol) error {
	cand, err := s.toCandidate()
	if err != nil {
		return fmt.Errorf("dreamdex: %w", err)
	}
	if err := c.app.Symbols.Upsert(ctx, cand); err != nil {
		return fmt.Errorf("dreamdex: upsert %s: %w", s.ID, err)
	}
	return nil
}

// UpsertMany validates every symbol and stores them in batches.
// Nothing is written when any symbol is invalid.
func (c *Client) UpsertMany(ctx context.Context, symbols []Symbol) error {
	cands := make([]candidate.Candidate, len(symbols))
	for i := range symbols {
		cand, err := symbols[i].toCandidate()
		if err != nil {
			return fmt.Errorf("dreamdex: symbol %d: %w", i, err)
		}
		cands[i] = cand
	}
	if err := c.app.Symbols.UpsertMany(ctx, cands); err != nil {
		return fmt.Errorf("dreamdex: upsert symbols: %w", err)
	}
	return nil
}
