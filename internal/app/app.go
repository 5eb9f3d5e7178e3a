// Package app is the composition root: it opens the configured store and
// wires repositories into the search, autocomplete, search log and health
// use cases. cmd/dreamdex, cmd/dreamdex-seed and the dreamdex.Client facade
// all build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/config"
	dbRedis "github.com/kailas-cloud/dreamdex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/dreamdex/internal/db/sqlite"
	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	"github.com/kailas-cloud/dreamdex/internal/domain/keyword"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/query"
	"github.com/kailas-cloud/dreamdex/internal/domain/search/relevance"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
	candidaterepo "github.com/kailas-cloud/dreamdex/internal/repository/candidate"
	searchlogrepo "github.com/kailas-cloud/dreamdex/internal/repository/searchlog"
	"github.com/kailas-cloud/dreamdex/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/dreamdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dreamdex/internal/usecase/search"
	searchloguc "github.com/kailas-cloud/dreamdex/internal/usecase/searchlog"
)

// Recorder receives search and search log observations.
type Recorder interface {
	searchuc.Recorder
	searchloguc.Recorder
}

// SymbolWriter stores candidate records (seeding).
type SymbolWriter interface {
	Upsert(ctx context.Context, c candidate.Candidate) error
	UpsertMany(ctx context.Context, cs []candidate.Candidate) error
}

// App holds the wired use cases.
type App struct {
	Search       *searchuc.Service
	Autocomplete *autocomplete.Service
	SearchLog    *searchloguc.Service
	Health       *healthuc.Service
	Symbols      SymbolWriter
	Keywords     *keyword.Table

	closeStore func()
	logTimeout time.Duration
}

// Option configures New.
type Option func(*options)

type options struct {
	recorder Recorder
	keywords *keyword.File
	now      func() time.Time
}

// WithRecorder feeds use case observations to r (metrics).
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithKeywords overrides the keyword table and names pool from config.
func WithKeywords(f keyword.File) Option {
	return func(o *options) { o.keywords = &f }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// searchStore is what a backend offers the use cases.
type searchStore interface {
	searchuc.Repository
	searchloguc.Repository
	SymbolWriter
	healthuc.DBPinger
}

// New opens the store selected by cfg.Database.Driver, waits for it and wires the use cases.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}

	kw, err := loadKeywords(cfg.Search.KeywordsFile, o.keywords)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a, err := wire(cfg, store, kw, logger, o)
	if err != nil {
		closeStore()
		return nil, err
	}
	a.closeStore = closeStore
	return a, nil
}

// Close drains pending search log writes, then closes the store.
func (a *App) Close() error {
	var errs []error
	if a.SearchLog != nil {
		if err := a.SearchLog.Close(a.logTimeout); err != nil {
			errs = append(errs, err)
		}
	}
	if a.closeStore != nil {
		a.closeStore()
	}
	return errors.Join(errs...)
}

func loadKeywords(path string, override *keyword.File) (keyword.File, error) {
	if override != nil {
		return withDefaultNames(*override), nil
	}
	if path == "" {
		return keyword.File{Table: keyword.Default(), Names: keyword.DefaultNames()}, nil
	}
	f, err := keyword.LoadFile(path)
	if err != nil {
		return keyword.File{}, fmt.Errorf("load keywords %s: %w", path, err)
	}
	return withDefaultNames(f), nil
}

func withDefaultNames(f keyword.File) keyword.File {
	if f.Table == nil {
		f.Table = keyword.Default()
	}
	if len(f.Names) == 0 {
		f.Names = keyword.DefaultNames()
	}
	return f
}

// redisBackend adapts the rueidis store and its repositories to searchStore.
type redisBackend struct {
	*candidaterepo.Repo
	logs  *searchlogrepo.Repo
	store *dbRedis.Store
}

func (b *redisBackend) Ping(ctx context.Context) error { return b.store.Ping(ctx) }

func (b *redisBackend) Record(ctx context.Context, q string, day domlog.Day, clicks int64) error {
	return b.logs.Record(ctx, q, day, clicks)
}

func (b *redisBackend) Top(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error) {
	return b.logs.Top(ctx, day, n)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (searchStore, func(), error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			TextSearch: !cfg.Database.ScansOnSearch(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("database not ready: %w", err)
		}

		candidates := candidaterepo.New(store, cfg.Storage.KeyPrefix)
		if err := candidates.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure symbol index: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
			zap.Bool("text_search", store.SupportsTextSearch(ctx)),
		)
		if cfg.Database.ScansOnSearch() {
			logger.Warn("Symbol search scans every key; switch to redis or sqlite for large dictionaries",
				zap.String("driver", cfg.Database.Driver),
			)
		}

		return &redisBackend{
			Repo:  candidates,
			logs:  searchlogrepo.New(store, cfg.Storage.KeyPrefix, cfg.SearchLog.Retention()),
			store: store,
		}, store.Close, nil

	case config.DriverSQLite:
		store, err := dbSQLite.New(dbSQLite.Config{Path: cfg.Database.SQLitePath})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("path", cfg.Database.SQLitePath),
		)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func wire(cfg config.Config, store searchStore, kw keyword.File, logger *zap.Logger, o options) (*App, error) {
	logOpts := []searchloguc.Option{
		searchloguc.WithPoolSize(cfg.SearchLog.PoolSize),
		searchloguc.WithWriteTimeout(cfg.SearchLog.WriteTimeout()),
		searchloguc.WithClock(o.now),
	}
	searchOpts := []searchuc.Option{
		searchuc.WithConfig(searchuc.Config{
			Policy: query.Policy{
				DefaultLimit: cfg.Search.DefaultLimit,
				MaxLimit:     cfg.Search.MaxLimit,
				MinLength:    cfg.Search.MinQueryLength,
			},
			FetchMultiplier:     cfg.Search.FetchMultiplier,
			RecommendationCount: cfg.Search.RecommendationCount,
		}),
		searchuc.WithClock(o.now),
	}
	if o.recorder != nil {
		logOpts = append(logOpts, searchloguc.WithRecorder(o.recorder))
		searchOpts = append(searchOpts, searchuc.WithRecorder(o.recorder))
	}

	logSvc, err := searchloguc.New(store, logger.Named("searchlog"), logOpts...)
	if err != nil {
		return nil, fmt.Errorf("create search log: %w", err)
	}

	return &App{
		Search:       searchuc.New(store, relevance.NewScorer(kw.Table), logSvc, searchOpts...),
		Autocomplete: autocomplete.New(kw.Names, kw.Table, cfg.Search.AutocompleteLimit),
		SearchLog:    logSvc,
		Health:       healthuc.New(store, healthuc.WithCheck("search_log", logSvc)),
		Symbols:      store,
		Keywords:     kw.Table,
		logTimeout:   time.Duration(cfg.HTTP.ShutdownSec) * time.Second,
	}, nil
}
