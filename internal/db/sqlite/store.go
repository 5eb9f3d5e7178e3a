// Package sqlite is the embedded relational backend: candidates and search
// counters in a single SQLite file through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// upsertBatch bounds rows per INSERT in UpsertMany.
const upsertBatch = 200

// Config holds the SQLite connection parameters.
type Config struct {
	Path string
}

// Store implements candidate and search log persistence on SQLite.
type Store struct {
	db *gorm.DB
}

// New opens (creating if needed) the database and migrates the schema.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	gdb, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&SymbolModel{}, &SymbolTagModel{}, &SearchLogModel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: gdb}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady pings once; a local file is ready as soon as it is open.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// FetchMatching returns up to limit symbols whose name, tags or summary
// contain query (case-sensitive), most recently updated first.
func (s *Store) FetchMatching(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	if limit <= 0 {
		return []candidate.Candidate{}, nil
	}

	tagMatch := s.db.Model(&SymbolTagModel{}).
		Select("1").
		Where("symbol_tags.symbol_id = symbols.id AND instr(symbol_tags.tag, ?) > 0", query)

	var models []SymbolModel
	err := s.db.WithContext(ctx).
		Where("instr(name, ?) > 0 OR instr(summary, ?) > 0 OR EXISTS (?)", query, query, tagMatch).
		Order("updated_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("fetch symbols: %w", err)
	}

	out := make([]candidate.Candidate, len(models))
	for i := range models {
		out[i] = models[i].toCandidate()
	}
	return out, nil
}

// Upsert inserts or replaces a symbol and its tags.
func (s *Store) Upsert(ctx context.Context, c candidate.Candidate) error {
	if err := s.upsert(ctx, []candidate.Candidate{c}); err != nil {
		return fmt.Errorf("upsert symbol %s: %w", c.ID(), err)
	}
	return nil
}

// UpsertMany inserts or replaces symbols in batched statements within one
// transaction.
func (s *Store) UpsertMany(ctx context.Context, cs []candidate.Candidate) error {
	if len(cs) == 0 {
		return nil
	}
	if err := s.upsert(ctx, cs); err != nil {
		return fmt.Errorf("upsert %d symbols: %w", len(cs), err)
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, cs []candidate.Candidate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(cs); start += upsertBatch {
			if err := upsertBatchTx(tx, cs[start:min(start+upsertBatch, len(cs))]); err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertBatchTx replaces symbol rows and rewrites their tag rows.
func upsertBatchTx(tx *gorm.DB, cs []candidate.Candidate) error {
	models := make([]*SymbolModel, len(cs))
	ids := make([]string, len(cs))
	var tags []SymbolTagModel
	for i := range cs {
		models[i] = fromCandidate(&cs[i])
		ids[i] = cs[i].ID()
		tags = append(tags, tagRows(&cs[i])...)
	}

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(models).Error; err != nil {
		return fmt.Errorf("write symbols: %w", err)
	}
	if err := tx.Where("symbol_id IN ?", ids).Delete(&SymbolTagModel{}).Error; err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(tags, upsertBatch).Error; err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

// Record adds one search and clicks to the (query, day) row in a single
// INSERT ... ON CONFLICT DO UPDATE statement.
func (s *Store) Record(ctx context.Context, query string, day domlog.Day, clicks int64) error {
	row := &SearchLogModel{Query: query, Day: day.String(), Searches: 1, Clicks: clicks}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "query"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{
				"searches": gorm.Expr("searches + 1"),
				"clicks":   gorm.Expr("clicks + ?", clicks),
			}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("record search %q: %w", query, err)
	}
	return nil
}

// Top returns the n most searched queries of day; ties ordered by query.
func (s *Store) Top(ctx context.Context, day domlog.Day, n int) ([]domlog.Entry, error) {
	var rows []SearchLogModel
	err := s.db.WithContext(ctx).
		Where("day = ?", day.String()).
		Order("searches DESC").
		Order("query ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top searches: %w", err)
	}

	out := make([]domlog.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
