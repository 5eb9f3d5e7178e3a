package dreamdex

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg      config.Config
	keywords []KeywordEntry
	names    []string
	logger   *zap.Logger
	metrics  bool
}

// WithValkey stores symbols and search logs in Valkey (no full-text index; matching scans keys).
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Driver = config.DriverValkey
		c.cfg.Database.Addrs = []string{addr}
		c.cfg.Database.Password = password
	})
}

// WithRedis stores symbols and search logs in Redis with FT.SEARCH (Redis 8+ / Redis Stack).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Driver = config.DriverRedis
		c.cfg.Database.Addrs = []string{addr}
		c.cfg.Database.Password = password
	})
}

// WithSQLite stores everything in a single SQLite file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Driver = config.DriverSQLite
		c.cfg.Database.SQLitePath = path
	})
}

// WithKeyPrefix namespaces Valkey/Redis keys. Defaults to "dreamdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Storage.KeyPrefix = prefix
	})
}

// WithKeywords replaces the built-in keyword expansion table. Order matters for autocomplete.
func WithKeywords(entries ...KeywordEntry) Option {
	return optionFunc(func(c *clientConfig) {
		c.keywords = append([]KeywordEntry(nil), entries...)
	})
}

// WithKeywordFile loads the keyword table and names from a YAML file.
func WithKeywordFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.KeywordsFile = path
	})
}

// WithNames replaces the symbol names offered first by Suggest.
func WithNames(names ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.names = append([]string(nil), names...)
	})
}

// WithMinQueryLength sets the minimum query length in characters. Defaults to 1.
// Shorter queries return a guidance message instead of results.
func WithMinQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.MinQueryLength = n
	})
}

// WithLimits sets the default and maximum number of results per search.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.DefaultLimit = defaultLimit
		c.cfg.Search.MaxLimit = maxLimit
	})
}

// WithLogPoolSize bounds concurrent search log writes. Defaults to 16.
func WithLogPoolSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.SearchLog.PoolSize = n
	})
}

// WithLogger sets the zap logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers the search Prometheus collectors on the default registry.
func WithMetrics() Option {
	return optionFunc(func(c *clientConfig) {
		c.metrics = true
	})
}
