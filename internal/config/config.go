package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config holds the dreamdex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	SearchLog SearchLogConfig `yaml:"search_log"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, sqlite (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	SQLitePath       string   `yaml:"sqlite_path"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ScansOnSearch reports whether every search reads all symbol hashes.
// The valkey driver has no text index, so a search costs one SCAN plus
// HGETALL per symbol; it suits dictionaries of a few thousand symbols.
// Use redis (FT.SEARCH) or sqlite for larger ones.
func (d DatabaseConfig) ScansOnSearch() bool {
	return d.Driver == DriverValkey
}

// SearchConfig holds query policy and ranking settings.
type SearchConfig struct {
	DefaultLimit        int    `yaml:"default_limit"`
	MaxLimit            int    `yaml:"max_limit"`
	MinQueryLength      int    `yaml:"min_query_length"`
	FetchMultiplier     int    `yaml:"fetch_multiplier"`
	RecommendationCount int    `yaml:"recommendation_count"`
	AutocompleteLimit   int    `yaml:"autocomplete_limit"`
	KeywordsFile        string `yaml:"keywords_file"` // empty = built-in table
}

// SearchLogConfig holds detached search log settings.
type SearchLogConfig struct {
	PoolSize        int `yaml:"pool_size"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	RetentionDays   int `yaml:"retention_days"`
}

// WriteTimeout returns the per-write deadline.
func (c SearchLogConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSec) * time.Second
}

// Retention returns how long daily counters are kept (key/value stores only).
func (c SearchLogConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, substitutes ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = 1
	}
	if c.Search.FetchMultiplier <= 0 {
		c.Search.FetchMultiplier = 2
	}
	if c.Search.RecommendationCount <= 0 {
		c.Search.RecommendationCount = 3
	}
	if c.Search.AutocompleteLimit <= 0 {
		c.Search.AutocompleteLimit = 8
	}
	if c.SearchLog.PoolSize <= 0 {
		c.SearchLog.PoolSize = 16
	}
	if c.SearchLog.WriteTimeoutSec <= 0 {
		c.SearchLog.WriteTimeoutSec = 2
	}
	if c.SearchLog.RetentionDays <= 0 {
		c.SearchLog.RetentionDays = 30
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "dreamdex:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be one of valkey, redis, sqlite, got %q", c.Database.Driver)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
