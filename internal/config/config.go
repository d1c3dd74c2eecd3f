// Package config loads engine configuration from a YAML file with
// environment-variable overrides, via spf13/viper, the way pkg/config
// does it elsewhere in this codebase's lineage.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database holds the durable store's connection configuration.
type Database struct {
	Driver string `mapstructure:"driver"` // "postgres", "sqlite", or "memory"
	DSN    string `mapstructure:"dsn"`
}

// Scheduler holds the cycle loop's tunables, mirroring the engine's
// documented configuration surface.
type Scheduler struct {
	AnalysisIntervalSecs int `mapstructure:"analysis_interval_secs"`
	RequestBaseDelayMs   int `mapstructure:"request_base_delay_ms"`
	RequestJitterMaxMs   int `mapstructure:"request_jitter_max_ms"`
	FetchRetryMax        int `mapstructure:"fetch_retry_max"`
	FetchBackoffBaseMs   int `mapstructure:"fetch_backoff_base_ms"`
	HTTPTimeoutSecs      int `mapstructure:"http_timeout_secs"`
	HistoryWindowDays    int `mapstructure:"history_window_days"`
	CycleIntervalSecs    int `mapstructure:"cycle_interval_secs"`
	Workers              int `mapstructure:"workers"`
}

// Cache holds the two-tier cache's TTL configuration.
type Cache struct {
	TTLSecs             int `mapstructure:"ttl_secs"`
	CleanupIntervalSecs int `mapstructure:"cleanup_interval_secs"`
}

// Fetcher holds upstream quote-provider configuration.
type Fetcher struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// Universe holds symbol-roster loading configuration.
type Universe struct {
	SymbolsFile string `mapstructure:"symbols_file"`
}

// Config is the engine's full configuration surface.
type Config struct {
	Logger    Logger    `mapstructure:"logger"`
	Database  Database  `mapstructure:"database"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Cache     Cache     `mapstructure:"cache"`
	Fetcher   Fetcher   `mapstructure:"fetcher"`
	Universe  Universe  `mapstructure:"universe"`
}

// Load reads configuration from the YAML file at path, applies environment
// overrides (dots become underscores, e.g. SCHEDULER_WORKERS), and fills in
// defaults for anything left unset.
func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config: no config file read at %q, using defaults and environment: %v", path, err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.driver", "memory")

	viper.SetDefault("scheduler.analysis_interval_secs", 3600)
	viper.SetDefault("scheduler.request_base_delay_ms", 4000)
	viper.SetDefault("scheduler.request_jitter_max_ms", 2000)
	viper.SetDefault("scheduler.fetch_retry_max", 3)
	viper.SetDefault("scheduler.fetch_backoff_base_ms", 2000)
	viper.SetDefault("scheduler.http_timeout_secs", 30)
	viper.SetDefault("scheduler.history_window_days", 90)
	viper.SetDefault("scheduler.cycle_interval_secs", 900)
	viper.SetDefault("scheduler.workers", 1)

	viper.SetDefault("cache.ttl_secs", 300)
	viper.SetDefault("cache.cleanup_interval_secs", 600)

	viper.SetDefault("fetcher.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("fetcher.user_agent", "Mozilla/5.0 (compatible; stockengine/1.0)")
}

// AnalysisInterval is scheduler.analysis_interval_secs as a time.Duration.
func (s Scheduler) AnalysisInterval() time.Duration {
	return time.Duration(s.AnalysisIntervalSecs) * time.Second
}

// RequestBaseDelay is scheduler.request_base_delay_ms as a time.Duration.
func (s Scheduler) RequestBaseDelay() time.Duration {
	return time.Duration(s.RequestBaseDelayMs) * time.Millisecond
}

// RequestJitterMax is scheduler.request_jitter_max_ms as a time.Duration.
func (s Scheduler) RequestJitterMax() time.Duration {
	return time.Duration(s.RequestJitterMaxMs) * time.Millisecond
}

// FetchBackoffBase is scheduler.fetch_backoff_base_ms as a time.Duration.
func (s Scheduler) FetchBackoffBase() time.Duration {
	return time.Duration(s.FetchBackoffBaseMs) * time.Millisecond
}

// HTTPTimeout is scheduler.http_timeout_secs as a time.Duration.
func (s Scheduler) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSecs) * time.Second
}

// CycleInterval is scheduler.cycle_interval_secs as a time.Duration.
func (s Scheduler) CycleInterval() time.Duration {
	return time.Duration(s.CycleIntervalSecs) * time.Second
}

// TTL is cache.ttl_secs as a time.Duration.
func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

// CleanupInterval is cache.cleanup_interval_secs as a time.Duration.
func (c Cache) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSecs) * time.Second
}
