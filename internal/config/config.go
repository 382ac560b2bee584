// Package config provides configuration management for the formcast engine.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/formcast/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Engine      EngineConfig      `mapstructure:"engine" validate:"required"`
	Optimizer   OptimizerConfig   `mapstructure:"optimizer" validate:"required"`
	Backtest    BacktestConfig    `mapstructure:"backtest" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration.
// An empty host means fixtures come from files instead of PostgreSQL.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_with=Host"`
	User               string `mapstructure:"user" validate:"required_with=Host"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// EngineConfig holds the default algorithm settings used when nothing was tuned
type EngineConfig struct {
	WindowSize           int       `mapstructure:"window_size" validate:"required,gte=5,lte=60"`
	BucketSize           int       `mapstructure:"bucket_size" validate:"required,gt=0"`
	RecencyWeights       []float64 `mapstructure:"recency_weights" validate:"required,min=1,dive,gte=0"`
	MinMatches           int       `mapstructure:"min_matches" validate:"required,gt=0"`
	MinLeagueMatches     int       `mapstructure:"min_league_matches" validate:"gte=0"`
	ProbabilityThreshold float64   `mapstructure:"probability_threshold" validate:"required,gte=0.5,lte=0.95"`
	MarketLines          []string  `mapstructure:"market_lines" validate:"required,min=1,marketlines"`
}

// OptimizerConfig represents settings search configuration
type OptimizerConfig struct {
	PoolSize          int     `mapstructure:"pool_size" validate:"required,gt=0"`
	Seed              int64   `mapstructure:"seed"`
	MinHitRate        float64 `mapstructure:"min_hit_rate" validate:"required,gt=0,lte=1"`
	MinCoverage       float64 `mapstructure:"min_coverage" validate:"gte=0,lte=1"`
	MinTotalPicks     int     `mapstructure:"min_total_picks" validate:"gte=0"`
	MaxCandidates     int     `mapstructure:"max_candidates" validate:"gte=0"`
	TimeBudgetSeconds int     `mapstructure:"time_budget_seconds" validate:"gte=0"`
	Workers           int     `mapstructure:"workers" validate:"required,gt=0"`
	CacheTTLMinutes   int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	WalkForwardFolds  int     `mapstructure:"walk_forward_folds" validate:"gte=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	GradeFrom           string  `mapstructure:"grade_from" validate:"omitempty,datetime=2006-01-02"`
	Seed                int64   `mapstructure:"seed"`
	BootstrapIterations int     `mapstructure:"bootstrap_iterations" validate:"required,gt=0"`
	TargetHitRate       float64 `mapstructure:"target_hit_rate" validate:"required,gt=0,lte=1"`
	OutputPath          string  `mapstructure:"output_path"`
}

// CalibrationConfig represents odds calibration configuration
type CalibrationConfig struct {
	MinSamples        int     `mapstructure:"min_samples" validate:"required,gt=0"`
	BatchSize         int     `mapstructure:"batch_size" validate:"required,gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// HasDatabase reports whether a PostgreSQL connection is configured
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultSettings returns the engine section as normalized algorithm settings
func (e EngineConfig) DefaultSettings() models.AlgoSettings {
	return models.NormalizeSettings(models.AlgoSettings{
		WindowSize:           e.WindowSize,
		BucketSize:           e.BucketSize,
		RecencyWeights:       append([]float64(nil), e.RecencyWeights...),
		MinMatches:           e.MinMatches,
		MinLeagueMatches:     e.MinLeagueMatches,
		ProbabilityThreshold: e.ProbabilityThreshold,
		MarketLines:          append([]string(nil), e.MarketLines...),
	})
}

// TimeBudget returns the optimizer time budget, zero when unbounded
func (o OptimizerConfig) TimeBudget() time.Duration {
	return time.Duration(o.TimeBudgetSeconds) * time.Second
}

// CacheTTL returns how long replay results stay memoized
func (o OptimizerConfig) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLMinutes) * time.Minute
}
