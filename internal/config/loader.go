// Package config provides configuration management for the formcast engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "FORMCAST"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "formcast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("engine.window_size", 20)
	v.SetDefault("engine.bucket_size", 5)
	v.SetDefault("engine.recency_weights", []float64{1, 0.85, 0.7, 0.55})
	v.SetDefault("engine.min_matches", 5)
	v.SetDefault("engine.min_league_matches", 20)
	v.SetDefault("engine.probability_threshold", 0.65)
	v.SetDefault("engine.market_lines", []string{"Over 1.5", "Under 3.5", "1X", "X2"})

	v.SetDefault("optimizer.pool_size", 30)
	v.SetDefault("optimizer.seed", 1)
	v.SetDefault("optimizer.min_hit_rate", 0.8)
	v.SetDefault("optimizer.min_coverage", 0.33)
	v.SetDefault("optimizer.min_total_picks", 10)
	v.SetDefault("optimizer.workers", 4)
	v.SetDefault("optimizer.cache_ttl_minutes", 30)
	v.SetDefault("optimizer.walk_forward_folds", 4)

	v.SetDefault("backtest.seed", 1)
	v.SetDefault("backtest.bootstrap_iterations", 1000)
	v.SetDefault("backtest.target_hit_rate", 0.8)

	v.SetDefault("calibration.min_samples", 20)
	v.SetDefault("calibration.batch_size", 200)
	v.SetDefault("calibration.requests_per_second", 5)
	v.SetDefault("calibration.burst", 1)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
