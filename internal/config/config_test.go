// Package config provides configuration management for the formcast engine.
package config

import (
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	formcastName                 = "formcast"
	developmentEnv               = "development"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != formcastName {
		t.Errorf("expected app name '%s', got '%s'", formcastName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Database.Host != localhostHost || cfg.Database.Port != postgresPort {
		t.Errorf("unexpected database %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Optimizer.Seed != 42 || cfg.Optimizer.PoolSize != 30 {
		t.Errorf("unexpected optimizer section %+v", cfg.Optimizer)
	}
	if len(cfg.Engine.RecencyWeights) != 4 || cfg.Engine.RecencyWeights[1] != 0.85 {
		t.Errorf("unexpected recency weights %v", cfg.Engine.RecencyWeights)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsWithoutFile tests that defaults apply when no file exists
func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Optimizer.PoolSize != 30 || cfg.Engine.WindowSize != 20 {
		t.Errorf("expected defaults, got %+v %+v", cfg.Optimizer, cfg.Engine)
	}
	if cfg.HasDatabase() {
		t.Errorf("expected no database without a host")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("FORMCAST_APP_NAME", testAppName)

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidMarketLines tests validation of unknown market labels
func TestValidateInvalidMarketLines(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.Engine.MarketLines = []string{"Over 2.5", "Corners 9.5"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid market lines")
	}
	if !strings.Contains(err.Error(), "MarketLines") {
		t.Errorf("expected market lines validation error, got: %v", err)
	}

	for _, line := range []string{"Over NaN", "Over Inf", "Under 1e20"} {
		cfg.Engine.MarketLines = []string{"Over 2.5", line}
		if err := Validate(cfg); err == nil {
			t.Errorf("expected validation error for %q", line)
		}
	}
}

// TestValidateThresholdRange tests that the engine threshold must lie within the supported range
func TestValidateThresholdRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.Engine.ProbabilityThreshold = 0.99
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for threshold above 0.95")
	}
}

// TestValidateBucketExceedsWindow tests the cross-field engine check
func TestValidateBucketExceedsWindow(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.Engine.BucketSize = cfg.Engine.WindowSize + 1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for bucket larger than window")
	}
}

// TestValidateProductionRequiresSSL tests environment-specific database requirements
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.App.Environment = "production"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for production without SSL")
	}
	cfg.Database.SSLMode = "require"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestEngineDefaultSettings tests conversion of the engine section into algorithm settings
func TestEngineDefaultSettings(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	settings := cfg.Engine.DefaultSettings()
	if settings.WindowSize != 20 || settings.BucketSize != 5 || settings.ProbabilityThreshold != 0.65 {
		t.Errorf("unexpected settings %+v", settings)
	}
	if len(settings.MarketLines) != 4 || settings.MarketLines[0] != "Over 1.5" {
		t.Errorf("unexpected market lines %v", settings.MarketLines)
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
}

// TestEnvironmentChecks tests environment check functions
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development only")
	}
	cfg.App.Environment = "staging"
	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	if cfg.Database.Password != "" {
		t.Errorf("expected missing variable to expand to empty, got %q", cfg.Database.Password)
	}
}

// TestOverlaySecrets tests applying a parsed secret onto the configuration
func TestOverlaySecrets(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := &Config{Database: DatabaseConfig{User: "formcast", Password: "old"}}
	overlaySecretsOnConfig(cfg, secrets)
	if cfg.Database.Password != "s3cret" || cfg.Database.User != "formcast" {
		t.Errorf("unexpected database credentials %+v", cfg.Database)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Error("expected error for empty secret")
	}
}
