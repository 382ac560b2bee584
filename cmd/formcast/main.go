// Package main provides the formcast command line tool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/formcast/internal/calibration"
	"github.com/yourusername/formcast/internal/config"
	"github.com/yourusername/formcast/internal/database"
	"github.com/yourusername/formcast/internal/health"
	applogger "github.com/yourusername/formcast/internal/logger"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/optimizer"
	"github.com/yourusername/formcast/internal/repository"
	"github.com/yourusername/formcast/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	fixturesFile string
	oddsFile     string
	settingsFile string
	metricsAddr  string

	logger        *logrus.Logger
	cfg           *config.Config
	db            *database.DB
	store         *repository.MemoryStore
	repos         *repository.Repositories
	resolver      *service.SettingsResolver
	engineOptions optimizer.Config
	opsServer     *health.Server
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&fixturesFile, "fixtures", "", "JSON fixtures file used instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&oddsFile, "odds", "", "JSON odds snapshots file used with --fixtures")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings-file", "./formcast-settings.json", "JSON file holding tuned settings when running from files")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}

var rootCmd = &cobra.Command{
	Use:           "formcast",
	Short:         "Football form, prediction and settings tuning engine",
	Long:          `Replay fixture history to backtest market picks, tune algorithm settings per team and league, make live picks and calibrate against bookmaker odds.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

func main() {
	rootCmd.AddCommand(backtestCmd, tuneCmd, pickCmd, calibrateCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("FORMCAST_AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("FORMCAST_AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return errors.New("AWS_REGION and FORMCAST_AWS_SECRET_NAME must be set when FORMCAST_AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return err
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	switch {
	case fixturesFile != "":
		if err := loadFileRepositories(); err != nil {
			return err
		}
	case cfg.HasDatabase():
		var err error
		db, err = database.Initialize(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
	default:
		return errors.New("no fixture source: pass --fixtures or configure database.host")
	}

	resolver = service.NewSettingsResolver(repos.Settings, cfg.Engine.DefaultSettings())
	engineOptions = optimizer.FromConfig(&cfg.Optimizer)

	startOpsServer()
	return nil
}

func loadFileRepositories() error {
	store = repository.NewMemoryStore()

	fixtures, err := repository.LoadFixturesFile(fixturesFile)
	if err != nil {
		return err
	}
	store.AddFixtures(fixtures...)

	if oddsFile != "" {
		odds, err := repository.LoadOddsFile(oddsFile)
		if err != nil {
			return err
		}
		store.AddOdds(odds...)
	}

	if err := repository.LoadSettingsFile(store, settingsFile); err != nil {
		return err
	}

	repos = repository.NewMemoryRepositories(store)
	logger.WithFields(logrus.Fields{
		"fixtures":     len(fixtures),
		"competitions": len(store.Competitions()),
	}).Info("Loaded fixtures from file")
	return nil
}

func startOpsServer() {
	addr := metricsAddr
	if addr == "" && cfg.Metrics.Enabled && cfg.Metrics.Port > 0 {
		addr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}
	if addr == "" {
		return
	}

	opsCfg := health.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Addr:           addr,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metrics.Handler(),
		Logger:         logger,
	}
	if db != nil {
		opsCfg.DB = db
	}
	opsServer = health.NewServer(opsCfg)
	opsServer.Start()
	opsServer.SetReady(true)
}

func shutdown() error {
	if opsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = opsServer.Shutdown(ctx)
	}
	if db != nil {
		db.Close()
	}
	return nil
}

// persistFileSettings writes tuned settings back when running from files
func persistFileSettings() error {
	if store == nil {
		return nil
	}
	if err := repository.SaveSettingsFile(store, settingsFile); err != nil {
		return err
	}
	logger.WithField("path", settingsFile).Info("Saved tuned settings")
	return nil
}

func newOptimizer() *optimizer.Optimizer {
	return optimizer.NewOptimizer(engineOptions, nil, optimizer.NewReplayCache(cfg.Optimizer.CacheTTL()), logger)
}

func newCalibrationService() *service.CalibrationService {
	calibrator := calibration.NewCalibrator(calibration.FromConfig(&cfg.Calibration), nil, logger)
	cache := calibration.NewOddsCache(cfg.Calibration.RequestsPerSecond, cfg.Calibration.Burst)
	return service.NewCalibrationService(repos.Fixtures, repos.Odds, resolver, calibrator, cache, cfg.Calibration.BatchSize, logger)
}

func newPickService() *service.PickService {
	return service.NewPickService(repos.Fixtures, resolver, logger)
}

func applogEngine() *applogger.EngineLogger {
	return applogger.NewEngineLogger(logger)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.WithField("path", path).Info("Output written")
	return nil
}
