package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/formcast/internal/config"
)

// TestConfigEnv names the config file used by integration tests
const TestConfigEnv = "FORMCAST_TEST_CONFIG"

// SetupTestDB connects to the integration test database, skipping the test when none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("integration test: set %s to a config file with a database section", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	if !cfg.HasDatabase() {
		t.Skip("integration test: config has no database host")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	t.Cleanup(db.Close)

	if missing, err := db.MissingTables(ctx, RequiredTables...); err != nil || len(missing) > 0 {
		t.Fatalf("test database schema incomplete: missing=%v err=%v", missing, err)
	}
	return db
}
