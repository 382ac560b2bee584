package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/formcast/internal/models"
)

// LoadFixturesFile reads a JSON array of fixtures
func LoadFixturesFile(path string) ([]models.Fixture, error) {
	var fixtures []models.Fixture
	if err := readJSON(path, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	return fixtures, nil
}

// LoadOddsFile reads a JSON array of odds snapshots
func LoadOddsFile(path string) ([]models.OddsSnapshot, error) {
	var odds []models.OddsSnapshot
	if err := readJSON(path, &odds); err != nil {
		return nil, fmt.Errorf("failed to load odds: %w", err)
	}
	return odds, nil
}

// LoadSettingsFile reads stored settings into the store. A missing file is not an error.
func LoadSettingsFile(store *MemoryStore, path string) error {
	var stored []models.StoredSettings
	err := readJSON(path, &stored)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for _, s := range stored {
		s.Settings = models.NormalizeSettings(s.Settings)
		if err := store.Put(context.Background(), s); err != nil {
			return fmt.Errorf("failed to load settings for %s: %w", s.Scope, err)
		}
	}
	return nil
}

// SaveSettingsFile writes every stored settings value as a JSON array
func SaveSettingsFile(store *MemoryStore, path string) error {
	data, err := json.MarshalIndent(store.AllSettings(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
