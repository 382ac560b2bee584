package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/formcast/internal/database"
	"github.com/yourusername/formcast/internal/models"
)

// PostgresSettingsRepository implements SettingsRepository for PostgreSQL
type PostgresSettingsRepository struct {
	db *database.DB
}

// NewPostgresSettingsRepository creates a new settings repository
func NewPostgresSettingsRepository(db *database.DB) SettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// Get retrieves the stored settings of a scope
func (r *PostgresSettingsRepository) Get(ctx context.Context, scope models.SettingsScope) (*models.StoredSettings, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT settings, evaluation, meets_criteria, run_id, updated_at
		FROM algo_settings
		WHERE scope_kind = $1 AND competition_id = $2 AND team_id = $3
	`

	var (
		settingsJSON   []byte
		evaluationJSON []byte
		stored         = models.StoredSettings{Scope: scope}
	)
	err := r.db.Q(ctx).QueryRow(ctx, query, string(scope.Kind), scope.CompetitionID, scope.TeamID).Scan(
		&settingsJSON, &evaluationJSON, &stored.MeetsCriteria, &stored.RunID, &stored.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for %s: %w", scope, err)
	}

	if err := json.Unmarshal(settingsJSON, &stored.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings for %s: %w", scope, err)
	}
	if err := json.Unmarshal(evaluationJSON, &stored.Evaluation); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation for %s: %w", scope, err)
	}
	stored.Settings = models.NormalizeSettings(stored.Settings)
	return &stored, nil
}

// Put inserts or replaces the stored settings of a scope
func (r *PostgresSettingsRepository) Put(ctx context.Context, stored models.StoredSettings) error {
	if err := stored.Scope.Validate(); err != nil {
		return err
	}

	settingsJSON, err := json.Marshal(stored.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	evaluationJSON, err := json.Marshal(stored.Evaluation)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}

	query := `
		INSERT INTO algo_settings (scope_kind, competition_id, team_id, settings, evaluation, meets_criteria, run_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (scope_kind, competition_id, team_id) DO UPDATE SET
			settings = EXCLUDED.settings,
			evaluation = EXCLUDED.evaluation,
			meets_criteria = EXCLUDED.meets_criteria,
			run_id = EXCLUDED.run_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.Q(ctx).Exec(ctx, query,
		string(stored.Scope.Kind), stored.Scope.CompetitionID, stored.Scope.TeamID,
		settingsJSON, evaluationJSON, stored.MeetsCriteria, stored.RunID, stored.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store settings for %s: %w", stored.Scope, err)
	}
	return nil
}
