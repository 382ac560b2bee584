package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/logger"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/optimizer"
	"github.com/yourusername/formcast/internal/repository"
	"golang.org/x/sync/errgroup"
)

// TuneReport is the outcome of tuning one competition season
type TuneReport struct {
	CompetitionID int64                   `json:"competition_id"`
	Season        int                     `json:"season"`
	RunID         uuid.UUID               `json:"run_id"`
	BaseSource    string                  `json:"base_source"`
	Stored        []models.StoredSettings `json:"stored"`
	Qualified     int                     `json:"qualified"`
	Truncated     bool                    `json:"truncated"`
	Duration      time.Duration           `json:"duration"`
}

// TuningService runs batch settings searches and persists the chosen settings
type TuningService struct {
	fixtures  repository.FixtureRepository
	settings  repository.SettingsRepository
	resolver  *SettingsResolver
	optimizer *optimizer.Optimizer
	audit     *logger.AuditLogger
	logger    *logrus.Logger
	workers   int
	now       func() time.Time
}

// NewTuningService creates a new tuning service
func NewTuningService(
	fixtures repository.FixtureRepository,
	settings repository.SettingsRepository,
	resolver *SettingsResolver,
	opt *optimizer.Optimizer,
	workers int,
	log *logrus.Logger,
) *TuningService {
	if workers <= 0 {
		workers = 1
	}
	return &TuningService{
		fixtures:  fixtures,
		settings:  settings,
		resolver:  resolver,
		optimizer: opt,
		audit:     logger.NewAuditLogger(log),
		logger:    log,
		workers:   workers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TuneLeague searches settings for a competition season and stores league and per-team results.
// The league's current settings seed the search.
func (s *TuningService) TuneLeague(ctx context.Context, competitionID int64, season int) (*TuneReport, error) {
	fixtures, err := s.fixtures.GetByCompetition(ctx, competitionID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures for competition %d: %w", competitionID, err)
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("competition %d season %d: %w", competitionID, season, models.ErrNoFixtures)
	}

	base, source, err := s.resolver.Resolve(ctx, competitionID, 0)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"competition_id": competitionID,
		"season":         season,
		"fixtures":       len(fixtures),
		"base_source":    source,
	}).Info("Tuning league settings")

	result := s.optimizer.OptimizeLeague(ctx, fixtures, nil, base)
	result.CompetitionID = competitionID

	report := &TuneReport{
		CompetitionID: competitionID,
		Season:        season,
		RunID:         result.RunID,
		BaseSource:    source,
		Truncated:     result.Truncated,
		Duration:      result.Duration,
	}

	if err := s.store(ctx, report, models.LeagueScope(competitionID), result.League); err != nil {
		return nil, err
	}

	teamIDs := make([]int64, 0, len(result.Teams))
	for id := range result.Teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })
	for _, teamID := range teamIDs {
		if err := s.store(ctx, report, models.TeamScope(competitionID, teamID), result.Teams[teamID]); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// TuneLeagues tunes competitions concurrently, at most workers at a time.
// The first error cancels the remaining work.
func (s *TuningService) TuneLeagues(ctx context.Context, competitionIDs []int64, season int) (map[int64]*TuneReport, error) {
	reports := make(map[int64]*TuneReport, len(competitionIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, competitionID := range competitionIDs {
		competitionID := competitionID
		g.Go(func() error {
			report, err := s.TuneLeague(gctx, competitionID, season)
			if errors.Is(err, models.ErrNoFixtures) {
				s.logger.WithField("competition_id", competitionID).Warn("No fixtures to tune")
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			reports[competitionID] = report
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func (s *TuningService) store(ctx context.Context, report *TuneReport, scope models.SettingsScope, result *optimizer.Result) error {
	if result == nil || len(result.Trials) == 0 {
		return nil
	}

	previousHash := ""
	if previous, err := s.settings.Get(ctx, scope); err == nil {
		previousHash = previous.Settings.Fingerprint()
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to read settings for %s: %w", scope, err)
	}

	evaluation := result.Best.Evaluation
	if scope.Kind == models.ScopeTeam {
		evaluation.TeamID = scope.TeamID
	}
	stored := models.StoredSettings{
		Scope:         scope,
		Settings:      result.Best.Settings,
		Evaluation:    evaluation,
		MeetsCriteria: result.MeetsCriteria,
		RunID:         result.RunID,
		UpdatedAt:     s.now(),
	}
	if err := s.settings.Put(ctx, stored); err != nil {
		return fmt.Errorf("failed to store settings for %s: %w", scope, err)
	}

	hash := stored.Settings.Fingerprint()
	s.audit.LogSettingsStored(stored.RunID.String(), scope.String(), hash, stored.MeetsCriteria,
		evaluation.PickCount, evaluation.HitRate, evaluation.Coverage, stored.UpdatedAt)
	if previousHash != "" && previousHash != hash {
		s.audit.LogSettingsChange(scope.String(), previousHash, hash)
	}
	metrics.UpdateTunedSettings(string(scope.Kind), stored.MeetsCriteria)

	report.Stored = append(report.Stored, stored)
	if stored.MeetsCriteria {
		report.Qualified++
	}
	return nil
}
