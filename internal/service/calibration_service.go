package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/calibration"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/repository"
)

// CalibrationService prefetches odds and runs the calibrator for a league-season
type CalibrationService struct {
	fixtures   repository.FixtureRepository
	odds       repository.OddsRepository
	resolver   *SettingsResolver
	calibrator *calibration.Calibrator
	cache      *calibration.OddsCache
	batchSize  int
	logger     *logrus.Logger
}

// NewCalibrationService creates a new calibration service
func NewCalibrationService(
	fixtures repository.FixtureRepository,
	odds repository.OddsRepository,
	resolver *SettingsResolver,
	calibrator *calibration.Calibrator,
	cache *calibration.OddsCache,
	batchSize int,
	log *logrus.Logger,
) *CalibrationService {
	return &CalibrationService{
		fixtures:   fixtures,
		odds:       odds,
		resolver:   resolver,
		calibrator: calibrator,
		cache:      cache,
		batchSize:  batchSize,
		logger:     log,
	}
}

// Calibrate loads a league-season, prefetches its odds and derives calibration multipliers
func (s *CalibrationService) Calibrate(ctx context.Context, competitionID int64, season int) (*calibration.Table, error) {
	fixtures, err := s.fixtures.GetByCompetition(ctx, competitionID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures for competition %d: %w", competitionID, err)
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("competition %d season %d: %w", competitionID, season, models.ErrNoFixtures)
	}

	settings, source, err := s.resolver.Resolve(ctx, competitionID, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(fixtures))
	for _, f := range fixtures {
		if f.IsPlayed() {
			ids = append(ids, f.ID)
		}
	}
	if err := s.cache.Prefetch(ctx, s.odds, ids, s.batchSize); err != nil {
		return nil, err
	}

	table := s.calibrator.Calibrate(fixtures, settings, s.cache)
	s.logger.WithFields(logrus.Fields{
		"competition_id":  competitionID,
		"season":          season,
		"settings_source": source,
		"fixtures":        table.Fixtures,
		"samples":         table.Samples,
		"lines":           len(table.Lines),
		"overround":       table.MeanOverround,
	}).Info("Calibration completed")
	return table, nil
}
