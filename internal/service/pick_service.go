package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/logger"
	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
	"github.com/yourusername/formcast/internal/repository"
)

// PickResult is a live decision for one fixture and team
type PickResult struct {
	Fixture  models.Fixture      `json:"fixture"`
	TeamID   int64               `json:"team_id"`
	Source   string              `json:"settings_source"`
	Settings models.AlgoSettings `json:"settings"`
	Forecast prediction.Forecast `json:"forecast"`
	Decision market.Decision     `json:"decision"`
}

// PickService makes live picks from history before kickoff
type PickService struct {
	fixtures repository.FixtureRepository
	resolver *SettingsResolver
	logger   *logger.EngineLogger
}

// NewPickService creates a new pick service
func NewPickService(fixtures repository.FixtureRepository, resolver *SettingsResolver, log *logrus.Logger) *PickService {
	return &PickService{
		fixtures: fixtures,
		resolver: resolver,
		logger:   logger.NewEngineLogger(log),
	}
}

// Pick warms rolling state with every played fixture before kickoff and selects a market for the team
func (s *PickService) Pick(ctx context.Context, fixture models.Fixture, teamID int64) (*PickResult, error) {
	if fixture.Date == nil {
		return nil, fmt.Errorf("fixture %d: %w", fixture.ID, models.ErrUndatedFixture)
	}
	if !fixture.Involves(teamID) {
		return nil, fmt.Errorf("team %d, fixture %d: %w", teamID, fixture.ID, models.ErrTeamNotInFixture)
	}

	settings, source, err := s.resolver.Resolve(ctx, fixture.CompetitionID, teamID)
	if err != nil {
		return nil, err
	}

	history, err := s.fixtures.GetHistory(ctx, fixture.CompetitionID, fixture.Kickoff())
	if err != nil {
		return nil, fmt.Errorf("failed to load history for fixture %d: %w", fixture.ID, err)
	}

	state := backtest.Warm(history, settings, fixture.Kickoff())
	forecast, decision := backtest.PredictFixture(state, fixture, settings)

	metrics.RecordDecision(string(decision.Status))
	if decision.Status == market.StatusPick {
		metrics.RecordPick(decision.Pick.Probability)
		s.logger.LogPick(fixture.ID, teamID, decision.Pick.MarketLabel, decision.Pick.Probability)
	} else {
		bestLabel, bestProbability := "", 0.0
		if decision.Best != nil {
			bestLabel, bestProbability = decision.Best.MarketLabel, decision.Best.Probability
		}
		s.logger.LogNoPick(fixture.ID, teamID, string(decision.Status), bestLabel, bestProbability)
	}

	return &PickResult{
		Fixture:  fixture,
		TeamID:   teamID,
		Source:   source,
		Settings: settings,
		Forecast: forecast,
		Decision: decision,
	}, nil
}

// PickByID loads the fixture and picks for the team
func (s *PickService) PickByID(ctx context.Context, fixtureID, teamID int64) (*PickResult, error) {
	fixture, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %d: %w", fixtureID, err)
	}
	return s.Pick(ctx, *fixture, teamID)
}
