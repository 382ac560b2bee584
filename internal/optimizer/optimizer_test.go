package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/formcast/internal/models"
)

var seasonStart = time.Date(2023, 8, 5, 15, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func buildSeason(competitionID int64, teams int, rounds int) []models.Fixture {
	var fixtures []models.Fixture
	id := competitionID * 10000
	day := 0
	for r := 0; r < rounds; r++ {
		for h := 1; h <= teams; h++ {
			for a := 1; a <= teams; a++ {
				if h == a {
					continue
				}
				date := seasonStart.AddDate(0, 0, day)
				day++
				fixtures = append(fixtures, models.Fixture{
					ID:            id,
					Date:          &date,
					CompetitionID: competitionID,
					Season:        2023,
					HomeTeamID:    competitionID*100 + int64(h),
					AwayTeamID:    competitionID*100 + int64(a),
					GoalsHome:     intPtr((h*3 + a + r) % 4),
					GoalsAway:     intPtr((a + r) % 2),
				})
				id++
			}
		}
	}
	return fixtures
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PoolSize = 5
	cfg.Seed = 7
	return cfg
}

func TestCandidateGrid(t *testing.T) {
	grid := CandidateGrid()
	require.Len(t, grid, 5*2*5*3*3*6*3)

	for _, settings := range grid[:50] {
		assert.True(t, settings.Equal(models.NormalizeSettings(settings)))
	}
}

func TestSampleCandidatesReproducible(t *testing.T) {
	grid := CandidateGrid()

	a := SampleCandidates(grid, 30, 42)
	b := SampleCandidates(grid, 30, 42)
	c := SampleCandidates(grid, 30, 43)

	require.Len(t, a, 30)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, SampleCandidates(grid, 0, 42), DefaultPoolSize)
	assert.Len(t, SampleCandidates(grid[:4], 10, 42), 4)
	assert.Equal(t, CandidateGrid()[0], grid[0], "sampling must not shuffle the caller's grid")
}

func TestCriteriaBatchVolumeFloor(t *testing.T) {
	criteria := DefaultCriteria()
	eval := models.TeamEvaluation{PickCount: 5, HitCount: 5, EvaluatedCount: 6}
	eval.Finalize()

	assert.True(t, criteria.met(eval, false))
	assert.False(t, criteria.met(eval, true))

	eval = models.TeamEvaluation{PickCount: 12, HitCount: 12, EvaluatedCount: 12}
	eval.Finalize()
	assert.True(t, criteria.met(eval, true))

	assert.False(t, criteria.met(models.TeamEvaluation{}, false))
}

func TestRankOrder(t *testing.T) {
	trial := func(index, picks, hits, evaluated int, qualified bool) Trial {
		eval := models.TeamEvaluation{PickCount: picks, HitCount: hits, EvaluatedCount: evaluated}
		eval.Finalize()
		return Trial{Index: index, Evaluation: eval, Qualified: qualified}
	}

	tests := []struct {
		name      string
		trials    []Trial
		wantIndex int
		wantMeets bool
	}{
		{
			name:      "more picks wins among qualifiers",
			trials:    []Trial{trial(0, 10, 9, 20, true), trial(1, 12, 10, 20, true), trial(2, 30, 10, 30, false)},
			wantIndex: 1,
			wantMeets: true,
		},
		{
			name:      "hit rate breaks pick ties",
			trials:    []Trial{trial(0, 10, 8, 20, true), trial(1, 10, 9, 20, true)},
			wantIndex: 1,
			wantMeets: true,
		},
		{
			name:      "coverage breaks hit rate ties",
			trials:    []Trial{trial(0, 10, 9, 30, true), trial(1, 10, 9, 20, true)},
			wantIndex: 1,
			wantMeets: true,
		},
		{
			name:      "evaluation order breaks full ties",
			trials:    []Trial{trial(0, 10, 9, 20, true), trial(1, 10, 9, 20, true)},
			wantIndex: 0,
			wantMeets: true,
		},
		{
			name:      "falls back to best overall",
			trials:    []Trial{trial(0, 4, 2, 20, false), trial(1, 8, 3, 20, false)},
			wantIndex: 1,
			wantMeets: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{Trials: tt.trials}
			rank(result)
			assert.Equal(t, tt.wantIndex, result.Best.Index)
			assert.Equal(t, tt.wantMeets, result.MeetsCriteria)
		})
	}
}

func TestOptimizeTeamEvaluatesBaseFirst(t *testing.T) {
	fixtures := buildSeason(1, 5, 2)
	base := models.DefaultSettings()
	opt := NewOptimizer(testConfig(), nil, nil, nil)

	result := opt.OptimizeTeam(context.Background(), fixtures, 101, base)

	require.NotEmpty(t, result.Trials)
	assert.True(t, result.Trials[0].Settings.Equal(models.NormalizeSettings(base)))
	assert.Equal(t, 0, result.Trials[0].Index)
	assert.False(t, result.Truncated)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.LessOrEqual(t, len(result.Trials), testConfig().PoolSize+1)
}

func TestOptimizeTeamDeterministic(t *testing.T) {
	fixtures := buildSeason(1, 5, 2)

	a := NewOptimizer(testConfig(), nil, nil, nil).OptimizeTeam(context.Background(), fixtures, 102, models.DefaultSettings())
	b := NewOptimizer(testConfig(), nil, nil, nil).OptimizeTeam(context.Background(), fixtures, 102, models.DefaultSettings())

	assert.Equal(t, a.Best.Index, b.Best.Index)
	assert.True(t, a.Best.Settings.Equal(b.Best.Settings))
	assert.Equal(t, a.Best.Evaluation, b.Best.Evaluation)
	assert.Equal(t, a.MeetsCriteria, b.MeetsCriteria)
}

func TestOptimizeTruncation(t *testing.T) {
	fixtures := buildSeason(1, 4, 2)

	t.Run("max candidates", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxCandidates = 2
		result := NewOptimizer(cfg, nil, nil, nil).OptimizeTeam(context.Background(), fixtures, 101, models.DefaultSettings())
		assert.True(t, result.Truncated)
		assert.Len(t, result.Trials, 3)
	})

	t.Run("cancelled context still evaluates base", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := NewOptimizer(testConfig(), nil, nil, nil).OptimizeTeam(ctx, fixtures, 101, models.DefaultSettings())
		assert.True(t, result.Truncated)
		require.Len(t, result.Trials, 1)
		assert.Equal(t, result.Trials[0], result.Best)
	})
}

func TestOptimizeLeague(t *testing.T) {
	fixtures := buildSeason(2, 4, 3)
	cfg := testConfig()
	cfg.Criteria.MinTotalPicks = 1000

	result := NewOptimizer(cfg, nil, nil, nil).OptimizeLeague(context.Background(), fixtures, nil, models.DefaultSettings())

	assert.Equal(t, int64(2), result.CompetitionID)
	require.Len(t, result.Teams, 4)
	assert.Equal(t, result.Candidates, len(result.League.Trials))
	for teamID, team := range result.Teams {
		assert.Equal(t, teamID, team.TeamID)
		assert.Len(t, team.Trials, result.Candidates)
		assert.False(t, team.MeetsCriteria, "volume floor cannot be reached")
		assert.Equal(t, result.RunID, team.RunID)
	}
	assert.False(t, result.League.MeetsCriteria)
}

func TestOptimizeLeagueMatchesTeamSearch(t *testing.T) {
	fixtures := buildSeason(3, 4, 2)
	cfg := testConfig()
	cfg.Criteria.MinTotalPicks = 0

	opt := NewOptimizer(cfg, nil, NewReplayCache(time.Minute), nil)
	league := opt.OptimizeLeague(context.Background(), fixtures, []int64{301}, models.DefaultSettings())
	team := opt.OptimizeTeam(context.Background(), fixtures, 301, models.DefaultSettings())

	assert.Equal(t, team.Best.Index, league.Teams[301].Best.Index)
	assert.Equal(t, team.Best.Evaluation, league.Teams[301].Best.Evaluation)
}

func TestOptimizeLeagues(t *testing.T) {
	leagues := map[int64][]models.Fixture{
		1: buildSeason(1, 4, 2),
		2: buildSeason(2, 4, 2),
		3: buildSeason(3, 4, 2),
	}
	cfg := testConfig()
	cfg.Workers = 2

	results, err := NewOptimizer(cfg, nil, NewReplayCache(time.Minute), nil).OptimizeLeagues(context.Background(), leagues, models.DefaultSettings())

	require.NoError(t, err)
	require.Len(t, results, 3)
	for id, result := range results {
		assert.Equal(t, id, result.CompetitionID)
		assert.Len(t, result.Teams, 4)
	}
}

func TestReplayCache(t *testing.T) {
	fixtures := buildSeason(1, 4, 2)
	cache := NewReplayCache(time.Minute)
	opt := NewOptimizer(testConfig(), nil, cache, nil)

	first := opt.OptimizeTeam(context.Background(), fixtures, 101, models.DefaultSettings())
	hits, misses := cache.Stats()
	assert.Zero(t, hits)
	assert.Equal(t, uint64(len(first.Trials)), misses)

	second := opt.OptimizeTeam(context.Background(), fixtures, 102, models.DefaultSettings())
	hits, _ = cache.Stats()
	assert.Equal(t, uint64(len(second.Trials)), hits)

	key := NewReplayKey(HistoryFingerprint(fixtures), models.DefaultSettings())
	cached, ok := cache.Get(key)
	require.True(t, ok)
	assert.Nil(t, cached.State)

	cache.Flush()
	_, ok = cache.Get(key)
	assert.False(t, ok)
}

func TestHistoryFingerprint(t *testing.T) {
	fixtures := buildSeason(1, 4, 1)
	reversed := make([]models.Fixture, len(fixtures))
	for i := range fixtures {
		reversed[len(fixtures)-1-i] = fixtures[i]
	}
	assert.Equal(t, HistoryFingerprint(fixtures), HistoryFingerprint(reversed))

	changed := append([]models.Fixture(nil), fixtures...)
	changed[3].GoalsHome = intPtr(9)
	assert.NotEqual(t, HistoryFingerprint(fixtures), HistoryFingerprint(changed))

	a := NewReplayKey("h", models.DefaultSettings())
	b := NewReplayKey("h", models.NormalizeSettings(models.DefaultSettings()))
	assert.Equal(t, a, b)
}

func TestRunWalkForward(t *testing.T) {
	fixtures := buildSeason(1, 4, 4)
	opt := NewOptimizer(testConfig(), nil, NewReplayCache(time.Minute), nil)

	result, err := opt.RunWalkForward(context.Background(), fixtures, 101, models.DefaultSettings(), WalkForwardConfig{
		Folds:         3,
		TargetHitRate: 0.6,
	})

	require.NoError(t, err)
	require.Len(t, result.Folds, 3)
	assert.Equal(t, 3, result.RequestedFolds)
	total := 0
	for i, fold := range result.Folds {
		assert.Equal(t, i+1, fold.Fold)
		assert.False(t, fold.TestEnd.Before(fold.TestStart))
		if i > 0 {
			assert.True(t, fold.TestStart.After(result.Folds[i-1].TestEnd))
		}
		total += fold.Test.EvaluatedCount
	}
	assert.Equal(t, total, result.AggregateTest.EvaluatedCount)
	assert.GreaterOrEqual(t, result.ConsistencyScore, 0.0)
	assert.LessOrEqual(t, result.ConsistencyScore, 1.0)
}

func TestRunWalkForwardMergesSharedKickoffs(t *testing.T) {
	fixtures := buildSeason(1, 4, 1)
	require.Len(t, fixtures, 12)
	for i := 0; i < 10; i++ {
		date := seasonStart
		fixtures[i].Date = &date
	}

	log, hook := test.NewNullLogger()
	opt := NewOptimizer(testConfig(), nil, nil, log)
	result, err := opt.RunWalkForward(context.Background(), fixtures, 101, models.DefaultSettings(), WalkForwardConfig{
		Folds: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.RequestedFolds)
	require.Len(t, result.Folds, 1)
	assert.True(t, result.Folds[0].TestStart.After(seasonStart))

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["folds"] == 1 && entry.Data["requested"] == 3 {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning about merged folds")
}

func TestRunWalkForwardErrors(t *testing.T) {
	opt := NewOptimizer(testConfig(), nil, nil, nil)

	_, err := opt.RunWalkForward(context.Background(), buildSeason(1, 4, 1), 101, models.DefaultSettings(), WalkForwardConfig{})
	assert.Error(t, err)

	_, err = opt.RunWalkForward(context.Background(), buildSeason(1, 2, 1), 101, models.DefaultSettings(), WalkForwardConfig{Folds: 5})
	assert.Error(t, err)
}

func TestCalculateConsistency(t *testing.T) {
	folds := []WalkForwardFold{
		{Test: models.TeamEvaluation{PickCount: 4, HitRate: 0.75}, Train: models.TeamEvaluation{HitRate: 0.9}},
		{Test: models.TeamEvaluation{PickCount: 4, HitRate: 0.5}, Train: models.TeamEvaluation{HitRate: 0.8}},
		{Test: models.TeamEvaluation{}, Train: models.TeamEvaluation{HitRate: 0.7}},
	}
	assert.InDelta(t, 0.5, CalculateConsistency(folds, 0.7), 1e-9)
	assert.Zero(t, CalculateConsistency(folds[2:], 0.7))
	assert.InDelta(t, (0.15+0.3+0.7)/3, calculateOverfitScore(folds), 1e-9)
	assert.Zero(t, CalculateConsistency(nil, 0.7))
}
