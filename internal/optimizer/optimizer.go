package optimizer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/config"
	"github.com/yourusername/formcast/internal/logger"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"golang.org/x/sync/errgroup"
)

// Criteria a trial must meet to qualify
type Criteria struct {
	MinHitRate  float64
	MinCoverage float64
	// MinTotalPicks applies to batch searches only
	MinTotalPicks int
}

// DefaultCriteria returns the qualification thresholds used when none are configured
func DefaultCriteria() Criteria {
	return Criteria{MinHitRate: 0.80, MinCoverage: 0.33, MinTotalPicks: 10}
}

func (c Criteria) met(eval models.TeamEvaluation, batch bool) bool {
	if eval.PickCount == 0 {
		return false
	}
	if eval.HitRate < c.MinHitRate || eval.Coverage < c.MinCoverage {
		return false
	}
	return !batch || eval.PickCount >= c.MinTotalPicks
}

// Config configures a search
type Config struct {
	PoolSize int
	Seed     int64
	Criteria Criteria
	// MaxCandidates caps pool candidates evaluated after the base. Zero means no cap.
	MaxCandidates int
	// TimeBudget stops the search once exceeded. Zero means no budget.
	TimeBudget time.Duration
	Workers    int
}

// DefaultConfig returns the search configuration used when nothing is configured
func DefaultConfig() Config {
	return Config{
		PoolSize: DefaultPoolSize,
		Criteria: DefaultCriteria(),
		Workers:  4,
	}
}

// FromConfig builds a search configuration from app config
func FromConfig(cfg *config.OptimizerConfig) Config {
	out := DefaultConfig()
	if cfg == nil {
		return out
	}
	out.PoolSize = cfg.PoolSize
	out.Seed = cfg.Seed
	out.MaxCandidates = cfg.MaxCandidates
	out.TimeBudget = cfg.TimeBudget()
	if cfg.MinHitRate > 0 {
		out.Criteria.MinHitRate = cfg.MinHitRate
	}
	out.Criteria.MinCoverage = cfg.MinCoverage
	out.Criteria.MinTotalPicks = cfg.MinTotalPicks
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	return out
}

// Trial is one settings candidate evaluated by replay
type Trial struct {
	Index      int                   `json:"index"`
	Settings   models.AlgoSettings   `json:"settings"`
	Evaluation models.TeamEvaluation `json:"evaluation"`
	Qualified  bool                  `json:"qualified"`
}

// Result is the outcome of a search for one team or one league as a whole
type Result struct {
	RunID         uuid.UUID     `json:"run_id"`
	TeamID        int64         `json:"team_id,omitempty"`
	Best          Trial         `json:"best"`
	MeetsCriteria bool          `json:"meets_criteria"`
	Qualifying    int           `json:"qualifying"`
	Trials        []Trial       `json:"trials"`
	Truncated     bool          `json:"truncated"`
	Duration      time.Duration `json:"duration"`
}

// LeagueResult is the outcome of a batch search over a competition
type LeagueResult struct {
	RunID         uuid.UUID         `json:"run_id"`
	CompetitionID int64             `json:"competition_id"`
	League        *Result           `json:"league"`
	Teams         map[int64]*Result `json:"teams"`
	Candidates    int               `json:"candidates"`
	Truncated     bool              `json:"truncated"`
	Duration      time.Duration     `json:"duration"`
}

// Optimizer searches settings by replaying history for each candidate
type Optimizer struct {
	config   Config
	replayer *backtest.Replayer
	cache    *ReplayCache
	logger   *logger.EngineLogger
}

// NewOptimizer creates an optimizer. A nil cache disables memoization.
func NewOptimizer(cfg Config, replayer *backtest.Replayer, cache *ReplayCache, log *logrus.Logger) *Optimizer {
	if log == nil {
		log = logrus.New()
	}
	if replayer == nil {
		replayer = backtest.NewReplayer(log)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Optimizer{
		config:   cfg,
		replayer: replayer,
		cache:    cache,
		logger:   logger.NewEngineLogger(log),
	}
}

// Candidates returns the base settings followed by the seeded pool. Pool entries equal to the base are dropped.
func (o *Optimizer) Candidates(base models.AlgoSettings) []models.AlgoSettings {
	base = models.NormalizeSettings(base)
	pool := SampleCandidates(CandidateGrid(), o.config.PoolSize, o.config.Seed)

	out := make([]models.AlgoSettings, 0, len(pool)+1)
	out = append(out, base)
	baseHash := base.Fingerprint()
	for _, candidate := range pool {
		if candidate.Fingerprint() == baseHash {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// OptimizeTeam searches settings for a single team. It never fails: when no
// trial qualifies the best-ranked trial is returned with MeetsCriteria false.
func (o *Optimizer) OptimizeTeam(ctx context.Context, fixtures []models.Fixture, teamID int64, base models.AlgoSettings) *Result {
	start := time.Now()
	runID := uuid.New()
	scope := "team"
	history := HistoryFingerprint(fixtures)
	candidates := o.Candidates(base)

	result := &Result{RunID: runID, TeamID: teamID}
	for i, settings := range candidates {
		if i > 0 && o.exhausted(ctx, start, i) {
			result.Truncated = true
			break
		}
		replay := o.replay(history, fixtures, settings)
		eval := replay.Evaluation(teamID)
		trial := Trial{
			Index:      i,
			Settings:   settings,
			Evaluation: eval,
			Qualified:  o.config.Criteria.met(eval, false),
		}
		result.Trials = append(result.Trials, trial)
		o.logTrial(runID, scope, trial)
	}

	o.finish(result, scope, start)
	return result
}

// OptimizeLeague runs one replay per candidate and grades every team at once.
// Teams may be empty, meaning every team appearing in the fixtures. Besides the
// per-team results the league as a whole is ranked on the full pick trace.
// Batch trials must also reach Criteria.MinTotalPicks.
func (o *Optimizer) OptimizeLeague(ctx context.Context, fixtures []models.Fixture, teamIDs []int64, base models.AlgoSettings) *LeagueResult {
	start := time.Now()
	runID := uuid.New()
	if len(teamIDs) == 0 {
		teamIDs = TeamsOf(fixtures)
	}
	history := HistoryFingerprint(fixtures)
	candidates := o.Candidates(base)

	league := &LeagueResult{
		RunID:         runID,
		CompetitionID: competitionOf(fixtures),
		League:        &Result{RunID: runID},
		Teams:         make(map[int64]*Result, len(teamIDs)),
	}
	for _, teamID := range teamIDs {
		league.Teams[teamID] = &Result{RunID: runID, TeamID: teamID}
	}

	for i, settings := range candidates {
		if i > 0 && o.exhausted(ctx, start, i) {
			league.Truncated = true
			break
		}
		replay := o.replay(history, fixtures, settings)
		league.Candidates++

		aggregate := leagueEvaluation(replay)
		trial := Trial{Index: i, Settings: settings, Evaluation: aggregate, Qualified: o.config.Criteria.met(aggregate, true)}
		league.League.Trials = append(league.League.Trials, trial)
		o.logTrial(runID, "league", trial)

		for _, teamID := range teamIDs {
			eval := replay.Evaluation(teamID)
			teamTrial := Trial{Index: i, Settings: settings, Evaluation: eval, Qualified: o.config.Criteria.met(eval, true)}
			league.Teams[teamID].Trials = append(league.Teams[teamID].Trials, teamTrial)
			metrics.RecordTrial("team", teamTrial.Qualified)
		}
	}

	league.League.Truncated = league.Truncated
	o.finish(league.League, "league", start)
	for _, teamResult := range league.Teams {
		teamResult.Truncated = league.Truncated
		teamResult.Duration = time.Since(start)
		rank(teamResult)
	}
	league.Duration = time.Since(start)
	return league
}

// OptimizeLeagues runs OptimizeLeague for every competition on a bounded
// worker pool. Each worker replays its own competition only.
func (o *Optimizer) OptimizeLeagues(ctx context.Context, leagues map[int64][]models.Fixture, base models.AlgoSettings) (map[int64]*LeagueResult, error) {
	results := make(map[int64]*LeagueResult, len(leagues))
	var mu sync.Mutex

	ids := make([]int64, 0, len(leagues))
	for id := range leagues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)
	for _, competitionID := range ids {
		competitionID := competitionID
		fixtures := leagues[competitionID]
		g.Go(func() error {
			result := o.OptimizeLeague(gctx, fixtures, nil, base)
			result.CompetitionID = competitionID
			mu.Lock()
			results[competitionID] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (o *Optimizer) replay(history string, fixtures []models.Fixture, settings models.AlgoSettings) *backtest.Result {
	key := NewReplayKey(history, settings)
	if o.cache != nil {
		if cached, ok := o.cache.Get(key); ok {
			return cached
		}
	}
	start := time.Now()
	result := o.replayer.Replay(fixtures, settings, backtest.Options{})
	metrics.RecordReplay(result.Fixtures, time.Since(start).Seconds())
	if o.cache != nil {
		o.cache.Set(key, result)
	}
	return result
}

// exhausted reports whether the search must stop before evaluating candidate i
func (o *Optimizer) exhausted(ctx context.Context, start time.Time, i int) bool {
	if ctx.Err() != nil {
		return true
	}
	if o.config.MaxCandidates > 0 && i > o.config.MaxCandidates {
		return true
	}
	return o.config.TimeBudget > 0 && time.Since(start) >= o.config.TimeBudget
}

func (o *Optimizer) logTrial(runID uuid.UUID, scope string, trial Trial) {
	metrics.RecordTrial(scope, trial.Qualified)
	o.logger.LogTrial(runID.String(), scope, trial.Index, trial.Evaluation.PickCount,
		trial.Evaluation.HitRate, trial.Evaluation.Coverage, trial.Qualified)
}

func (o *Optimizer) finish(result *Result, scope string, start time.Time) {
	rank(result)
	result.Duration = time.Since(start)
	metrics.RecordOptimization(scope, result.Duration.Seconds())
	o.logger.LogOptimization(result.RunID.String(), scope, len(result.Trials), result.Qualifying,
		result.MeetsCriteria, result.Truncated, float64(result.Duration.Milliseconds()))
}

// rank picks the best trial: qualifying trials first, then pick count,
// hit rate and coverage descending, then evaluation order
func rank(result *Result) {
	result.Qualifying = 0
	result.MeetsCriteria = false
	if len(result.Trials) == 0 {
		return
	}

	best := -1
	for i, trial := range result.Trials {
		if trial.Qualified {
			result.Qualifying++
		}
		if best < 0 || better(trial, result.Trials[best]) {
			best = i
		}
	}
	result.Best = result.Trials[best]
	result.MeetsCriteria = result.Best.Qualified
}

// better reports whether a outranks b
func better(a, b Trial) bool {
	if a.Qualified != b.Qualified {
		return a.Qualified
	}
	ea, eb := a.Evaluation, b.Evaluation
	if ea.PickCount != eb.PickCount {
		return ea.PickCount > eb.PickCount
	}
	if ea.HitRate != eb.HitRate {
		return ea.HitRate > eb.HitRate
	}
	if ea.Coverage != eb.Coverage {
		return ea.Coverage > eb.Coverage
	}
	return a.Index < b.Index
}

// leagueEvaluation collapses a replay into one evaluation over every graded fixture
func leagueEvaluation(replay *backtest.Result) models.TeamEvaluation {
	eval := models.TeamEvaluation{
		EvaluatedCount: replay.Graded,
		ByMarket:       make(map[string]models.MarketTally),
	}
	for _, pick := range replay.Trace {
		eval.PickCount++
		tally := eval.ByMarket[pick.MarketLabel]
		tally.Picks++
		if pick.Hit {
			eval.HitCount++
			tally.Hits++
		}
		eval.ByMarket[pick.MarketLabel] = tally
	}
	eval.Finalize()
	return eval
}

// TeamsOf returns every team appearing in the fixtures in ascending id order
func TeamsOf(fixtures []models.Fixture) []int64 {
	seen := make(map[int64]bool)
	var teams []int64
	for _, f := range fixtures {
		for _, id := range []int64{f.HomeTeamID, f.AwayTeamID} {
			if !seen[id] {
				seen[id] = true
				teams = append(teams, id)
			}
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })
	return teams
}

func competitionOf(fixtures []models.Fixture) int64 {
	if len(fixtures) == 0 {
		return 0
	}
	return fixtures[0].CompetitionID
}
