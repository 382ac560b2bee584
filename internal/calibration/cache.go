// Package calibration compares model probabilities with historical bookmaker
// odds to derive per-line calibration multipliers.
package calibration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"golang.org/x/time/rate"
)

// DefaultBatchSize is the number of fixtures per odds request
const DefaultBatchSize = 200

// OddsSource loads historical odds snapshots
type OddsSource interface {
	GetByFixtureIDs(ctx context.Context, fixtureIDs []int64) ([]models.OddsSnapshot, error)
}

// OddsCache holds odds snapshots in memory so calibration never waits on I/O
type OddsCache struct {
	mu        sync.RWMutex
	byFixture map[int64][]models.OddsSnapshot
	loaded    map[int64]bool
	limiter   *rate.Limiter
}

// NewOddsCache creates an odds cache whose prefetch is limited to requestsPerSecond batches.
// A non-positive rate disables limiting.
func NewOddsCache(requestsPerSecond float64, burst int) *OddsCache {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &OddsCache{
		byFixture: make(map[int64][]models.OddsSnapshot),
		loaded:    make(map[int64]bool),
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Prefetch loads odds for every fixture not already cached, batchSize fixtures per request
func (c *OddsCache) Prefetch(ctx context.Context, source OddsSource, fixtureIDs []int64, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	pending := c.missing(fixtureIDs)

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("odds prefetch rate limiter: %w", err)
		}
		snapshots, err := source.GetByFixtureIDs(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to prefetch odds for %d fixtures: %w", len(batch), err)
		}
		metrics.RecordOddsFetched(len(snapshots))

		c.mu.Lock()
		for _, id := range batch {
			c.loaded[id] = true
		}
		c.mu.Unlock()
		c.Add(snapshots...)
	}
	return nil
}

// Add stores snapshots directly, for odds read from files
func (c *OddsCache) Add(snapshots ...models.OddsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range snapshots {
		c.byFixture[s.FixtureID] = append(c.byFixture[s.FixtureID], s)
		c.loaded[s.FixtureID] = true
	}
}

// Snapshots returns the cached snapshots of a fixture
func (c *OddsCache) Snapshots(fixtureID int64) []models.OddsSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byFixture[fixtureID]
}

// Len returns the number of fixtures with at least one snapshot
func (c *OddsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byFixture)
}

func (c *OddsCache) missing(fixtureIDs []int64) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[int64]bool, len(fixtureIDs))
	out := make([]int64, 0, len(fixtureIDs))
	for _, id := range fixtureIDs {
		if seen[id] || c.loaded[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
