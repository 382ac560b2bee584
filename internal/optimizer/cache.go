package optimizer

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
)

// ReplayKey identifies a replay by value: the fixture history and the settings it ran with
type ReplayKey struct {
	History  string
	Settings string
}

// NewReplayKey builds a key from a history fingerprint and settings
func NewReplayKey(history string, settings models.AlgoSettings) ReplayKey {
	return ReplayKey{History: history, Settings: settings.Fingerprint()}
}

// String returns string representation of the key
func (k ReplayKey) String() string {
	return k.History + ":" + k.Settings
}

// HistoryFingerprint hashes the fields of every fixture a replay reads.
// Order matters only through the fixtures' own dates and ids.
func HistoryFingerprint(fixtures []models.Fixture) string {
	h := sha256.New()
	buf := make([]byte, 8)
	write := func(v int64) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	writeOpt := func(v *int) {
		if v == nil {
			write(-1)
			return
		}
		write(int64(*v))
	}

	for _, f := range backtest.SortFixtures(fixtures) {
		write(f.ID)
		if f.Date == nil {
			write(-1)
		} else {
			write(f.Date.UnixNano())
		}
		write(f.CompetitionID)
		write(f.HomeTeamID)
		write(f.AwayTeamID)
		writeOpt(f.GoalsHome)
		writeOpt(f.GoalsAway)
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}

// ReplayCache memoizes replay results across searches
type ReplayCache struct {
	cache  *cache.Cache
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewReplayCache creates a new replay cache
func NewReplayCache(ttl time.Duration) *ReplayCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ReplayCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached replay result. Cached results carry no rolling state.
func (rc *ReplayCache) Get(key ReplayKey) (*backtest.Result, bool) {
	if value, found := rc.cache.Get(key.String()); found {
		if result, ok := value.(*backtest.Result); ok {
			rc.hits.Add(1)
			metrics.RecordReplayCacheLookup(true)
			return result, true
		}
	}
	rc.misses.Add(1)
	metrics.RecordReplayCacheLookup(false)
	return nil, false
}

// Set stores a replay result. The rolling state is dropped before caching.
func (rc *ReplayCache) Set(key ReplayKey, result *backtest.Result) {
	if result == nil {
		return
	}
	stored := *result
	stored.State = nil
	rc.cache.Set(key.String(), &stored, rc.ttl)
}

// Stats returns hit and miss counts
func (rc *ReplayCache) Stats() (hits, misses uint64) {
	return rc.hits.Load(), rc.misses.Load()
}

// Flush removes every cached result
func (rc *ReplayCache) Flush() {
	rc.cache.Flush()
}
