package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// HitPoint represents the running hit rate after one graded pick
type HitPoint struct {
	Time       time.Time `json:"time"`
	FixtureID  int64     `json:"fixture_id"`
	Picks      int       `json:"picks"`
	Hits       int       `json:"hits"`
	HitRate    float64   `json:"hit_rate"`
	MissStreak int       `json:"miss_streak"`
}

// HitCurve is the cumulative hit rate over a replay's picks
type HitCurve []HitPoint

// BuildHitCurve accumulates the trace in order
func BuildHitCurve(trace []GradedPick) HitCurve {
	curve := make(HitCurve, 0, len(trace))
	hits, streak := 0, 0
	for i, pick := range trace {
		if pick.Hit {
			hits++
			streak = 0
		} else {
			streak++
		}
		curve = append(curve, HitPoint{
			Time:       pick.Date,
			FixtureID:  pick.FixtureID,
			Picks:      i + 1,
			Hits:       hits,
			HitRate:    float64(hits) / float64(i+1),
			MissStreak: streak,
		})
	}
	return curve
}

// LongestMissStreak returns the longest run of consecutive misses
func (c HitCurve) LongestMissStreak() int {
	longest := 0
	for _, point := range c {
		if point.MissStreak > longest {
			longest = point.MissStreak
		}
	}
	return longest
}

// MinHitRate returns the lowest running hit rate once at least warmup picks were made
func (c HitCurve) MinHitRate(warmup int) float64 {
	min := 1.0
	seen := false
	for _, point := range c {
		if point.Picks < warmup {
			continue
		}
		seen = true
		if point.HitRate < min {
			min = point.HitRate
		}
	}
	if !seen {
		return 0
	}
	return min
}

// ToCSV exports hit curve to CSV string
func (c HitCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,fixture_id,picks,hits,hit_rate,miss_streak\n")
	for _, point := range c {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatInt(point.FixtureID, 10))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(point.Picks))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(point.Hits))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.HitRate))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(point.MissStreak))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports hit curve to JSON string
func (c HitCurve) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
