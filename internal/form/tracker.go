package form

import "github.com/yourusername/formcast/internal/models"

type windowKey struct {
	teamID int64
	venue  models.Venue
}

// Tracker holds one rolling window per (team, venue)
type Tracker struct {
	windowSize int
	windows    map[windowKey]*Window
}

// NewTracker creates a tracker whose windows hold at most windowSize matches
func NewTracker(windowSize int) *Tracker {
	return &Tracker{
		windowSize: windowSize,
		windows:    make(map[windowKey]*Window),
	}
}

// Record pushes a played fixture into the home team's home window and the away team's away window
func (t *Tracker) Record(fixture models.Fixture) {
	if !fixture.IsPlayed() {
		return
	}
	home, away := fixture.Score()
	t.window(fixture.HomeTeamID, models.VenueHome).Add(home, away, t.windowSize)
	t.window(fixture.AwayTeamID, models.VenueAway).Add(away, home, t.windowSize)
}

// Window returns the team's window at a venue. The result is never nil.
func (t *Tracker) Window(teamID int64, venue models.Venue) *Window {
	if w, ok := t.windows[windowKey{teamID: teamID, venue: venue}]; ok {
		return w
	}
	return &Window{}
}

// WindowSize returns the configured window capacity
func (t *Tracker) WindowSize() int {
	return t.windowSize
}

func (t *Tracker) window(teamID int64, venue models.Venue) *Window {
	key := windowKey{teamID: teamID, venue: venue}
	w, ok := t.windows[key]
	if !ok {
		w = &Window{}
		t.windows[key] = w
	}
	return w
}
