package form

import "github.com/yourusername/formcast/internal/models"

// State is the rolling form and league baselines of one replay.
// It is owned by a single goroutine.
type State struct {
	Form     *Tracker
	Leagues  *BaselineTracker
	Recorded int
}

// NewState creates empty replay state
func NewState(windowSize int) *State {
	return &State{
		Form:    NewTracker(windowSize),
		Leagues: NewBaselineTracker(),
	}
}

// Record applies a played fixture's result. Unplayed fixtures are ignored.
func (s *State) Record(fixture models.Fixture) bool {
	if !fixture.IsPlayed() {
		return false
	}
	s.Form.Record(fixture)
	s.Leagues.Record(fixture)
	s.Recorded++
	return true
}
