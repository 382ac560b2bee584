package form

// Entry is one match seen from a team's side
type Entry struct {
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// Averages are recency-weighted goal averages over a window
type Averages struct {
	GoalsFor     float64
	GoalsAgainst float64
	N            int
}

// Rates are recency-weighted win/draw/loss frequencies over a window
type Rates struct {
	Win  float64
	Draw float64
	Loss float64
	N    int
}

// Window is a bounded FIFO of a team's most recent matches at one venue.
// The oldest entry is at index 0.
type Window struct {
	entries []Entry
}

// Add appends a match to the tail, evicting the oldest entries beyond windowSize
func (w *Window) Add(goalsFor, goalsAgainst, windowSize int) {
	if windowSize < 1 {
		windowSize = 1
	}
	w.entries = append(w.entries, Entry{GoalsFor: goalsFor, GoalsAgainst: goalsAgainst})
	if overflow := len(w.entries) - windowSize; overflow > 0 {
		w.entries = append(w.entries[:0], w.entries[overflow:]...)
	}
}

// Len returns the number of matches currently held
func (w *Window) Len() int {
	if w == nil {
		return 0
	}
	return len(w.entries)
}

// Entries returns a copy of the window, oldest first
func (w *Window) Entries() []Entry {
	if w == nil {
		return nil
	}
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// WeightedAverage returns bucket-weighted goals-for and goals-against averages.
// Buckets of bucketSize are counted from the most recent match backward and
// bucket i takes weights[i]; the final weight repeats for older buckets.
func (w *Window) WeightedAverage(bucketSize int, weights []float64) Averages {
	n := w.Len()
	if n == 0 {
		return Averages{}
	}

	var gf, ga, norm float64
	w.eachWeighted(bucketSize, weights, func(e Entry, weight float64) {
		gf += weight * float64(e.GoalsFor)
		ga += weight * float64(e.GoalsAgainst)
		norm += weight
	})
	if norm <= 0 {
		w.eachWeighted(bucketSize, []float64{1}, func(e Entry, weight float64) {
			gf += float64(e.GoalsFor)
			ga += float64(e.GoalsAgainst)
			norm++
		})
	}

	return Averages{GoalsFor: gf / norm, GoalsAgainst: ga / norm, N: n}
}

// WeightedRates returns bucket-weighted win, draw and loss frequencies
func (w *Window) WeightedRates(bucketSize int, weights []float64) Rates {
	n := w.Len()
	if n == 0 {
		return Rates{}
	}

	var win, draw, loss, norm float64
	tally := func(e Entry, weight float64) {
		switch {
		case e.GoalsFor > e.GoalsAgainst:
			win += weight
		case e.GoalsFor < e.GoalsAgainst:
			loss += weight
		default:
			draw += weight
		}
		norm += weight
	}
	w.eachWeighted(bucketSize, weights, tally)
	if norm <= 0 {
		w.eachWeighted(bucketSize, []float64{1}, tally)
	}

	return Rates{Win: win / norm, Draw: draw / norm, Loss: loss / norm, N: n}
}

func (w *Window) eachWeighted(bucketSize int, weights []float64, fn func(Entry, float64)) {
	if bucketSize < 1 {
		bucketSize = 1
	}
	last := len(w.entries) - 1
	for i := last; i >= 0; i-- {
		bucket := (last - i) / bucketSize
		fn(w.entries[i], weightAt(weights, bucket))
	}
}

func weightAt(weights []float64, bucket int) float64 {
	if len(weights) == 0 {
		return 1
	}
	if bucket >= len(weights) {
		bucket = len(weights) - 1
	}
	if weights[bucket] < 0 {
		return 0
	}
	return weights[bucket]
}
