package form

import (
	"math"
	"testing"
)

func TestWindowAddEvictsOldest(t *testing.T) {
	w := &Window{}
	for i := 0; i < 15; i++ {
		w.Add(i, 0, 10)
	}
	if w.Len() != 10 {
		t.Fatalf("expected 10 entries, got %d", w.Len())
	}
	entries := w.Entries()
	for i, e := range entries {
		if e.GoalsFor != i+5 {
			t.Fatalf("entry %d: expected goals for %d, got %d", i, i+5, e.GoalsFor)
		}
	}
}

func TestWeightedAverageUniformData(t *testing.T) {
	w := &Window{}
	for i := 0; i < 10; i++ {
		w.Add(2, 1, 10)
	}
	avg := w.WeightedAverage(5, []float64{1, 0.5})
	if math.Abs(avg.GoalsFor-2.0) > 1e-12 || math.Abs(avg.GoalsAgainst-1.0) > 1e-12 {
		t.Fatalf("expected 2.0/1.0, got %f/%f", avg.GoalsFor, avg.GoalsAgainst)
	}
	if avg.N != 10 {
		t.Fatalf("expected n=10, got %d", avg.N)
	}
}

func TestWeightedAverageFavoursRecentBucket(t *testing.T) {
	w := &Window{}
	// oldest bucket scores 0, most recent bucket scores 3
	for i := 0; i < 3; i++ {
		w.Add(0, 0, 10)
	}
	for i := 0; i < 3; i++ {
		w.Add(3, 0, 10)
	}
	avg := w.WeightedAverage(3, []float64{1, 0.5})
	// (3*3*1 + 0) / (3*1 + 3*0.5) = 9 / 4.5
	if math.Abs(avg.GoalsFor-2.0) > 1e-12 {
		t.Fatalf("expected 2.0, got %f", avg.GoalsFor)
	}
}

func TestWeightedAverageRepeatsLastWeight(t *testing.T) {
	w := &Window{}
	w.Add(4, 0, 10)
	w.Add(0, 0, 10)
	w.Add(0, 0, 10)
	// buckets of 1: weights 1, 0.5, 0.5 (repeated)
	avg := w.WeightedAverage(1, []float64{1, 0.5})
	if math.Abs(avg.GoalsFor-1.0) > 1e-12 {
		t.Fatalf("expected 1.0, got %f", avg.GoalsFor)
	}
}

func TestWeightedAverageEmptyWindow(t *testing.T) {
	var w *Window
	avg := w.WeightedAverage(5, []float64{1})
	if avg.N != 0 || avg.GoalsFor != 0 || avg.GoalsAgainst != 0 {
		t.Fatalf("expected zero averages, got %+v", avg)
	}
}

func TestWeightedAverageZeroWeightsFallsBackToMean(t *testing.T) {
	w := &Window{}
	w.Add(1, 3, 10)
	w.Add(3, 1, 10)
	avg := w.WeightedAverage(5, []float64{0})
	if math.Abs(avg.GoalsFor-2.0) > 1e-12 || math.Abs(avg.GoalsAgainst-2.0) > 1e-12 {
		t.Fatalf("expected unweighted mean, got %+v", avg)
	}
}

func TestWeightedRates(t *testing.T) {
	w := &Window{}
	w.Add(2, 0, 10)
	w.Add(1, 1, 10)
	w.Add(0, 1, 10)
	w.Add(3, 1, 10)
	rates := w.WeightedRates(4, []float64{1})
	if math.Abs(rates.Win-0.5) > 1e-12 || math.Abs(rates.Draw-0.25) > 1e-12 || math.Abs(rates.Loss-0.25) > 1e-12 {
		t.Fatalf("unexpected rates %+v", rates)
	}
	if math.Abs(rates.Win+rates.Draw+rates.Loss-1) > 1e-12 {
		t.Fatalf("rates do not sum to 1")
	}
}
