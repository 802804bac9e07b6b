package orchestration

import (
	"testing"

	"github.com/agbru/lanterncalc/internal/progress"
)

func TestNewProgressAggregator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n         int
		wantNil   bool
		wantMulti bool
	}{
		{-1, true, false},
		{0, true, false},
		{1, false, false},
		{3, false, true},
	}
	for _, tt := range tests {
		agg := NewProgressAggregator(tt.n)
		if (agg == nil) != tt.wantNil {
			t.Fatalf("NewProgressAggregator(%d) nil = %v, want %v", tt.n, agg == nil, tt.wantNil)
		}
		if agg == nil {
			continue
		}
		if agg.NumCalculators() != tt.n || agg.IsMultiCalculator() != tt.wantMulti {
			t.Errorf("NewProgressAggregator(%d): n=%d multi=%v", tt.n, agg.NumCalculators(), agg.IsMultiCalculator())
		}
	}
}

func TestProgressAggregator_Update(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(3)
	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("ETA before updates = %v, want 0", eta)
	}

	ap := agg.Update(progress.ProgressUpdate{CalculatorIndex: 2, Value: 0.6})
	if ap.CalculatorIndex != 2 || ap.Value != 0.6 {
		t.Errorf("update echoed as %+v", ap)
	}
	if ap.AverageProgress < 0.199 || ap.AverageProgress > 0.201 {
		t.Errorf("AverageProgress = %f, want 0.2", ap.AverageProgress)
	}

	agg.Update(progress.ProgressUpdate{CalculatorIndex: 0, Value: 1})
	agg.Update(progress.ProgressUpdate{CalculatorIndex: 1, Value: 1})
	agg.Update(progress.ProgressUpdate{CalculatorIndex: 2, Value: 1})
	if avg := agg.CalculateAverage(); avg != 1 {
		t.Errorf("average when done = %f, want 1", avg)
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.ProgressUpdate, 4)
	for i := 0; i < 4; i++ {
		ch <- progress.ProgressUpdate{Value: float64(i) / 4}
	}
	close(ch)
	DrainChannel(ch)

	empty := make(chan progress.ProgressUpdate)
	close(empty)
	DrainChannel(empty)
}
