package progress

import "testing"

func TestReport_NilReporter(t *testing.T) {
	t.Parallel()
	// Must not panic.
	Report(nil, 0.5)
	ReportDayProgress(nil, 1, 10)
}

func TestReportDayProgress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		days      int
		wantCount int
		wantLast  float64
	}{
		{"short run reports every day", 10, 10, 1.0},
		{"long run is throttled", 1000, 100, 1.0},
		{"zero days reports nothing", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []float64
			reporter := func(v float64) { got = append(got, v) }
			for day := 1; day <= tt.days; day++ {
				ReportDayProgress(reporter, day, tt.days)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d updates, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount > 0 && got[len(got)-1] != tt.wantLast {
				t.Errorf("last update = %f, want %f", got[len(got)-1], tt.wantLast)
			}
		})
	}
}
