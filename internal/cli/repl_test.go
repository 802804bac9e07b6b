package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/lanterncalc/internal/population"
)

type countingObserver struct{ calls int }

func (c *countingObserver) ObserveCalculation(string, time.Duration, uint64, error) { c.calls++ }

func newTestREPL(t *testing.T, script string) (*REPL, *bytes.Buffer) {
	t.Helper()
	withMockSpinner(t)
	factory := population.NewDefaultFactory()
	cache := population.NewCachedRecursive()
	if err := factory.Register("recursive", func() population.Strategy { return cache }); err != nil {
		t.Fatal(err)
	}
	r := NewREPL(factory, cache, REPLConfig{DefaultAlgo: "all", Timeout: 5 * time.Second, Counters: sampleCounters})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(script))
	r.SetOutput(&out)
	return r, &out
}

func TestREPL_Session(t *testing.T) {
	r, out := newTestREPL(t, "days 80\nalgo recursive\n256\ncompare 18\nfish 3 18\nstatus\nexit\n")
	obs := &countingObserver{}
	r.SetObserver(obs)

	r.Start(context.Background())

	got := out.String()
	for _, want := range []string{
		"Interactive Mode",
		"Population: 5,934",
		"Strategy changed to: Recursive Count (persistent memo)",
		"Population: 26,984,457,539",
		"Comparison after 18 days",
		"Population: 26\n",
		"One fish at 3 gives 5 fish after 18 days.",
		"Memo entries",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("session output missing %q", want)
		}
	}
	if obs.calls != 5 {
		t.Errorf("observer saw %d calculations, want 5", obs.calls)
	}
}

func TestREPL_DefaultAlgoIsFirstRegistered(t *testing.T) {
	r, _ := newTestREPL(t, "")
	if r.currentAlgo != "bucket" {
		t.Errorf("currentAlgo = %q, want bucket", r.currentAlgo)
	}
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unknown command", "bogus\n", "Unknown command: bogus"},
		{"missing days", "days\n", "Usage: days <n>"},
		{"negative days", "days -1\n", "Invalid day count"},
		{"too many days", "compare 99999\n", "Invalid day count"},
		{"bare number too many days", "99999999\n", "Invalid day count: 99999999"},
		{"bare negative number", "-5\n", "Invalid day count: -5"},
		{"unknown algo", "algo magic\n", "Unknown strategy: magic"},
		{"bad population", "pop 3,9\n", "Invalid input"},
		{"bad fish", "fish x 3\n", "Invalid counter"},
		{"overflow", "days 4000\n", "reduce the number of days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestREPL(t, tt.script)
			r.Start(context.Background())
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestREPL_PopReplacesPopulation(t *testing.T) {
	r, out := newTestREPL(t, "pop 0\ndays 7\n")
	r.Start(context.Background())
	if !strings.Contains(out.String(), "Population set to 1 fish.") {
		t.Errorf("pop not acknowledged:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Population: 2\n") {
		t.Errorf("one fish at 0 should give 2 after 7 days:\n%s", out.String())
	}
}

func TestREPL_StopsOnCanceledContext(t *testing.T) {
	r, out := newTestREPL(t, "days 80\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Start(ctx)
	if strings.Contains(out.String(), "5,934") {
		t.Error("no command should run after cancellation")
	}
}
