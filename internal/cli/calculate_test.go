package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/lanterncalc/internal/config"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
)

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Days:       config.DayList{80, 256},
		Timeout:    time.Minute,
		SharedMemo: true,
	}

	PrintExecutionConfig(cfg, sampleCounters, &buf)

	out := buf.String()
	for _, want := range []string{"Population of 5 lanternfish: 3,4,3,1,2", "Simulating 80,256 days", "1m0s", "shared across queries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEchoCounters_Truncates(t *testing.T) {
	t.Parallel()
	counters := make([]population.Counter, maxEchoedCounters+5)
	if got := echoCounters(counters); !strings.HasSuffix(got, ",...") {
		t.Errorf("echoCounters() = %q, want a truncated list", got)
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	factory := population.NewDefaultFactory()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode(orchestration.GetCalculatorsToRun("bucket", factory), &buf)
		if !strings.Contains(buf.String(), "Single calculation with the Bucket Simulation") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("comparison", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode(orchestration.GetCalculatorsToRun(config.AlgoAll, factory), &buf)
		if !strings.Contains(buf.String(), "Parallel comparison of 3 strategies") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
