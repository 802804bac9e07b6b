package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/memo"
	"github.com/agbru/lanterncalc/internal/metrics"
	"github.com/agbru/lanterncalc/internal/sysmon"
)

// RunDetails gathers the verbose report printed after a CLI run. Nil
// pointers are skipped.
type RunDetails struct {
	Memo    *memo.Stats
	Metrics *metrics.Summary
	Memory  *metrics.MemoryDelta
	Host    *sysmon.HostInfo
	Load    *sysmon.Stats
}

// DisplayDetails prints the memo, metrics, memory and host sections of d.
func DisplayDetails(d RunDetails, out io.Writer) {
	if d.Memo != nil {
		fmt.Fprintf(out, "\nMemo cache:\n")
		fmt.Fprintf(out, "  Entries:   %d\n", d.Memo.Entries)
		fmt.Fprintf(out, "  Hits:      %d\n", d.Memo.Hits)
		fmt.Fprintf(out, "  Misses:    %d\n", d.Memo.Misses)
		fmt.Fprintf(out, "  Hit ratio: %.1f%%\n", d.Memo.HitRatio()*100)
	}
	if d.Metrics != nil {
		fmt.Fprintf(out, "\nCalculations:\n")
		statuses := make([]string, 0, len(d.Metrics.Calculations))
		for s := range d.Metrics.Calculations {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Fprintf(out, "  %-14s %d\n", s+":", d.Metrics.Calculations[s])
		}
	}
	if d.Memory != nil {
		fmt.Fprintf(out, "\nMemory:\n")
		fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(d.Memory.HeapAlloc))
		fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(d.Memory.Allocated))
		fmt.Fprintf(out, "  GC cycles:       %d\n", d.Memory.GCCycles)
	}
	if d.Host != nil {
		fmt.Fprintf(out, "\nHost:\n")
		if d.Host.Platform != "" {
			fmt.Fprintf(out, "  Platform:  %s\n", d.Host.Platform)
		}
		if d.Host.CPUModel != "" {
			fmt.Fprintf(out, "  CPU:       %s\n", d.Host.CPUModel)
		}
		fmt.Fprintf(out, "  Cores:     %d\n", d.Host.LogicalCPUs)
		if d.Host.TotalMemBytes > 0 {
			fmt.Fprintf(out, "  Memory:    %s\n", format.FormatBytes(d.Host.TotalMemBytes))
		}
	}
	if d.Load != nil {
		fmt.Fprintf(out, "  CPU load:  %.1f%%\n", d.Load.CPUPercent)
		fmt.Fprintf(out, "  Mem used:  %.1f%%\n", d.Load.MemPercent)
	}
}
