// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResults], [DisplayDetails].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultsToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the results (empty for no file output).
	OutputFile string
	// Quiet prints one line per day count.
	Quiet bool
	// JSON prints a JSON document instead of the report.
	JSON bool
}

// DisplayResult prints the agreed population of one query.
func DisplayResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n%sResult after %d days:%s\n", ui.ColorBold(), result.Days, ui.ColorReset())
	fmt.Fprintf(out, "  Population:       %s%s%s\n", ui.ColorGreen(), format.FormatCount(result.Total), ui.ColorReset())
	if opts.Verbose {
		fmt.Fprintf(out, "  Raw value:        %d\n", result.Total)
	}
	if opts.Details {
		fmt.Fprintf(out, "  Fastest strategy: %s%s%s\n", ui.ColorCyan(), result.Name, ui.ColorReset())
		fmt.Fprintf(out, "  Calculation time: %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(result.Duration), ui.ColorReset())
		if opts.PopulationSize > 0 {
			growth := float64(result.Total) / float64(opts.PopulationSize)
			fmt.Fprintf(out, "  Initial size:     %d\n", opts.PopulationSize)
			fmt.Fprintf(out, "  Growth factor:    x%s\n", strconv.FormatFloat(growth, 'g', 6, 64))
		}
	}
}

// FormatQuietResult renders one query as "days<TAB>total". A query with no
// agreed total renders its error instead.
func FormatQuietResult(q orchestration.QueryResults) string {
	best, err := orchestration.Consensus(q.Results)
	if err != nil {
		return fmt.Sprintf("%d\terror: %v", q.Days, err)
	}
	return fmt.Sprintf("%d\t%d", q.Days, best.Total)
}

// DisplayQuietResults prints one line per query.
func DisplayQuietResults(queries []orchestration.QueryResults, out io.Writer) {
	for _, q := range queries {
		fmt.Fprintln(out, FormatQuietResult(q))
	}
}

// StrategyReport is the JSON view of one strategy run.
type StrategyReport struct {
	Strategy   string `json:"strategy"`
	Total      uint64 `json:"total,omitempty"`
	DurationNS int64  `json:"duration_ns"`
	Error      string `json:"error,omitempty"`
}

// QueryReport is the JSON view of one day count.
type QueryReport struct {
	Days       int              `json:"days"`
	Total      uint64           `json:"total"`
	Consistent bool             `json:"consistent"`
	Error      string           `json:"error,omitempty"`
	Strategies []StrategyReport `json:"strategies"`
}

// Report is the JSON document produced by --json and written by --output.
type Report struct {
	Population string        `json:"population"`
	Size       int           `json:"size"`
	Generated  time.Time     `json:"generated"`
	Queries    []QueryReport `json:"queries"`
}

// BuildReport converts query results into a Report.
func BuildReport(counters []population.Counter, queries []orchestration.QueryResults) Report {
	r := Report{
		Population: population.FormatCounters(counters),
		Size:       len(counters),
		Generated:  time.Now().UTC(),
		Queries:    make([]QueryReport, 0, len(queries)),
	}
	for _, q := range queries {
		qr := QueryReport{Days: q.Days, Strategies: make([]StrategyReport, 0, len(q.Results))}
		if best, err := orchestration.Consensus(q.Results); err != nil {
			qr.Error = err.Error()
		} else {
			qr.Total = best.Total
			qr.Consistent = true
		}
		for _, res := range q.Results {
			sr := StrategyReport{Strategy: res.Name, Total: res.Total, DurationNS: res.Duration.Nanoseconds()}
			if res.Err != nil {
				sr.Error = res.Err.Error()
			}
			qr.Strategies = append(qr.Strategies, sr)
		}
		r.Queries = append(r.Queries, qr)
	}
	return r
}

// DisplayJSON prints the report as indented JSON.
func DisplayJSON(counters []population.Counter, queries []orchestration.QueryResults, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(counters, queries))
}

// WriteResultsToFile writes the results to path as a commented text file,
// or as JSON when path ends in ".json". Missing directories are created.
func WriteResultsToFile(counters []population.Counter, queries []orchestration.QueryResults, path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if filepath.Ext(path) == ".json" {
		return DisplayJSON(counters, queries, file)
	}

	fmt.Fprintf(file, "# Lanternfish Population Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Population: %s\n", population.FormatCounters(counters))
	fmt.Fprintf(file, "# Size: %d\n", len(counters))
	fmt.Fprintf(file, "\n")
	for _, q := range queries {
		fmt.Fprintln(file, FormatQuietResult(q))
	}
	return nil
}

// DisplayResultsWithConfig prints the results in the mode selected by cfg
// and saves them to the output file when one is set.
func DisplayResultsWithConfig(counters []population.Counter, queries []orchestration.QueryResults, cfg OutputConfig, out io.Writer) error {
	switch {
	case cfg.JSON:
		if err := DisplayJSON(counters, queries, out); err != nil {
			return err
		}
	case cfg.Quiet:
		DisplayQuietResults(queries, out)
	}

	if cfg.OutputFile != "" {
		if err := WriteResultsToFile(counters, queries, cfg.OutputFile); err != nil {
			return err
		}
		if !cfg.Quiet && !cfg.JSON {
			fmt.Fprintf(out, "\n%sResults saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
