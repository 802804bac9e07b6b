package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/lanterncalc/internal/config"
	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/progress"
	"github.com/agbru/lanterncalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the strategy used by "days"; "all" picks the first one.
	DefaultAlgo string
	// Timeout is the maximum duration of each command.
	Timeout time.Duration
	// Counters is the initial population.
	Counters []population.Counter
}

// REPL is an interactive session over one population. Queries share the
// persistent memo of cache, so repeated day counts get cheaper.
type REPL struct {
	config      REPLConfig
	factory     population.CalculatorFactory
	cache       *population.CachedRecursive
	observer    orchestration.ResultObserver
	currentAlgo string
	counters    []population.Counter
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance. cache may be nil, in which case the
// memo statistics and the "fish" command are unavailable.
func NewREPL(factory population.CalculatorFactory, cache *population.CachedRecursive, cfg REPLConfig) *REPL {
	currentAlgo := strings.ToLower(cfg.DefaultAlgo)
	if currentAlgo == "" || currentAlgo == config.AlgoAll {
		if names := factory.List(); len(names) > 0 {
			currentAlgo = names[0]
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}

	return &REPL{
		config:      cfg,
		factory:     factory,
		cache:       cache,
		currentAlgo: currentAlgo,
		counters:    cfg.Counters,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// SetObserver reports every calculation of the session to o.
func (r *REPL) SetObserver(o orchestration.ResultObserver) {
	r.observer = o
}

// Start reads and executes commands until "exit", EOF or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"fish> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.out, ui.KeyValueBox("Lanternfish Calculator - Interactive Mode", [][2]string{
		{"Population", fmt.Sprintf("%d fish", len(r.counters))},
		{"Strategy", r.currentAlgo},
		{"Timeout", r.config.Timeout.String()},
	}))
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdays <n>%s         - Population after n days with the current strategy\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s      - Change strategy (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %scompare <n>%s      - Compare all strategies after n days\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spop <list>%s       - Replace the population, e.g. pop 3,4,3,1,2\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfish <c> <n>%s     - Descendants of one fish with counter c after n days\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s             - List available strategies\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s           - Display the session state\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s             - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s      - Leave interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) getAlgoList() string {
	return strings.Join(r.factory.List(), ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "days", "d":
		r.cmdDays(ctx, args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(ctx, args)
	case "pop", "p":
		r.cmdPop(args)
	case "fish", "f":
		r.cmdFish(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// A bare number is a shortcut for "days <n>".
		if _, err := strconv.Atoi(cmd); err == nil {
			r.cmdDays(ctx, []string{cmd})
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}

	return true
}

// parseDays reads the day count of a command, printing usage on failure.
func (r *REPL) parseDays(usage string, args []string) (int, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
		return 0, false
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days < 0 || days > config.MaxDays {
		fmt.Fprintf(r.out, "%sInvalid day count: %s (expected 0..%d)%s\n", ui.ColorRed(), args[0], config.MaxDays, ui.ColorReset())
		return 0, false
	}
	return days, true
}

func (r *REPL) cmdDays(ctx context.Context, args []string) {
	if days, ok := r.parseDays("days <n>", args); ok {
		r.calculate(ctx, days)
	}
}

// calculate runs the current strategy on the session population.
func (r *REPL) calculate(ctx context.Context, days int) {
	if len(r.counters) == 0 {
		fmt.Fprintf(r.out, "%sNo population set. Use: pop <list>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	calc, err := r.factory.Get(r.currentAlgo)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Simulating %s%d%s days with %s%s%s...\n",
		ui.ColorMagenta(), days, ui.ColorReset(),
		ui.ColorCyan(), calc.Name(), ui.ColorReset())

	progressChan := make(chan progress.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	total, err := calc.Calculate(ctx, progressChan, 0, r.counters, days)
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if r.observer != nil {
		r.observer.ObserveCalculation(calc.Name(), duration, total, err)
	}
	if err != nil {
		CLIResultPresenter{}.HandleError(err, duration, r.out)
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:       %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Population: %s%s%s\n", ui.ColorGreen(), format.FormatCount(total), ui.ColorReset())
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", r.getAlgoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

// cmdCompare runs every strategy concurrently and checks that they agree.
func (r *REPL) cmdCompare(ctx context.Context, args []string) {
	days, ok := r.parseDays("compare <n>", args)
	if !ok {
		return
	}
	if len(r.counters) == 0 {
		fmt.Fprintf(r.out, "%sNo population set. Use: pop <list>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	calculators := orchestration.GetCalculatorsToRun(config.AlgoAll, r.factory)
	var opts []orchestration.Option
	if r.observer != nil {
		opts = append(opts, orchestration.WithObserver(r.observer))
	}
	results := orchestration.ExecuteCalculations(ctx, calculators, r.counters, days,
		orchestration.NullProgressReporter{}, r.out, opts...)

	fmt.Fprintf(r.out, "\n%sComparison after %d days:%s\n", ui.ColorBold(), days, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	best, consensusErr := orchestration.Consensus(results)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(r.out, "  %s%-34s%s: %sError - %v%s\n",
				ui.ColorYellow(), res.Name, ui.ColorReset(),
				ui.ColorRed(), res.Err, ui.ColorReset())
			continue
		}
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if consensusErr != nil {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-34s%s: %s%10s%s %s %s\n",
			ui.ColorYellow(), res.Name, ui.ColorReset(),
			ui.ColorCyan(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(),
			format.FormatCount(res.Total), status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())
	if consensusErr == nil {
		fmt.Fprintf(r.out, "Population: %s%s%s\n\n", ui.ColorGreen(), format.FormatCount(best.Total), ui.ColorReset())
	} else {
		CLIResultPresenter{}.HandleError(consensusErr, 0, r.out)
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) cmdPop(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: pop <list>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	counters, err := population.ParseCounters(strings.Join(args, ""))
	if err != nil {
		CLIResultPresenter{}.HandleError(err, 0, r.out)
		return
	}
	r.counters = counters
	fmt.Fprintf(r.out, "Population set to %s%d%s fish.\n", ui.ColorGreen(), len(counters), ui.ColorReset())
}

// cmdFish counts the descendants of a single fish through the persistent
// memo.
func (r *REPL) cmdFish(args []string) {
	if r.cache == nil {
		fmt.Fprintf(r.out, "%sThe fish command needs the persistent memo.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if len(args) < 2 {
		fmt.Fprintf(r.out, "%sUsage: fish <counter> <days>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	counters, err := population.ParseCounters(args[0])
	if err != nil || len(counters) != 1 {
		fmt.Fprintf(r.out, "%sInvalid counter: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	days, ok := r.parseDays("fish <counter> <days>", args[1:])
	if !ok {
		return
	}
	n, err := r.cache.Counter().Descendants(counters[0], days)
	if err != nil {
		CLIResultPresenter{}.HandleError(err, 0, r.out)
		return
	}
	fmt.Fprintf(r.out, "One fish at %d gives %s%s%s fish after %d days.\n",
		counters[0], ui.ColorGreen(), format.FormatCount(n), ui.ColorReset(), days)
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), calc.Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	rows := [][2]string{
		{"Strategy", r.currentAlgo},
		{"Timeout", r.config.Timeout.String()},
		{"Population", fmt.Sprintf("%d fish", len(r.counters))},
	}
	if len(r.counters) > 0 {
		rows = append(rows, [2]string{"Counters", echoCounters(r.counters)})
	}
	if r.cache != nil {
		st := r.cache.MemoStats()
		rows = append(rows,
			[2]string{"Memo entries", strconv.Itoa(st.Entries)},
			[2]string{"Memo hit ratio", fmt.Sprintf("%.1f%%", st.HitRatio()*100)},
		)
	}
	fmt.Fprintln(r.out, ui.KeyValueBox("Session", rows))
}
