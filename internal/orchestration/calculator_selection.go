package orchestration

import (
	"strings"

	"github.com/agbru/lanterncalc/internal/population"
)

// AlgoAll selects every registered strategy.
const AlgoAll = "all"

// GetCalculatorsToRun resolves an algorithm selection against the factory.
// "all" yields every registered calculator in name order; an unknown name
// yields nil.
func GetCalculatorsToRun(algo string, factory population.CalculatorFactory) []population.Calculator {
	algo = strings.ToLower(strings.TrimSpace(algo))
	if algo == AlgoAll {
		keys := factory.List()
		calculators := make([]population.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []population.Calculator{calc}
	}
	return nil
}
