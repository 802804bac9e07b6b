package population

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDescendantsMatchesBucket_PropertyBased verifies that the closed-form
// count of one individual equals the bucket simulation of a population that
// holds only that individual.
func TestDescendantsMatchesBucket_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("descendants(c, d) == bucket([c], d)", prop.ForAll(
		func(c uint8, days int) bool {
			want, err := TotalAfter([]Counter{Counter(c)}, days)
			if err != nil {
				return false
			}
			got, err := NewRecursiveCounter().Descendants(Counter(c), days)
			if err != nil {
				return false
			}
			return got == want
		},
		gen.UInt8Range(0, uint8(MaxCounter)),
		gen.IntRange(0, 300),
	))

	properties.TestingRun(t)
}

// TestStrategiesAgree_PropertyBased runs every registered strategy on random
// populations and checks that they report the same total.
func TestStrategiesAgree_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	strategies := []Strategy{BucketSimulator{}, RecursiveStrategy{}, ParallelRecursive{}}

	properties.Property("all strategies agree", prop.ForAll(
		func(raw []uint8, days int) bool {
			counters := make([]Counter, len(raw))
			for i, v := range raw {
				counters[i] = Counter(v)
			}
			var first uint64
			for i, s := range strategies {
				got, err := s.Compute(context.Background(), nil, counters, days)
				if err != nil {
					t.Logf("%s failed: %v", s.Name(), err)
					return false
				}
				if i == 0 {
					first = got
				} else if got != first {
					t.Logf("%s = %d, %s = %d", s.Name(), got, strategies[0].Name(), first)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8Range(0, uint8(MaxCounter))),
		gen.IntRange(0, LongQueryDays),
	))

	properties.TestingRun(t)
}

// TestMonotonicity_PropertyBased verifies that adding a day never shrinks the
// population.
func TestMonotonicity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("descendants(c, d) <= descendants(c, d+1)", prop.ForAll(
		func(c uint8, days int) bool {
			rc := NewRecursiveCounter()
			a, errA := rc.Descendants(Counter(c), days)
			b, errB := rc.Descendants(Counter(c), days+1)
			return errA == nil && errB == nil && a <= b
		},
		gen.UInt8Range(0, uint8(MaxCounter)),
		gen.IntRange(0, 299),
	))

	properties.TestingRun(t)
}
