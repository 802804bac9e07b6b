package main

import (
	"math/big"
	"testing"
)

// TestOracle_KnownValues checks the oracle against hand-verified totals.
func TestOracle_KnownValues(t *testing.T) {
	sample := []int{3, 4, 3, 1, 2}
	tests := []struct {
		name     string
		counters []int
		days     int
		expected string
	}{
		{"empty population", nil, 10, "0"},
		{"no days", sample, 0, "5"},
		{"sample after 18 days", sample, 18, "26"},
		{"sample after 80 days", sample, 80, "5934"},
		{"sample after 256 days", sample, 256, "26984457539"},
		{"single spawner after 7 days", []int{0}, 7, "2"},
		{"single spawner after 8 days", []int{0}, 8, "3"},
		{"counter 3 after 18 days", []int{3}, 18, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := oracle(tt.counters, tt.days)
			if result.String() != tt.expected {
				t.Errorf("oracle(%v, %d) = %s, want %s", tt.counters, tt.days, result, tt.expected)
			}
		})
	}
}

// TestSimulations_Agree checks that both simulations give the same total
// wherever the list simulation is practical.
func TestSimulations_Agree(t *testing.T) {
	for c := 0; c <= newbornCounter; c++ {
		for days := 0; days <= 80; days++ {
			list := big.NewInt(int64(len(simulateList([]int{c}, days))))
			buckets := simulateBig([]int{c}, days)
			if list.Cmp(buckets) != 0 {
				t.Fatalf("counter %d after %d days: list=%s buckets=%s", c, days, list, buckets)
			}
		}
	}
}

func TestSimulateList_DoesNotAliasInput(t *testing.T) {
	in := []int{0, 1}
	simulateList(in, 3)
	if in[0] != 0 || in[1] != 1 {
		t.Errorf("simulateList modified its input: %v", in)
	}
}

func TestBuildCases(t *testing.T) {
	cases := buildCases()
	if len(cases) == 0 {
		t.Fatal("buildCases() returned nothing")
	}
	var overflowed, fits int
	for _, c := range cases {
		total, ok := new(big.Int).SetString(c.Total, 10)
		if !ok {
			t.Fatalf("case %s/%d: bad total %q", c.Counters, c.Days, c.Total)
		}
		if c.Overflow == total.IsUint64() {
			t.Errorf("case %s/%d: overflow=%v for total %s", c.Counters, c.Days, c.Overflow, c.Total)
		}
		if c.Overflow {
			overflowed++
		} else {
			fits++
		}
	}
	if overflowed == 0 || fits == 0 {
		t.Errorf("want both overflowing and fitting cases, got %d and %d", overflowed, fits)
	}
}
