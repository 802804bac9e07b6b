// Command generate-golden writes reference population totals for the
// population package tests. Totals come from a naive simulation that shares
// no code with the strategies under test: short horizons age every fish
// individually, longer ones run the nine-bucket recurrence on big.Int so
// that totals past 64 bits stay exact.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/population/testdata/golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	resetCounter   = 6
	newbornCounter = 8

	// listSimulationMaxDays bounds the fish-by-fish simulation, whose
	// memory grows with the population.
	listSimulationMaxDays = 100
)

// GoldenCase is one entry of the golden file.
type GoldenCase struct {
	Counters string `json:"counters"`
	Days     int    `json:"days"`
	// Total is decimal so that it can exceed 64 bits.
	Total string `json:"total"`
	// Overflow is set when Total does not fit in a uint64.
	Overflow bool `json:"overflow"`
}

func main() {
	out := flag.String("out", filepath.Join("internal", "population", "testdata", "golden.json"), "Destination file.")
	flag.Parse()

	data, err := json.MarshalIndent(buildCases(), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

// buildCases lists the populations and day counts of the golden file.
func buildCases() []GoldenCase {
	var cases []GoldenCase
	add := func(counters []int, days ...int) {
		for _, d := range days {
			total := oracle(counters, d)
			cases = append(cases, GoldenCase{
				Counters: join(counters),
				Days:     d,
				Total:    total.String(),
				Overflow: !total.IsUint64(),
			})
		}
	}

	add([]int{3, 4, 3, 1, 2}, 0, 1, 2, 18, 80, 256, 400, 1000, 4000)
	for c := 0; c <= newbornCounter; c++ {
		add([]int{c}, 0, 1, 7, 8, 9, 18, 50, 100, 256)
	}
	add([]int{8, 8, 8, 0, 0, 1, 2, 3, 4, 5, 6, 7}, 30, 150, 300)
	add([]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 64, 128)
	return cases
}

// oracle returns the population of counters after days days.
func oracle(counters []int, days int) *big.Int {
	if days <= listSimulationMaxDays {
		return big.NewInt(int64(len(simulateList(counters, days))))
	}
	return simulateBig(counters, days)
}

// simulateList ages each fish one day at a time.
func simulateList(counters []int, days int) []int {
	fish := append([]int(nil), counters...)
	for range days {
		n := len(fish)
		for i := 0; i < n; i++ {
			if fish[i] == 0 {
				fish[i] = resetCounter
				fish = append(fish, newbornCounter)
			} else {
				fish[i]--
			}
		}
	}
	return fish
}

// simulateBig runs the bucket recurrence with arbitrary precision.
func simulateBig(counters []int, days int) *big.Int {
	var buckets [newbornCounter + 1]*big.Int
	for i := range buckets {
		buckets[i] = new(big.Int)
	}
	for _, c := range counters {
		buckets[c].Add(buckets[c], big.NewInt(1))
	}
	for range days {
		spawning := buckets[0]
		copy(buckets[:], buckets[1:])
		buckets[newbornCounter] = new(big.Int).Set(spawning)
		buckets[resetCounter] = new(big.Int).Add(buckets[resetCounter], spawning)
	}
	total := new(big.Int)
	for _, b := range buckets {
		total.Add(total, b)
	}
	return total
}

func join(counters []int) string {
	parts := make([]string, len(counters))
	for i, c := range counters {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}
