// Package population computes the size of a lanternfish population after a
// number of days.
//
// Every individual carries a counter in [0, 8]. Each day the counter drops by
// one; an individual whose counter is 0 resets to 6 and spawns a newborn with
// counter 8. Two strategies compute the total population and must agree:
//
//   - BucketSimulator advances nine per-counter buckets one day at a time.
//   - RecursiveCounter counts the descendants of each individual in closed
//     form, memoizing the sub-results for newborns.
//
// ParallelRecursive fans the recursive count out over the distinct counters
// of a population and shares one concurrency-safe memo table.
//
// Counts are uint64 and every addition is overflow-checked; an overflow
// surfaces as apperrors.OverflowError rather than a wrapped value.
package population
