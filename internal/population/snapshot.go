package population

// Snapshot holds the number of individuals per counter value. Index c is the
// count of individuals whose counter is c; all BucketCount keys are always
// present.
type Snapshot [BucketCount]uint64

// NewSnapshot buckets counters into a Snapshot.
func NewSnapshot(counters []Counter) (Snapshot, error) {
	var s Snapshot
	for _, c := range counters {
		if err := c.Validate(); err != nil {
			return Snapshot{}, err
		}
		s[c]++
	}
	return s, nil
}

// Total returns the sum of all buckets.
func (s Snapshot) Total() (uint64, error) {
	var total uint64
	for _, n := range s {
		var err error
		if total, err = addCount(total, n, "snapshot total"); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Step returns the snapshot one day after s. The result is built from an
// all-zero snapshot; s itself is never modified.
func Step(s Snapshot) (Snapshot, error) {
	var next Snapshot
	for c, n := range s {
		if n == 0 {
			continue
		}
		var err error
		if c == 0 {
			if next[ResetCounter], err = addCount(next[ResetCounter], n, "bucket step"); err != nil {
				return Snapshot{}, err
			}
			if next[NewbornCounter], err = addCount(next[NewbornCounter], n, "bucket step"); err != nil {
				return Snapshot{}, err
			}
			continue
		}
		if next[c-1], err = addCount(next[c-1], n, "bucket step"); err != nil {
			return Snapshot{}, err
		}
	}
	return next, nil
}
