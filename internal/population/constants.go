package population

const (
	// MaxCounter is the largest valid counter value.
	MaxCounter Counter = 8

	// ResetCounter is the value a parent's counter resets to after spawning.
	ResetCounter Counter = 6

	// NewbornCounter is the counter every newborn starts with.
	NewbornCounter Counter = 8

	// BucketCount is the number of distinct counter values (0..MaxCounter).
	BucketCount = int(MaxCounter) + 1

	// SpawnInterval is the number of days between two spawns of one
	// individual once its counter first reaches zero.
	SpawnInterval = int(ResetCounter) + 1

	// ShortQueryDays and LongQueryDays are the canonical query lengths.
	ShortQueryDays = 80
	LongQueryDays  = 256
)
