package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use by the application
	Sys         uint64 // total bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
	HeapObjects uint64 // allocated heap objects
	TotalAlloc  uint64 // cumulative bytes allocated
}

// MemoryDelta is the difference between two snapshots taken around a run.
type MemoryDelta struct {
	Allocated uint64 // bytes allocated between the two snapshots
	GCCycles  uint32 // GC cycles completed between the two snapshots
	HeapAlloc uint64 // heap in use at the end
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
		TotalAlloc:  m.TotalAlloc,
	}
}

// Delta compares a snapshot taken before a run with one taken after it.
func Delta(before, after MemorySnapshot) MemoryDelta {
	d := MemoryDelta{HeapAlloc: after.HeapAlloc}
	if after.TotalAlloc > before.TotalAlloc {
		d.Allocated = after.TotalAlloc - before.TotalAlloc
	}
	if after.NumGC > before.NumGC {
		d.GCCycles = after.NumGC - before.NumGC
	}
	return d
}
