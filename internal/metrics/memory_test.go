package metrics

import "testing"

var sink []byte

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_Delta(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	d := Delta(before, after)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want at least 1 MiB", d.Allocated)
	}
	if d.HeapAlloc != after.HeapAlloc {
		t.Errorf("HeapAlloc = %d, want %d", d.HeapAlloc, after.HeapAlloc)
	}
}

func TestDelta_NeverUnderflows(t *testing.T) {
	t.Parallel()
	before := MemorySnapshot{TotalAlloc: 100, NumGC: 5}
	after := MemorySnapshot{TotalAlloc: 50, NumGC: 3}
	if d := Delta(before, after); d.Allocated != 0 || d.GCCycles != 0 {
		t.Errorf("Delta() = %+v, want zero counters", d)
	}
}
