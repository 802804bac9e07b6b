package sysmon

import "testing"

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestDescribe(t *testing.T) {
	info := Describe()
	if info.LogicalCPUs < 1 {
		t.Errorf("LogicalCPUs = %d, want at least 1", info.LogicalCPUs)
	}
}
