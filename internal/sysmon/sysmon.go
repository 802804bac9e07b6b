// Package sysmon samples system-wide CPU and memory usage and describes the
// host for the verbose execution report.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// HostInfo describes the machine running the queries.
type HostInfo struct {
	Platform      string // e.g. "ubuntu 24.04"; empty when unknown
	LogicalCPUs   int
	CPUModel      string
	TotalMemBytes uint64
}

// Describe gathers host details. Fields that cannot be read are left at
// their zero value, except LogicalCPUs which falls back to runtime.NumCPU.
func Describe() HostInfo {
	info := HostInfo{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCPUs = n
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if h, err := host.Info(); err == nil && h != nil {
		info.Platform = h.Platform
		if h.PlatformVersion != "" {
			info.Platform += " " + h.PlatformVersion
		}
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		info.TotalMemBytes = vmem.Total
	}
	return info
}
