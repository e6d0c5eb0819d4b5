// Package common provides timing and memory helpers shared by the batch
// statistics and the benchmark harness.
package common

import (
	"fmt"
	"runtime"
	"time"
)

// MemoryStats is a snapshot of the runtime allocator.
type MemoryStats struct {
	Alloc         uint64
	TotalAlloc    uint64
	Sys           uint64
	Mallocs       uint64
	HeapObjects   uint64
	NumGC         uint32
	GCCPUFraction float64
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		Alloc:         m.Alloc,
		TotalAlloc:    m.TotalAlloc,
		Sys:           m.Sys,
		Mallocs:       m.Mallocs,
		HeapObjects:   m.HeapObjects,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
	}
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.Alloc/1024,
		m.TotalAlloc/1024,
		m.Sys/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

// AllocatedSince returns the bytes allocated between before and m. Unlike
// the live heap size it never decreases across a garbage collection.
func (m MemoryStats) AllocatedSince(before MemoryStats) uint64 {
	if m.TotalAlloc < before.TotalAlloc {
		return 0
	}
	return m.TotalAlloc - before.TotalAlloc
}

// Throughput returns items per second, or 0 for a zero duration.
func Throughput(items int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(items) / d.Seconds()
}

// BenchmarkResult holds benchmark results.
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// AvgDuration returns the mean duration of one iteration.
func (br BenchmarkResult) AvgDuration() time.Duration {
	if br.Iterations <= 0 {
		return 0
	}
	return br.Duration / time.Duration(br.Iterations)
}

// String returns a formatted string representation of the benchmark result.
func (br BenchmarkResult) String() string {
	if br.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", br.Name, br.Error)
	}

	return fmt.Sprintf("%s: %d iterations, avg: %v, total: %v, alloc: %d KB",
		br.Name, br.Iterations, br.AvgDuration(), br.Duration,
		br.MemoryAfter.AllocatedSince(br.MemoryBefore)/1024)
}
