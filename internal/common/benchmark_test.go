package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMemoryStats(t *testing.T) {
	stats := GetMemoryStats()
	assert.Positive(t, stats.Alloc)
	assert.Positive(t, stats.TotalAlloc)
	assert.Positive(t, stats.Sys)

	str := stats.String()
	assert.Contains(t, str, "Alloc:")
	assert.Contains(t, str, "KB")
}

func TestMemoryStats_AllocatedSince(t *testing.T) {
	before := MemoryStats{TotalAlloc: 1000}
	assert.Equal(t, uint64(500), MemoryStats{TotalAlloc: 1500}.AllocatedSince(before))
	assert.Zero(t, MemoryStats{TotalAlloc: 10}.AllocatedSince(before))
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 50.0, Throughput(100, 2*time.Second), 1e-9)
	assert.Zero(t, Throughput(100, 0))
}

func TestBenchmarkResult(t *testing.T) {
	result := BenchmarkResult{
		Name:         "test_result",
		Duration:     100 * time.Millisecond,
		Iterations:   10,
		MemoryBefore: MemoryStats{TotalAlloc: 1024},
		MemoryAfter:  MemoryStats{TotalAlloc: 3 * 1024},
	}

	str := result.String()
	assert.Contains(t, str, "test_result")
	assert.Contains(t, str, "10 iterations")
	assert.Contains(t, str, "10ms")  // avg duration
	assert.Contains(t, str, "100ms") // total duration
	assert.Contains(t, str, "alloc: 2 KB")

	assert.Zero(t, BenchmarkResult{}.AvgDuration())

	errorResult := BenchmarkResult{
		Name:  "error_result",
		Error: errors.New("test error"),
	}

	str = errorResult.String()
	assert.Contains(t, str, "error_result")
	assert.Contains(t, str, "ERROR")
	assert.Contains(t, str, "test error")
}

func BenchmarkMemoryStatsRetrieval(b *testing.B) {
	for range b.N {
		GetMemoryStats()
	}
}
