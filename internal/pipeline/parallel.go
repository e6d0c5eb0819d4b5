package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/common"
)

// ParallelConfig holds configuration for parallel processing.
type ParallelConfig struct {
	MaxWorkers       int                      // Number of parallel workers (0 = runtime.NumCPU())
	ProgressCallback ProgressCallback         // Optional progress reporting
	ErrorHandler     func(int, string, error) // Optional per-text error handler
}

// DefaultParallelConfig returns sensible defaults for parallel processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers: runtime.NumCPU(),
	}
}

type textJob struct {
	index int
	text  string
}

type textResult struct {
	index  int
	result *TextResult
	err    error
}

// DetectTextsParallel detects the language of many texts using a worker pool.
// Results keep the order of texts; a failed text leaves a nil entry and the
// first failure is returned alongside the results.
func (p *Pipeline) DetectTextsParallel(texts []string, config ParallelConfig) ([]*TextResult, error) {
	return p.DetectTextsParallelContext(context.Background(), texts, config)
}

// DetectTextsParallelContext is DetectTextsParallel with cancellation support.
func (p *Pipeline) DetectTextsParallelContext(ctx context.Context, texts []string, config ParallelConfig) ([]*TextResult, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts provided")
	}
	if p == nil || p.Detector == nil {
		return nil, errors.New("pipeline not initialized")
	}

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if config.MaxWorkers > len(texts) {
		config.MaxWorkers = len(texts)
	}

	if config.ProgressCallback != nil {
		config.ProgressCallback.OnStart(len(texts))
		defer config.ProgressCallback.OnComplete()
	}

	jobs := make(chan textJob, len(texts))
	results := make(chan textResult, len(texts))

	var wg sync.WaitGroup
	for range config.MaxWorkers {
		wg.Add(1)
		go p.worker(ctx, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for i, text := range texts {
			select {
			case jobs <- textJob{index: i, text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	resultMap := make(map[int]*TextResult, len(texts))
	errorMap := make(map[int]error)
	processed := 0

	for r := range results {
		resultMap[r.index] = r.result
		if r.err != nil {
			errorMap[r.index] = r.err
			if config.ProgressCallback != nil {
				config.ProgressCallback.OnError(r.index, r.err)
			}
		}
		processed++

		if config.ProgressCallback != nil {
			config.ProgressCallback.OnProgress(processed, len(texts))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ordered := make([]*TextResult, len(texts))
	var firstError error
	for i := range texts {
		if err := errorMap[i]; err != nil {
			if firstError == nil {
				firstError = fmt.Errorf("text %d: %w", i, err)
			}
			if config.ErrorHandler != nil {
				config.ErrorHandler(i, texts[i], err)
			}
			continue
		}
		ordered[i] = resultMap[i]
	}

	return ordered, firstError
}

func (p *Pipeline) worker(ctx context.Context, jobs <-chan textJob, results chan<- textResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}

			res, err := p.DetectTextContext(ctx, job.text)

			select {
			case results <- textResult{index: job.index, result: res, err: err}:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// ParallelStats holds statistics about parallel processing performance.
type ParallelStats struct {
	TotalTexts       int           `json:"total_texts"`
	ProcessedTexts   int           `json:"processed_texts"`
	FailedTexts      int           `json:"failed_texts"`
	TotalCharacters  int           `json:"total_characters"`
	WorkerCount      int           `json:"worker_count"`
	TotalDuration    time.Duration `json:"total_duration_ns"`
	AveragePerText   time.Duration `json:"average_per_text_ns"`
	ThroughputPerSec float64       `json:"throughput_per_sec"`
}

// CalculateParallelStats calculates performance statistics for parallel processing.
func CalculateParallelStats(texts []string, results []*TextResult, duration time.Duration, workerCount int) ParallelStats {
	stats := ParallelStats{
		TotalTexts:    len(texts),
		WorkerCount:   workerCount,
		TotalDuration: duration,
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		stats.ProcessedTexts++
		stats.TotalCharacters += r.Characters
	}
	stats.FailedTexts = stats.TotalTexts - stats.ProcessedTexts

	if stats.ProcessedTexts > 0 && duration > 0 {
		stats.AveragePerText = duration / time.Duration(stats.ProcessedTexts)
		stats.ThroughputPerSec = common.Throughput(stats.ProcessedTexts, duration)
	}

	return stats
}
