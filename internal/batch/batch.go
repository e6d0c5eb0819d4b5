// Package batch detects the languages of many text files at once.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MeKo-Tech/polyglot/internal/common"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// ProcessBatch discovers the files named by paths and detects their languages.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	return ProcessBatchContext(context.Background(), paths, config)
}

// ProcessBatchContext is ProcessBatch with cancellation support.
func ProcessBatchContext(ctx context.Context, paths []string, config *Config) (*Result, error) {
	files, err := discoverFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover text files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no text files found")
	}

	var progressCallback pipeline.ProgressCallback
	if config.ShowProgress && !config.Quiet {
		progressCallback = pipeline.NewConsoleProgressCallback(os.Stderr, "Detecting: ").
			WithUpdateInterval(config.ProgressInterval)
	}

	pl, err := buildPipeline(config, progressCallback)
	if err != nil {
		return nil, fmt.Errorf("failed to build detection pipeline: %w", err)
	}

	timer := common.NewNamedTimer("batch")
	results, err := detectFiles(ctx, pl, files, config)
	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	return &Result{
		Files:       results,
		Duration:    timer.Stop(),
		WorkerCount: pl.Config().Parallel.MaxWorkers,
		Precision:   config.Precision,
	}, nil
}
