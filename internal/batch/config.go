package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Detection settings
	ModelsDir     string
	Languages     []string // ISO codes or names; empty means all spoken languages
	Preload       bool
	DenseMaxOrder int
	Top           int
	Precision     int
	Format        string
	OutputFile    string

	// Parallel processing settings
	Workers         int
	ContinueOnError bool
	MaxFileSize     string // e.g. "1MB"; empty means no limit

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval time.Duration
}

// DefaultConfig returns batch defaults matching the command line flags.
func DefaultConfig() *Config {
	return &Config{
		Precision:        pipeline.DefaultPrecision,
		Format:           "text",
		Workers:          pipeline.DefaultParallelConfig().MaxWorkers,
		IncludePatterns:  []string{"*.txt"},
		ProgressInterval: 100 * time.Millisecond,
	}
}

// FileResult is the detection outcome for one file.
type FileResult struct {
	File   string               `json:"file"`
	Result *pipeline.TextResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Result holds the result of batch processing.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
	Precision   int
}

// Failed returns the number of files without a result.
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Result == nil {
			n++
		}
	}
	return n
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Files, format, r.Precision)
}

// SaveResults writes the formatted results to outputFile, or to w when no
// file is given.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(w, "Results written to %s\n", outputFile)
		}
		return nil
	}

	_, _ = fmt.Fprint(w, output)
	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(w io.Writer, quiet bool) {
	if quiet {
		return
	}

	results := make([]*pipeline.TextResult, len(r.Files))
	for i, f := range r.Files {
		results[i] = f.Result
	}
	stats := pipeline.CalculateParallelStats(make([]string, len(r.Files)), results, r.Duration, r.WorkerCount)

	_, _ = fmt.Fprintf(w, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(w, "  Total files: %d\n", stats.TotalTexts)
	_, _ = fmt.Fprintf(w, "  Processed: %d\n", stats.ProcessedTexts)
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", stats.FailedTexts)
	_, _ = fmt.Fprintf(w, "  Characters: %d\n", stats.TotalCharacters)
	_, _ = fmt.Fprintf(w, "  Workers: %d\n", stats.WorkerCount)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", stats.TotalDuration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(w, "  Avg per file: %v\n", stats.AveragePerText.Round(time.Microsecond))
	_, _ = fmt.Fprintf(w, "  Throughput: %.1f files/sec\n", stats.ThroughputPerSec)
}
