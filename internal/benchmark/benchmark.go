// Package benchmark measures detection throughput over text corpora.
package benchmark

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/common"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// BenchmarkResult is the outcome of one benchmark.
type BenchmarkResult = common.BenchmarkResult

// Benchmark represents a benchmark function.
type Benchmark struct {
	Name string
	Func func() error
}

// BenchmarkSuite manages multiple benchmarks.
type BenchmarkSuite struct {
	benchmarks []Benchmark
	results    []BenchmarkResult
	mu         sync.Mutex
}

// NewBenchmarkSuite creates a new benchmark suite.
func NewBenchmarkSuite() *BenchmarkSuite {
	return &BenchmarkSuite{
		benchmarks: make([]Benchmark, 0),
		results:    make([]BenchmarkResult, 0),
	}
}

// Add adds a benchmark to the suite.
func (bs *BenchmarkSuite) Add(name string, fn func() error) {
	bs.benchmarks = append(bs.benchmarks, Benchmark{Name: name, Func: fn})
}

// Run runs a single benchmark with the specified number of iterations.
func (bs *BenchmarkSuite) Run(name string, iterations int) BenchmarkResult {
	for _, b := range bs.benchmarks {
		if b.Name == name {
			return runBenchmark(b, iterations)
		}
	}
	return BenchmarkResult{
		Name:  name,
		Error: fmt.Errorf("benchmark '%s' not found", name),
	}
}

// RunAll runs all benchmarks in the suite.
func (bs *BenchmarkSuite) RunAll(iterations int) []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.results = make([]BenchmarkResult, 0, len(bs.benchmarks))
	for _, b := range bs.benchmarks {
		bs.results = append(bs.results, runBenchmark(b, iterations))
	}
	return bs.results
}

// Results returns the last run results.
func (bs *BenchmarkSuite) Results() []BenchmarkResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.results
}

// PrintResults writes formatted benchmark results to w.
func (bs *BenchmarkSuite) PrintResults(w io.Writer) {
	_, _ = fmt.Fprintln(w, "\nBenchmark Results:")
	_, _ = fmt.Fprintln(w, "==================")
	for _, result := range bs.Results() {
		_, _ = fmt.Fprintln(w, result.String())
	}
	_, _ = fmt.Fprintln(w)
}

func runBenchmark(b Benchmark, iterations int) BenchmarkResult {
	runtime.GC()
	memBefore := common.GetMemoryStats()

	timer := common.NewNamedTimer(b.Name)
	var err error
	done := 0
	for range iterations {
		if err = b.Func(); err != nil {
			break
		}
		done++
	}

	duration := timer.Stop()
	return BenchmarkResult{
		Name:         b.Name,
		Duration:     duration,
		MemoryBefore: memBefore,
		MemoryAfter:  common.GetMemoryStats(),
		Iterations:   done,
		Error:        err,
	}
}

// LoadCorpus reads one text per non-blank line from path.
func LoadCorpus(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: corpus path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCorpus(f)
}

// ReadCorpus reads one text per non-blank line from r.
func ReadCorpus(r io.Reader) ([]string, error) {
	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return texts, nil
}

// ComparisonResult compares sequential and parallel detection of a corpus.
type ComparisonResult struct {
	Texts      int
	Characters int
	Workers    int
	Sequential BenchmarkResult
	Parallel   BenchmarkResult
	Speedup    float64
}

// TextsPerSec returns the sequential and parallel throughput.
func (r ComparisonResult) TextsPerSec() (sequential, parallel float64) {
	n := r.Texts * r.Sequential.Iterations
	sequential = common.Throughput(n, r.Sequential.Duration)
	n = r.Texts * r.Parallel.Iterations
	parallel = common.Throughput(n, r.Parallel.Duration)
	return sequential, parallel
}

func (r ComparisonResult) String() string {
	seq, par := r.TextsPerSec()
	return fmt.Sprintf("%d texts (%d chars): sequential %.1f texts/s, parallel (%d workers) %.1f texts/s, speedup %.2fx",
		r.Texts, r.Characters, seq, r.Workers, par, r.Speedup)
}

// DetectionBenchmark runs a corpus through a pipeline sequentially and with
// the parallel worker pool.
type DetectionBenchmark struct {
	pipeline *pipeline.Pipeline
	texts    []string
	workers  int
	result   *ComparisonResult
}

// NewDetectionBenchmark creates a benchmark for texts. Workers <= 0 uses
// the pipeline's parallel setting.
func NewDetectionBenchmark(pl *pipeline.Pipeline, texts []string, workers int) *DetectionBenchmark {
	if workers <= 0 {
		workers = pl.Config().Parallel.MaxWorkers
	}
	return &DetectionBenchmark{pipeline: pl, texts: texts, workers: workers}
}

// Warmup detects every text once so that all models are loaded before
// anything is timed.
func (b *DetectionBenchmark) Warmup(ctx context.Context) error {
	_, err := b.pipeline.DetectTextsContext(ctx, b.texts)
	return err
}

// Run times iterations passes over the corpus in both modes.
func (b *DetectionBenchmark) Run(ctx context.Context, iterations int) (ComparisonResult, error) {
	if len(b.texts) == 0 {
		return ComparisonResult{}, fmt.Errorf("empty corpus")
	}
	if iterations <= 0 {
		return ComparisonResult{}, fmt.Errorf("invalid iterations: %d (must be positive)", iterations)
	}

	config := b.pipeline.Config().Parallel
	config.MaxWorkers = b.workers
	config.ProgressCallback = nil

	suite := NewBenchmarkSuite()
	suite.Add("Detection_sequential", func() error {
		_, err := b.pipeline.DetectTextsContext(ctx, b.texts)
		return err
	})
	suite.Add("Detection_parallel", func() error {
		_, err := b.pipeline.DetectTextsParallelContext(ctx, b.texts, config)
		return err
	})

	results := suite.RunAll(iterations)
	for _, r := range results {
		if r.Error != nil {
			return ComparisonResult{}, fmt.Errorf("%s: %w", r.Name, r.Error)
		}
	}

	chars := 0
	for _, t := range b.texts {
		chars += len([]rune(t))
	}

	res := ComparisonResult{
		Texts:      len(b.texts),
		Characters: chars,
		Workers:    b.workers,
		Sequential: results[0],
		Parallel:   results[1],
	}
	if res.Parallel.Duration > 0 {
		res.Speedup = float64(res.Sequential.Duration) / float64(res.Parallel.Duration)
	}
	b.result = &res
	return res, nil
}

// Result returns the last comparison, or nil before Run.
func (b *DetectionBenchmark) Result() *ComparisonResult {
	return b.result
}

// PrintDetailedResults writes the last comparison with system information.
func (b *DetectionBenchmark) PrintDetailedResults(w io.Writer) {
	if b.result == nil {
		_, _ = fmt.Fprintln(w, "No benchmark results available")
		return
	}
	r := b.result

	_, _ = fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	_, _ = fmt.Fprintln(w, "Language Detection Benchmark Results")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 80))

	_, _ = fmt.Fprintf(w, "System Information:\n")
	_, _ = fmt.Fprintf(w, "  GOOS: %s\n", runtime.GOOS)
	_, _ = fmt.Fprintf(w, "  GOARCH: %s\n", runtime.GOARCH)
	_, _ = fmt.Fprintf(w, "  NumCPU: %d\n", runtime.NumCPU())
	_, _ = fmt.Fprintf(w, "  Go Version: %s\n", runtime.Version())
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Corpus: %d texts, %d characters, %d languages\n",
		r.Texts, r.Characters, len(b.pipeline.Detector.Languages()))
	_, _ = fmt.Fprintln(w, r.Sequential.String())
	_, _ = fmt.Fprintln(w, r.Parallel.String())
	_, _ = fmt.Fprintln(w)

	seq, par := r.TextsPerSec()
	_, _ = fmt.Fprintln(w, "Summary Statistics:")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 25))
	_, _ = fmt.Fprintf(w, "  Sequential: %.1f texts/s, %v per text\n", seq, perText(r.Sequential, r.Texts))
	_, _ = fmt.Fprintf(w, "  Parallel: %.1f texts/s, %v per text\n", par, perText(r.Parallel, r.Texts))
	_, _ = fmt.Fprintf(w, "  Speedup: %.2fx with %d workers\n", r.Speedup, r.Workers)
	if stats := b.pipeline.Detector.Cache().Stats(); stats.Loaded > 0 {
		_, _ = fmt.Fprintf(w, "  Models loaded: %d (%d n-grams)\n", stats.Loaded, stats.Ngrams)
	}
	_, _ = fmt.Fprintln(w)
}

func perText(r BenchmarkResult, texts int) time.Duration {
	n := r.Iterations * texts
	if n == 0 {
		return 0
	}
	return r.Duration / time.Duration(n)
}
