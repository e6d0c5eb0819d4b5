package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/polyglot/internal/benchmark"
	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/spf13/pflag"
)

func main() {
	var (
		modelsDir  = pflag.StringP("models", "m", "", "directory containing the language models")
		corpus     = pflag.StringP("corpus", "c", filepath.Join("testdata", "texts", "sentences.txt"), "text file with one sample per line")
		languages  = pflag.StringP("languages", "l", "", "comma-separated languages to load (default: all)")
		iterations = pflag.IntP("iterations", "n", 3, "number of passes over the corpus per mode")
		workers    = pflag.IntP("workers", "w", 0, "parallel workers (default: number of CPUs)")
		preload    = pflag.Bool("preload", false, "load all models before the warmup pass")
		outputFile = pflag.StringP("output", "o", "", "output file for results (optional)")
	)
	pflag.Parse()

	fmt.Println("polyglot Detection Benchmark")
	fmt.Println("============================")

	texts, err := benchmark.LoadCorpus(*corpus)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	builder := pipeline.NewBuilder().WithModelsDir(*modelsDir).WithPreload(*preload)
	if *languages != "" {
		langs, err := language.ParseList(strings.Split(*languages, ","))
		if err != nil {
			log.Fatalf("Invalid languages: %v", err)
		}
		builder = builder.WithLanguages(langs)
	}
	pl, err := builder.Build()
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bench := benchmark.NewDetectionBenchmark(pl, texts, *workers)
	fmt.Printf("Warming up with %d texts...\n", len(texts))
	if err := bench.Warmup(ctx); err != nil {
		log.Fatalf("Warmup failed: %v", err)
	}

	fmt.Printf("Running benchmarks with %d iterations per mode...\n", *iterations)
	result, err := bench.Run(ctx, *iterations)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	bench.PrintDetailedResults(os.Stdout)

	if *outputFile != "" {
		if err := saveResultsToFile(*outputFile, result); err != nil {
			log.Printf("Failed to save results to file: %v", err)
		} else {
			fmt.Printf("Results saved to: %s\n", *outputFile)
		}
	}
}

func saveResultsToFile(filename string, result benchmark.ComparisonResult) error {
	file, err := os.Create(filename) //nolint:gosec // G304: user-chosen output path
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintln(file, "polyglot Detection Benchmark Results")
	_, _ = fmt.Fprintln(file, "====================================")
	_, _ = fmt.Fprintln(file)
	_, _ = fmt.Fprintln(file, result.String())
	_, _ = fmt.Fprintln(file)
	_, _ = fmt.Fprintln(file, "CSV Format:")
	_, _ = fmt.Fprintln(file, "Mode,Texts,Characters,Iterations,Workers,Duration_ms,Texts_per_sec")

	seq, par := result.TextsPerSec()
	rows := []struct {
		mode    string
		res     benchmark.BenchmarkResult
		workers int
		rate    float64
	}{
		{"sequential", result.Sequential, 1, seq},
		{"parallel", result.Parallel, result.Workers, par},
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(file, "%s,%d,%d,%d,%d,%.2f,%.1f\n",
			row.mode,
			result.Texts,
			result.Characters,
			row.res.Iterations,
			row.workers,
			float64(row.res.Duration.Nanoseconds())/1e6,
			row.rate,
		)
	}

	return file.Close()
}
