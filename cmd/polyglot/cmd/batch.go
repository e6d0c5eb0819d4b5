package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/batch"
	"github.com/MeKo-Tech/polyglot/internal/config"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command for parallel file processing.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Detect the languages of many text files in parallel",
	Long: `Detect the language of every text file given as argument or found in the
given directories. Files are processed by a pool of parallel workers sharing
one model cache.

Examples:
  polyglot batch notes/*.txt
  polyglot batch corpus/ --recursive --workers 8
  polyglot batch a.txt b.txt --format json --output results.json
  polyglot batch corpus/ --include "*.md" --progress --stats`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// Explicitly set flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := batch.DefaultConfig()

	batchConfig.ModelsDir = cfg.ModelsDir

	batchConfig.Languages = cfg.Detector.Languages
	if cmd.Flags().Changed("languages") {
		batchConfig.Languages, _ = cmd.Flags().GetStringSlice("languages")
	}

	batchConfig.Preload = cfg.Detector.Preload
	if cmd.Flags().Changed("preload") {
		batchConfig.Preload, _ = cmd.Flags().GetBool("preload")
	}

	batchConfig.DenseMaxOrder = cfg.Detector.DenseMaxOrder
	if cmd.Flags().Changed("dense-max-order") {
		batchConfig.DenseMaxOrder, _ = cmd.Flags().GetInt("dense-max-order")
	}

	batchConfig.Top = cfg.Output.Top
	if cmd.Flags().Changed("top") {
		batchConfig.Top, _ = cmd.Flags().GetInt("top")
	}

	batchConfig.Precision = cfg.Output.Precision
	if cmd.Flags().Changed("precision") {
		batchConfig.Precision, _ = cmd.Flags().GetInt("precision")
	}

	batchConfig.Format = cfg.Output.Format
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}

	batchConfig.OutputFile = cfg.Output.File
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}

	// Parallel processing settings
	batchConfig.Workers = cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}

	batchConfig.ContinueOnError = cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		batchConfig.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	batchConfig.MaxFileSize = cfg.Batch.MaxFileSize
	if cmd.Flags().Changed("max-file-size") {
		batchConfig.MaxFileSize, _ = cmd.Flags().GetString("max-file-size")
	}

	// File discovery settings
	batchConfig.Recursive = cfg.Batch.Recursive
	if cmd.Flags().Changed("recursive") {
		batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	}

	if len(cfg.Batch.IncludePatterns) > 0 {
		batchConfig.IncludePatterns = cfg.Batch.IncludePatterns
	}
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}

	batchConfig.ExcludePatterns = cfg.Batch.ExcludePatterns
	if cmd.Flags().Changed("exclude") {
		batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}

	// Progress settings are command line only
	batchConfig.ShowProgress, _ = cmd.Flags().GetBool("progress")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")
	batchConfig.ProgressInterval, _ = cmd.Flags().GetDuration("progress-interval")

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	config := configToBatchConfig(cfg, cmd)

	if !config.Quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Processing %d paths...\n", len(args))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := batch.ProcessBatchContext(ctx, args, config)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := result.SaveResults(cmd.OutOrStdout(), config.Format, config.OutputFile, config.Quiet); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if config.ShowStats {
		result.PrintStats(cmd.ErrOrStderr(), config.Quiet)
	}
	if failed := result.Failed(); failed > 0 && !config.Quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d of %d files failed\n", failed, len(result.Files))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Detection flags
	batchCmd.Flags().StringSliceP("languages", "l", nil,
		"languages to consider as ISO codes or names (default: all spoken languages)")
	batchCmd.Flags().Bool("preload", false, "load all models before detecting")
	batchCmd.Flags().Int("dense-max-order", 0, "highest n-gram order kept in dense storage")
	batchCmd.Flags().IntP("top", "t", 0, "number of ranked languages per file (0 = all)")

	// Output flags
	batchCmd.Flags().StringP("format", "f", "text", "output format: text, json, csv")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().Int("precision", 2, "decimal places of confidence values")

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))
	batchCmd.Flags().Bool("continue-on-error", false, "report unreadable or failing files instead of aborting")
	batchCmd.Flags().String("max-file-size", "", "skip files larger than this (e.g., 512KB, 1MB)")

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{"*.txt"}, "file patterns to include")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress and monitoring flags
	batchCmd.Flags().Bool("progress", false, "show progress bar")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")
	batchCmd.Flags().Duration("progress-interval", 100*time.Millisecond, "progress update interval")
}
