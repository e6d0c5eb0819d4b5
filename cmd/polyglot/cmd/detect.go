package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MeKo-Tech/polyglot/internal/config"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/spf13/cobra"
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "Detect the language of a text",
	Long: `Detect the natural language of a text given as arguments or on stdin.

All arguments are joined with single spaces and treated as one text. Without
arguments the text is read from stdin. The result lists the candidate
languages ranked by confidence; the first entry always has confidence 1.

Examples:
  polyglot detect "languages are awesome"
  polyglot detect --languages en,de,fr "Das ist gut"
  cat letter.txt | polyglot detect --format json --top 3`,
	SilenceUsage: true,
	RunE:         runDetectCommand,
}

// applyDetectFlags overrides configuration values with explicitly set flags.
func applyDetectFlags(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("languages") {
		cfg.Detector.Languages, _ = cmd.Flags().GetStringSlice("languages")
	}
	if cmd.Flags().Changed("preload") {
		cfg.Detector.Preload, _ = cmd.Flags().GetBool("preload")
	}
	if cmd.Flags().Changed("dense-max-order") {
		cfg.Detector.DenseMaxOrder, _ = cmd.Flags().GetInt("dense-max-order")
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("precision") {
		cfg.Output.Precision, _ = cmd.Flags().GetInt("precision")
	}
	if cmd.Flags().Changed("top") {
		cfg.Output.Top, _ = cmd.Flags().GetInt("top")
	}
}

// buildPipeline creates a detection pipeline from the resolved configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	pCfg, err := cfg.ToPipelineConfig()
	if err != nil {
		return nil, err
	}

	return pipeline.NewBuilder().
		WithModelsDir(pCfg.Detector.ModelsDir).
		WithLanguages(pCfg.Detector.Languages).
		WithPreload(pCfg.Detector.Preload).
		WithDenseMaxOrder(pCfg.Detector.DenseMaxOrder).
		WithDetectorWorkers(pCfg.Detector.Workers).
		WithTop(pCfg.Top).
		WithParallelWorkers(pCfg.Parallel.MaxWorkers).
		Build()
}

// readInput returns the text to detect: the joined arguments, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// formatResult renders a detection result in the requested output format.
func formatResult(res *pipeline.TextResult, format string, precision int) (string, error) {
	var (
		out string
		err error
	)
	switch format {
	case "json":
		out, err = pipeline.ToJSONText(res)
	case "csv":
		out, err = pipeline.ToCSVText(res, precision)
	default:
		out, err = pipeline.ToPlainText(res, precision)
	}
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

func runDetectCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	applyDetectFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no text provided")
	}

	pl, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize detector: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := pl.DetectTextContext(ctx, text)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out, err := formatResult(res, cfg.Output.Format, cfg.Output.Precision)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	if cfg.Output.File != "" {
		if err := os.WriteFile(cfg.Output.File, []byte(out), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringSliceP("languages", "l", nil,
		"languages to consider as ISO codes or names (default: all spoken languages)")
	detectCmd.Flags().Bool("preload", false, "load all models before detecting")
	detectCmd.Flags().Int("dense-max-order", 0, "highest n-gram order kept in dense storage")

	detectCmd.Flags().StringP("format", "f", "text", "output format: text, json, csv")
	detectCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	detectCmd.Flags().Int("precision", pipeline.DefaultPrecision, "decimal places of confidence values")
	detectCmd.Flags().IntP("top", "t", 0, "number of ranked languages to print (0 = all)")
}
