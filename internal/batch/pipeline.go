package batch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// buildPipeline creates a detection pipeline from the batch configuration.
func buildPipeline(config *Config, progressCallback pipeline.ProgressCallback) (*pipeline.Pipeline, error) {
	langs, err := parseLanguages(config.Languages)
	if err != nil {
		return nil, err
	}

	return pipeline.NewBuilder().
		WithModelsDir(config.ModelsDir).
		WithLanguages(langs).
		WithPreload(config.Preload).
		WithDenseMaxOrder(config.DenseMaxOrder).
		WithTop(config.Top).
		WithParallelWorkers(config.Workers).
		WithProgressCallback(progressCallback).
		Build()
}

// parseLanguages accepts codes and names, also comma separated within one entry.
func parseLanguages(values []string) ([]language.Language, error) {
	var codes []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				codes = append(codes, part)
			}
		}
	}
	if len(codes) == 0 {
		return nil, nil
	}
	langs, err := language.ParseList(codes)
	if err != nil {
		return nil, fmt.Errorf("invalid languages: %w", err)
	}
	return langs, nil
}

// parseSizeLimit parses a size string such as "512KB" or "1MB" into bytes.
// An empty string means no limit.
func parseSizeLimit(limit string) (int64, error) {
	limit = strings.TrimSpace(strings.ToUpper(limit))
	if limit == "" {
		return 0, nil
	}

	// longest suffix first so "KB" is not read as "B"
	units := []struct {
		suffix     string
		multiplier float64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	}

	for _, u := range units {
		if numStr, ok := strings.CutSuffix(limit, u.suffix); ok {
			num, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size %q: %w", limit, err)
			}
			if num < 0 {
				return 0, errors.New("size must be non-negative")
			}
			return int64(num * u.multiplier), nil
		}
	}

	n, err := strconv.ParseInt(limit, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", limit, err)
	}
	if n < 0 {
		return 0, errors.New("size must be non-negative")
	}
	return n, nil
}
