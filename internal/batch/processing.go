package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/MeKo-Tech/polyglot/internal/pipeline"
)

// readTextFile loads a UTF-8 text file, refusing files above maxBytes when
// maxBytes is positive.
func readTextFile(path string, maxBytes int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", fmt.Errorf("file %s is %d bytes, limit is %d", path, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the command line
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8", path)
	}
	return string(data), nil
}

// detectFiles reads every file and detects the languages of the readable ones
// in parallel. Without continueOnError the first failure aborts the batch.
func detectFiles(ctx context.Context, pl *pipeline.Pipeline, paths []string, config *Config) ([]FileResult, error) {
	maxBytes, err := parseSizeLimit(config.MaxFileSize)
	if err != nil {
		return nil, err
	}

	files := make([]FileResult, len(paths))
	texts := make([]string, 0, len(paths))
	index := make([]int, 0, len(paths))

	for i, path := range paths {
		files[i].File = path
		text, err := readTextFile(path, maxBytes)
		if err != nil {
			if !config.ContinueOnError {
				return nil, err
			}
			slog.Warn("Skipping unreadable file", "file", path, "error", err)
			files[i].Error = err.Error()
			continue
		}
		texts = append(texts, text)
		index = append(index, i)
	}

	if len(texts) == 0 {
		return files, nil
	}

	parallel := pl.Config().Parallel
	parallel.ErrorHandler = func(i int, _ string, err error) {
		files[index[i]].Error = err.Error()
	}

	results, err := pl.DetectTextsParallelContext(ctx, texts, parallel)
	if err != nil && (results == nil || !config.ContinueOnError) {
		return nil, err
	}

	for i, res := range results {
		files[index[i]].Result = res
	}
	return files, nil
}
