package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/MeKo-Tech/polyglot/internal/detector"
	"github.com/MeKo-Tech/polyglot/internal/language"
)

// DetectText runs detection on a single text.
func (p *Pipeline) DetectText(text string) (*TextResult, error) {
	return p.DetectTextContext(context.Background(), text)
}

// DetectTextContext runs detection on a single text. A single detection is not
// interruptible, so ctx is only checked before it starts.
func (p *Pipeline) DetectTextContext(ctx context.Context, text string) (*TextResult, error) {
	if p == nil || p.Detector == nil {
		return nil, errors.New("pipeline not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	values, err := p.Detector.ConfidenceValues(text)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	res := &TextResult{
		Language:    language.Unknown,
		Confidences: detector.Top(values, p.cfg.Top),
		Characters:  utf8.RuneCountInString(text),
	}
	if len(values) > 0 {
		res.Language = values[0].Language
		res.IsoCode = res.Language.IsoCode639_1()
	}
	res.Processing.TotalNs = time.Since(start).Nanoseconds()

	slog.Debug("Detection completed",
		"language", res.Language.String(),
		"characters", res.Characters,
		"candidates", len(values),
		"duration_ms", float64(res.Processing.TotalNs)/1e6)

	return res, nil
}

// DetectTexts runs detection sequentially over texts.
func (p *Pipeline) DetectTexts(texts []string) ([]*TextResult, error) {
	return p.DetectTextsContext(context.Background(), texts)
}

// DetectTextsContext runs detection sequentially and stops at the first error.
func (p *Pipeline) DetectTextsContext(ctx context.Context, texts []string) ([]*TextResult, error) {
	results := make([]*TextResult, 0, len(texts))
	for i, text := range texts {
		res, err := p.DetectTextContext(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}
