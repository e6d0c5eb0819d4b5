// Package pipeline runs language detection over single texts and over
// batches of texts with a bounded worker pool.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/polyglot/internal/detector"
	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/store"
)

// Config holds configuration for the detection pipeline and its detector.
type Config struct {
	Detector detector.Config
	Top      int // maximum confidences kept per result (0 = all)

	// Parallel processing configuration
	Parallel ParallelConfig
}

// DefaultConfig returns a default pipeline config with detector defaults.
func DefaultConfig() Config {
	cfg := Config{
		Detector: detector.DefaultConfig(),
		Parallel: DefaultParallelConfig(),
	}
	cfg.Detector.ModelsDir = models.GetModelsDir("")
	return cfg
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithModelsDir sets the directory holding the per-language model files.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.Detector.ModelsDir = dir
	}
	return b
}

// WithSource reads models from src instead of the models directory.
func (b *Builder) WithSource(src models.Source) *Builder {
	b.cfg.Detector.Source = src
	return b
}

// WithCache shares an existing model cache with the pipeline.
func (b *Builder) WithCache(cache *store.Cache) *Builder {
	b.cfg.Detector.Cache = cache
	return b
}

// WithLanguages restricts detection to langs. An empty list keeps the default.
func (b *Builder) WithLanguages(langs []language.Language) *Builder {
	if len(langs) > 0 {
		b.cfg.Detector.Languages = langs
	}
	return b
}

// WithPreload loads every model of the configured languages at build time.
func (b *Builder) WithPreload(preload bool) *Builder {
	b.cfg.Detector.Preload = preload
	return b
}

// WithDenseMaxOrder sets the highest order stored in dense tables.
func (b *Builder) WithDenseMaxOrder(order int) *Builder {
	b.cfg.Detector.DenseMaxOrder = order
	return b
}

// WithDetectorWorkers bounds the per-text fan-out over languages.
func (b *Builder) WithDetectorWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Detector.Workers = n
	}
	return b
}

// WithTop keeps at most n confidences per result.
func (b *Builder) WithTop(n int) *Builder {
	if n >= 0 {
		b.cfg.Top = n
	}
	return b
}

// WithLogger sets the logger used by the detector and the model cache.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.cfg.Detector.Logger = logger
	return b
}

// WithParallelWorkers sets the number of parallel workers for batch processing.
func (b *Builder) WithParallelWorkers(workers int) *Builder {
	if workers > 0 {
		b.cfg.Parallel.MaxWorkers = workers
	}
	return b
}

// WithProgressCallback sets the progress callback for batch processing.
func (b *Builder) WithProgressCallback(callback ProgressCallback) *Builder {
	b.cfg.Parallel.ProgressCallback = callback
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks the configuration before any model is touched.
func (b *Builder) Validate() error {
	if b.cfg.Top < 0 {
		return errors.New("top must be non-negative")
	}
	if b.cfg.Parallel.MaxWorkers < 0 {
		return errors.New("parallel workers must be non-negative")
	}
	if b.cfg.Detector.Source == nil && b.cfg.Detector.Cache == nil {
		if _, err := models.ListAvailableModels(b.cfg.Detector.ModelsDir); err != nil {
			return fmt.Errorf("models directory not usable: %w", err)
		}
	}
	return nil
}

// Pipeline wraps a detector with result shaping and batch processing.
type Pipeline struct {
	cfg      Config
	Detector *detector.Detector
}

// Build validates the configuration and creates the detector.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	det, err := detector.New(b.cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("init detector: %w", err)
	}
	return &Pipeline{cfg: b.cfg, Detector: det}, nil
}

// New wraps an existing detector.
func New(det *detector.Detector, cfg Config) (*Pipeline, error) {
	if det == nil {
		return nil, errors.New("detector is nil")
	}
	return &Pipeline{cfg: cfg, Detector: det}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Info returns a map with key pipeline properties.
func (p *Pipeline) Info() map[string]interface{} {
	info := map[string]interface{}{
		"models_dir": p.cfg.Detector.ModelsDir,
		"top":        p.cfg.Top,
	}
	if p.Detector != nil {
		langs := p.Detector.Languages()
		codes := make([]string, 0, len(langs))
		for _, l := range langs {
			codes = append(codes, l.IsoCode639_1())
		}
		info["languages"] = codes
		info["cache"] = p.Detector.Cache().Stats()
	}
	info["parallel"] = map[string]interface{}{
		"max_workers":           p.cfg.Parallel.MaxWorkers,
		"has_progress_callback": p.cfg.Parallel.ProgressCallback != nil,
	}
	return info
}
