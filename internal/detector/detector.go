// Package detector identifies the natural language of a text.
//
// Detection runs in two stages. A rule stage looks at the scripts of every
// word and at characters unique to one language; when it reaches a single
// answer that answer is returned with confidence 1.0. Otherwise a statistical
// stage sums the n-gram log frequencies of orders one to five for every
// remaining candidate and ranks the candidates relative to the best one.
package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
	"github.com/MeKo-Tech/polyglot/internal/script"
	"github.com/MeKo-Tech/polyglot/internal/store"
	"golang.org/x/text/unicode/norm"
)

// Config holds the configuration for a Detector.
type Config struct {
	Languages     []language.Language // Active languages (default: language.Spoken())
	Preload       bool                // Load every model of every active language in New
	ModelsDir     string              // Models directory used when Source and Cache are nil
	Source        models.Source       // Frequency record source (default: DirSource of ModelsDir)
	Cache         *store.Cache        // Shared model cache (default: a new cache over Source)
	DenseMaxOrder int                 // Highest densely stored order for a new cache (default: 3)
	Workers       int                 // Concurrent language scorers per order (default: GOMAXPROCS)
	Logger        *slog.Logger        // Logger (default: slog.Default())
}

// DefaultConfig returns a configuration detecting every spoken language with
// lazily loaded models from the default models directory.
func DefaultConfig() Config {
	return Config{
		Languages: language.Spoken(),
		Workers:   runtime.GOMAXPROCS(0),
	}
}

func validateConfig(cfg Config) error {
	for _, l := range cfg.Languages {
		if l < 0 || l >= language.Unknown {
			return fmt.Errorf("invalid language in configuration: %d", int(l))
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", cfg.Workers)
	}
	if cfg.DenseMaxOrder > ngram.PackMaxLen {
		return fmt.Errorf("dense max order must be at most %d, got %d", ngram.PackMaxLen, cfg.DenseMaxOrder)
	}
	return nil
}

type exclusiveScript struct {
	script script.Script
	owner  language.Language
}

// Detector detects languages among a fixed set of active languages.
// A Detector is safe for concurrent use.
type Detector struct {
	languages  []language.Language
	active     [int(language.Unknown) + 1]bool
	exclusive  []exclusiveScript
	withUnique []language.Language

	cache   *store.Cache
	workers int
	logger  *slog.Logger
}

// New creates a detector. With cfg.Preload set, every model of every active
// language is loaded before New returns and a missing or corrupted model is
// reported here instead of during detection.
func New(cfg Config) (*Detector, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = language.Spoken()
	}
	langs = slices.Clone(langs)
	slices.Sort(langs)
	langs = slices.Compact(langs)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	cache := cfg.Cache
	if cache == nil {
		src := cfg.Source
		if src == nil {
			src = models.NewDirSource(cfg.ModelsDir)
		}
		cache = store.NewCacheWithOptions(src, store.CacheOptions{
			Options:        store.Options{DenseMaxOrder: cfg.DenseMaxOrder},
			PreloadWorkers: workers,
			Logger:         logger,
		})
	}

	d := &Detector{
		languages: langs,
		cache:     cache,
		workers:   workers,
		logger:    logger,
	}
	for _, l := range langs {
		d.active[l] = true
		if len(l.UniqueCharacters()) > 0 {
			d.withUnique = append(d.withUnique, l)
		}
	}
	d.exclusive = exclusiveScripts(langs)

	logger.Debug("Initializing language detector",
		"languages", len(langs),
		"exclusive_scripts", len(d.exclusive),
		"preload", cfg.Preload,
		"workers", workers)

	if cfg.Preload {
		if err := cache.Preload(context.Background(), langs); err != nil {
			return nil, fmt.Errorf("failed to preload models: %w", err)
		}
	}

	return d, nil
}

// exclusiveScripts returns, in script order, every script used by exactly
// one of langs together with that language.
func exclusiveScripts(langs []language.Language) []exclusiveScript {
	var out []exclusiveScript
	for _, s := range script.Scripts() {
		users := language.WithScript(langs, s)
		if len(users) == 1 {
			out = append(out, exclusiveScript{script: s, owner: users[0]})
		}
	}
	return out
}

// WithLanguages returns a detector for a different active set that shares
// this detector's model cache, worker bound and logger.
func (d *Detector) WithLanguages(langs []language.Language) (*Detector, error) {
	if len(langs) == 0 {
		return nil, errors.New("no languages given")
	}
	return New(Config{
		Languages: langs,
		Cache:     d.cache,
		Workers:   d.workers,
		Logger:    d.logger,
	})
}

// Languages returns the active languages in registry order.
func (d *Detector) Languages() []language.Language {
	return slices.Clone(d.languages)
}

// Cache returns the model cache backing the detector.
func (d *Detector) Cache() *store.Cache { return d.cache }

func (d *Detector) isActive(l language.Language) bool {
	return l >= 0 && l < language.Unknown && d.active[l]
}

// ConfidenceValues ranks the active languages that may have produced text.
// The result is ordered by descending confidence and then by language; the
// first entry always has confidence 1.0. Text without any letter yields an
// empty result. Model load failures are returned as errors wrapping
// store.ErrModelMissing or store.ErrModelCorrupted.
func (d *Detector) ConfidenceValues(text string) ([]Confidence, error) {
	f := ngram.Extract(norm.NFC.String(text))
	if f.Empty() {
		return []Confidence{}, nil
	}

	if l := d.detectWithRules(f.Tokens); l != language.Unknown {
		return []Confidence{{Language: l, Value: 1.0}}, nil
	}

	return d.score(f, d.filterByRules(f.Tokens))
}

// DetectLanguageOf returns the most likely language of text, or
// language.Unknown when there is none.
func (d *Detector) DetectLanguageOf(text string) (language.Language, error) {
	values, err := d.ConfidenceValues(text)
	if err != nil {
		return language.Unknown, err
	}
	if len(values) == 0 {
		return language.Unknown, nil
	}
	return values[0].Language, nil
}
