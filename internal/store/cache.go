package store

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CacheOptions configures a Cache.
type CacheOptions struct {
	Options

	// PreloadWorkers bounds concurrent loads in Preload. Zero means GOMAXPROCS.
	PreloadWorkers int
	Logger         *slog.Logger
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Loaded int64 `json:"loaded"`
	Failed int64 `json:"failed"`
	Ngrams int64 `json:"ngrams"`
}

type cacheKey struct {
	lang  language.Language
	order int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s/%d", k.lang.IsoCode639_1(), k.order)
}

type cacheEntry struct {
	model *Model
	err   error
}

// Cache memoizes models per (language, order). Each key is loaded at most
// once, including failed loads, and concurrent first requests for the same
// key share a single load. A Cache is safe for concurrent use.
type Cache struct {
	src    models.Source
	opts   CacheOptions
	logger *slog.Logger

	entries sync.Map
	group   singleflight.Group

	loaded atomic.Int64
	failed atomic.Int64
	ngrams atomic.Int64
}

// NewCache returns a cache reading from src with default options.
func NewCache(src models.Source) *Cache {
	return NewCacheWithOptions(src, CacheOptions{})
}

// NewCacheWithOptions returns a cache reading from src.
func NewCacheWithOptions(src models.Source, opts CacheOptions) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{src: src, opts: opts, logger: logger}
}

// Source returns the source the cache reads from.
func (c *Cache) Source() models.Source { return c.src }

// Get returns the model of lang and order, loading it on first use.
func (c *Cache) Get(lang language.Language, order int) (*Model, error) {
	key := cacheKey{lang: lang, order: order}
	if v, ok := c.entries.Load(key); ok {
		e := v.(*cacheEntry)
		return e.model, e.err
	}

	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		e := c.load(key)
		c.entries.Store(key, e)
		return e, nil
	})
	e := v.(*cacheEntry)
	return e.model, e.err
}

func (c *Cache) load(key cacheKey) *cacheEntry {
	start := time.Now()
	m, err := LoadWithOptions(key.lang, key.order, c.src, c.opts.Options)
	if err != nil {
		c.failed.Add(1)
		c.logger.Warn("Failed to load n-gram model",
			"language", key.lang.String(),
			"order", key.order,
			"error", err)
		return &cacheEntry{err: err}
	}

	c.loaded.Add(1)
	c.ngrams.Add(int64(m.Len()))
	c.logger.Debug("Loaded n-gram model",
		"language", key.lang.String(),
		"order", key.order,
		"ngrams", m.Len(),
		"dense", m.Dense(),
		"duration", time.Since(start))
	return &cacheEntry{model: m}
}

// Preload loads every order of every language in langs and returns the
// first error encountered. Cancelling ctx stops scheduling further loads.
func (c *Cache) Preload(ctx context.Context, langs []language.Language) error {
	workers := c.opts.PreloadWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, lang := range langs {
		for order := ngram.MinOrder; order <= ngram.MaxOrder; order++ {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, err := c.Get(lang, order)
				return err
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Loaded: c.loaded.Load(),
		Failed: c.failed.Load(),
		Ngrams: c.ngrams.Load(),
	}
}
