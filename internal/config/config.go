// Package config loads polyglot settings from files, environment variables
// and command line flags.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MeKo-Tech/polyglot/internal/detector"
	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/MeKo-Tech/polyglot/internal/store"
)

// Config represents the complete configuration for polyglot. It covers all
// commands (detect, batch, serve) and is filled from configuration files,
// environment variables and command line flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// DetectorConfig contains language detection settings.
type DetectorConfig struct {
	Languages     []string `mapstructure:"languages" yaml:"languages" json:"languages"`
	Preload       bool     `mapstructure:"preload" yaml:"preload" json:"preload"`
	Workers       int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	DenseMaxOrder int      `mapstructure:"dense_max_order" yaml:"dense_max_order" json:"dense_max_order"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	File      string `mapstructure:"file" yaml:"file" json:"file"`
	Precision int    `mapstructure:"precision" yaml:"precision" json:"precision"`
	Top       int    `mapstructure:"top" yaml:"top" json:"top"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxBodyKB       int             `mapstructure:"max_body_kb" yaml:"max_body_kb" json:"max_body_kb"`
	MaxBatchSize    int             `mapstructure:"max_batch_size" yaml:"max_batch_size" json:"max_batch_size"`
	TimeoutSec      int             `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains per-client request limits. Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool  `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day" yaml:"max_data_per_day" json:"max_data_per_day"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
	MaxFileSize     string   `mapstructure:"max_file_size" yaml:"max_file_size" json:"max_file_size"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	det := detector.DefaultConfig()
	return Config{
		ModelsDir: models.DefaultModelsDir,
		LogLevel:  "info",
		Detector: DetectorConfig{
			Languages:     []string{},
			Workers:       det.Workers,
			DenseMaxOrder: store.DefaultDenseMaxOrder,
		},
		Output: OutputConfig{
			Format:    "text",
			Precision: pipeline.DefaultPrecision,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxBodyKB:       1024,
			MaxBatchSize:    100,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 120,
				RequestsPerHour:   3600,
			},
		},
		Batch: BatchConfig{
			Workers:         pipeline.DefaultParallelConfig().MaxWorkers,
			IncludePatterns: []string{"*.txt"},
			ExcludePatterns: []string{},
		},
	}
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		return fmt.Errorf("invalid output precision: %d (must be between 0 and 10)", c.Output.Precision)
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("invalid output top: %d (must be non-negative)", c.Output.Top)
	}

	if _, err := c.ParsedLanguages(); err != nil {
		return err
	}
	if c.Detector.Workers < 0 {
		return fmt.Errorf("invalid detector workers: %d (must be non-negative)", c.Detector.Workers)
	}
	if c.Detector.DenseMaxOrder > ngram.PackMaxLen {
		return fmt.Errorf("invalid dense max order: %d (must be at most %d)", c.Detector.DenseMaxOrder, ngram.PackMaxLen)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxBodyKB <= 0 {
		return fmt.Errorf("invalid max body size: %d (must be positive)", c.Server.MaxBodyKB)
	}
	if c.Server.MaxBatchSize <= 0 {
		return fmt.Errorf("invalid max batch size: %d (must be positive)", c.Server.MaxBatchSize)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	rl := c.Server.RateLimit
	if rl.RequestsPerMinute < 0 || rl.RequestsPerHour < 0 || rl.MaxRequestsPerDay < 0 || rl.MaxDataPerDay < 0 {
		return fmt.Errorf("invalid rate limit: limits must be non-negative")
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	return nil
}

// ParsedLanguages resolves the configured languages. Entries may be codes or
// names and may hold comma separated lists. An empty result means all spoken
// languages.
func (c *Config) ParsedLanguages() ([]language.Language, error) {
	var codes []string
	for _, v := range c.Detector.Languages {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				codes = append(codes, part)
			}
		}
	}
	langs, err := language.ParseList(codes)
	if err != nil {
		return nil, fmt.Errorf("invalid detector languages: %w", err)
	}
	return langs, nil
}

// ToDetectorConfig converts the config to the detector configuration.
func (c *Config) ToDetectorConfig() (detector.Config, error) {
	cfg := detector.DefaultConfig()
	langs, err := c.ParsedLanguages()
	if err != nil {
		return cfg, err
	}
	if len(langs) > 0 {
		cfg.Languages = langs
	}
	cfg.ModelsDir = models.GetModelsDir(c.ModelsDir)
	cfg.Preload = c.Detector.Preload
	cfg.DenseMaxOrder = c.Detector.DenseMaxOrder
	if c.Detector.Workers > 0 {
		cfg.Workers = c.Detector.Workers
	}
	return cfg, nil
}

// ToPipelineConfig converts the config to the pipeline configuration.
func (c *Config) ToPipelineConfig() (pipeline.Config, error) {
	det, err := c.ToDetectorConfig()
	if err != nil {
		return pipeline.Config{}, err
	}
	parallel := pipeline.DefaultParallelConfig()
	if c.Batch.Workers > 0 {
		parallel.MaxWorkers = c.Batch.Workers
	}
	return pipeline.Config{Detector: det, Top: c.Output.Top, Parallel: parallel}, nil
}
