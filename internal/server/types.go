// Package server exposes language detection over HTTP and WebSocket.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline     *pipeline.Pipeline
	rateLimiter  *RateLimiter
	corsOrigin   string
	maxBodyBytes int64
	maxBatchSize int
	maxTop       int
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxBodyKB      int64
	MaxBatchSize   int
	TimeoutSec     int
	PipelineConfig pipeline.Config
	RateLimit      RateLimitConfig
}

// RateLimitConfig holds per-client limits. Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// LanguageInfo describes one language known to the server.
type LanguageInfo struct {
	Name      string   `json:"name"`
	IsoCode   string   `json:"iso_code"`
	IsoCode3  string   `json:"iso_code_639_3"`
	Scripts   []string `json:"scripts"`
	Active    bool     `json:"active"`
	Models    []int    `json:"model_orders,omitempty"`
	Available bool     `json:"models_available"`
}

// LanguagesResponse is returned by GET /languages.
type LanguagesResponse struct {
	Languages []LanguageInfo `json:"languages"`
	Count     int            `json:"count"`
}

// DetectRequest is the body of POST /detect and one item of a batch.
type DetectRequest struct {
	Text      string   `json:"text"`
	Languages []string `json:"languages,omitempty"`
	Top       int      `json:"top,omitempty"`
}

// DetectResponse is the body returned by POST /detect.
type DetectResponse struct {
	Success bool                 `json:"success"`
	Result  *pipeline.TextResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// NewServer creates a server with a detection pipeline built from config.
func NewServer(config Config) (*Server, error) {
	cfg := config.PipelineConfig
	pl, err := pipeline.NewBuilder().
		WithModelsDir(cfg.Detector.ModelsDir).
		WithSource(cfg.Detector.Source).
		WithCache(cfg.Detector.Cache).
		WithLanguages(cfg.Detector.Languages).
		WithPreload(cfg.Detector.Preload).
		WithDenseMaxOrder(cfg.Detector.DenseMaxOrder).
		WithDetectorWorkers(cfg.Detector.Workers).
		WithLogger(cfg.Detector.Logger).
		WithTop(cfg.Top).
		Build()
	if err != nil {
		return nil, err
	}
	return NewServerWithPipeline(pl, config)
}

// NewServerWithPipeline creates a server around an existing pipeline.
func NewServerWithPipeline(pl *pipeline.Pipeline, config Config) (*Server, error) {
	if pl == nil {
		return nil, errors.New("pipeline is nil")
	}
	if config.MaxBodyKB <= 0 {
		config.MaxBodyKB = 1024
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 100
	}
	if config.CORSOrigin == "" {
		config.CORSOrigin = "*"
	}

	s := &Server{
		pipeline:     pl,
		corsOrigin:   config.CORSOrigin,
		maxBodyBytes: config.MaxBodyKB * 1024,
		maxBatchSize: config.MaxBatchSize,
		maxTop:       len(language.All()),
	}
	if rl := config.RateLimit; rl.Enabled {
		s.rateLimiter = NewRateLimiter(rl.RequestsPerMinute, rl.RequestsPerHour, rl.MaxRequestsPerDay, rl.MaxDataPerDay)
	}
	return s, nil
}

// Pipeline returns the server's detection pipeline.
func (s *Server) Pipeline() *pipeline.Pipeline { return s.pipeline }

// Close releases server resources.
func (s *Server) Close() error {
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/languages", s.corsMiddleware(s.languagesHandler))
	mux.HandleFunc("/detect", s.corsMiddleware(s.rateLimitMiddleware(s.detectHandler)))
	mux.HandleFunc("/detect/batch", s.corsMiddleware(s.rateLimitMiddleware(s.detectBatchHandler)))
	mux.HandleFunc("/ws", s.rateLimitMiddleware(s.detectWebSocketHandler))
	mux.Handle("/metrics", promhttp.Handler())
}

// pipelineFor returns the server pipeline, or one restricted to codes that
// shares the server's model cache.
func (s *Server) pipelineFor(codes []string, top int) (*pipeline.Pipeline, error) {
	if len(codes) == 0 && top == 0 {
		return s.pipeline, nil
	}
	if top < 0 || top > s.maxTop {
		return nil, fmt.Errorf("invalid top: %d (must be between 0 and %d)", top, s.maxTop)
	}

	det := s.pipeline.Detector
	if len(codes) > 0 {
		langs, err := language.ParseList(codes)
		if err != nil {
			return nil, err
		}
		if det, err = det.WithLanguages(langs); err != nil {
			return nil, err
		}
	}

	cfg := s.pipeline.Config()
	if top > 0 {
		cfg.Top = top
	}
	return pipeline.New(det, cfg)
}

// activeSet reports which languages the server pipeline detects.
func (s *Server) activeSet() map[language.Language]bool {
	active := make(map[language.Language]bool)
	for _, l := range s.pipeline.Detector.Languages() {
		active[l] = true
	}
	return active
}
