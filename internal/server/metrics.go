package server

import (
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyglot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polyglot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Detection metrics
	detectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyglot_detections_total",
			Help: "Total number of detected texts",
		},
		[]string{"type", "status"}, // type: single, batch, websocket
	)

	detectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polyglot_detection_duration_seconds",
			Help:    "Detection duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"type"},
	)

	detectionTextLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polyglot_text_length_characters",
			Help:    "Length of detected texts in characters",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"type"},
	)

	detectedLanguages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyglot_detected_language_total",
			Help: "Number of texts per detected language",
		},
		[]string{"language"},
	)

	batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polyglot_batch_size",
			Help:    "Number of texts per batch request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Model cache metrics
	modelCache = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "polyglot_model_cache",
			Help: "Model cache counters",
		},
		[]string{"kind"}, // kind: loaded, failed, ngrams
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyglot_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: minute, hour, requests, data
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "polyglot_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyglot_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// recordDetection counts one detected text.
func recordDetection(kind string, res *pipeline.TextResult, err error) {
	if err != nil || res == nil {
		detectionsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	detectionsTotal.WithLabelValues(kind, "success").Inc()
	detectionTextLength.WithLabelValues(kind).Observe(float64(res.Characters))
	detectedLanguages.WithLabelValues(res.Language.String()).Inc()
}

// recordCacheStats publishes the model cache counters.
func (s *Server) recordCacheStats() {
	cache := s.pipeline.Detector.Cache()
	if cache == nil {
		return
	}
	stats := cache.Stats()
	modelCache.WithLabelValues("loaded").Set(float64(stats.Loaded))
	modelCache.WithLabelValues("failed").Set(float64(stats.Failed))
	modelCache.WithLabelValues("ngrams").Set(float64(stats.Ngrams))
}
