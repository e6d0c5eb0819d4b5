package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/MeKo-Tech/polyglot/internal/store"
	"github.com/MeKo-Tech/polyglot/internal/version"
)

const (
	formatText = "text"
	formatCSV  = "csv"
)

// BatchDetectRequest is the body of POST /detect/batch.
type BatchDetectRequest struct {
	Texts     []string `json:"texts"`
	Languages []string `json:"languages,omitempty"`
	Top       int      `json:"top,omitempty"`
}

// BatchDetectResult is the outcome for one text of a batch.
type BatchDetectResult struct {
	Index   int                  `json:"index"`
	Success bool                 `json:"success"`
	Result  *pipeline.TextResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// BatchDetectResponse is the body returned by POST /detect/batch.
type BatchDetectResponse struct {
	Success bool                `json:"success"`
	Results []BatchDetectResult `json:"results"`
	Summary BatchSummary        `json:"summary"`
}

// BatchSummary aggregates a batch.
type BatchSummary struct {
	TotalItems    int     `json:"total_items"`
	Successful    int     `json:"successful"`
	Failed        int     `json:"failed"`
	TotalDuration float64 `json:"total_duration_seconds"`
	AvgItemTime   float64 `json:"avg_item_time_seconds"`
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// languagesHandler lists every spoken language with its model availability.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	orders := make(map[string][]int)
	if infos, err := models.ListAvailableModels(s.pipeline.Config().Detector.ModelsDir); err == nil {
		for _, info := range infos {
			orders[info.IsoCode] = info.Orders
		}
	}

	active := s.activeSet()
	out := make([]LanguageInfo, 0, len(language.Spoken()))
	for _, l := range language.Spoken() {
		scripts := l.Scripts()
		names := make([]string, len(scripts))
		for i, sc := range scripts {
			names[i] = sc.String()
		}
		iso := l.IsoCode639_1()
		out = append(out, LanguageInfo{
			Name:      l.String(),
			IsoCode:   iso,
			IsoCode3:  l.IsoCode639_3(),
			Scripts:   names,
			Active:    active[l],
			Models:    orders[iso],
			Available: len(orders[iso]) == models.MaxOrder-models.MinOrder+1,
		})
	}

	s.writeJSON(w, http.StatusOK, LanguagesResponse{Languages: out, Count: len(out)})
}

// detectHandler ranks the languages of a single text.
func (s *Server) detectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DetectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "No text provided", http.StatusBadRequest)
		return
	}

	pl, err := s.pipelineFor(req.Languages, req.Top)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := pl.DetectTextContext(r.Context(), req.Text)
	recordDetection("single", res, err)
	detectionDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	s.recordCacheStats()
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Detection failed: %v", err), detectionStatus(err))
		return
	}

	precision := pipeline.DefaultPrecision
	switch r.URL.Query().Get("format") {
	case formatText:
		txt, err := pipeline.ToPlainText(res, precision)
		if err != nil {
			http.Error(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(txt + "\n"))
	case formatCSV:
		csv, err := pipeline.ToCSVText(res, precision)
		if err != nil {
			http.Error(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	default:
		s.writeJSON(w, http.StatusOK, DetectResponse{Success: true, Result: res})
	}
}

// detectBatchHandler ranks the languages of several texts in parallel.
func (s *Server) detectBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchDetectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		s.writeErrorResponse(w, "No texts provided in batch request", http.StatusBadRequest)
		return
	}
	if len(req.Texts) > s.maxBatchSize {
		s.writeErrorResponse(w, fmt.Sprintf("Batch size too large (maximum %d items)", s.maxBatchSize), http.StatusBadRequest)
		return
	}

	pl, err := s.pipelineFor(req.Languages, req.Top)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	errs := make(map[int]error)
	config := pl.Config().Parallel
	config.ErrorHandler = func(index int, _ string, err error) { errs[index] = err }

	start := time.Now()
	results, err := pl.DetectTextsParallelContext(r.Context(), req.Texts, config)
	duration := time.Since(start)
	if results == nil {
		detectionsTotal.WithLabelValues("batch", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Batch detection failed: %v", err), detectionStatus(err))
		return
	}

	resp := BatchDetectResponse{Results: make([]BatchDetectResult, len(req.Texts))}
	for i, res := range results {
		item := BatchDetectResult{Index: i, Success: res != nil, Result: res}
		if res == nil {
			if errs[i] == nil {
				errs[i] = errors.New("detection failed")
			}
			item.Error = errs[i].Error()
			resp.Summary.Failed++
		} else {
			resp.Summary.Successful++
		}
		resp.Results[i] = item
	}
	resp.Success = resp.Summary.Failed == 0
	resp.Summary.TotalItems = len(req.Texts)
	resp.Summary.TotalDuration = duration.Seconds()
	resp.Summary.AvgItemTime = resp.Summary.TotalDuration / float64(len(req.Texts))

	for i, res := range results {
		recordDetection("batch", res, errs[i])
	}
	detectionDuration.WithLabelValues("batch").Observe(duration.Seconds())
	batchSize.Observe(float64(len(req.Texts)))
	s.recordCacheStats()

	s.writeJSON(w, http.StatusOK, resp)
}

// decodeBody reads a size-limited JSON body into dst and reports failures.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		s.writeErrorResponse(w, fmt.Sprintf("Failed to parse JSON request: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// detectionStatus maps detection errors to HTTP status codes.
func detectionStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrModelMissing), errors.Is(err, store.ErrModelCorrupted):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, DetectResponse{Success: false, Error: message})
}
