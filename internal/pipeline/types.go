package pipeline

import (
	"github.com/MeKo-Tech/polyglot/internal/detector"
	"github.com/MeKo-Tech/polyglot/internal/language"
)

// TextResult is the detection output for one text.
type TextResult struct {
	Language    language.Language     `json:"language"`
	IsoCode     string                `json:"iso_code,omitempty"`
	Confidences []detector.Confidence `json:"confidences"`
	Characters  int                   `json:"characters"`
	Processing  struct {
		TotalNs int64 `json:"total_ns"`
	} `json:"processing"`
}

// Reliable reports whether a language was found.
func (r *TextResult) Reliable() bool {
	return r != nil && r.Language != language.Unknown
}
