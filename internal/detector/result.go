package detector

import (
	"cmp"
	"slices"

	"github.com/MeKo-Tech/polyglot/internal/language"
)

// Confidence is the relative likelihood of one language. The most likely
// language of a result has Value 1.0.
type Confidence struct {
	Language language.Language `json:"language"`
	Value    float64           `json:"confidence"`
}

// sortConfidences orders by descending value, then ascending language.
func sortConfidences(cs []Confidence) {
	slices.SortFunc(cs, func(a, b Confidence) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
}

// Top returns at most n leading entries of cs. A non-positive n returns cs.
func Top(cs []Confidence, n int) []Confidence {
	if n <= 0 || n >= len(cs) {
		return cs
	}
	return cs[:n]
}
