// Package store loads n-gram frequency records into lookup models and caches
// them per (language, order).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
)

var (
	// ErrModelMissing reports that the source has no record for a language and order.
	ErrModelMissing = errors.New("n-gram model missing")
	// ErrModelCorrupted reports a record that cannot be decoded.
	ErrModelCorrupted = errors.New("n-gram model corrupted")
)

// ModelError wraps a load failure with the model it belongs to.
type ModelError struct {
	Language language.Language
	Order    int
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s %d-gram model: %v", e.Language, e.Order, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// DefaultDenseMaxOrder is the highest order stored densely unless overridden.
const DefaultDenseMaxOrder = ngram.FastMaxLen

// Options tunes how models are built.
type Options struct {
	// DenseMaxOrder is the highest order that gets a dense array on
	// single-Latin-script languages. Zero means DefaultDenseMaxOrder, a
	// negative value disables dense storage. Values above ngram.PackMaxLen
	// are clamped.
	DenseMaxOrder int
}

func (o Options) denseMaxOrder() int {
	switch {
	case o.DenseMaxOrder == 0:
		return DefaultDenseMaxOrder
	case o.DenseMaxOrder < 0:
		return 0
	case o.DenseMaxOrder > ngram.PackMaxLen:
		return ngram.PackMaxLen
	}
	return o.DenseMaxOrder
}

// Model maps the n-grams of one order to the natural log of their relative
// frequency in one language. A Model is immutable once loaded.
type Model struct {
	lang    language.Language
	order   int
	low     int
	dense   []float64
	sparse  map[string]float64
	entries int
}

type record struct {
	Language string            `json:"language"`
	Ngrams   map[string]string `json:"ngrams"`
}

// Load reads and decodes the record of lang and order from src with default options.
func Load(lang language.Language, order int, src models.Source) (*Model, error) {
	return LoadWithOptions(lang, order, src, Options{})
}

// LoadWithOptions reads and decodes the record of lang and order from src.
func LoadWithOptions(lang language.Language, order int, src models.Source, opts Options) (*Model, error) {
	if order < ngram.MinOrder || order > ngram.MaxOrder {
		return nil, &ModelError{Language: lang, Order: order, Err: fmt.Errorf("invalid order %d", order)}
	}

	rc, err := src.Open(lang.IsoCode639_1(), order)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ModelError{Language: lang, Order: order, Err: ErrModelMissing}
		}
		return nil, &ModelError{Language: lang, Order: order, Err: err}
	}
	defer func() { _ = rc.Close() }()

	m, err := Decode(lang, order, rc, opts)
	if err != nil {
		return nil, &ModelError{Language: lang, Order: order, Err: err}
	}
	return m, nil
}

// Decode builds a model from a JSON frequency record of the form
// {"language": "...", "ngrams": {"num/den": "ab cd ..."}}. Every n-gram listed
// under a fraction gets weight ln(num/den). Errors wrap ErrModelCorrupted.
func Decode(lang language.Language, order int, r io.Reader, opts Options) (*Model, error) {
	var rec record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelCorrupted, err)
	}
	if rec.Language != "" {
		if declared, ok := language.ByName(rec.Language); ok && declared != lang {
			return nil, fmt.Errorf("%w: record declares %s", ErrModelCorrupted, declared)
		}
	}

	m := &Model{lang: lang, order: order, sparse: make(map[string]float64)}
	if lang.SingleLatin() && order <= opts.denseMaxOrder() {
		low, high := ngram.KeyRange(order)
		m.low = low
		m.dense = make([]float64, high-low+1)
	}

	for fraction, list := range rec.Ngrams {
		w, err := parseFraction(fraction)
		if err != nil {
			return nil, err
		}
		for _, piece := range strings.Split(list, " ") {
			if piece == "" {
				continue
			}
			if utf8.RuneCountInString(piece) != order {
				return nil, fmt.Errorf("%w: n-gram %q has wrong length for order %d", ErrModelCorrupted, piece, order)
			}
			m.put(ngram.New(piece), w)
		}
	}
	return m, nil
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("%w: frequency key %q is not a fraction", ErrModelCorrupted, s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency key %q: %v", ErrModelCorrupted, s, err)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency key %q: %v", ErrModelCorrupted, s, err)
	}
	if n <= 0 || d <= 0 || n > d {
		return 0, fmt.Errorf("%w: frequency key %q is not a relative frequency", ErrModelCorrupted, s)
	}
	return math.Log(float64(n) / float64(d)), nil
}

func (m *Model) put(g ngram.Ngram, w float64) {
	if m.dense != nil {
		if k, ok := g.Key(); ok {
			if m.dense[k-m.low] == 0 {
				m.entries++
			}
			m.dense[k-m.low] = w
			return
		}
	}
	if _, dup := m.sparse[g.String()]; !dup {
		m.entries++
	}
	m.sparse[g.String()] = w
}

// Weight returns the log relative frequency of g, or 0 when the model has no
// entry for it.
func (m *Model) Weight(g ngram.Ngram) float64 {
	if m.dense != nil && g.Len() == m.order {
		if k, ok := g.Key(); ok {
			return m.dense[k-m.low]
		}
	}
	return m.sparse[g.String()]
}

// Language returns the language the model belongs to.
func (m *Model) Language() language.Language { return m.lang }

// Order returns the n-gram order of the model.
func (m *Model) Order() int { return m.order }

// Dense reports whether ASCII n-grams are held in a dense array.
func (m *Model) Dense() bool { return m.dense != nil }

// Len returns the number of n-grams declared by the record.
func (m *Model) Len() int { return m.entries }
