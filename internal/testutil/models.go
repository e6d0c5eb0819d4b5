package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/ngram"
	"github.com/stretchr/testify/require"
)

// ModelRecord is the on-disk shape of one frequency file.
type ModelRecord struct {
	Language string            `json:"language"`
	Ngrams   map[string]string `json:"ngrams"`
}

// NewModelRecord groups n-grams by their frequency fraction.
func NewModelRecord(lang language.Language, fractions map[string][]string) ModelRecord {
	rec := ModelRecord{Language: strings.ToUpper(lang.String()), Ngrams: make(map[string]string, len(fractions))}
	for frac, grams := range fractions {
		rec.Ngrams[frac] = strings.Join(grams, " ")
	}
	return rec
}

// WriteModel writes rec as the frequency file of isoCode and order below dir.
func WriteModel(dir, isoCode string, order int, rec ModelRecord) error {
	name, err := models.FileName(order)
	if err != nil {
		return err
	}
	langDir := filepath.Join(dir, isoCode)
	if err := EnsureDir(langDir); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal model record: %w", err)
	}
	return os.WriteFile(filepath.Join(langDir, name), data, 0o600)
}

// BuildModels derives add-one smoothed frequency records from corpora. Every
// language gets an entry for every n-gram seen in any corpus, so scores are
// comparable across the fixture languages.
func BuildModels(corpora map[language.Language]string) map[language.Language][ngram.MaxOrder]ModelRecord {
	counts := make(map[language.Language][ngram.MaxOrder]map[string]int, len(corpora))
	var vocab [ngram.MaxOrder]map[string]struct{}
	for i := range vocab {
		vocab[i] = make(map[string]struct{})
	}

	for lang, text := range corpora {
		f := ngram.Extract(text)
		var c [ngram.MaxOrder]map[string]int
		for order := ngram.MinOrder; order <= ngram.MaxOrder; order++ {
			c[order-1] = make(map[string]int)
			for _, g := range f.Ngrams(order) {
				c[order-1][g.String()]++
				vocab[order-1][g.String()] = struct{}{}
			}
		}
		counts[lang] = c
	}

	out := make(map[language.Language][ngram.MaxOrder]ModelRecord, len(corpora))
	for lang, c := range counts {
		var recs [ngram.MaxOrder]ModelRecord
		for i := range recs {
			total := 0
			for _, n := range c[i] {
				total += n
			}
			den := total + len(vocab[i])

			fractions := make(map[string][]string)
			for g := range vocab[i] {
				key := fmt.Sprintf("%d/%d", c[i][g]+1, den)
				fractions[key] = append(fractions[key], g)
			}
			for _, grams := range fractions {
				slices.Sort(grams)
			}
			recs[i] = NewModelRecord(lang, fractions)
		}
		out[lang] = recs
	}
	return out
}

// WriteModels builds models from corpora and writes them below dir.
func WriteModels(dir string, corpora map[language.Language]string) error {
	for lang, recs := range BuildModels(corpora) {
		for i, rec := range recs {
			if err := WriteModel(dir, lang.IsoCode639_1(), i+1, rec); err != nil {
				return fmt.Errorf("failed to write %s model: %w", lang, err)
			}
		}
	}
	return nil
}

// FixtureLanguages returns the languages of Corpora in registry order.
func FixtureLanguages() []language.Language {
	out := make([]language.Language, 0, len(Corpora))
	for l := range Corpora {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// FixtureModelsDir writes models for every fixture language into a fresh
// temporary directory and returns it.
func FixtureModelsDir(t *testing.T) string {
	t.Helper()

	dir := CreateTempDir(t)
	require.NoError(t, WriteModels(dir, Corpora), "Failed to write fixture models")
	return dir
}
