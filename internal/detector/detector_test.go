package detector

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"testing/fstest"
	"unicode"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/models"
	"github.com/MeKo-Tech/polyglot/internal/script"
	"github.com/MeKo-Tech/polyglot/internal/store"
	"github.com/MeKo-Tech/polyglot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixtureDetector returns a detector over the fixture languages backed by
// models built from the fixture corpora.
func newFixtureDetector(t *testing.T) *Detector {
	t.Helper()

	d, err := New(Config{
		Languages: testutil.FixtureLanguages(),
		ModelsDir: testutil.FixtureModelsDir(t),
	})
	require.NoError(t, err)
	return d
}

// newRulesDetector returns a detector without any model, so only answers of
// the rule stage succeed.
func newRulesDetector(t *testing.T, langs ...language.Language) *Detector {
	t.Helper()

	d, err := New(Config{Languages: langs, Source: models.FSSource{FS: fstest.MapFS{}}})
	require.NoError(t, err)
	return d
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, language.Spoken(), config.Languages)
	assert.False(t, config.Preload)
	assert.Positive(t, config.Workers)
	assert.Nil(t, config.Cache)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		errMsg string
	}{
		{"unknown language", Config{Languages: []language.Language{language.English, language.Unknown}}, "invalid language"},
		{"negative workers", Config{Workers: -1}, "workers must be non-negative"},
		{"dense order too high", Config{DenseMaxOrder: 5}, "dense max order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.config)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNew_DefaultsToSpokenLanguages(t *testing.T) {
	d := newRulesDetector(t)
	assert.Equal(t, language.Spoken(), d.Languages())
	assert.NotContains(t, d.Languages(), language.Latin)
}

func TestNew_SortsAndDeduplicatesLanguages(t *testing.T) {
	d := newRulesDetector(t, language.Russian, language.English, language.Russian)
	assert.Equal(t, []language.Language{language.English, language.Russian}, d.Languages())
}

func TestNew_Preload(t *testing.T) {
	dir := testutil.FixtureModelsDir(t)

	d, err := New(Config{Languages: testutil.FixtureLanguages(), ModelsDir: dir, Preload: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5*len(testutil.FixtureLanguages())), d.Cache().Stats().Loaded)

	_, err = New(Config{Languages: []language.Language{language.English, language.Korean}, ModelsDir: dir, Preload: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrModelMissing))
	assert.Contains(t, err.Error(), "failed to preload models")
}

func TestConfidenceValues_Scenarios(t *testing.T) {
	d := newFixtureDetector(t)

	t.Run("unique cyrillic character", func(t *testing.T) {
		values, err := d.ConfidenceValues("Їжак")
		require.NoError(t, err)
		assert.Equal(t, []Confidence{{Language: language.Ukrainian, Value: 1.0}}, values)
	})

	t.Run("empty input", func(t *testing.T) {
		values, err := d.ConfidenceValues("")
		require.NoError(t, err)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("punctuation only", func(t *testing.T) {
		values, err := d.ConfidenceValues("?!... -- 123 //")
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("english paragraph", func(t *testing.T) {
		values, err := d.ConfidenceValues(testutil.EnglishParagraph)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(values), 2)

		assert.Equal(t, language.English, values[0].Language)
		assert.Equal(t, 1.0, values[0].Value)

		for _, v := range values[1:] {
			assert.Less(t, v.Value, 1.0)
			assert.True(t, v.Language.UsesScript(script.Latin), v.Language.String())
		}
	})
}

func TestConfidenceValues_Statistical(t *testing.T) {
	d := newFixtureDetector(t)

	tests := []struct {
		text string
		want language.Language
	}{
		{"Das Wetter war heute Morgen angenehm und die Kinder spielten im Park", language.German},
		{"Le temps était agréable ce matin", language.French},
		{"Сегодня утром была приятная погода", language.Russian},
		{"hello world", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := d.DetectLanguageOf(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfidenceValues_DecomposedInput(t *testing.T) {
	d := newRulesDetector(t, language.English, language.Ukrainian, language.Russian)

	// "ї" written as "і" followed by a combining diaeresis
	values, err := d.ConfidenceValues("\u0456\u0308жак")
	require.NoError(t, err)
	assert.Equal(t, []Confidence{{Language: language.Ukrainian, Value: 1.0}}, values)
}

func TestConfidenceValues_MissingModelIsError(t *testing.T) {
	d := newRulesDetector(t, language.English, language.German)

	_, err := d.ConfidenceValues("hello world")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrModelMissing))

	var me *store.ModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 1, me.Order)
}

func TestConfidenceValues_RuleTieFallsThrough(t *testing.T) {
	d := newRulesDetector(t, language.English, language.German)

	// one unresolved word and one German word tie, so the statistical stage runs
	_, err := d.ConfidenceValues("die Straße")
	assert.True(t, errors.Is(err, store.ErrModelMissing))

	values, err := d.ConfidenceValues("die große Straße")
	require.NoError(t, err)
	assert.Equal(t, []Confidence{{Language: language.German, Value: 1.0}}, values)
}

func TestConfidenceValues_UniqueCharactersResolveByRules(t *testing.T) {
	d := newRulesDetector(t, language.Spoken()...)

	for _, l := range language.WithUniqueCharacters() {
		if l == language.Spanish {
			// ¿ and ¡ are punctuation and never become part of a token
			continue
		}
		for _, r := range l.UniqueCharacters() {
			text := fmt.Sprintf("x%cy %c", r, unicode.ToUpper(r))
			t.Run(fmt.Sprintf("%s %q", l, r), func(t *testing.T) {
				values, err := d.ConfidenceValues(text)
				require.NoError(t, err)
				assert.Equal(t, []Confidence{{Language: l, Value: 1.0}}, values)
			})
		}
	}
}

func TestConfidenceValues_HanWords(t *testing.T) {
	tests := []struct {
		name   string
		active []language.Language
		text   string
		want   language.Language
	}{
		{"chinese and japanese active", []language.Language{language.Chinese, language.Japanese}, "東京", language.Japanese},
		{"spoken languages", language.Spoken(), "北京是中国的首都", language.Japanese},
		{"japanese inactive", []language.Language{language.Chinese, language.English}, "北京 上海", language.Chinese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newRulesDetector(t, tt.active...)
			values, err := d.ConfidenceValues(tt.text)
			require.NoError(t, err)
			assert.Equal(t, []Confidence{{Language: tt.want, Value: 1.0}}, values)
		})
	}
}

func TestDetectLanguageOf(t *testing.T) {
	d := newRulesDetector(t, language.English, language.Russian, language.Korean)

	tests := []struct {
		text string
		want language.Language
	}{
		{"hello", language.English},
		{"привет мир", language.Russian},
		{"안녕하세요", language.Korean},
		{"", language.Unknown},
		{"12345", language.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := d.DetectLanguageOf(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithLanguages_SharesCache(t *testing.T) {
	d := newFixtureDetector(t)

	sub, err := d.WithLanguages([]language.Language{language.English, language.German})
	require.NoError(t, err)
	assert.Same(t, d.Cache(), sub.Cache())
	assert.Equal(t, []language.Language{language.English, language.German}, sub.Languages())

	values, err := sub.ConfidenceValues(testutil.EnglishParagraph)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, language.English, values[0].Language)

	_, err = d.WithLanguages(nil)
	assert.Error(t, err)
}

func TestConfidenceValues_ConcurrentDeterministic(t *testing.T) {
	d := newFixtureDetector(t)
	texts := []string{
		testutil.EnglishParagraph,
		"Das Wetter war heute Morgen angenehm",
		"Сегодня утром была приятная погода",
		"Le temps était agréable ce matin",
	}

	want := make([][]Confidence, len(texts))
	ref := newFixtureDetector(t)
	for i, text := range texts {
		v, err := ref.ConfidenceValues(text)
		require.NoError(t, err)
		want[i] = v
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, text := range texts {
				v, err := d.ConfidenceValues(text)
				assert.NoError(t, err)
				assert.Equal(t, want[i], v)
			}
		}()
	}
	wg.Wait()
}

func TestTop(t *testing.T) {
	cs := []Confidence{{language.English, 1}, {language.German, 0.9}, {language.French, 0.8}}
	assert.Len(t, Top(cs, 2), 2)
	assert.Len(t, Top(cs, 0), 3)
	assert.Len(t, Top(cs, 10), 3)
}

func TestSortConfidences(t *testing.T) {
	cs := []Confidence{
		{language.Spanish, 0.9},
		{language.English, 1},
		{language.French, 0.9},
	}
	sortConfidences(cs)
	assert.Equal(t, []Confidence{
		{language.English, 1},
		{language.French, 0.9},
		{language.Spanish, 0.9},
	}, cs)
}
