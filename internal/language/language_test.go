package language

import (
	"encoding/json"
	"testing"
	"unicode"

	"github.com/MeKo-Tech/polyglot/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySubsets(t *testing.T) {
	assert.Len(t, All(), int(Unknown))
	assert.Len(t, Spoken(), int(Unknown)-1)
	assert.NotContains(t, Spoken(), Latin)
	assert.NotContains(t, All(), Unknown)

	assert.ElementsMatch(t, []Language{Arabic, Persian, Urdu}, WithArabicScript())
	assert.ElementsMatch(t, []Language{Hindi, Marathi}, WithDevanagariScript())
	assert.ElementsMatch(t,
		[]Language{Belarusian, Bulgarian, Kazakh, Macedonian, Mongolian, Russian, Serbian, Ukrainian},
		WithCyrillicScript())
	assert.Contains(t, WithLatinScript(), English)
	assert.NotContains(t, WithLatinScript(), Russian)
}

func TestSubsetsAreCopies(t *testing.T) {
	a := All()
	a[0] = Unknown
	assert.Equal(t, Afrikaans, All()[0])
}

func TestWithScript(t *testing.T) {
	got := WithScript([]Language{English, Japanese, Chinese, Russian}, script.Han)
	assert.Equal(t, []Language{Japanese, Chinese}, got)

	assert.Empty(t, WithScript([]Language{English}, script.Thai))
	assert.Empty(t, WithScript(nil, script.Latin))
}

func TestISOLookup(t *testing.T) {
	tests := []struct {
		iso1 string
		iso3 string
		want Language
	}{
		{"en", "eng", English},
		{"de", "deu", German},
		{"fr", "fra", French},
		{"ja", "jpn", Japanese},
		{"zh", "zho", Chinese},
		{"ru", "rus", Russian},
		{"he", "heb", Hebrew},
		{"id", "ind", Indonesian},
	}

	for _, tt := range tests {
		t.Run(tt.iso1, func(t *testing.T) {
			l, ok := ByISOCode639_1(tt.iso1)
			require.True(t, ok)
			assert.Equal(t, tt.want, l)
			assert.Equal(t, tt.iso1, l.IsoCode639_1())
			assert.Equal(t, tt.iso3, l.IsoCode639_3())

			l, ok = ByISOCode639_3(tt.iso3)
			require.True(t, ok)
			assert.Equal(t, tt.want, l)
		})
	}

	_, ok := ByISOCode639_1("xx")
	assert.False(t, ok)
	_, ok = ByISOCode639_3("xxx")
	assert.False(t, ok)

	l, ok := ByISOCode639_1("EN")
	require.True(t, ok)
	assert.Equal(t, English, l)
}

func TestEveryLanguageHasCodes(t *testing.T) {
	for _, l := range All() {
		assert.Len(t, l.IsoCode639_1(), 2, l.String())
		assert.Len(t, l.IsoCode639_3(), 3, l.String())
		assert.NotEmpty(t, l.Scripts(), l.String())
	}
	assert.Empty(t, Unknown.IsoCode639_1())
	assert.Empty(t, Unknown.Scripts())
	assert.Empty(t, Unknown.UniqueCharacters())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"en", English, false},
		{"deu", German, false},
		{"Spanish", Spanish, false},
		{" swedish ", Swedish, false},
		{"klingon", Unknown, true},
		{"", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	list, err := ParseList([]string{"en", "", "de", "French"})
	require.NoError(t, err)
	assert.Equal(t, []Language{English, German, French}, list)

	_, err = ParseList([]string{"en", "zz"})
	require.Error(t, err)
}

func TestContainsUnique(t *testing.T) {
	assert.True(t, German.ContainsUnique('ß'))
	assert.False(t, German.ContainsUnique('s'))
	assert.True(t, Polish.ContainsUnique('ł'))
	assert.True(t, Serbian.ContainsUnique('ђ'))
	assert.False(t, English.ContainsUnique('a'))
	assert.False(t, Unknown.ContainsUnique('ß'))

	assert.True(t, Polish.ContainsUnique('Ł'))
	assert.True(t, Romanian.ContainsUnique('ț'))
	assert.True(t, Romanian.ContainsUnique('Ț'))
	assert.True(t, Romanian.ContainsUnique('ţ'))

	assert.True(t, Czech.ContainsUniqueIn("přítel"))
	assert.False(t, Czech.ContainsUniqueIn("pritel"))
}

func TestUniqueCharactersSortedAndDisjoint(t *testing.T) {
	owner := map[rune]Language{}
	for _, l := range All() {
		u := l.UniqueCharacters()
		for i := 1; i < len(u); i++ {
			assert.Less(t, u[i-1], u[i], "unique characters of %s not sorted", l)
		}
		for _, r := range u {
			assert.Equal(t, unicode.ToLower(r), r, "unique character %q of %s is not lowercase", r, l)
			prev, dup := owner[r]
			assert.False(t, dup, "%q owned by %s and %s", r, prev, l)
			owner[r] = l
		}
	}
	assert.ElementsMatch(t, WithUniqueCharacters(), languagesWithUnique(owner))
}

func languagesWithUnique(owner map[rune]Language) []Language {
	seen := map[Language]bool{}
	var out []Language
	for _, l := range owner {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func TestSingleLatin(t *testing.T) {
	assert.True(t, English.SingleLatin())
	assert.False(t, Russian.SingleLatin())
	assert.False(t, Japanese.SingleLatin())
	assert.False(t, Unknown.SingleLatin())
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(map[Language]float64{English: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"English":1}`, string(b))

	var got []Language
	require.NoError(t, json.Unmarshal([]byte(`["German","fr","Unknown"]`), &got))
	assert.Equal(t, []Language{German, French, Unknown}, got)

	require.Error(t, json.Unmarshal([]byte(`["Elvish"]`), &got))

	assert.Equal(t, "Language(500)", Language(500).String())
	_, err = Language(-1).MarshalText()
	require.Error(t, err)
}
