package script

import (
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want Script
	}{
		{"latin lower", 'a', Latin},
		{"latin accented", 'é', Latin},
		{"cyrillic", 'ж', Cyrillic},
		{"greek", 'λ', Greek},
		{"arabic", 'ب', Arabic},
		{"hebrew", 'ש', Hebrew},
		{"han", '中', Han},
		{"hiragana", 'ひ', Hiragana},
		{"katakana", 'カ', Katakana},
		{"hangul", '한', Hangul},
		{"devanagari", 'ह', Devanagari},
		{"thai", 'ก', Thai},
		{"digit", '7', None},
		{"punctuation", '!', None},
		{"space", ' ', None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.r))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Latin.Matches("hello"))
	assert.False(t, Latin.Matches("hello1"))
	assert.True(t, Cyrillic.Matches("привет"))
	assert.False(t, Cyrillic.Matches("привет world"))
	assert.True(t, Han.Matches("中文"))
	assert.False(t, None.Matches("abc"))
	assert.False(t, None.MatchesRune('a'))
	assert.True(t, Greek.MatchesRune('α'))
	assert.False(t, Greek.MatchesRune('a'))
}

func TestParseAndString(t *testing.T) {
	for _, s := range Scripts() {
		parsed, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	s, err := Parse("cyrillic")
	require.NoError(t, err)
	assert.Equal(t, Cyrillic, s)

	_, err = Parse("klingon")
	require.Error(t, err)

	assert.Equal(t, "Script(99)", Script(99).String())
	assert.Len(t, Scripts(), int(None))
}

func TestTextRoundTrip(t *testing.T) {
	b, err := Hangul.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Hangul", string(b))

	var s Script
	require.NoError(t, s.UnmarshalText([]byte("thai")))
	assert.Equal(t, Thai, s)
	require.Error(t, s.UnmarshalText([]byte("nope")))
}

// TestOf_AtMostOneScript verifies that a code point is claimed by at most one real script.
func TestOf_AtMostOneScript(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("at most one script matches a rune", prop.ForAll(
		func(r rune) bool {
			matched := 0
			for _, s := range Scripts() {
				if s.MatchesRune(r) {
					matched++
				}
			}
			if matched == 0 {
				return Of(r) == None
			}
			return matched == 1 && Of(r).MatchesRune(r)
		},
		gen.Int32Range(0, unicode.MaxRune).Map(func(v int32) rune { return v }),
	))

	properties.TestingRun(t)
}
