package ngram

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(gs []Ngram) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.String()
	}
	return out
}

func TestExtract(t *testing.T) {
	f := Extract("Hello wOrld")

	assert.Equal(t, []string{"hello", "world"}, f.Tokens)
	assert.Equal(t, 11, f.Length)
	assert.Equal(t, []string{"h", "e", "l", "l", "o", "w", "o", "r", "l", "d"}, values(f.Ngrams(1)))
	assert.Equal(t, []string{"he", "el", "ll", "lo", "wo", "or", "rl", "ld"}, values(f.Ngrams(2)))
	assert.Equal(t, []string{"hel", "ell", "llo", "wor", "orl", "rld"}, values(f.Ngrams(3)))
	assert.Equal(t, []string{"hell", "ello", "worl", "orld"}, values(f.Ngrams(4)))
	assert.Equal(t, []string{"hello", "world"}, values(f.Ngrams(5)))
	assert.Nil(t, f.Ngrams(0))
	assert.Nil(t, f.Ngrams(6))
}

func TestExtract_Separators(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"slash", "either/or", []string{"either", "or"}},
		{"repeated spaces", "  a   b  ", []string{"a", "b"}},
		{"newline and tab", "one\ntwo\tthree", []string{"one", "two", "three"}},
		{"punctuation dropped", "don't stop!", []string{"dont", "stop"}},
		{"digits dropped", "abc123def", []string{"abcdef"}},
		{"empty", "", nil},
		{"punctuation only", "?!.,;", nil},
		{"non latin", "Привет мир", []string{"привет", "мир"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.text)
			assert.Equal(t, tt.want, f.Tokens)
			assert.Equal(t, len(tt.want) == 0, f.Empty())
		})
	}
}

func TestExtract_NoCrossTokenNgrams(t *testing.T) {
	f := Extract("ab cd")
	assert.Equal(t, []string{"ab", "cd"}, values(f.Ngrams(2)))
	assert.Empty(t, f.Ngrams(3))
}

func TestExtract_Reusable(t *testing.T) {
	a := Extract("first text")
	b := Extract("second")
	require.Equal(t, []string{"first", "text"}, a.Tokens)
	require.Equal(t, []string{"second"}, b.Tokens)
	assert.Equal(t, "first", strings.Join(values(a.Ngrams(5)[:1]), ""))
}

func TestExtract_FastFlags(t *testing.T) {
	f := Extract("straße")
	for _, g := range f.Ngrams(3) {
		assert.Equal(t, !strings.ContainsRune(g.String(), 'ß'), g.Fast(), g.String())
	}
	for _, g := range f.Ngrams(4) {
		assert.False(t, g.Fast(), g.String())
	}
}

func TestExtract_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	words := gen.SliceOf(gen.AlphaString())

	properties.Property("slash and space separate alike", prop.ForAll(
		func(ws []string) bool {
			a := Extract(strings.Join(ws, " "))
			b := Extract(strings.Join(ws, "/"))
			return assert.ObjectsAreEqual(a.Tokens, b.Tokens)
		},
		words,
	))

	properties.Property("order k yields max(0, m-k+1) n-grams per token", prop.ForAll(
		func(ws []string) bool {
			f := Extract(strings.Join(ws, " "))
			for k := MinOrder; k <= MaxOrder; k++ {
				want := 0
				for _, tok := range f.Tokens {
					if m := len([]rune(tok)); m >= k {
						want += m - k + 1
					}
				}
				if len(f.Ngrams(k)) != want {
					return false
				}
			}
			return true
		},
		words,
	))

	properties.Property("unigrams spell the tokens", prop.ForAll(
		func(ws []string) bool {
			f := Extract(strings.Join(ws, " "))
			return strings.Join(values(f.Ngrams(1)), "") == strings.Join(f.Tokens, "")
		},
		words,
	))

	properties.Property("tokens are lowercase", prop.ForAll(
		func(ws []string) bool {
			for _, tok := range Extract(strings.Join(ws, " ")).Tokens {
				if tok != strings.ToLower(tok) || tok == "" {
					return false
				}
			}
			return true
		},
		words,
	))

	properties.TestingRun(t)
}
