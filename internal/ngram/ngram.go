// Package ngram splits text into word tokens and the character n-grams the
// statistical models are keyed by.
package ngram

import (
	"strings"
	"unicode/utf8"
)

// Order bounds of the extracted n-grams.
const (
	MinOrder = 1
	MaxOrder = 5

	// FastMaxLen is the longest ASCII n-gram eligible for dense lookup.
	FastMaxLen = 3
	// PackMaxLen is the longest n-gram Pack is defined for.
	PackMaxLen = 4
)

var (
	lowKeys  [PackMaxLen]int
	highKeys [PackMaxLen]int
)

func init() {
	for n := 1; n <= PackMaxLen; n++ {
		lowKeys[n-1] = Pack(strings.Repeat("a", n))
		highKeys[n-1] = Pack(strings.Repeat("z", n))
	}
}

// Ngram is a lowercase character sequence taken from a single token.
type Ngram struct {
	value string
	n     int
	ascii bool
}

// New builds an n-gram from an already lowercased value.
func New(value string) Ngram {
	g := Ngram{value: value, n: utf8.RuneCountInString(value), ascii: true}
	for i := 0; i < len(value); i++ {
		if value[i] < 'a' || value[i] > 'z' {
			g.ascii = false
			break
		}
	}
	return g
}

// String returns the n-gram text.
func (g Ngram) String() string { return g.value }

// Len returns the number of characters.
func (g Ngram) Len() int { return g.n }

// ASCII reports whether every character is in a-z.
func (g Ngram) ASCII() bool { return g.ascii }

// Fast reports whether the n-gram qualifies for the dense lookup path.
func (g Ngram) Fast() bool { return g.ascii && g.n <= FastMaxLen }

// Key returns the packed base-32 key of an ASCII n-gram of at most
// PackMaxLen characters, and false otherwise.
func (g Ngram) Key() (int, bool) {
	if !g.ascii || g.n == 0 || g.n > PackMaxLen {
		return 0, false
	}
	return Pack(g.value), true
}

// Pack encodes a lowercase a-z string as key = key<<5 | (c-'a').
func Pack(s string) int {
	k := 0
	for i := 0; i < len(s); i++ {
		k = k<<5 | int(s[i]-'a')
	}
	return k
}

// KeyRange returns the lowest and highest packed key of ASCII n-grams with
// n characters. It panics if n is outside 1..PackMaxLen.
func KeyRange(n int) (low, high int) {
	return lowKeys[n-1], highKeys[n-1]
}
