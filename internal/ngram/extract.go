package ngram

import (
	"unicode"
	"unicode/utf8"
)

// Features holds the tokens and n-grams of one text.
type Features struct {
	// Tokens are the lowercased words in input order.
	Tokens []string
	// Length is the number of code points in the raw input.
	Length int

	ngrams [MaxOrder][]Ngram
}

// Ngrams returns the n-grams of the given order in input order.
func (f *Features) Ngrams(order int) []Ngram {
	if order < MinOrder || order > MaxOrder {
		return nil
	}
	return f.ngrams[order-1]
}

// Empty reports whether no token was found.
func (f *Features) Empty() bool { return len(f.Tokens) == 0 }

// IsSeparator reports whether r ends a token.
func IsSeparator(r rune) bool {
	return r == '/' || unicode.IsSpace(r)
}

// Extract tokenises text in a single pass. Letters are lowercased and
// appended to the current token, and every order's sliding window emits an
// n-gram once it is full. A separator closes the current token and resets
// all windows, so n-grams never span tokens. Any other character is dropped.
func Extract(text string) *Features {
	f := &Features{Length: utf8.RuneCountInString(text)}
	tok := make([]rune, 0, 16)

	flush := func() {
		if len(tok) > 0 {
			f.Tokens = append(f.Tokens, string(tok))
			tok = tok[:0]
		}
	}

	for _, r := range text {
		switch {
		case IsSeparator(r):
			flush()
		case unicode.IsLetter(r):
			tok = append(tok, unicode.ToLower(r))
			for k := MinOrder; k <= MaxOrder && k <= len(tok); k++ {
				f.ngrams[k-1] = append(f.ngrams[k-1], New(string(tok[len(tok)-k:])))
			}
		}
	}
	flush()

	return f
}
