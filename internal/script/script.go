// Package script classifies code points by writing system.
package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Script is a writing system a code point may belong to.
type Script int

// Scripts in declaration order. None is the sentinel and matches nothing.
const (
	Arabic Script = iota
	Armenian
	Bengali
	Cyrillic
	Devanagari
	Georgian
	Greek
	Gujarati
	Gurmukhi
	Han
	Hangul
	Hebrew
	Hiragana
	Katakana
	Latin
	Tamil
	Telugu
	Thai
	None
)

var names = [...]string{
	"Arabic", "Armenian", "Bengali", "Cyrillic", "Devanagari", "Georgian",
	"Greek", "Gujarati", "Gurmukhi", "Han", "Hangul", "Hebrew", "Hiragana",
	"Katakana", "Latin", "Tamil", "Telugu", "Thai", "None",
}

var tables = [...]*unicode.RangeTable{
	unicode.Arabic, unicode.Armenian, unicode.Bengali, unicode.Cyrillic,
	unicode.Devanagari, unicode.Georgian, unicode.Greek, unicode.Gujarati,
	unicode.Gurmukhi, unicode.Han, unicode.Hangul, unicode.Hebrew,
	unicode.Hiragana, unicode.Katakana, unicode.Latin, unicode.Tamil,
	unicode.Telugu, unicode.Thai,
}

// Scripts returns all real scripts in declaration order.
func Scripts() []Script {
	out := make([]Script, 0, len(tables))
	for s := Arabic; s < None; s++ {
		out = append(out, s)
	}
	return out
}

// Of returns the script of r, or None if r belongs to none of the known scripts.
func Of(r rune) Script {
	for s := Arabic; s < None; s++ {
		if unicode.Is(tables[s], r) {
			return s
		}
	}
	return None
}

// MatchesRune reports whether r belongs to s.
func (s Script) MatchesRune(r rune) bool {
	if s < Arabic || s >= None {
		return false
	}
	return unicode.Is(tables[s], r)
}

// Matches reports whether every code point of text belongs to s.
// An empty text matches every real script.
func (s Script) Matches(text string) bool {
	if s < Arabic || s >= None {
		return false
	}
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		if !unicode.Is(tables[s], r) {
			return false
		}
		text = text[size:]
	}
	return true
}

func (s Script) String() string {
	if s < Arabic || s > None {
		return fmt.Sprintf("Script(%d)", int(s))
	}
	return names[s]
}

// Parse returns the script with the given case-insensitive name.
func Parse(name string) (Script, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Script(i), nil
		}
	}
	return None, fmt.Errorf("unknown script: %q", name)
}

// MarshalText encodes the script as its name.
func (s Script) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a script name.
func (s *Script) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
