package detector

import (
	"maps"
	"slices"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/MeKo-Tech/polyglot/internal/script"
)

// tally counts votes per key.
type tally[K ~int] map[K]int

// topTwo returns the keys with the highest and second highest counts. Equal
// counts rank the lower key first. ok2 is false when there is no second key.
func (t tally[K]) topTwo() (first, second K, ok2 bool) {
	keys := slices.Sorted(maps.Keys(t))
	if len(keys) == 0 {
		return first, second, false
	}

	first = keys[0]
	for _, k := range keys[1:] {
		if t[k] > t[first] {
			first = k
		}
	}

	for _, k := range keys {
		if k == first {
			continue
		}
		if !ok2 || t[k] > t[second] {
			second, ok2 = k, true
		}
	}
	return first, second, ok2
}

// writtenInJapanese reports whether the whole word is written in one of
// the scripts Japanese uses.
func writtenInJapanese(word string) bool {
	for _, s := range language.Japanese.Scripts() {
		if s.Matches(word) {
			return true
		}
	}
	return false
}

// detectWithRules resolves every word on its own and combines the per-word
// answers. It returns language.Unknown when the statistical stage is needed.
func (d *Detector) detectWithRules(words []string) language.Language {
	total := make(tally[language.Language])
	for _, w := range words {
		total[d.resolveWord(w)]++
	}

	// a minority of unresolved words is noise
	if unknown := total[language.Unknown]; unknown > 0 && float64(unknown) < 0.5*float64(len(words)) {
		delete(total, language.Unknown)
	}

	switch len(total) {
	case 0:
		return language.Unknown
	case 1:
		for l := range total {
			return l
		}
	}

	first, second, _ := total.topTwo()
	if total[first] == total[second] {
		return language.Unknown
	}
	return first
}

// resolveWord votes per character and picks the word's language.
func (d *Detector) resolveWord(word string) language.Language {
	votes := make(tally[language.Language])
	japanese := writtenInJapanese(word)

	for _, r := range word {
		matched := false
		for _, e := range d.exclusive {
			if e.script.MatchesRune(r) {
				matched = true
				votes[e.owner]++
			}
		}
		if matched {
			continue
		}

		if script.Han.MatchesRune(r) {
			votes[language.Chinese]++
		}
		if japanese {
			votes[language.Japanese]++
		}
		switch script.Of(r) {
		case script.Latin, script.Cyrillic, script.Devanagari:
			for _, l := range d.withUnique {
				if l.ContainsUnique(r) {
					votes[l]++
				}
			}
		}
	}

	switch len(votes) {
	case 0:
		return language.Unknown
	case 1:
		for l := range votes {
			if d.isActive(l) {
				return l
			}
		}
		return language.Unknown
	case 2:
		_, zh := votes[language.Chinese]
		_, ja := votes[language.Japanese]
		if zh && ja && d.isActive(language.Japanese) {
			return language.Japanese
		}
	}

	first, second, _ := votes.topTwo()
	if votes[first] > votes[second] && d.isActive(first) {
		return first
	}
	return language.Unknown
}

// filterByRules narrows the active languages to those written in the most
// frequent whole-word script, and further to the languages suggested by the
// candidate table for at least half of the words when there are any.
func (d *Detector) filterByRules(words []string) []language.Language {
	scripts := make(tally[script.Script])
	for _, w := range words {
		for _, s := range script.Scripts() {
			if s.Matches(w) {
				scripts[s]++
				break
			}
		}
	}
	if len(scripts) == 0 {
		return slices.Clone(d.languages)
	}

	dominant, _, _ := scripts.topTwo()
	filtered := language.WithScript(d.languages, dominant)

	counts := make(tally[language.Language])
	for _, w := range words {
		for _, r := range w {
			if cands := language.CandidatesFor(r); len(cands) > 0 {
				for _, l := range cands {
					counts[l]++
				}
				break
			}
		}
	}

	threshold := len(words) / 2
	var subset []language.Language
	for _, l := range filtered {
		if n := counts[l]; n > 0 && n >= threshold {
			subset = append(subset, l)
		}
	}
	if len(subset) == 0 {
		return filtered
	}
	return subset
}
