package language

import "fmt"

// candidateEntry declares that each character of chars is used by langs.
type candidateEntry struct {
	chars string
	langs []Language
}

var candidateData = []candidateEntry{
	{"Ãã", []Language{Portuguese, Vietnamese}},
	{"ĄąĘę", []Language{Lithuanian, Polish}},
	{"Żż", []Language{Polish, Romanian}},
	{"Îî", []Language{French, Romanian}},
	{"Ññ", []Language{Basque, Spanish}},
	{"ŇňŤť", []Language{Czech, Slovak}},
	{"Ăă", []Language{Romanian, Vietnamese}},
	{"İıĞğ", []Language{Azerbaijani, Turkish}},
	{"ЈјЉљЊњ", []Language{Macedonian, Serbian}},
	{"ĀāĒēĪī", []Language{Latvian, Yoruba}},
	{"ẸẹỌọ", []Language{Vietnamese, Yoruba}},
	{"Ūū", []Language{Latvian, Lithuanian, Yoruba}},
	{"Şş", []Language{Azerbaijani, Romanian, Turkish}},
	{"Ďď", []Language{Czech, Romanian, Slovak}},
	{"ÐðÞþ", []Language{Icelandic, Latvian, Turkish}},
	{"Ûû", []Language{French, Hungarian, Latvian}},
	{"Ćć", []Language{Bosnian, Croatian, Polish}},
	{"Đđ", []Language{Bosnian, Croatian, Vietnamese}},
	{"Іі", []Language{Belarusian, Kazakh, Ukrainian}},
	{"Ìì", []Language{Italian, Vietnamese, Yoruba}},
	{"Ëë", []Language{Afrikaans, Albanian, Dutch, French}},
	{"ÈèÙù", []Language{French, Italian, Vietnamese, Yoruba}},
	{"Êê", []Language{Afrikaans, French, Portuguese, Vietnamese}},
	{"Õõ", []Language{Estonian, Hungarian, Portuguese, Vietnamese}},
	{"Ôô", []Language{French, Portuguese, Slovak, Vietnamese}},
	{"Øø", []Language{Bokmal, Danish, Nynorsk}},
	{"ЁёЫыЭэ", []Language{Belarusian, Kazakh, Mongolian, Russian}},
	{"ЩщЪъ", []Language{Bulgarian, Kazakh, Mongolian, Russian}},
	{"Òò", []Language{Catalan, Italian, Latvian, Vietnamese, Yoruba}},
	{"Ýý", []Language{Czech, Icelandic, Slovak, Turkish, Vietnamese}},
	{"Ää", []Language{Estonian, Finnish, German, Slovak, Swedish}},
	{"Ââ", []Language{Latvian, Portuguese, Romanian, Turkish, Vietnamese}},
	{"Àà", []Language{Catalan, French, Italian, Portuguese, Vietnamese}},
	{"Ææ", []Language{Bokmal, Danish, Icelandic, Nynorsk}},
	{"Åå", []Language{Bokmal, Danish, Nynorsk, Swedish}},
	{"Üü", []Language{Azerbaijani, Catalan, Estonian, German, Hungarian, Spanish, Turkish}},
	{"ČčŠšŽž", []Language{Bosnian, Czech, Croatian, Latvian, Lithuanian, Slovak, Slovene}},
	{"Çç", []Language{Albanian, Azerbaijani, Basque, Catalan, French, Latvian, Portuguese, Turkish}},
	{"Öö", []Language{Azerbaijani, Estonian, Finnish, German, Hungarian, Icelandic, Swedish, Turkish}},
	{"Óó", []Language{
		Catalan, Hungarian, Icelandic, Irish, Polish, Portuguese, Slovak, Spanish, Vietnamese, Yoruba,
	}},
	{"ÁáÍíÚú", []Language{
		Catalan, Czech, Icelandic, Irish, Hungarian, Portuguese, Slovak, Spanish, Vietnamese, Yoruba,
	}},
	{"Éé", []Language{
		Catalan, Czech, French, Hungarian, Icelandic, Irish, Italian, Portuguese, Slovak, Spanish,
		Vietnamese, Yoruba,
	}},
}

// candidates is indexed by code point; nil means no mapping.
var candidates [][]Language

func buildCandidates() {
	table, err := newCandidateTable(candidateData)
	if err != nil {
		panic(err)
	}
	candidates = table
}

func newCandidateTable(data []candidateEntry) ([][]Language, error) {
	var table [][]Language
	for _, e := range data {
		for _, r := range e.chars {
			idx := int(r)
			if idx >= len(table) {
				grown := make([][]Language, idx+1)
				copy(grown, table)
				table = grown
			}
			if table[idx] != nil {
				return nil, &DataIntegrityError{Msg: fmt.Sprintf("character %q mapped more than once", r)}
			}
			table[idx] = e.langs
		}
	}
	return table, nil
}

// CandidatesFor returns the languages that use r as a distinguishing
// character, in declaration order. The result must not be modified.
func CandidatesFor(r rune) []Language {
	if r < 0 || int(r) >= len(candidates) {
		return nil
	}
	return candidates[r]
}
