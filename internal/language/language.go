// Package language holds the registry of detectable languages.
//
// Every language carries its ISO 639 codes, the scripts it is written in and
// a sorted set of characters that no other registered language uses. The
// registry is built once at package initialisation and never changes; a
// broken data table panics with a *DataIntegrityError.
package language

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/MeKo-Tech/polyglot/internal/script"
	xlanguage "golang.org/x/text/language"
)

// Language identifies a registered language. The numeric order is stable and
// is used as the deterministic tie-break wherever languages are ranked.
type Language int

// Registered languages.
const (
	Afrikaans Language = iota
	Albanian
	Arabic
	Armenian
	Azerbaijani
	Basque
	Belarusian
	Bengali
	Bokmal
	Bosnian
	Bulgarian
	Catalan
	Chinese
	Croatian
	Czech
	Danish
	Dutch
	English
	Esperanto
	Estonian
	Finnish
	French
	Ganda
	Georgian
	German
	Greek
	Gujarati
	Hebrew
	Hindi
	Hungarian
	Icelandic
	Indonesian
	Irish
	Italian
	Japanese
	Kazakh
	Korean
	Latin
	Latvian
	Lithuanian
	Macedonian
	Malay
	Marathi
	Mongolian
	Nynorsk
	Persian
	Polish
	Portuguese
	Punjabi
	Romanian
	Russian
	Serbian
	Shona
	Slovak
	Slovene
	Somali
	Sotho
	Spanish
	Swahili
	Swedish
	Tagalog
	Tamil
	Telugu
	Thai
	Tsonga
	Tswana
	Turkish
	Ukrainian
	Urdu
	Vietnamese
	Welsh
	Xhosa
	Yoruba
	Zulu

	// Unknown is returned when no language can be detected reliably.
	Unknown
)

type entry struct {
	name    string
	iso1    string
	iso3    string
	scripts []script.Script
	unique  []rune
}

func lang(name, iso1, unique string, scripts ...script.Script) entry {
	return entry{name: name, iso1: iso1, unique: []rune(unique), scripts: scripts}
}

var registry = [...]entry{
	Afrikaans:   lang("Afrikaans", "af", "", script.Latin),
	Albanian:    lang("Albanian", "sq", "", script.Latin),
	Arabic:      lang("Arabic", "ar", "", script.Arabic),
	Armenian:    lang("Armenian", "hy", "", script.Armenian),
	Azerbaijani: lang("Azerbaijani", "az", "Əə", script.Latin),
	Basque:      lang("Basque", "eu", "", script.Latin),
	Belarusian:  lang("Belarusian", "be", "", script.Cyrillic),
	Bengali:     lang("Bengali", "bn", "", script.Bengali),
	Bokmal:      lang("Bokmal", "nb", "", script.Latin),
	Bosnian:     lang("Bosnian", "bs", "", script.Latin),
	Bulgarian:   lang("Bulgarian", "bg", "", script.Cyrillic),
	Catalan:     lang("Catalan", "ca", "Ïï", script.Latin),
	Chinese:     lang("Chinese", "zh", "", script.Han),
	Croatian:    lang("Croatian", "hr", "", script.Latin),
	Czech:       lang("Czech", "cs", "ĚěŘřŮů", script.Latin),
	Danish:      lang("Danish", "da", "", script.Latin),
	Dutch:       lang("Dutch", "nl", "", script.Latin),
	English:     lang("English", "en", "", script.Latin),
	Esperanto:   lang("Esperanto", "eo", "ĈĉĜĝĤĥĴĵŜŝŬŭ", script.Latin),
	Estonian:    lang("Estonian", "et", "", script.Latin),
	Finnish:     lang("Finnish", "fi", "", script.Latin),
	French:      lang("French", "fr", "", script.Latin),
	Ganda:       lang("Ganda", "lg", "", script.Latin),
	Georgian:    lang("Georgian", "ka", "", script.Georgian),
	German:      lang("German", "de", "ß", script.Latin),
	Greek:       lang("Greek", "el", "", script.Greek),
	Gujarati:    lang("Gujarati", "gu", "", script.Gujarati),
	Hebrew:      lang("Hebrew", "he", "", script.Hebrew),
	Hindi:       lang("Hindi", "hi", "", script.Devanagari),
	Hungarian:   lang("Hungarian", "hu", "ŐőŰű", script.Latin),
	Icelandic:   lang("Icelandic", "is", "", script.Latin),
	Indonesian:  lang("Indonesian", "id", "", script.Latin),
	Irish:       lang("Irish", "ga", "", script.Latin),
	Italian:     lang("Italian", "it", "", script.Latin),
	Japanese:    lang("Japanese", "ja", "", script.Hiragana, script.Katakana, script.Han),
	Kazakh:      lang("Kazakh", "kk", "ӘәҒғҚқҢңҰұ", script.Cyrillic),
	Korean:      lang("Korean", "ko", "", script.Hangul),
	Latin:       lang("Latin", "la", "", script.Latin),
	Latvian:     lang("Latvian", "lv", "ĢģĶķĻļŅņ", script.Latin),
	Lithuanian:  lang("Lithuanian", "lt", "ĖėĮįŲų", script.Latin),
	Macedonian:  lang("Macedonian", "mk", "ЃѓЅѕЌќЏџ", script.Cyrillic),
	Malay:       lang("Malay", "ms", "", script.Latin),
	Marathi:     lang("Marathi", "mr", "ळ", script.Devanagari),
	Mongolian:   lang("Mongolian", "mn", "ӨөҮү", script.Cyrillic),
	Nynorsk:     lang("Nynorsk", "nn", "", script.Latin),
	Persian:     lang("Persian", "fa", "", script.Arabic),
	Polish:      lang("Polish", "pl", "ŁłŃńŚśŹź", script.Latin),
	Portuguese:  lang("Portuguese", "pt", "", script.Latin),
	Punjabi:     lang("Punjabi", "pa", "", script.Gurmukhi),
	Romanian:    lang("Romanian", "ro", "ȚțŢţ", script.Latin),
	Russian:     lang("Russian", "ru", "", script.Cyrillic),
	Serbian:     lang("Serbian", "sr", "ЂђЋћ", script.Cyrillic),
	Shona:       lang("Shona", "sn", "", script.Latin),
	Slovak:      lang("Slovak", "sk", "ĹĺĽľŔŕ", script.Latin),
	Slovene:     lang("Slovene", "sl", "", script.Latin),
	Somali:      lang("Somali", "so", "", script.Latin),
	Sotho:       lang("Sotho", "st", "", script.Latin),
	Spanish:     lang("Spanish", "es", "¿¡", script.Latin),
	Swahili:     lang("Swahili", "sw", "", script.Latin),
	Swedish:     lang("Swedish", "sv", "", script.Latin),
	Tagalog:     lang("Tagalog", "tl", "", script.Latin),
	Tamil:       lang("Tamil", "ta", "", script.Tamil),
	Telugu:      lang("Telugu", "te", "", script.Telugu),
	Thai:        lang("Thai", "th", "", script.Thai),
	Tsonga:      lang("Tsonga", "ts", "", script.Latin),
	Tswana:      lang("Tswana", "tn", "", script.Latin),
	Turkish:     lang("Turkish", "tr", "", script.Latin),
	Ukrainian:   lang("Ukrainian", "uk", "ҐґЄєЇї", script.Cyrillic),
	Urdu:        lang("Urdu", "ur", "", script.Arabic),
	Vietnamese: lang("Vietnamese", "vi",
		"ẰằẦầẲẳẨẩẴẵẪẫẮắẤấẠạẶặẬậỀềẺẻỂểẼẽỄễẾếỆệỈỉĨĩỊịƠơỒồỜờỎỏỔổỞởỖỗỠỡỐốỚớỘộỢợ"+
			"ƯưỪừỦủỬửŨũỮữỨứỤụỰựỲỳỶỷỸỹỴỵ", script.Latin),
	Welsh:   lang("Welsh", "cy", "", script.Latin),
	Xhosa:   lang("Xhosa", "xh", "", script.Latin),
	Yoruba:  lang("Yoruba", "yo", "ŌōṢṣ", script.Latin),
	Zulu:    lang("Zulu", "zu", "", script.Latin),
	Unknown: {name: "Unknown"},
}

var (
	all, spoken                  []Language
	arabic, cyrillic, devanagari []Language
	latin, withUnique            []Language
	byISO1, byISO3, byName       map[string]Language
)

func init() {
	buildRegistry()
	buildCandidates()
}

func buildRegistry() {
	byISO1 = make(map[string]Language, len(registry))
	byISO3 = make(map[string]Language, len(registry))
	byName = make(map[string]Language, len(registry))
	owner := make(map[rune]Language)

	for l := Afrikaans; l < Unknown; l++ {
		e := &registry[l]

		base, err := xlanguage.ParseBase(e.iso1)
		if err != nil {
			panic(&DataIntegrityError{Msg: fmt.Sprintf("%s: invalid ISO 639-1 code %q: %v", e.name, e.iso1, err)})
		}
		e.iso3 = base.ISO3()

		// tokens are lowercased before any lookup
		for i, r := range e.unique {
			e.unique[i] = unicode.ToLower(r)
		}
		slices.Sort(e.unique)
		e.unique = slices.Compact(e.unique)
		for _, r := range e.unique {
			if prev, dup := owner[r]; dup {
				panic(&DataIntegrityError{
					Msg: fmt.Sprintf("unique character %q declared by both %s and %s", r, prev, l),
				})
			}
			owner[r] = l
		}

		byISO1[e.iso1] = l
		byISO3[e.iso3] = l
		byName[strings.ToLower(e.name)] = l

		all = append(all, l)
		if l != Latin {
			spoken = append(spoken, l)
		}
		if len(e.unique) > 0 {
			withUnique = append(withUnique, l)
		}
		for _, s := range e.scripts {
			switch s {
			case script.Arabic:
				arabic = append(arabic, l)
			case script.Cyrillic:
				cyrillic = append(cyrillic, l)
			case script.Devanagari:
				devanagari = append(devanagari, l)
			case script.Latin:
				latin = append(latin, l)
			}
		}
	}
}

// All returns every registered language except Unknown.
func All() []Language { return slices.Clone(all) }

// Spoken returns every registered language except Latin and Unknown.
func Spoken() []Language { return slices.Clone(spoken) }

// WithArabicScript returns the languages written in Arabic script.
func WithArabicScript() []Language { return slices.Clone(arabic) }

// WithCyrillicScript returns the languages written in Cyrillic script.
func WithCyrillicScript() []Language { return slices.Clone(cyrillic) }

// WithDevanagariScript returns the languages written in Devanagari script.
func WithDevanagariScript() []Language { return slices.Clone(devanagari) }

// WithLatinScript returns the languages written in Latin script.
func WithLatinScript() []Language { return slices.Clone(latin) }

// WithUniqueCharacters returns the languages that own at least one unique character.
func WithUniqueCharacters() []Language { return slices.Clone(withUnique) }

// WithScript returns the languages of candidates that are written in s,
// preserving their order.
func WithScript(candidates []Language, s script.Script) []Language {
	var out []Language
	for _, l := range candidates {
		if l.UsesScript(s) {
			out = append(out, l)
		}
	}
	return out
}

// ByISOCode639_1 looks up a language by its two-letter code.
func ByISOCode639_1(code string) (Language, bool) {
	l, ok := byISO1[strings.ToLower(code)]
	return l, ok
}

// ByISOCode639_3 looks up a language by its three-letter code.
func ByISOCode639_3(code string) (Language, bool) {
	l, ok := byISO3[strings.ToLower(code)]
	return l, ok
}

// ByName looks up a language by its English name, ignoring case.
func ByName(name string) (Language, bool) {
	l, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// Parse resolves a two-letter code, three-letter code or English name.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 2:
		if l, ok := ByISOCode639_1(s); ok {
			return l, nil
		}
	case 3:
		if l, ok := ByISOCode639_3(s); ok {
			return l, nil
		}
	}
	if l, ok := ByName(s); ok {
		return l, nil
	}
	return Unknown, fmt.Errorf("unknown language: %q", s)
}

// ParseList resolves every element of codes with Parse.
func ParseList(codes []string) ([]Language, error) {
	out := make([]Language, 0, len(codes))
	for _, c := range codes {
		if strings.TrimSpace(c) == "" {
			continue
		}
		l, err := Parse(c)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (l Language) valid() bool { return l >= Afrikaans && l <= Unknown }

// String returns the English name of the language.
func (l Language) String() string {
	if !l.valid() {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return registry[l].name
}

// IsoCode639_1 returns the two-letter code, empty for Unknown.
func (l Language) IsoCode639_1() string {
	if !l.valid() {
		return ""
	}
	return registry[l].iso1
}

// IsoCode639_3 returns the three-letter code, empty for Unknown.
func (l Language) IsoCode639_3() string {
	if !l.valid() {
		return ""
	}
	return registry[l].iso3
}

// Scripts returns the scripts the language is written in.
func (l Language) Scripts() []script.Script {
	if !l.valid() {
		return nil
	}
	return slices.Clone(registry[l].scripts)
}

// UsesScript reports whether s is one of the language's scripts.
func (l Language) UsesScript(s script.Script) bool {
	return l.valid() && slices.Contains(registry[l].scripts, s)
}

// SingleLatin reports whether Latin is the only script of the language.
func (l Language) SingleLatin() bool {
	return l.valid() && len(registry[l].scripts) == 1 && registry[l].scripts[0] == script.Latin
}

// UniqueCharacters returns the sorted lowercase characters only this
// language uses.
func (l Language) UniqueCharacters() []rune {
	if !l.valid() {
		return nil
	}
	return slices.Clone(registry[l].unique)
}

// ContainsUnique reports whether r, in either case, is one of the
// language's unique characters.
func (l Language) ContainsUnique(r rune) bool {
	if !l.valid() || len(registry[l].unique) == 0 {
		return false
	}
	_, found := slices.BinarySearch(registry[l].unique, unicode.ToLower(r))
	return found
}

// ContainsUniqueIn reports whether word contains any of the language's unique characters.
func (l Language) ContainsUniqueIn(word string) bool {
	for _, r := range word {
		if l.ContainsUnique(r) {
			return true
		}
	}
	return false
}

// MarshalText encodes the language as its English name.
func (l Language) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("invalid language: %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText accepts a name or ISO code.
func (l *Language) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), registry[Unknown].name) {
		*l = Unknown
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// DataIntegrityError reports a broken static data table.
type DataIntegrityError struct {
	Msg string
}

func (e *DataIntegrityError) Error() string {
	return "language data integrity: " + e.Msg
}
