// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// Language identifies one of the BIP39 wordlists candidate words can be
// validated against.
type Language int

// Supported wordlists, in the order detection checks them. English is
// checked first and wins ties.
const (
	English Language = iota
	Spanish
	French
	Italian
	Czech
	Korean
	Japanese
	ChineseSimplified
	ChineseTraditional

	languageCount
)

var languageNames = [languageCount]string{
	English:            "english",
	Spanish:            "spanish",
	French:             "french",
	Italian:            "italian",
	Czech:              "czech",
	Korean:             "korean",
	Japanese:           "japanese",
	ChineseSimplified:  "chinese-simplified",
	ChineseTraditional: "chinese-traditional",
}

var languageLists = [languageCount][]string{
	English:            wordlists.English,
	Spanish:            wordlists.Spanish,
	French:             wordlists.French,
	Italian:            wordlists.Italian,
	Czech:              wordlists.Czech,
	Korean:             wordlists.Korean,
	Japanese:           wordlists.Japanese,
	ChineseSimplified:  wordlists.ChineseSimplified,
	ChineseTraditional: wordlists.ChineseTraditional,
}

func (l Language) String() string {
	if l < 0 || l >= languageCount {
		return fmt.Sprintf("language(%d)", int(l))
	}
	return languageNames[l]
}

// Wordlist returns the language's 2048-word BIP39 list.
func (l Language) Wordlist() []string {
	return languageLists[l]
}

// Activate installs the language's wordlist as the list mnemonic validation
// and seed derivation run against. Search activates its Options.Language
// before enumerating; callers deriving addresses directly in a language
// other than English must activate it themselves.
func (l Language) Activate() {
	bip39.SetWordList(l.Wordlist())
}

// Languages returns every supported language in detection order.
func Languages() []Language {
	all := make([]Language, languageCount)
	for i := range all {
		all[i] = Language(i)
	}
	return all
}

var (
	wordSetOnce [languageCount]sync.Once
	wordSets    [languageCount]map[string]string
)

// wordSet maps the normalized form of every list word back to the exact
// spelling the wordlist uses.
func (l Language) wordSet() map[string]string {
	wordSetOnce[l].Do(func() {
		set := make(map[string]string, len(languageLists[l]))
		for _, w := range languageLists[l] {
			set[NormalizeWord(w)] = w
		}
		wordSets[l] = set
	})
	return wordSets[l]
}

// Contains reports whether word belongs to the language's wordlist, ignoring
// case and Unicode normalization form.
func (l Language) Contains(word string) bool {
	_, ok := l.wordSet()[NormalizeWord(word)]
	return ok
}

// Canonicalize rewrites a candidate word to the exact spelling its wordlist
// uses, since mnemonic validation matches list entries byte for byte. Words
// outside the list come back normalized with ok false; phrases containing
// them simply never validate.
func (l Language) Canonicalize(word string) (canonical string, ok bool) {
	normalized := NormalizeWord(word)
	if w, ok := l.wordSet()[normalized]; ok {
		return w, true
	}
	return normalized, false
}

// NormalizeWord lowercases a candidate word and applies NFKD normalization,
// the form the published BIP39 wordlists use.
func NormalizeWord(word string) string {
	return strings.ToLower(norm.NFKD.String(strings.TrimSpace(word)))
}

// DetectLanguage guesses which wordlist the candidate words were transcribed
// from. Each language is scored by how many of the words it contains; a
// perfect score returns immediately. Otherwise the best-scoring language is
// returned only when at least half the words matched it; below that
// threshold the result is English with ok false, flagging the detection as
// inconclusive.
func DetectLanguage(words []string) (detected Language, ok bool) {
	best, bestScore := English, 0
	for l := English; l < languageCount; l++ {
		score := 0
		for _, w := range words {
			if l.Contains(w) {
				score++
			}
		}
		if score == len(words) {
			return l, true
		}
		if score > bestScore {
			best, bestScore = l, score
		}
	}
	if bestScore >= len(words)/2 {
		return best, true
	}
	return English, false
}

var languageTags = map[lang.Tag]Language{
	lang.Chinese:              ChineseSimplified,
	lang.SimplifiedChinese:    ChineseSimplified,
	lang.TraditionalChinese:   ChineseTraditional,
	lang.Czech:                Czech,
	lang.AmericanEnglish:      English,
	lang.BritishEnglish:       English,
	lang.English:              English,
	lang.French:               French,
	lang.Italian:              Italian,
	lang.Japanese:             Japanese,
	lang.Korean:               Korean,
	lang.Spanish:              Spanish,
	lang.EuropeanSpanish:      Spanish,
	lang.LatinAmericanSpanish: Spanish,
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// ParseLanguage maps a user-supplied language name to a supported wordlist.
// It accepts the canonical names reported by Language.String, BCP 47 tags
// ("en", "ja", "zh-Hans"), and English display names ("Simplified Chinese").
func ParseLanguage(name string) (Language, error) {
	s := sanitizeLang(name)
	for l := English; l < languageCount; l++ {
		if s == languageNames[l] {
			return l, nil
		}
	}

	tag := lang.Make(s)
	en := display.English.Languages()
	for t := range languageTags {
		if sanitizeLang(en.Name(t)) == s {
			tag = t
			break
		}
	}
	if tag == lang.Und {
		return 0, unknownLanguageError(name)
	}
	if l, ok := languageTags[tag]; ok {
		return l, nil
	}
	base, _ := tag.Base()
	if l, ok := languageTags[lang.MustParse(base.String())]; ok {
		return l, nil
	}
	return 0, unknownLanguageError(name)
}

func unknownLanguageError(name string) error {
	return fmt.Errorf("unsupported language %q (supported: %s)", name, strings.Join(languageNames[:], ", "))
}
