// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// TestParseLanguage_CanonicalNames tests the names reported by String
func TestParseLanguage_CanonicalNames(t *testing.T) {
	is := is.New(t)

	for _, want := range Languages() {
		got, err := ParseLanguage(want.String())
		is.NoErr(err)
		is.Equal(got, want)
	}
}

// TestParseLanguage_TagsAndDisplayNames tests BCP 47 tags, display names and
// casing variants
func TestParseLanguage_TagsAndDisplayNames(t *testing.T) {
	is := is.New(t)

	cases := map[string]Language{
		"en":                  English,
		"EN":                  English,
		"en-AU":               English,
		"English":             English,
		"es":                  Spanish,
		"es-MX":               Spanish,
		"fr":                  French,
		"it":                  Italian,
		"cs":                  Czech,
		"ko":                  Korean,
		"ja":                  Japanese,
		"Japanese":            Japanese,
		"zh":                  ChineseSimplified,
		"zh-Hans":             ChineseSimplified,
		"Simplified Chinese":  ChineseSimplified,
		"zh-Hant":             ChineseTraditional,
		"Traditional Chinese": ChineseTraditional,
	}
	for name, want := range cases {
		got, err := ParseLanguage(name)
		is.NoErr(err)
		is.Equal(got, want)
	}
}

// TestParseLanguage_Unknown tests that unsupported names are rejected
func TestParseLanguage_Unknown(t *testing.T) {
	is := is.New(t)

	for _, name := range []string{"", "klingon", "tlh", "portuguese", "12"} {
		_, err := ParseLanguage(name)
		is.True(err != nil)
	}
}

// TestLanguages_Order verifies the detection order starts with English and
// covers all nine wordlists
func TestLanguages_Order(t *testing.T) {
	is := is.New(t)

	all := Languages()
	is.Equal(len(all), 9)
	is.Equal(all[0], English)
	for _, l := range all {
		is.Equal(len(l.Wordlist()), 2048)
	}
}

// TestContains_IgnoresCaseAndDiacritics verifies membership lookups survive
// upper casing and Unicode normalization differences
func TestContains_IgnoresCaseAndDiacritics(t *testing.T) {
	is := is.New(t)

	is.True(English.Contains("abandon"))
	is.True(English.Contains("ABANDON"))
	is.True(!English.Contains("abandoned"))

	// first Spanish list word carries an accent
	first := wordlists.Spanish[0]
	is.True(Spanish.Contains(first))
	is.True(Spanish.Contains(NormalizeWord(first)))
	is.True(!English.Contains(first))
}

// TestCanonicalize verifies input words are rewritten to the wordlist's own
// spelling
func TestCanonicalize(t *testing.T) {
	is := is.New(t)

	got, ok := English.Canonicalize("  ABANDON ")
	is.True(ok)
	is.Equal(got, "abandon")

	first := wordlists.Spanish[0]
	got, ok = Spanish.Canonicalize(strings.ToUpper(first))
	is.True(ok)
	is.Equal(got, first)

	got, ok = English.Canonicalize("qwerty")
	is.True(!ok)
	is.Equal(got, "qwerty")
}

// TestDetectLanguage_Perfect tests detection when every word belongs to one
// wordlist
func TestDetectLanguage_Perfect(t *testing.T) {
	is := is.New(t)

	detected, ok := DetectLanguage(wordlists.Spanish[:12])
	is.True(ok)
	is.Equal(detected, Spanish)

	detected, ok = DetectLanguage(wordlists.English[:12])
	is.True(ok)
	is.Equal(detected, English)

	detected, ok = DetectLanguage(wordlists.Korean[500:512])
	is.True(ok)
	is.Equal(detected, Korean)
}

// TestDetectLanguage_Majority tests that half the words matching a wordlist
// is enough for detection
func TestDetectLanguage_Majority(t *testing.T) {
	is := is.New(t)

	words := append([]string{}, wordlists.Korean[200:206]...)
	words = append(words, "qqqone", "qqqtwo", "qqqthree", "qqqfour", "qqqfive", "qqqsix")

	detected, ok := DetectLanguage(words)
	is.True(ok)
	is.Equal(detected, Korean)
}

// TestDetectLanguage_Inconclusive verifies the English fallback when no
// wordlist accounts for half the words
func TestDetectLanguage_Inconclusive(t *testing.T) {
	is := is.New(t)

	words := []string{
		"qqqone", "qqqtwo", "qqqthree", "qqqfour", "qqqfive", "qqqsix",
		"qqqseven", "qqqeight", "qqqnine", "qqqten", "qqqeleven", "qqqtwelve",
	}
	detected, ok := DetectLanguage(words)
	is.True(!ok)
	is.Equal(detected, English)
}

// TestActivate verifies that activating a language swaps the wordlist used
// for mnemonic validation
func TestActivate(t *testing.T) {
	is := is.New(t)
	defer English.Activate()

	Spanish.Activate()
	is.Equal(bip39.GetWordList()[0], wordlists.Spanish[0])

	English.Activate()
	is.Equal(bip39.GetWordList()[0], wordlists.English[0])
}
