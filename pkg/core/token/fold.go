package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningDiaeresis is U+0308, the mark NFD splits out of ë, ï, ü, ...
const combiningDiaeresis = '\u0308'

// ligatures are letters that decompose into more than one ASCII letter or
// have no canonical decomposition.
var ligatures = map[rune]string{
	'æ': "ae", 'Æ': "Ae",
	'œ': "oe", 'Œ': "Oe",
	'ß': "ss",
	'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D",
	'ł': "l", 'Ł': "L",
	'ı': "i",
	'þ': "th",
}

// Chained transformers carry buffers, so each call builds its own.
func stripMarks(keepDiaeresis bool) transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.Is(unicode.Mn, r) && !(keepDiaeresis && r == combiningDiaeresis)
	})), norm.NFC)
}

// Fold transliterates s for use in canonical forms. It reports whether any
// character other than a diaeresis vowel had to be changed.
func Fold(s string, preserveDiaereses bool) (string, bool) {
	if isASCII(s) {
		return s, false
	}

	var b strings.Builder
	for _, r := range s {
		if l, ok := ligatures[r]; ok {
			b.WriteString(l)
			continue
		}
		b.WriteRune(r)
	}
	withLigatures := b.String()

	folded, _, err := transform.String(stripMarks(preserveDiaereses), withLigatures)
	if err != nil {
		return s, false
	}

	// Removing only diaeresis marks does not count as transliteration.
	diaeresisOnly, _, _ := transform.String(stripMarks(true), withLigatures)
	changed := withLigatures != s || diaeresisOnly != norm.NFC.String(withLigatures)
	return folded, changed
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
