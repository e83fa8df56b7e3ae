// Package token normalizes raw name strings and splits them into tokens.
//
// Normalization never fails. It decodes HTML entities, applies Unicode NFC,
// removes control characters, unifies apostrophes, dashes and spaces, and
// collapses whitespace. Every change that affects quality is recorded as a
// [tree.Warning].
//
// Tokens keep two spellings: Text is the input as written and Norm is the
// spelling used in canonical forms, with diacritics transliterated to ASCII.
// Diaeresis vowels (ë, ï, ü, ...) are converted too unless the caller asks
// to preserve them.
package token

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Normalized is a cleaned candidate name ready for tokenization.
type Normalized struct {
	// Verbatim is the input exactly as received.
	Verbatim string

	// Text is the cleaned string; token offsets refer to it.
	Text string

	// PreserveDiaereses controls how token Norm spellings treat diaeresis vowels.
	PreserveDiaereses bool

	Warnings []tree.Warning
}

// Normalize cleans raw for parsing.
func Normalize(raw string, preserveDiaereses bool) Normalized {
	n := Normalized{Verbatim: raw, PreserveDiaereses: preserveDiaereses}

	s := raw
	if strings.ContainsRune(s, '&') || strings.ContainsRune(s, '<') {
		unescaped := stripTags(html.UnescapeString(s))
		if unescaped != s {
			n.Warnings = append(n.Warnings, tree.WarnHTMLEntities)
			s = unescaped
		}
	}

	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	removed := false
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			removed = true
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(mapRune(r))
		}
	}
	if removed {
		n.Warnings = append(n.Warnings, tree.WarnNonPrintable)
	}

	s = b.String()
	trimmed := strings.TrimSpace(s)
	if trimmed != s {
		n.Warnings = append(n.Warnings, tree.WarnLeadingTrailing)
	}
	if strings.Contains(trimmed, "  ") {
		n.Warnings = append(n.Warnings, tree.WarnMultipleSpaces)
		trimmed = strings.Join(strings.Fields(trimmed), " ")
	}

	n.Text = trimmed
	return n
}

// mapRune unifies look-alike punctuation.
func mapRune(r rune) rune {
	switch r {
	case '’', '‘', 'ʼ', '`', '´', '′':
		return '\''
	case '“', '”', '„':
		return '"'
	case '‐', '‑', '‒', '–', '—':
		return '-'
	case '✕', '⨉', '╳':
		return HybridSign
	}
	return r
}

// stripTags removes simple markup such as <i>...</i> that often wraps names
// copied from web pages.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
