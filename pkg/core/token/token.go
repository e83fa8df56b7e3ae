package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HybridSign is the multiplication sign used to mark hybrids.
const HybridSign = '×'

// Kind classifies a token.
type Kind int

const (
	Word       Kind = iota // Letters with inner hyphens or apostrophes, plus an attached trailing period
	Number                 // Digits, optionally followed by one lowercase letter (1758a)
	Punct                  // , ( ) [ ] & : ; ? - and a detached period
	Hybrid                 // The × sign
	Quote                  // ' or " delimiting cultivar epithets
	Other                  // Anything else; passed through for the grammar to reject
)

// String returns the name of the token kind.
func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Number:
		return "Number"
	case Punct:
		return "Punct"
	case Hybrid:
		return "Hybrid"
	case Quote:
		return "Quote"
	case Other:
		return "Other"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a unit of the normalized name.
// The invariant text[t.Start:t.End] == t.Text holds for every token.
type Token struct {
	Kind Kind

	// Text is the token as it appears in the normalized string.
	Text string

	// Norm is the canonical spelling of a Word (see [Fold]); equal to Text
	// for other kinds.
	Norm string

	Start int
	End   int

	// SpaceBefore reports whether whitespace separates this token from the
	// previous one.
	SpaceBefore bool

	// Transliterated reports whether Norm needed characters other than
	// diaereses to be changed.
	Transliterated bool
}

// Dotted reports whether a Word token ends with a period.
func (t Token) Dotted() bool {
	return t.Kind == Word && strings.HasSuffix(t.Text, ".")
}

// Base returns the token text without a trailing period.
func (t Token) Base() string {
	return strings.TrimSuffix(t.Text, ".")
}

// Lower returns the lowercased token text.
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}

// IsCapitalized reports whether the token is a Word starting with an
// uppercase letter.
func (t Token) IsCapitalized() bool {
	if t.Kind != Word {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r)
}

// IsLower reports whether the token is a Word whose letters are all lowercase.
func (t Token) IsLower() bool {
	if t.Kind != Word {
		return false
	}
	for _, r := range t.Text {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Is reports whether the token text equals s.
func (t Token) Is(s string) bool {
	return t.Text == s
}

// String returns a debug representation, e.g. Word("Homo")[0:4].
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", t.Kind, t.Text, t.Start, t.End)
}

// Tokenize splits a normalized name into tokens.
func Tokenize(n Normalized) []Token {
	s := n.Text
	var toks []Token
	space := false

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == ' ' {
			space = true
			i += size
			continue
		}

		start := i
		var kind Kind
		switch {
		case unicode.IsLetter(r):
			kind = Word
			i = scanWord(s, i)
		case unicode.IsDigit(r):
			kind = Number
			i = scanNumber(s, i)
		case r == HybridSign:
			kind = Hybrid
			i += size
		case r == '\'' || r == '"':
			kind = Quote
			i += size
		case strings.ContainsRune(",()[]&:;?.-+/=!", r):
			kind = Punct
			i += size
		default:
			kind = Other
			i += size
		}

		t := Token{
			Kind:        kind,
			Text:        s[start:i],
			Start:       start,
			End:         i,
			SpaceBefore: space,
		}
		t.Norm = t.Text
		if kind == Word {
			t.Norm, t.Transliterated = Fold(t.Text, n.PreserveDiaereses)
		}
		toks = append(toks, t)
		space = false
	}
	return toks
}

// scanWord consumes letters, inner hyphens and apostrophes, and one trailing
// period.
func scanWord(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			i += size
		case r == '-' || r == '\'':
			// Only inside a word: the next rune must be a letter.
			next, _ := utf8.DecodeRuneInString(s[i+size:])
			if i+size >= len(s) || !unicode.IsLetter(next) {
				return i
			}
			i += size
		case r == '.':
			return i + size
		default:
			return i
		}
	}
	return i
}

// scanNumber consumes digits and a single lowercase letter suffix when the
// letter is not the start of a word.
func scanNumber(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		next, _ := utf8.DecodeRuneInString(s[i+1:])
		if i+1 == len(s) || !unicode.IsLetter(next) {
			return i + 1
		}
	}
	return i
}

// Texts returns the Text of every token.
func Texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}
