package grammar

import (
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// state is the cursor of a single production attempt.
type state struct {
	t     *Tables
	toks  []token.Token
	pos   int
	code  code.Code
	warns []tree.Warning
}

type mark struct {
	pos   int
	warns int
}

func (e *Engine) newState(toks []token.Token, c code.Code) *state {
	return &state{t: e.t, toks: toks, code: c}
}

func (s *state) save() mark {
	return mark{pos: s.pos, warns: len(s.warns)}
}

func (s *state) restore(m mark) {
	s.pos = m.pos
	s.warns = s.warns[:m.warns]
}

func (s *state) eof() bool {
	return s.pos >= len(s.toks)
}

// peek returns the token k positions ahead; the zero Token past the end.
func (s *state) peek(k int) token.Token {
	if i := s.pos + k; i < len(s.toks) {
		return s.toks[i]
	}
	return token.Token{Kind: token.Other}
}

func (s *state) cur() token.Token {
	return s.peek(0)
}

func (s *state) next() token.Token {
	t := s.cur()
	s.pos++
	return t
}

func (s *state) warn(w tree.Warning) {
	s.warns = append(s.warns, w)
}

// accept consumes the current token if it is the punctuation p.
func (s *state) accept(p string) bool {
	if t := s.cur(); (t.Kind == token.Punct || t.Kind == token.Quote) && t.Text == p {
		s.pos++
		return true
	}
	return false
}

// acceptWord consumes the current word if its lowercase form is in set.
func (s *state) acceptWord(set map[string]bool) (token.Token, bool) {
	t := s.cur()
	if t.Kind == token.Word && set[t.Lower()] {
		s.pos++
		return t, true
	}
	return token.Token{}, false
}

// matchMarker returns the first marker (longest first) that matches at the
// cursor, without consuming it.
func (s *state) matchMarker(ms []marker) (marker, bool) {
	for _, m := range ms {
		if s.pos+len(m.parts) > len(s.toks) {
			continue
		}
		ok := true
		for i, p := range m.parts {
			if s.toks[s.pos+i].Lower() != p {
				ok = false
				break
			}
		}
		if ok {
			return m, true
		}
	}
	return marker{}, false
}

// node builds a node covering toks[from:s.pos].
func (s *state) node(kind tree.Kind, from int, norm string) *tree.Node {
	if from >= s.pos {
		return tree.New(kind, "", norm, 0, 0)
	}
	return tree.New(kind, span(s.toks, from, s.pos), norm, s.toks[from].Start, s.toks[s.pos-1].End)
}

// wordNode builds a node from a single name word, recording transliteration.
func (s *state) wordNode(kind tree.Kind, t token.Token) *tree.Node {
	if t.Transliterated {
		s.warn(tree.WarnTransliterated)
	}
	return tree.New(kind, t.Text, t.Norm, t.Start, t.End)
}

// isNameWord reports whether w is a capitalized Latin name word: an
// uppercase letter followed by at least one lowercase letter and nothing else.
func isNameWord(w string) bool {
	first, size := utf8.DecodeRuneInString(w)
	if !unicode.IsUpper(first) || len(w) == size {
		return false
	}
	for _, r := range w[size:] {
		if !unicode.IsLower(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return true
}

// isEpithetWord reports whether w is a lowercase epithet of at least two
// letters. Inner hyphens are allowed (nova-zelandiae).
func isEpithetWord(w string) bool {
	if utf8.RuneCountInString(w) < 2 {
		return false
	}
	for _, r := range w {
		if r != '-' && !unicode.IsLower(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return true
}

// isAbbreviation reports whether a dotted word like "H." or "Ph." can stand
// for an abbreviated genus.
func isAbbreviation(t token.Token) bool {
	if !t.Dotted() || !t.IsCapitalized() {
		return false
	}
	base := t.Base()
	n := utf8.RuneCountInString(base)
	if n > 3 {
		return false
	}
	for _, r := range base {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
