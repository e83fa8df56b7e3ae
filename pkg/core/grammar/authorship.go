package grammar

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// authorship parses [(original team)] [combination team] [emend. team ...].
func (s *state) authorship() *tree.Node {
	start := s.pos
	auth := tree.New(tree.KindAuthorship, "", "", 0, 0)
	auth.Add(s.originalTeam())
	auth.Add(s.team(tree.TeamCombination, true))
	if len(auth.Children) == 0 {
		return nil
	}
	for {
		m := s.save()
		if _, ok := s.acceptWord(s.t.emend); !ok {
			break
		}
		tm := s.team(tree.TeamEmend, false)
		if tm == nil {
			s.restore(m)
			break
		}
		auth.Add(tm)
	}
	return s.finish(auth, start)
}

func (s *state) originalTeam() *tree.Node {
	m := s.save()
	if !s.accept("(") {
		return nil
	}
	tm := s.team(tree.TeamOriginal, false)
	if tm == nil || !s.accept(")") {
		s.restore(m)
		return nil
	}
	return tm
}

// team parses authors with optional ex and in sub-teams and a year. With
// yearOnly a bare year is accepted as a team.
func (s *state) team(role string, yearOnly bool) *tree.Node {
	start := s.pos
	tm := tree.New(tree.KindTeam, "", "", 0, 0)
	tm.Interpretation = role

	if !s.authors(tm) {
		if !yearOnly {
			return nil
		}
		y := s.year()
		if y == nil {
			return nil
		}
		tm.Add(y)
		return s.finish(tm, start)
	}

	subs := []struct {
		words map[string]bool
		role  string
	}{
		{s.t.ex, tree.TeamEx},
		{s.t.in, tree.TeamIn},
	}
	for _, sub := range subs {
		m := s.save()
		if _, ok := s.acceptWord(sub.words); !ok {
			continue
		}
		from := s.pos
		st := tree.New(tree.KindTeam, "", "", 0, 0)
		st.Interpretation = sub.role
		if !s.authors(st) {
			s.restore(m)
			continue
		}
		if sub.role == tree.TeamEx {
			st.Ambiguous = true
			st.Reading = tree.InterpAfterEx
			st.Alternatives = []string{tree.InterpAfterEx, tree.InterpBeforeEx}
		}
		tm.Add(s.finish(st, from))
	}

	s.yearInto(tm)
	return s.finish(tm, start)
}

// authors parses a list of authors separated by , & et and, optionally
// closed by "et al.".
func (s *state) authors(tm *tree.Node) bool {
	a := s.author()
	if a == nil {
		return false
	}
	tm.Add(a)
	for !s.eof() {
		if s.etAl(tm) {
			break
		}
		m := s.save()
		if !s.separator() {
			break
		}
		if s.etAl(tm) {
			break
		}
		a := s.author()
		if a == nil {
			s.restore(m)
			break
		}
		tm.Add(a)
	}
	return true
}

func (s *state) separator() bool {
	t := s.cur()
	if (t.Kind == token.Punct || t.Kind == token.Word) && s.t.separators[t.Lower()] {
		s.pos++
		return true
	}
	return false
}

func (s *state) etAl(tm *tree.Node) bool {
	mk, ok := s.matchMarker(s.t.etAl)
	if !ok {
		return false
	}
	from := s.pos
	s.pos += len(mk.parts)
	tm.Add(s.node(tree.KindAuthor, from, "et al."))
	return true
}

// author parses [prefixes] [initials] surname [filius].
func (s *state) author() *tree.Node {
	m := s.save()
	start := s.pos

	for s.authorPrefixAt(0) {
		s.pos++
	}
	words := 0
	for {
		t := s.cur()
		if !isAuthorWord(t) {
			break
		}
		s.pos++
		words++
		if !isInitial(t) {
			break
		}
	}
	if words == 0 {
		s.restore(m)
		return nil
	}

	if t := s.cur(); t.Kind == token.Word && s.t.filius[t.Lower()] {
		// "f." followed by an epithet is the forma rank, not filius.
		if t.Lower() != "f." || !(s.epithetAt(1) || s.signedEpithetAt(1)) {
			s.pos++
		}
	}
	n := s.node(tree.KindAuthor, start, "")
	n.Norm = n.Value
	return n
}

// authorPrefixAt reports whether the token k ahead is a particle such as
// "de" or "van" that starts an author name.
func (s *state) authorPrefixAt(k int) bool {
	t := s.peek(k)
	if t.Kind != token.Word || !s.t.authorPrefixes[t.Lower()] {
		return false
	}
	return isAuthorWord(s.peek(k+1)) || s.authorPrefixAt(k+1)
}

// isAuthorWord accepts capitalized words of two or more letters, initials,
// and elided particles such as d'Urv.
func isAuthorWord(t token.Token) bool {
	if t.Kind != token.Word {
		return false
	}
	if t.IsCapitalized() {
		return t.Dotted() || utf8.RuneCountInString(t.Text) >= 2
	}
	if i := strings.IndexByte(t.Text, '\''); i > 0 && i <= 2 {
		r, _ := utf8.DecodeRuneInString(t.Text[i+1:])
		return unicode.IsUpper(r)
	}
	return false
}

// isInitial reports whether t is an initial like "L." or "Ch.".
func isInitial(t token.Token) bool {
	return t.Dotted() && t.IsCapitalized() && utf8.RuneCountInString(t.Base()) <= 2
}

func (s *state) yearInto(tm *tree.Node) {
	m := s.save()
	s.accept(",")
	if y := s.year(); y != nil {
		tm.Add(y)
		return
	}
	s.restore(m)
}

// year parses 1758, 1758a, [1758], (1758), 1758? and ranges like 1758-1760.
// The normalized value is the first four-digit year.
func (s *state) year() *tree.Node {
	m := s.save()
	start := s.pos

	var closing string
	var wrapped tree.Warning
	switch {
	case s.accept("["):
		closing, wrapped = "]", tree.WarnYearBrackets
	case s.accept("("):
		closing, wrapped = ")", tree.WarnYearParens
	}

	digits, ok := s.yearNumber()
	if !ok {
		s.restore(m)
		return nil
	}
	if s.cur().Is("-") && s.peek(1).Kind == token.Number {
		s.pos += 2
		s.warn(tree.WarnYearRange)
	}
	if q := s.cur(); q.Is("?") && !q.SpaceBefore {
		s.pos++
		s.warn(tree.WarnYearQuestion)
	}
	if closing != "" {
		if !s.accept(closing) {
			s.restore(m)
			return nil
		}
		s.warn(wrapped)
	}
	return s.node(tree.KindYear, start, digits)
}

func (s *state) yearNumber() (string, bool) {
	t := s.cur()
	if t.Kind != token.Number {
		return "", false
	}
	digits := strings.TrimRightFunc(t.Text, unicode.IsLetter)
	if len(digits) != 4 {
		return "", false
	}
	y, err := strconv.Atoi(digits)
	if err != nil || y < s.t.MinYear || y > s.t.MaxYear {
		return "", false
	}
	if digits != t.Text {
		s.warn(tree.WarnYearLetter)
	}
	s.pos++
	return digits, true
}
