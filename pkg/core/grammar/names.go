package grammar

import (
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

func (s *state) hybridFormula() *tree.Node {
	start := s.pos
	root := tree.New(tree.KindHybridFormula, "", "", 0, 0)

	first := s.formulaElement(nil)
	if first == nil {
		return nil
	}
	root.Add(first)

	prev := first
	joined := 0
	for !s.eof() {
		m := s.save()
		sign := s.formulaSign()
		if sign == nil {
			break
		}
		el := s.formulaElement(prev)
		if el == nil {
			if s.eof() {
				root.Add(sign)
				s.warn(tree.WarnHybridIncomplete)
				joined++
				break
			}
			s.restore(m)
			break
		}
		root.Add(sign, el)
		prev = el
		joined++
	}
	if joined == 0 {
		return nil
	}
	s.warn(tree.WarnHybridFormula)
	s.trailer(root)
	return s.finish(root, start)
}

// formulaElement parses one side of a hybrid formula. An element that is
// just an epithet borrows its genus from the previous element, so it is only
// allowed after a binomial or trinomial.
func (s *state) formulaElement(prev *tree.Node) *tree.Node {
	for _, run := range []func(*state) *tree.Node{(*state).trinomial, (*state).binomial, (*state).uninomial} {
		m := s.save()
		if n := run(s); n != nil {
			return n
		}
		s.restore(m)
	}
	if prev == nil || (prev.Kind != tree.KindBinomial && prev.Kind != tree.KindTrinomial) {
		return nil
	}
	sp := s.epithet(tree.KindSpecies)
	if sp == nil {
		return nil
	}
	sp.Add(s.authorship())
	return sp
}

func (s *state) formulaSign() *tree.Node {
	t := s.cur()
	if t.Kind == token.Hybrid || (t.Kind == token.Word && (t.Text == "x" || t.Text == "X")) {
		s.pos++
		return tree.New(tree.KindHybridMarker, t.Text, "×", t.Start, t.End)
	}
	return nil
}

func (s *state) trinomial() *tree.Node {
	start := s.pos
	root := tree.New(tree.KindTrinomial, "", "", 0, 0)
	if !s.binomialBody(root) {
		return nil
	}
	if !s.infraPart(root) {
		return nil
	}
	for s.infraPart(root) {
	}
	s.trailer(root)
	return s.finish(root, start)
}

func (s *state) binomial() *tree.Node {
	start := s.pos
	root := tree.New(tree.KindBinomial, "", "", 0, 0)
	if !s.binomialBody(root) {
		return nil
	}
	s.trailer(root)
	return s.finish(root, start)
}

// binomialBody parses Genus [(Subgenus)] [cf.] [×] epithet [authorship].
func (s *state) binomialBody(root *tree.Node) bool {
	if !s.genusPart(root, true) {
		return false
	}
	root.Add(s.subgenus())
	return s.speciesPart(root)
}

func (s *state) approximation() *tree.Node {
	start := s.pos
	root := tree.New(tree.KindApproximation, "", "", 0, 0)
	if !s.genusPart(root, true) {
		return nil
	}

	m := s.save()
	if sp := s.epithet(tree.KindSpecies); sp != nil {
		sp.Add(s.authorship())
		if s.approximationMarker() {
			root.Add(sp)
		} else {
			s.restore(m)
		}
	}

	if _, ok := s.matchMarker(s.t.nomenclatural); ok {
		return nil
	}
	switch {
	case s.consumeMarker(root, s.t.approximation, tree.KindAnnotation, tree.InterpApproximation):
		s.warn(tree.WarnApproximation)
	case s.consumeMarker(root, s.t.uncertainty, tree.KindUncertaintyMarker, ""):
		s.warn(tree.WarnComparison)
	default:
		return nil
	}

	if !s.eof() {
		from := s.pos
		s.pos = len(s.toks)
		ign := s.node(tree.KindAnnotation, from, "")
		ign.Interpretation = tree.InterpIgnored
		root.Add(ign)
	}
	return s.finish(root, start)
}

func (s *state) approximationMarker() bool {
	if _, ok := s.matchMarker(s.t.approximation); ok {
		return true
	}
	_, ok := s.matchMarker(s.t.uncertainty)
	return ok
}

func (s *state) consumeMarker(root *tree.Node, ms []marker, kind tree.Kind, interp string) bool {
	mk, ok := s.matchMarker(ms)
	if !ok {
		return false
	}
	from := s.pos
	s.pos += len(mk.parts)
	n := s.node(kind, from, mk.text)
	n.Interpretation = interp
	root.Add(n)
	return true
}

func (s *state) uninomial() *tree.Node {
	start := s.pos
	root := tree.New(tree.KindUninomial, "", "", 0, 0)
	root.Add(s.candidatus())
	if hy := s.hybridPrefix(); hy != nil {
		root.Add(hy)
		s.warn(tree.WarnNamedHybrid)
	}

	t := s.cur()
	if t.Kind != token.Word || t.Dotted() || !isNameWord(t.Text) {
		return nil
	}
	s.pos++
	word := s.wordNode(tree.KindUninomial, t)

	// Parent rank. Word, e.g. "Aus subgen. Bus" or "Aus trib. Bus".
	if r := s.cur(); r.Kind == token.Word {
		norm, ok := s.t.infrageneric[r.Lower()]
		if !ok {
			norm, ok = s.t.suprageneric[r.Lower()]
		}
		if w := s.peek(1); ok && w.Kind == token.Word && !w.Dotted() && isNameWord(w.Text) {
			word.Interpretation = tree.InterpParent
			s.pos++
			root.Add(word, tree.New(tree.KindRank, r.Text, norm, r.Start, r.End))
			word = s.wordNode(tree.KindUninomial, s.next())
		}
	}
	root.Add(word)

	if sg := s.subgenus(); sg != nil {
		sg.Ambiguous = true
		sg.Interpretation = tree.InterpSubgenus
		sg.Alternatives = []string{tree.InterpSubgenus, tree.InterpAuthorship}
		root.Add(sg)
	}
	root.Add(s.authorship())
	s.trailer(root)
	return s.finish(root, start)
}

// genusPart parses [Candidatus] [×] Genus into root.
func (s *state) genusPart(root *tree.Node, abbrevOK bool) bool {
	m := s.save()
	n := len(root.Children)
	root.Add(s.candidatus())
	if hy := s.hybridPrefix(); hy != nil {
		root.Add(hy)
		s.warn(tree.WarnNamedHybrid)
	}
	g := s.genus(abbrevOK)
	if g == nil {
		s.restore(m)
		root.Children = root.Children[:n]
		return false
	}
	root.Add(g)
	return true
}

func (s *state) genus(abbrevOK bool) *tree.Node {
	t := s.cur()
	if t.Kind != token.Word {
		return nil
	}
	if abbrevOK && isAbbreviation(t) {
		s.pos++
		s.warn(tree.WarnAbbreviatedGenus)
		return tree.New(tree.KindGenus, t.Text, t.Norm, t.Start, t.End)
	}
	if t.Dotted() || !isNameWord(t.Text) {
		return nil
	}
	s.pos++
	return s.wordNode(tree.KindGenus, t)
}

// subgenus parses "(Word)".
func (s *state) subgenus() *tree.Node {
	open, w, closing := s.cur(), s.peek(1), s.peek(2)
	if open.Kind != token.Punct || open.Text != "(" {
		return nil
	}
	if w.Kind != token.Word || w.Dotted() || !isNameWord(w.Text) {
		return nil
	}
	if closing.Kind != token.Punct || closing.Text != ")" {
		return nil
	}
	s.pos += 3
	n := s.wordNode(tree.KindSubgenus, w)
	n.Start, n.End = open.Start, closing.End
	return n
}

func (s *state) candidatus() *tree.Node {
	t := s.cur()
	if t.Kind == token.Word && s.t.candidatus[t.Text] && s.peek(1).IsCapitalized() {
		s.pos++
		s.warn(tree.WarnCandidatus)
		return tree.New(tree.KindCandidatus, t.Text, "Candidatus", t.Start, t.End)
	}
	return nil
}

// hybridPrefix parses the sign of a named hybrid genus: "×Agropogon",
// "× Agropogon" or "x Agropogon".
func (s *state) hybridPrefix() *tree.Node {
	t, next := s.cur(), s.peek(1)
	if !next.IsCapitalized() {
		return nil
	}
	if t.Kind == token.Hybrid || (t.Kind == token.Word && (t.Text == "x" || t.Text == "X") && next.SpaceBefore) {
		s.pos++
		return tree.New(tree.KindHybridMarker, t.Text, "×", t.Start, t.End)
	}
	return nil
}

// nothoSign parses the sign of a named hybrid epithet. Before an infraspecific
// epithet the sign must be attached ("×rubens"); a spaced sign there joins a
// hybrid formula instead.
func (s *state) nothoSign(attachedOnly bool) *tree.Node {
	t, next := s.cur(), s.peek(1)
	sign := t.Kind == token.Hybrid || (t.Kind == token.Word && (t.Text == "x" || t.Text == "X"))
	if !sign || !s.epithetAt(1) {
		return nil
	}
	if attachedOnly && next.SpaceBefore {
		return nil
	}
	s.pos++
	return tree.New(tree.KindHybridMarker, t.Text, "×", t.Start, t.End)
}

func (s *state) speciesPart(root *tree.Node) bool {
	m := s.save()
	n := len(root.Children)

	if mk, ok := s.matchMarker(s.t.uncertainty); ok && s.epithetAt(len(mk.parts)) {
		from := s.pos
		s.pos += len(mk.parts)
		root.Add(s.node(tree.KindUncertaintyMarker, from, mk.text))
		s.warn(tree.WarnComparison)
	}
	if hy := s.nothoSign(false); hy != nil {
		root.Add(hy)
		s.warn(tree.WarnNamedHybrid)
	}
	sp := s.epithet(tree.KindSpecies)
	if sp == nil {
		s.restore(m)
		root.Children = root.Children[:n]
		return false
	}
	sp.Add(s.authorship())
	root.Add(sp)
	return true
}

func (s *state) infraPart(root *tree.Node) bool {
	m := s.save()

	var rank *tree.Node
	if t := s.cur(); t.Kind == token.Word {
		if norm, ok := s.t.InfraspecificRank(t.Text); ok && (s.epithetAt(1) || s.signedEpithetAt(1)) {
			s.pos++
			rank = tree.New(tree.KindRank, t.Text, norm, t.Start, t.End)
		}
	}
	hy := s.nothoSign(rank == nil)
	ep := s.epithet(tree.KindInfraspecies)
	if ep == nil {
		s.restore(m)
		return false
	}
	if hy != nil {
		s.warn(tree.WarnNamedHybrid)
	}
	if rank == nil {
		ep.Ambiguous = true
		ep.Interpretation = tree.InterpInfraspecies
		ep.Alternatives = []string{tree.InterpSubspecies, tree.InterpInfraspecies}
	}
	ep.Add(rank, hy)
	ep.Add(s.authorship())
	root.Add(ep)
	return true
}

func (s *state) signedEpithetAt(k int) bool {
	t := s.peek(k)
	return t.Kind == token.Hybrid && s.epithetAt(k+1)
}

// epithet consumes a lowercase epithet word.
func (s *state) epithet(kind tree.Kind) *tree.Node {
	if !s.epithetAt(0) {
		return nil
	}
	return s.wordNode(kind, s.next())
}

// epithetAt reports whether the token k positions ahead can be an epithet.
func (s *state) epithetAt(k int) bool {
	t := s.peek(k)
	if t.Kind != token.Word || t.Dotted() || !isEpithetWord(t.Text) {
		return false
	}
	l := t.Lower()
	next := s.peek(k + 1)
	switch {
	case s.t.ex[l], s.t.in[l], s.t.separators[l], s.t.emend[l], s.t.cultivarMarkers[l]:
		return false
	case s.t.authorPrefixes[l] && next.IsCapitalized():
		return false
	}
	if _, ok := s.t.infraspecific[l]; ok && (next.IsLower() || next.Kind == token.Hybrid) {
		return false
	}
	saved := s.pos
	s.pos += k
	_, a := s.matchMarker(s.t.approximation)
	_, u := s.matchMarker(s.t.uncertainty)
	_, n := s.matchMarker(s.t.nomenclatural)
	s.pos = saved
	return !a && !u && !n
}

// trailer parses what may follow a complete name: a cultivar epithet (only
// under the cultivar code) and nomenclatural annotations.
func (s *state) trailer(root *tree.Node) {
	if s.code == code.Cultivars {
		root.Add(s.cultivar())
	}
	for s.consumeMarker(root, s.t.nomenclatural, tree.KindAnnotation, tree.InterpNomenclatural) {
	}
}

// cultivar parses 'Epithet', "Epithet" or cv. Epithet.
func (s *state) cultivar() *tree.Node {
	m := s.save()
	from := s.pos
	t := s.cur()

	if t.Kind == token.Quote {
		s.pos++
		w0 := s.pos
		for !s.eof() && s.cur().Kind == token.Word {
			s.pos++
		}
		if s.pos == w0 || !s.accept(t.Text) {
			s.restore(m)
			return nil
		}
		return s.node(tree.KindCultivar, from, "'"+span(s.toks, w0, s.pos-1)+"'")
	}

	if _, ok := s.acceptWord(s.t.cultivarMarkers); ok {
		w0 := s.pos
		for !s.eof() && s.cur().IsCapitalized() {
			s.pos++
		}
		if s.pos == w0 {
			s.restore(m)
			return nil
		}
		return s.node(tree.KindCultivar, from, "'"+span(s.toks, w0, s.pos)+"'")
	}
	return nil
}

// finish fills the root's value and offsets from the consumed span.
func (s *state) finish(root *tree.Node, start int) *tree.Node {
	n := s.node(root.Kind, start, root.Norm)
	root.Value, root.Start, root.End = n.Value, n.Start, n.End
	return root
}
