// Package tree defines the parse tree produced by the grammar engine.
//
// A successful parse has exactly one root node. The root kind classifies the
// whole name:
//
//   - [KindUninomial]: a single name word, held in a nested Uninomial child;
//     a combination such as "Aus subgen. Bus" adds a second nested Uninomial
//     interpreted as the parent
//   - [KindBinomial]: genus and species epithet
//   - [KindTrinomial]: binomial plus one or more infraspecific epithets
//   - [KindHybridFormula]: two or more names joined by hybrid signs
//   - [KindApproximation]: a genus (and maybe an epithet) followed by sp., cf., ...
//
// Component nodes (genus, epithets, authorship, markers) hang below the root.
// Authorship belongs to the word it cites, so a binomial's authorship is a
// child of its Species node. Each node owns its children exclusively; use
// [Node.Clone] before handing a tree to code that may mutate it.
package tree

import "strings"

// Kind classifies a parse tree node.
type Kind int

const (
	// Root kinds.
	KindUninomial Kind = iota
	KindBinomial
	KindTrinomial
	KindHybridFormula
	KindApproximation

	// Component kinds.
	KindGenus
	KindSubgenus
	KindSpecies
	KindInfraspecies
	KindRank
	KindAuthorship
	KindTeam
	KindAuthor
	KindYear
	KindHybridMarker
	KindAnnotation
	KindUncertaintyMarker
	KindCultivar
	KindCandidatus
)

var kindNames = [...]string{
	KindUninomial:         "uninomial",
	KindBinomial:          "binomial",
	KindTrinomial:         "trinomial",
	KindHybridFormula:     "hybridFormula",
	KindApproximation:     "approximation",
	KindGenus:             "genus",
	KindSubgenus:          "subgenus",
	KindSpecies:           "species",
	KindInfraspecies:      "infraspecies",
	KindRank:              "rank",
	KindAuthorship:        "authorship",
	KindTeam:              "team",
	KindAuthor:            "author",
	KindYear:              "year",
	KindHybridMarker:      "hybridMarker",
	KindAnnotation:        "annotation",
	KindUncertaintyMarker: "uncertaintyMarker",
	KindCultivar:          "cultivar",
	KindCandidatus:        "candidatus",
}

// String returns the lowerCamel name used in detailed output.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsRoot reports whether k classifies a whole name.
func (k Kind) IsRoot() bool {
	return k <= KindApproximation
}

// Interpretations carried by team nodes.
const (
	TeamOriginal    = "original"
	TeamCombination = "combination"
	TeamEx          = "ex"
	TeamIn          = "in"
	TeamEmend       = "emend"
)

// Interpretations carried by name and marker nodes.
const (
	InterpSubgenus      = "subgenus"
	InterpAuthorship    = "authorship"
	InterpSubspecies    = "subspecies"
	InterpInfraspecies  = "infraspecies"
	InterpParent        = "parent"
	InterpApproximation = "approximation"
	InterpNomenclatural = "nomenclatural"
	InterpIgnored       = "ignored"

	// Readings of an ex team: the author after "ex" validly published the
	// name, the one before proposed it.
	InterpAfterEx  = "afterEx"
	InterpBeforeEx = "beforeEx"
)

// Node is a single element of a parse tree.
type Node struct {
	Kind Kind

	// Value is the text as it appeared in the normalized input.
	Value string

	// Norm is the canonical spelling (diacritics transliterated, rank
	// markers normalized). Empty for nodes that never enter canonical forms.
	Norm string

	// Start and End are byte offsets into the normalized input.
	Start int
	End   int

	// Interpretation records how an ambiguous or role-bearing node was read
	// (e.g. "subgenus", "original", "ex").
	Interpretation string

	// Ambiguous marks nodes whose reading depends on the nomenclatural code.
	Ambiguous bool

	// Alternatives lists the readings that were possible for an ambiguous node.
	Alternatives []string

	// Reading is the chosen reading of a node whose Interpretation names a
	// role, such as which side of an ex authorship is cited.
	Reading string

	Children []*Node
}

// New creates a node of the given kind.
func New(kind Kind, value, norm string, start, end int) *Node {
	return &Node{Kind: kind, Value: value, Norm: norm, Start: start, End: end}
}

// Add appends children and returns n for chaining. Nil children are skipped.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOf returns all direct children of the given kind.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Remove deletes the direct child c. It reports whether c was found.
func (n *Node) Remove(c *Node) bool {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (including n) of the given kind.
func (n *Node) Find(kind Kind) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Kind == kind {
			found = x
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant (including n) of the given kind.
func (n *Node) FindAll(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Kind == kind {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Alternatives != nil {
		c.Alternatives = append([]string(nil), n.Alternatives...)
	}
	c.Children = make([]*Node, len(n.Children))
	for i, ch := range n.Children {
		c.Children[i] = ch.Clone()
	}
	return &c
}

// Cardinality returns the number of name words that make up the name:
// 1 for uninomials, 2 for binomials, 3+ for trinomials, and 0 for hybrid
// formulas and approximations.
func (n *Node) Cardinality() int {
	switch n.Kind {
	case KindUninomial:
		return 1
	case KindBinomial:
		return 2
	case KindTrinomial:
		return 2 + len(n.ChildrenOf(KindInfraspecies))
	}
	return 0
}

// Ambiguities returns every node flagged ambiguous.
func (n *Node) Ambiguities() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Ambiguous {
			out = append(out, x)
		}
		return true
	})
	return out
}

// String renders a compact S-expression of the tree for debugging and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteString("(")
	b.WriteString(n.Kind.String())
	if n.Value != "" {
		b.WriteString(" ")
		b.WriteString(quote(n.Value))
	}
	if n.Interpretation != "" {
		b.WriteString(" :")
		b.WriteString(n.Interpretation)
	}
	for _, c := range n.Children {
		b.WriteString(" ")
		c.write(b)
	}
	b.WriteString(")")
}

func quote(s string) string {
	if strings.ContainsAny(s, " ()") {
		return `"` + s + `"`
	}
	return s
}
