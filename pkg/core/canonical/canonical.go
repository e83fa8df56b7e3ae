// Package canonical derives canonical forms from parse trees.
//
// Every function here is a pure function of the tree: the same tree always
// yields the same strings, and no function can fail once a tree exists.
package canonical

import (
	"strings"

	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Set holds the canonical forms of a name.
type Set struct {
	// Full keeps structural markers: hybrid signs, rank markers, subgenus,
	// uncertainty markers, Candidatus and annotations.
	Full string `json:"full"`

	// Simple keeps only the name words. Hybrid formula signs stay.
	Simple string `json:"simple"`

	// Stripped is Full without subgenus, uncertainty markers, Candidatus and
	// annotations.
	Stripped string `json:"stripped"`

	// Stemmed is Simple with Latin suffixes removed from epithets.
	Stemmed string `json:"stemmed"`
}

type mode struct {
	markers     bool // named-hybrid signs and rank markers
	subgenus    bool
	uncertainty bool
	annotations bool
	candidatus  bool
	authorship  bool
	stem        bool
}

var (
	fullMode       = mode{markers: true, subgenus: true, uncertainty: true, annotations: true, candidatus: true}
	strippedMode   = mode{markers: true}
	simpleMode     = mode{}
	stemmedMode    = mode{stem: true}
	normalizedMode = mode{markers: true, subgenus: true, uncertainty: true, annotations: true, candidatus: true, authorship: true}
)

// Canonicalize computes the canonical forms of the tree rooted at root.
func Canonicalize(root *tree.Node) Set {
	if root == nil {
		return Set{}
	}
	return Set{
		Full:     render(root, fullMode),
		Simple:   render(root, simpleMode),
		Stripped: render(root, strippedMode),
		Stemmed:  render(root, stemmedMode),
	}
}

// Normalized renders the name for display: canonical spelling with
// authorship, years and annotations in a uniform layout.
func Normalized(root *tree.Node) string {
	if root == nil {
		return ""
	}
	return render(root, normalizedMode)
}

func render(root *tree.Node, m mode) string {
	b := &builder{m: m}
	b.root(root)
	return b.String()
}

type builder struct {
	m     mode
	parts []string

	// pending is a hybrid sign waiting to be attached to the next word.
	pending string
}

func (b *builder) word(s string) {
	if s == "" {
		return
	}
	b.parts = append(b.parts, b.pending+s)
	b.pending = ""
}

func (b *builder) String() string {
	if b.pending != "" {
		b.parts = append(b.parts, b.pending)
		b.pending = ""
	}
	return strings.Join(b.parts, " ")
}

func (b *builder) root(n *tree.Node) {
	switch n.Kind {
	case tree.KindHybridFormula:
		for _, c := range n.Children {
			switch c.Kind {
			case tree.KindHybridMarker:
				b.word("×")
			case tree.KindSpecies:
				b.epithet(c)
			case tree.KindAnnotation:
				b.component(c)
			default:
				b.root(c)
			}
		}
	default:
		for _, c := range n.Children {
			b.component(c)
		}
	}
}

func (b *builder) component(c *tree.Node) {
	switch c.Kind {
	case tree.KindCandidatus:
		if b.m.candidatus {
			b.word(c.Norm)
		}
	case tree.KindHybridMarker:
		if b.m.markers {
			b.pending = "×"
		}
	case tree.KindGenus, tree.KindCultivar:
		b.word(c.Norm)
	case tree.KindUninomial:
		if c.Interpretation != tree.InterpParent || b.m.markers {
			b.word(c.Norm)
		}
	case tree.KindSubgenus:
		if b.m.subgenus {
			b.word("(" + c.Norm + ")")
		}
	case tree.KindUncertaintyMarker:
		if b.m.uncertainty {
			b.word(c.Norm)
		}
	case tree.KindRank:
		if b.m.markers {
			b.word(c.Norm)
		}
	case tree.KindSpecies, tree.KindInfraspecies:
		b.epithet(c)
	case tree.KindAuthorship:
		if b.m.authorship {
			b.word(Authorship(c))
		}
	case tree.KindAnnotation:
		if b.m.annotations && c.Norm != "" {
			b.word(c.Norm)
		}
	}
}

// epithet writes rank, hybrid sign, the epithet itself and its authorship.
func (b *builder) epithet(n *tree.Node) {
	for _, c := range n.Children {
		if c.Kind == tree.KindRank || c.Kind == tree.KindHybridMarker {
			b.component(c)
		}
	}
	w := n.Norm
	if b.m.stem {
		w = Stem(w)
	}
	b.word(w)
	if a := n.Child(tree.KindAuthorship); a != nil {
		b.component(a)
	}
}
