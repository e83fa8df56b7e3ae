package parser

import (
	"strings"

	"github.com/matzehuels/gnparser/pkg/core/canonical"
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/disambig"
	"github.com/matzehuels/gnparser/pkg/core/result"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// rankOf returns the rank of the most specific element of a name.
func rankOf(root *tree.Node) string {
	switch root.Kind {
	case tree.KindBinomial:
		return "sp."
	case tree.KindTrinomial:
		ips := root.ChildrenOf(tree.KindInfraspecies)
		if len(ips) == 0 {
			return ""
		}
		last := ips[len(ips)-1]
		if r := last.Child(tree.KindRank); r != nil {
			return r.Norm
		}
		if last.Interpretation == tree.InterpSubspecies {
			return "subsp."
		}
		return "infrasp."
	case tree.KindUninomial:
		if r := root.Child(tree.KindRank); r != nil {
			return r.Norm
		}
	}
	return ""
}

func hybridOf(root *tree.Node) string {
	if root.Kind == tree.KindHybridFormula {
		return result.HybridFormula
	}
	for _, r := range root.FindAll(tree.KindRank) {
		if strings.HasPrefix(r.Norm, "notho") {
			return result.NothoHybrid
		}
	}
	if root.Find(tree.KindHybridMarker) != nil {
		return result.NamedHybrid
	}
	return ""
}

// citedAuthorship returns the authorship node of the most specific name
// element, or nil. Hybrid formulas have no single authorship.
func citedAuthorship(root *tree.Node) *tree.Node {
	switch root.Kind {
	case tree.KindUninomial:
		return root.Child(tree.KindAuthorship)
	case tree.KindBinomial, tree.KindApproximation:
		if sp := root.Child(tree.KindSpecies); sp != nil {
			return sp.Child(tree.KindAuthorship)
		}
	case tree.KindTrinomial:
		if ips := root.ChildrenOf(tree.KindInfraspecies); len(ips) > 0 {
			return ips[len(ips)-1].Child(tree.KindAuthorship)
		}
	}
	return nil
}

func authorshipOf(root *tree.Node, c code.Code) *result.Authorship {
	a := citedAuthorship(root)
	if a == nil {
		return nil
	}
	out := &result.Authorship{
		Verbatim:   a.Value,
		Normalized: canonical.Authorship(a),
	}
	for _, tm := range a.ChildrenOf(tree.KindTeam) {
		if tm.Interpretation == tree.TeamEmend {
			continue
		}
		for _, au := range disambig.ValidatingTeam(tm, c).ChildrenOf(tree.KindAuthor) {
			out.Authors = append(out.Authors, au.Norm)
		}
		if out.Year == "" {
			if y := tm.Child(tree.KindYear); y != nil {
				out.Year = y.Norm
			}
		}
	}
	return out
}
