// Package disambig resolves readings of a parse tree that depend on the
// nomenclatural code.
//
// The grammar marks such nodes ambiguous and picks a default reading. Given a
// code, [Disambiguator.Disambiguate] settles each one; without a code the
// defaults stay and a warning is added instead. Nodes that were never marked
// ambiguous are left alone.
package disambig

import (
	"slices"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// RankTable answers rank questions for the zoological checks.
type RankTable interface {
	IsInfrasubspecific(rank string) bool
}

// Disambiguator applies code-specific readings. It is stateless and safe for
// concurrent use.
type Disambiguator struct {
	ranks RankTable
}

// New creates a Disambiguator.
func New(ranks RankTable) *Disambiguator {
	return &Disambiguator{ranks: ranks}
}

// Disambiguate resolves ambiguous nodes of root in place for code c. It
// reports whether the shape of the tree changed, in which case canonical forms
// must be recomputed.
func (d *Disambiguator) Disambiguate(root *tree.Node, c code.Code) (bool, []tree.Warning) {
	if root == nil {
		return false, nil
	}

	var (
		changed  bool
		warnings []tree.Warning
	)
	for _, n := range root.Ambiguities() {
		if c == code.None {
			warnings = append(warnings, tree.WarnAmbiguous)
			continue
		}
		switch n.Kind {
		case tree.KindSubgenus:
			if c == code.Zoological {
				settle(n, tree.InterpSubgenus)
				continue
			}
			if parent := parentOf(root, n); parent != nil {
				toAuthorship(parent, n)
				changed = true
			}
		case tree.KindInfraspecies:
			if c == code.Zoological || c == code.Bacterial {
				settle(n, tree.InterpSubspecies)
				continue
			}
			settle(n, tree.InterpInfraspecies)
			if c.IsBotanicalLike() {
				warnings = append(warnings, tree.WarnMissingRankBotany)
			}
		case tree.KindTeam:
			settle(n, n.Interpretation)
			n.Reading = tree.InterpAfterEx
			if c == code.Zoological {
				n.Reading = tree.InterpBeforeEx
				warnings = append(warnings, tree.WarnAuthorEx)
			}
		}
	}

	if c == code.Zoological && d.ranks != nil {
		for _, r := range root.FindAll(tree.KindRank) {
			if d.ranks.IsInfrasubspecific(r.Norm) {
				warnings = append(warnings, tree.WarnZooInfrasubsp)
				break
			}
		}
	}
	return changed, warnings
}

// ValidatingTeam returns the team whose authors are cited for an ex
// authorship: the team after "ex" unless the zoological code applies.
func ValidatingTeam(team *tree.Node, c code.Code) *tree.Node {
	for _, sub := range team.ChildrenOf(tree.KindTeam) {
		if sub.Interpretation == tree.TeamEx && c != code.Zoological {
			return sub
		}
	}
	return team
}

func settle(n *tree.Node, interp string) {
	n.Interpretation = interp
	n.Ambiguous = false
	n.Alternatives = nil
}

func parentOf(root, child *tree.Node) *tree.Node {
	var parent *tree.Node
	root.Walk(func(n *tree.Node) bool {
		if parent != nil {
			return false
		}
		if slices.Contains(n.Children, child) {
			parent = n
			return false
		}
		return true
	})
	return parent
}

// toAuthorship rereads "(Bus)" after a uninomial as a parenthesized original
// author.
func toAuthorship(parent, sg *tree.Node) {
	author := tree.New(tree.KindAuthor, sg.Value, sg.Value, sg.Start, sg.End)
	team := tree.New(tree.KindTeam, sg.Value, "", sg.Start, sg.End).Add(author)
	team.Interpretation = tree.TeamOriginal

	idx := slices.Index(parent.Children, sg)
	if auth := parent.Child(tree.KindAuthorship); auth != nil {
		auth.Children = append([]*tree.Node{team}, auth.Children...)
		auth.Value = "(" + sg.Value + ") " + auth.Value
		auth.Start = sg.Start
		parent.Remove(sg)
		return
	}
	auth := tree.New(tree.KindAuthorship, "("+sg.Value+")", "", sg.Start, sg.End).Add(team)
	parent.Children[idx] = auth
}
