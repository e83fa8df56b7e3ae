// Package grammar turns token streams into parse trees.
//
// The engine tries an ordered list of productions (hybrid formula,
// trinomial, binomial, approximation, uninomial) against the whole token
// stream. The first production that consumes every token wins. When none
// does, the production that consumed the most tokens wins and the rest of
// the input becomes an unparsed tail. Ties go to the production listed
// first, which is always the more specific one.
//
// Rule tables (ranks, author particles, annotations, virus patterns) are
// data, loaded from an embedded TOML file; see [Default].
package grammar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Failure explains why no production matched.
type Failure struct {
	// Position is a byte offset into the normalized name.
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("position %d: %s", f.Position, f.Reason)
}

// Parse is the engine output for a single name.
type Parse struct {
	// Root is nil when the name could not be parsed.
	Root *tree.Node

	// Production names the production that produced Root.
	Production string

	// Tail is the normalized text left over after the winning production.
	Tail string

	// Warnings collects normalization and grammar warnings, unsorted.
	Warnings []tree.Warning

	// Virus is set when the name was recognized as a virus name. Virus
	// names are never parsed.
	Virus bool

	Failure *Failure
}

// Engine applies the grammar. It holds no per-parse state and is safe for
// concurrent use.
type Engine struct {
	t *Tables
}

// New creates an engine over the given tables.
func New(t *Tables) *Engine {
	return &Engine{t: t}
}

// Tables returns the rule tables the engine was built with.
func (e *Engine) Tables() *Tables {
	return e.t
}

type production struct {
	name string
	run  func(*state) *tree.Node
}

var productions = []production{
	{"hybridFormula", (*state).hybridFormula},
	{"trinomial", (*state).trinomial},
	{"binomial", (*state).binomial},
	{"approximation", (*state).approximation},
	{"uninomial", (*state).uninomial},
}

// Parse runs the productions over toks, which must have been produced by
// [token.Tokenize] from n.
func (e *Engine) Parse(n token.Normalized, toks []token.Token, c code.Code) Parse {
	res := Parse{Warnings: slices.Clone(n.Warnings)}

	if len(toks) == 0 {
		res.Failure = &Failure{Position: 0, Reason: "empty name"}
		return res
	}
	if c == code.Virus || e.isVirus(toks) {
		res.Virus = true
		res.Failure = &Failure{Position: 0, Reason: "virus names are not parsed"}
		return res
	}

	var (
		best     *state
		bestRoot *tree.Node
		bestName string
	)
	for _, prod := range productions {
		s := e.newState(toks, c)
		root := prod.run(s)
		if root == nil {
			continue
		}
		if best == nil || s.pos > best.pos {
			best, bestRoot, bestName = s, root, prod.name
		}
		if s.pos == len(toks) {
			break
		}
	}

	if best == nil {
		res.Failure = e.diagnose(toks)
		return res
	}

	res.Root = bestRoot
	res.Production = bestName
	res.Warnings = append(res.Warnings, best.warns...)
	if best.pos < len(toks) {
		rest := toks[best.pos]
		res.Tail = n.Text[rest.Start:]
		res.Warnings = append(res.Warnings, tree.WarnTail)
		if c != code.Cultivars && (rest.Kind == token.Quote || e.t.cultivarMarkers[rest.Lower()]) {
			res.Warnings = append(res.Warnings, tree.WarnCultivar)
		}
	}
	return res
}

func (e *Engine) isVirus(toks []token.Token) bool {
	for _, t := range toks {
		if t.Kind == token.Word && e.t.IsVirusWord(t.Text) {
			return true
		}
	}
	return false
}

// diagnose explains why the first token cannot start a name.
func (e *Engine) diagnose(toks []token.Token) *Failure {
	t := toks[0]
	switch {
	case t.Kind == token.Other:
		return &Failure{Position: t.Start, Reason: fmt.Sprintf("unexpected character %q", t.Text)}
	case t.Kind != token.Word && t.Kind != token.Hybrid:
		return &Failure{Position: t.Start, Reason: "name must start with a capitalized word"}
	case t.Kind == token.Word && !t.IsCapitalized():
		return &Failure{Position: t.Start, Reason: "name must start with a capitalized word"}
	}
	for _, t := range toks {
		if t.Kind == token.Word && t.IsCapitalized() {
			return &Failure{Position: t.Start, Reason: fmt.Sprintf("%q is not a valid name word", t.Text)}
		}
	}
	return &Failure{Position: t.Start, Reason: "no name word found"}
}

// span returns the normalized text covered by toks[from:to].
func span(toks []token.Token, from, to int) string {
	if from >= to {
		return ""
	}
	var b strings.Builder
	for i := from; i < to; i++ {
		if i > from && toks[i].SpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(toks[i].Text)
	}
	return b.String()
}
