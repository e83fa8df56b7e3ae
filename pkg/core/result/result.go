// Package result defines the outcome of parsing one name.
//
// It sits between the parser, which fills results, and the formatter, which
// serializes them, so neither has to import the other.
package result

import (
	"github.com/matzehuels/gnparser/pkg/core/canonical"
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/grammar"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Hybrid kinds.
const (
	NamedHybrid   = "NAMED_HYBRID"
	HybridFormula = "HYBRID_FORMULA"
	NothoHybrid   = "NOTHO_HYBRID"
)

// Result is the parse of a single name. A result with Parsed=false still
// carries the verbatim input, quality 0 and a Failure explaining why.
type Result struct {
	Verbatim    string         `json:"verbatim"`
	Normalized  string         `json:"normalized,omitempty"`
	Parsed      bool           `json:"parsed"`
	Quality     int            `json:"quality"`
	Warnings    []tree.Warning `json:"qualityWarnings,omitempty"`
	Canonical   *canonical.Set `json:"canonical,omitempty"`
	Cardinality int            `json:"cardinality"`
	Rank        string         `json:"rank,omitempty"`
	Authorship  *Authorship    `json:"authorship,omitempty"`
	Hybrid      string         `json:"hybrid,omitempty"`
	Bacteria    bool           `json:"bacteria,omitempty"`
	Candidatus  bool           `json:"candidatus,omitempty"`
	Virus       bool           `json:"virus,omitempty"`
	Cultivar    bool           `json:"cultivar,omitempty"`
	Tail        string         `json:"tail,omitempty"`

	Failure *grammar.Failure `json:"failure,omitempty"`

	// Code is the nomenclatural code the name was parsed under.
	Code code.Code `json:"code,omitempty"`

	// ID is a UUIDv5 of the verbatim string.
	ID            string `json:"id"`
	ParserVersion string `json:"parserVersion"`

	// Tree is the disambiguated parse tree; nil when Parsed is false.
	Tree *tree.Node `json:"-"`
}

// Authorship summarizes the authorship of the most specific name element.
type Authorship struct {
	Verbatim   string `json:"verbatim"`
	Normalized string `json:"normalized"`
	Year       string `json:"year,omitempty"`

	// Authors are the authors cited for the name. For "A ex B" that is B,
	// except under the zoological code, where it is A.
	Authors []string `json:"authors,omitempty"`
}
