// Package format serializes parse results.
//
// Formatting never changes what was parsed: the same [result.Result] yields
// the same canonical forms in every format, and a failed parse always keeps
// its verbatim string with parsed=false.
package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/gnparser/pkg/core/result"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Format selects an output representation.
type Format int

const (
	Compact Format = iota // one-line JSON
	Pretty                // indented JSON
	CSV
	TSV
)

var names = map[string]Format{
	"":           Compact,
	"compact":    Compact,
	"pretty":     Pretty,
	"structured": Pretty,
	"csv":        CSV,
	"tsv":        TSV,
}

// Parse converts a format name. The empty string selects [Compact].
func Parse(s string) (Format, error) {
	f, ok := names[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Compact, fmt.Errorf("unknown format: %q (want compact, pretty, csv or tsv)", s)
	}
	return f, nil
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Compact:
		return "compact"
	case Pretty:
		return "pretty"
	case CSV:
		return "csv"
	case TSV:
		return "tsv"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// IsTabular reports whether the format is CSV or TSV.
func (f Format) IsTabular() bool {
	return f == CSV || f == TSV
}

var columns = []string{
	"Id", "Verbatim", "Cardinality", "CanonicalStem", "CanonicalSimple",
	"CanonicalFull", "Authorship", "Year", "Quality",
}

// Header returns the header line for tabular formats and "" for JSON.
func Header(f Format) string {
	if !f.IsTabular() {
		return ""
	}
	s, _ := row(f, columns)
	return s
}

// Output renders r in format f. With details, JSON output includes the parse
// tree and the list of words; tabular formats ignore details.
func Output(r result.Result, f Format, details bool) (string, error) {
	switch f {
	case Compact, Pretty:
		return toJSON(r, f == Pretty, details)
	case CSV, TSV:
		return row(f, record(r))
	default:
		return "", fmt.Errorf("unknown format: %d", int(f))
	}
}

type jsonResult struct {
	result.Result
	Words   []Word  `json:"words,omitempty"`
	Details *Detail `json:"details,omitempty"`
}

func toJSON(r result.Result, pretty, details bool) (string, error) {
	out := jsonResult{Result: r}
	if details && r.Tree != nil {
		out.Words = Words(r.Tree)
		out.Details = Details(r.Tree)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func record(r result.Result) []string {
	var stem, simple, full, auth, year string
	if r.Canonical != nil {
		stem, simple, full = r.Canonical.Stemmed, r.Canonical.Simple, r.Canonical.Full
	}
	if r.Authorship != nil {
		auth, year = r.Authorship.Normalized, r.Authorship.Year
	}
	return []string{
		r.ID, r.Verbatim, strconv.Itoa(r.Cardinality), stem, simple, full,
		auth, year, strconv.Itoa(r.Quality),
	}
}

func row(f Format, fields []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if f == TSV {
		w.Comma = '\t'
	}
	if err := w.Write(fields); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Word is a positioned element of a parsed name.
type Word struct {
	Verbatim       string `json:"verbatim"`
	Normalized     string `json:"normalized,omitempty"`
	Type           string `json:"wordType"`
	Start          int    `json:"start"`
	End            int    `json:"end"`
	Interpretation string `json:"interpretation,omitempty"`
}

var wordKinds = map[tree.Kind]bool{
	tree.KindUninomial:         true,
	tree.KindGenus:             true,
	tree.KindSubgenus:          true,
	tree.KindSpecies:           true,
	tree.KindInfraspecies:      true,
	tree.KindRank:              true,
	tree.KindAuthor:            true,
	tree.KindYear:              true,
	tree.KindHybridMarker:      true,
	tree.KindAnnotation:        true,
	tree.KindUncertaintyMarker: true,
	tree.KindCultivar:          true,
	tree.KindCandidatus:        true,
}

// Words lists the words of a tree in input order. Offsets are byte offsets
// into the normalized name.
func Words(root *tree.Node) []Word {
	var out []Word
	root.Walk(func(n *tree.Node) bool {
		if n == root || !wordKinds[n.Kind] || n.Interpretation == tree.InterpIgnored {
			return true
		}
		out = append(out, Word{
			Verbatim:       n.Value,
			Normalized:     n.Norm,
			Type:           n.Kind.String(),
			Start:          n.Start,
			End:            n.End,
			Interpretation: n.Interpretation,
		})
		return true
	})
	slices.SortStableFunc(out, func(a, b Word) int { return a.Start - b.Start })
	return out
}

// Detail is the serialized form of a parse tree node.
type Detail struct {
	Kind           string    `json:"kind"`
	Value          string    `json:"value,omitempty"`
	Normalized     string    `json:"normalized,omitempty"`
	Interpretation string    `json:"interpretation,omitempty"`
	Reading        string    `json:"reading,omitempty"`
	Ambiguous      bool      `json:"ambiguous,omitempty"`
	Alternatives   []string  `json:"alternatives,omitempty"`
	Children       []*Detail `json:"children,omitempty"`
}

// Details converts a parse tree for serialization.
func Details(n *tree.Node) *Detail {
	d := &Detail{
		Kind:           n.Kind.String(),
		Value:          n.Value,
		Normalized:     n.Norm,
		Interpretation: n.Interpretation,
		Reading:        n.Reading,
		Ambiguous:      n.Ambiguous,
		Alternatives:   n.Alternatives,
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, Details(c))
	}
	return d
}
