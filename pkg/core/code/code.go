// Package code defines the nomenclatural codes a parse can be scoped to.
//
// A [Code] is attached to a single parse invocation. It is never stored as
// process-wide state: callers pass it with every request and the grammar
// engine and disambiguator read it from their arguments.
//
// # Supported Codes
//
//   - [Botanical]: International Code of Nomenclature for algae, fungi, and plants (ICN)
//   - [Zoological]: International Code of Zoological Nomenclature (ICZN)
//   - [Bacterial]: International Code of Nomenclature of Prokaryotes (ICNP)
//   - [Cultivars]: International Code of Nomenclature for Cultivated Plants (ICNCP)
//   - [Virus]: International Code of Virus Classification and Nomenclature (ICVCN)
//
// [None] means no code hint was supplied; ambiguous constructs keep their
// default interpretation and are flagged.
package code

import (
	"fmt"
	"strings"
)

// Code identifies a nomenclatural code.
type Code int

const (
	None Code = iota
	Botanical
	Zoological
	Bacterial
	Cultivars
	Virus
)

var names = map[Code]string{
	None:       "",
	Botanical:  "botanical",
	Zoological: "zoological",
	Bacterial:  "bacterial",
	Cultivars:  "cultivars",
	Virus:      "virus",
}

var aliases = map[string]Code{
	"":                None,
	"none":            None,
	"botanical":       Botanical,
	"botany":          Botanical,
	"icn":             Botanical,
	"icbn":            Botanical,
	"zoological":      Zoological,
	"zoology":         Zoological,
	"iczn":            Zoological,
	"bacterial":       Bacterial,
	"bacteriological": Bacterial,
	"icnp":            Bacterial,
	"icnb":            Bacterial,
	"cultivars":       Cultivars,
	"cultivar":        Cultivars,
	"icncp":           Cultivars,
	"virus":           Virus,
	"viral":           Virus,
	"ictv":            Virus,
	"icvcn":           Virus,
}

// String returns the canonical lowercase name of the code ("" for None).
func (c Code) String() string {
	return names[c]
}

// Abbr returns the common abbreviation of the code (e.g. "ICZN").
func (c Code) Abbr() string {
	switch c {
	case Botanical:
		return "ICN"
	case Zoological:
		return "ICZN"
	case Bacterial:
		return "ICNP"
	case Cultivars:
		return "ICNCP"
	case Virus:
		return "ICVCN"
	}
	return ""
}

// IsBotanicalLike reports whether the code follows botanical conventions for
// authorship and infraspecific ranks. Cultivated plant names inherit them.
func (c Code) IsBotanicalLike() bool {
	return c == Botanical || c == Cultivars
}

// Parse converts a user-supplied string into a Code.
// Matching is case-insensitive and accepts full names and abbreviations.
func Parse(s string) (Code, error) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return None, fmt.Errorf("unknown nomenclatural code: %q", s)
	}
	return c, nil
}

// All returns every named code in declaration order, excluding None.
func All() []Code {
	return []Code{Botanical, Zoological, Bacterial, Cultivars, Virus}
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
