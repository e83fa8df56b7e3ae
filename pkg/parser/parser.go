// Package parser is the public single-name API.
//
// A [Parser] runs the full pipeline for one name: normalization,
// tokenization, the grammar engine, code-aware disambiguation and
// canonicalization. It returns a [Result] value; [Parser.ParseToString]
// additionally serializes it.
//
// # Usage
//
//	p, err := parser.New(parser.Options{Code: code.Botanical})
//	if err != nil {
//	    return err
//	}
//	res := p.Parse("Abies alba Mill.")
//	fmt.Println(res.Canonical.Simple) // Abies alba
//
// Or, for one-off calls with option names as strings:
//
//	out, err := parser.ParseToString("Homo sapiens Linnaeus, 1758", "compact", "", false, false)
//
// # Concurrency
//
// A Parser holds only read-only rule tables and its options. It is safe for
// concurrent use; callers that need different options create another Parser,
// which is cheap since the rule tables are shared.
package parser

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/gnparser/pkg/buildinfo"
	"github.com/matzehuels/gnparser/pkg/core/canonical"
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/disambig"
	"github.com/matzehuels/gnparser/pkg/core/format"
	"github.com/matzehuels/gnparser/pkg/core/grammar"
	"github.com/matzehuels/gnparser/pkg/core/result"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
	"github.com/matzehuels/gnparser/pkg/errors"
)

// Result is the parse of a single name.
type Result = result.Result

// Options control a parse. The zero value parses without a nomenclatural
// code and formats results as compact JSON without details.
type Options struct {
	Format            format.Format `json:"format"`
	Code              code.Code     `json:"code"`
	Details           bool          `json:"details"`
	PreserveDiaereses bool          `json:"diaereses"`
}

// Candidate is a name together with the options it is parsed under.
type Candidate struct {
	Name    string
	Options Options
}

// Parser parses names under a fixed set of options.
type Parser struct {
	engine   *grammar.Engine
	disambig *disambig.Disambiguator
	opts     Options
}

// New creates a Parser over the embedded rule tables. It fails only if the
// tables cannot be loaded, which is a build defect.
func New(opts Options) (*Parser, error) {
	t, err := grammar.Default()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load grammar tables")
	}
	return NewWithTables(t, opts), nil
}

// NewWithTables creates a Parser over custom rule tables.
func NewWithTables(t *grammar.Tables, opts Options) *Parser {
	return &Parser{
		engine:   grammar.New(t),
		disambig: disambig.New(t),
		opts:     opts,
	}
}

// Options returns the options the parser was created with.
func (p *Parser) Options() Options {
	return p.opts
}

// WithOptions returns a parser sharing p's tables with different options.
func (p *Parser) WithOptions(opts Options) *Parser {
	return &Parser{engine: p.engine, disambig: p.disambig, opts: opts}
}

// MaxNameLength is the longest name in bytes that is run through the
// grammar. Longer strings yield a parsed=false result.
const MaxNameLength = 1024

// Parse parses name. It never fails: a name that matches no production
// yields a Result with Parsed=false, quality 0 and a Failure.
func (p *Parser) Parse(name string) Result {
	c := p.opts.Code
	res := Result{
		Verbatim:      name,
		ID:            NameID(name),
		ParserVersion: buildinfo.Version,
		Code:          c,
	}
	if len(name) > MaxNameLength {
		res.Failure = &grammar.Failure{
			Position: MaxNameLength,
			Reason:   fmt.Sprintf("name too long (max %d bytes)", MaxNameLength),
		}
		return res
	}

	n := token.Normalize(name, p.opts.PreserveDiaereses)
	gp := p.engine.Parse(n, token.Tokenize(n), c)
	res.Virus = gp.Virus
	if gp.Root == nil {
		res.Failure = gp.Failure
		return res
	}

	root := gp.Root
	_, dw := p.disambig.Disambiguate(root, c)
	warnings := tree.SortWarnings(append(gp.Warnings, dw...))
	cs := canonical.Canonicalize(root)

	res.Parsed = true
	res.Tree = root
	res.Normalized = canonical.Normalized(root)
	res.Canonical = &cs
	res.Warnings = warnings
	res.Quality = tree.Quality(warnings)
	res.Tail = gp.Tail
	res.Cardinality = root.Cardinality()
	res.Rank = rankOf(root)
	res.Authorship = authorshipOf(root, c)
	res.Hybrid = hybridOf(root)
	res.Candidatus = root.Find(tree.KindCandidatus) != nil
	res.Bacteria = res.Candidatus || c == code.Bacterial
	res.Cultivar = root.Find(tree.KindCultivar) != nil
	return res
}

// ParseToString parses name and serializes the result in the parser's
// format. A panic inside the parse is recovered and returned as a
// [errors.Fault].
func (p *Parser) ParseToString(name string) (out string, err error) {
	defer func() {
		if v := recover(); v != nil {
			out, err = "", &errors.Fault{Name: name, Value: v}
		}
	}()
	return format.Output(p.Parse(name), p.opts.Format, p.opts.Details)
}

// ParseToString parses a single name with options given by name. Unknown
// format or code names fail with INVALID_FORMAT or INVALID_CODE before any
// parsing happens.
func ParseToString(name, formatName, codeName string, details, diaereses bool) (string, error) {
	f, err := errors.ValidateFormat(formatName)
	if err != nil {
		return "", err
	}
	c, err := errors.ValidateCode(codeName)
	if err != nil {
		return "", err
	}
	p, err := New(Options{Format: f, Code: c, Details: details, PreserveDiaereses: diaereses})
	if err != nil {
		return "", err
	}
	return p.ParseToString(name)
}

// Parse parses a candidate under its own options.
func Parse(c Candidate) (Result, error) {
	p, err := New(c.Options)
	if err != nil {
		return Result{}, err
	}
	return p.Parse(c.Name), nil
}

var gnNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("globalnames.org"))

// NameID returns the UUIDv5 of a verbatim name string in the
// globalnames.org namespace.
func NameID(name string) string {
	return uuid.NewSHA1(gnNamespace, []byte(name)).String()
}

// String implements fmt.Stringer for logging.
func (o Options) String() string {
	return fmt.Sprintf("format=%s code=%s details=%t diaereses=%t",
		o.Format, o.Code.Abbr(), o.Details, o.PreserveDiaereses)
}
