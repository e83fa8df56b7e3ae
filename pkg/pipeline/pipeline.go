// Package pipeline runs the parser with result caching, for single names
// and for batches.
//
// Both the CLI and the HTTP API go through a [Runner], so caching, batch
// limits, logging and metrics behave the same from every entry point.
//
// # Usage
//
// Parse a single name:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//	out, err := runner.Parse(ctx, "Homo sapiens Linnaeus, 1758", pipeline.Options{})
//
// Parse a batch with missing entries:
//
//	res, err := runner.ParseBatch(ctx, []batch.Entry{
//	    {Value: "Aus bus"},
//	    {Missing: true},
//	    {Value: "Cus dus"},
//	}, pipeline.Options{Format: "csv", Jobs: 4})
//	// res.Outputs[1].Missing == true
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/buildinfo"
	"github.com/matzehuels/gnparser/pkg/cache"
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/format"
	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/parser"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxBatch is the largest batch accepted by ParseBatch. The CLI
	// streams larger inputs as consecutive batches of DefaultBatchSize.
	DefaultMaxBatch = 100_000

	// DefaultBatchSize is the number of names the CLI reads per batch.
	DefaultBatchSize = 50_000

	// DefaultCacheTTL is how long parse results stay cached.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// DefaultJobs is the default number of parallel parse workers.
var DefaultJobs = runtime.NumCPU()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configure a parse. Format and Code are names, validated by
// [Options.ValidateAndSetDefaults]; the empty strings select compact JSON
// and no nomenclatural code.
type Options struct {
	Format    string `json:"format,omitempty"`
	Code      string `json:"code,omitempty"`
	Details   bool   `json:"details,omitempty"`
	Diaereses bool   `json:"diaereses,omitempty"`

	// Batch options
	Jobs     int `json:"-"`
	MaxBatch int `json:"-"`

	// Cache options
	CacheTTL time.Duration `json:"-"`
	Refresh  bool          `json:"-"` // skip cache reads, still write

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	format    format.Format
	code      code.Code
	validated bool
}

// Result is the output of a single-name run.
type Result struct {
	Output    string
	Stats     Stats
	CacheInfo CacheInfo
}

// BatchResult is the output of a batch run. Outputs has one slot per input
// entry, in input order.
type BatchResult struct {
	Outputs   []batch.Output
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics.
type Stats struct {
	batch.Stats
	Duration time.Duration
}

// CacheInfo counts result cache lookups.
type CacheInfo struct {
	Hits   int
	Misses int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option names and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	f, err := errors.ValidateFormat(o.Format)
	if err != nil {
		return err
	}
	c, err := errors.ValidateCode(o.Code)
	if err != nil {
		return err
	}
	o.format, o.code = f, c
	o.SetBatchDefaults()
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetBatchDefaults sets default values for batch runs.
func (o *Options) SetBatchDefaults() {
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs
	}
	if o.MaxBatch == 0 {
		o.MaxBatch = DefaultMaxBatch
	}
}

// ParserOptions returns the parser options. Call ValidateAndSetDefaults
// first.
func (o *Options) ParserOptions() parser.Options {
	return parser.Options{
		Format:            o.format,
		Code:              o.code,
		Details:           o.Details,
		PreserveDiaereses: o.Diaereses,
	}
}

// ResultKeyOpts returns cache key options. Format and code enter the key in
// their canonical spelling, so aliases share entries.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Format:    o.format.String(),
		Code:      o.code.String(),
		Details:   o.Details,
		Diaereses: o.Diaereses,
		Version:   buildinfo.Version,
	}
}

// Header returns the header line for tabular formats and "" otherwise.
func (o *Options) Header() string {
	return format.Header(o.format)
}
