package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/errors"
	pkgio "github.com/matzehuels/gnparser/pkg/io"
	"github.com/matzehuels/gnparser/pkg/pipeline"
)

// parseOpts holds the flags of the parse command. Flags left unset take
// their values from the config file.
type parseOpts struct {
	format    string
	code      string
	details   bool
	diaereses bool
	jobs      int
	batchSize int
	missing   string

	noCache bool
	refresh bool
	cache   string // backend override

	input     string
	output    string
	jsonInput bool
}

func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [names...]",
		Short: "Parse scientific names",
		Long: `Parse scientific names given as arguments, read from a file (--input),
or read from stdin, one name per line.

Blank input lines are missing entries. Each produces a missing line in the
output (see --missing), so output line i always belongs to input line i.`,
		Example: `  gnparser parse "Homo sapiens Linnaeus, 1758"
  gnparser parse --format csv --code botanical --input names.txt
  cat names.txt | gnparser parse --jobs 8 --output parsed.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyParseConfig(cmd, &opts)
			return c.runParse(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "compact", "output format: compact, pretty, csv, tsv")
	f.StringVarP(&opts.code, "code", "c", "", "nomenclatural code: botanical, zoological, bacterial, cultivars, virus")
	f.BoolVarP(&opts.details, "details", "d", false, "include words and the parse tree in JSON output")
	f.BoolVar(&opts.diaereses, "diaereses", false, "keep diaereses in canonical forms")
	f.IntVarP(&opts.jobs, "jobs", "j", pipeline.DefaultJobs, "parallel parse workers")
	f.IntVar(&opts.batchSize, "batch-size", pipeline.DefaultBatchSize, "names read per batch")
	f.StringVar(&opts.missing, "missing", "", "line written for missing entries")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results (still update the cache)")
	f.StringVar(&opts.cache, "cache", "", "cache backend: none, file, memory, redis, mongo")
	f.StringVarP(&opts.input, "input", "i", "", "input file (default stdin)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&opts.jsonInput, "json-input", false, `input is a JSON array of names, null for missing`)

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("compact", "pretty", "csv", "tsv"))
	_ = cmd.RegisterFlagCompletionFunc("code", fixedCompletion("botanical", "zoological", "bacterial", "cultivars", "virus"))
	return cmd
}

// applyParseConfig fills flags the user did not set from the config file.
func (c *CLI) applyParseConfig(cmd *cobra.Command, opts *parseOpts) {
	p := c.Config.Parse
	set := func(name string, apply func()) {
		if !cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("format", func() { opts.format = p.Format })
	set("code", func() { opts.code = p.Code })
	set("details", func() { opts.details = p.Details })
	set("diaereses", func() { opts.diaereses = p.Diaereses })
	set("missing", func() { opts.missing = p.Missing })
	if p.Jobs > 0 {
		set("jobs", func() { opts.jobs = p.Jobs })
	}
	if p.BatchSize > 0 {
		set("batch-size", func() { opts.batchSize = p.BatchSize })
	}
}

func (c *CLI) runParse(ctx context.Context, args []string, opts parseOpts) error {
	logger := loggerFromContext(ctx)
	if opts.batchSize <= 0 {
		opts.batchSize = pipeline.DefaultBatchSize
	}

	popts := pipeline.Options{
		Format:    opts.format,
		Code:      opts.code,
		Details:   opts.details,
		Diaereses: opts.diaereses,
		Jobs:      opts.jobs,
		MaxBatch:  opts.batchSize,
		CacheTTL:  c.Config.Cache.TTL,
		Refresh:   opts.refresh,
		Logger:    logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	f, _ := errors.ValidateFormat(opts.format)

	next, closeIn, err := c.openInput(args, opts)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := c.openOutput(opts.output)
	if err != nil {
		return err
	}

	cacheOpts := c.Config.Cache.Options
	if opts.cache != "" {
		cacheOpts.Backend = opts.cache
	}
	runner := c.newRunner(ctx, cacheOpts, opts.noCache)
	defer runner.Close()

	w := pkgio.NewWriter(out, f)
	w.Missing = opts.missing

	var spin *batchSpinner
	if len(args) == 0 && isTerminal(os.Stderr) {
		spin = newBatchSpinner(ctx)
		spin.Start()
	}

	prog := newProgress(logger)
	var total pipeline.Stats
	var hits int
	for {
		entries, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return c.finishParse(spin, w, closeOut, err)
		}

		res, err := runner.ParseBatch(ctx, entries, popts)
		if err != nil {
			return c.finishParse(spin, w, closeOut, err)
		}
		if err := w.Write(res.Outputs); err != nil {
			return c.finishParse(spin, w, closeOut, fmt.Errorf("write output: %w", err))
		}
		total.Parsed += res.Stats.Parsed
		total.Missing += res.Stats.Missing
		total.Faults += res.Stats.Faults
		hits += res.CacheInfo.Hits
		if spin != nil {
			spin.Add(res.Stats, res.CacheInfo.Hits)
		}
		logger.Debug("batch done", "names", len(entries), "parsed", res.Stats.Parsed,
			"missing", res.Stats.Missing, "hits", res.CacheInfo.Hits, "duration", res.Stats.Duration)
	}
	if err := c.finishParse(spin, w, closeOut, nil); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Parsed %d names", w.Count()))
	if spin != nil {
		printStats(total.Parsed, total.Missing, total.Faults, hits)
	}
	if total.Faults > 0 {
		printWarning("%d names failed with internal errors; their lines hold the missing placeholder", total.Faults)
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// finishParse stops the spinner and flushes and closes the output. It
// returns err, or the first flush or close error when err is nil.
func (c *CLI) finishParse(spin *batchSpinner, w *pkgio.Writer, closeOut func() error, err error) error {
	if spin != nil {
		spin.Stop()
	}
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("write output: %w", ferr)
	}
	if cerr := closeOut(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}

// openInput returns a function yielding batches of entries until io.EOF.
func (c *CLI) openInput(args []string, opts parseOpts) (func() ([]batch.Entry, error), func(), error) {
	if len(args) > 0 {
		return chunks(batch.FromStrings(args), opts.batchSize), func() {}, nil
	}

	in, closeIn := c.in, func() {}
	if opts.input != "" && opts.input != "-" {
		file, err := pkgio.OpenNames(opts.input)
		if err != nil {
			return nil, nil, err
		}
		in, closeIn = file, func() { file.Close() }
	}

	if opts.jsonInput {
		entries, err := pkgio.ReadJSON(in)
		if err != nil {
			closeIn()
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read JSON input")
		}
		return chunks(entries, opts.batchSize), closeIn, nil
	}

	r := pkgio.NewReader(in)
	return func() ([]batch.Entry, error) { return r.Next(opts.batchSize) }, closeIn, nil
}

func chunks(entries []batch.Entry, size int) func() ([]batch.Entry, error) {
	return func() ([]batch.Entry, error) {
		if len(entries) == 0 {
			return nil, io.EOF
		}
		n := min(size, len(entries))
		chunk := entries[:n]
		entries = entries[n:]
		return chunk, nil
	}
}

func (c *CLI) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return c.out, func() error { return nil }, nil
	}
	f, err := pkgio.CreateOutput(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(f.Fd())
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
