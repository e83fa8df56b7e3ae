package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/cache"
	"github.com/matzehuels/gnparser/pkg/core/format"
	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/observability"
	"github.com/matzehuels/gnparser/pkg/parser"
)

// Runner encapsulates parsing with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	backend string
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		backend: cache.BackendName(c),
	}
}

// ParseWithCacheInfo parses one name and reports whether the output came
// from the cache. A panic while parsing is returned as an *errors.Fault.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, name string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	p, err := parser.New(opts.ParserOptions())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, hit, err := r.parseOne(ctx, p, name, &opts)
	if err != nil {
		r.Logger.Error("parse failed", "name", name, "err", err)
		return nil, err
	}

	res := &Result{Output: out}
	res.Stats.Parsed = 1
	res.Stats.Duration = time.Since(start)
	if hit {
		res.CacheInfo.Hits = 1
	} else {
		res.CacheInfo.Misses = 1
	}
	r.Logger.Debug("parsed name", "name", name, "cached", hit, "duration", res.Stats.Duration)
	return res, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and returns
// only the serialized output.
func (r *Runner) Parse(ctx context.Context, name string, opts Options) (string, error) {
	res, err := r.ParseWithCacheInfo(ctx, name, opts)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// ParseBatch parses entries with up to opts.Jobs workers. The returned
// outputs correspond to entries position by position; missing entries are
// never parsed. A batch larger than opts.MaxBatch fails with INVALID_INPUT
// before any parsing.
//
// On cancellation ParseBatch returns the partial result together with the
// context error.
func (r *Runner) ParseBatch(ctx context.Context, entries []batch.Entry, opts Options) (*BatchResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := errors.ValidateBatchSize(len(entries), opts.MaxBatch); err != nil {
		return nil, err
	}
	p, err := parser.New(opts.ParserOptions())
	if err != nil {
		return nil, err
	}

	hooks := observability.Parse()
	hooks.OnBatchStart(ctx, len(entries))
	start := time.Now()

	var hits atomic.Int64
	outs, runErr := batch.Run(ctx, entries, opts.Jobs, func(ctx context.Context, name string) (string, error) {
		out, hit, err := r.parseOne(ctx, p, name, &opts)
		if hit {
			hits.Add(1)
		}
		return out, err
	})

	res := &BatchResult{Outputs: outs}
	res.Stats.Stats = batch.Summarize(outs)
	res.Stats.Duration = time.Since(start)
	res.CacheInfo.Hits = int(hits.Load())
	res.CacheInfo.Misses = res.Stats.Parsed + res.Stats.Faults - res.CacheInfo.Hits

	for i, o := range outs {
		// Slots never scheduled after cancellation carry runErr itself.
		if o.Fault != nil && o.Fault != runErr {
			r.Logger.Error("parse fault", "index", i, "err", o.Fault)
		}
	}
	hooks.OnBatchComplete(ctx, res.Stats.Parsed, res.Stats.Missing, res.Stats.Faults, res.Stats.Duration, runErr)

	r.Logger.Info("parsed batch",
		"names", len(entries),
		"parsed", res.Stats.Parsed,
		"missing", res.Stats.Missing,
		"faults", res.Stats.Faults,
		"cache_hits", res.CacheInfo.Hits,
		"duration", res.Stats.Duration)

	return res, runErr
}

// parseOne looks name up in the cache, parses it on a miss and stores the
// serialized output. Cache failures are reported to hooks and otherwise
// ignored.
func (r *Runner) parseOne(ctx context.Context, p *parser.Parser, name string, opts *Options) (out string, hit bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			out, hit, err = "", false, &errors.Fault{Name: name, Value: v}
		}
	}()

	hooks := observability.Cache()
	key := r.Keyer.ResultKey(name, opts.ResultKeyOpts())

	if !opts.Refresh {
		data, ok, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			hooks.OnCacheError(ctx, r.backend, "get", err)
			opts.Logger.Debug("cache get failed", "backend", r.backend, "err", err)
		case ok:
			hooks.OnCacheHit(ctx, r.backend)
			return string(data), true, nil
		default:
			hooks.OnCacheMiss(ctx, r.backend)
		}
	}

	start := time.Now()
	res := p.Parse(name)
	observability.Parse().OnParse(ctx, opts.code.String(), res.Parsed, res.Quality, time.Since(start))

	out, err = format.Output(res, opts.format, opts.Details)
	if err != nil {
		return "", false, err
	}

	if err := r.Cache.Set(ctx, key, []byte(out), opts.CacheTTL); err != nil {
		hooks.OnCacheError(ctx, r.backend, "set", err)
		opts.Logger.Debug("cache set failed", "backend", r.backend, "err", err)
	} else {
		hooks.OnCacheSet(ctx, r.backend, len(out))
	}
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
