// Package batch maps a sequence of possibly-missing names to a sequence of
// outputs of the same length.
//
// Output i always corresponds to entry i. A missing entry yields a missing
// output and never reaches the parse function. A panic inside the parse of
// one entry is recovered into that slot's Fault; the other slots are
// unaffected.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gnparser/pkg/errors"
)

// Entry is one input slot. Missing marks the absence of a value, which is
// distinct from the empty string.
type Entry struct {
	Value   string
	Missing bool
}

// Output is one result slot.
type Output struct {
	Value   string
	Missing bool

	// Fault is set when parsing this entry failed internally. It is an
	// *errors.Fault for recovered panics.
	Fault error
}

// Func parses a single present name.
type Func func(ctx context.Context, name string) (string, error)

// Stats counts outputs by kind.
type Stats struct {
	Parsed  int `json:"parsed"`
	Missing int `json:"missing"`
	Faults  int `json:"faults"`
}

// FromValues builds entries from nullable values; nil is missing.
func FromValues(values []*string) []Entry {
	out := make([]Entry, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = Entry{Missing: true}
			continue
		}
		out[i] = Entry{Value: *v}
	}
	return out
}

// FromStrings builds entries in which every value is present.
func FromStrings(values []string) []Entry {
	out := make([]Entry, len(values))
	for i, v := range values {
		out[i] = Entry{Value: v}
	}
	return out
}

// Values converts outputs back to nullable values. Missing and faulted
// slots become nil.
func Values(outs []Output) []*string {
	vals := make([]*string, len(outs))
	for i := range outs {
		if outs[i].Missing || outs[i].Fault != nil {
			continue
		}
		vals[i] = &outs[i].Value
	}
	return vals
}

// Run applies fn to every present entry using at most jobs concurrent
// workers (jobs < 1 means one). It returns exactly len(entries) outputs.
//
// When ctx is cancelled Run stops scheduling work, waits for running workers
// and returns ctx.Err() alongside the outputs. Missing entries are still
// marked missing; present entries that were never scheduled carry ctx.Err()
// as their Fault.
func Run(ctx context.Context, entries []Entry, jobs int, fn Func) ([]Output, error) {
	outs := make([]Output, len(entries))
	if jobs < 1 {
		jobs = 1
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, e := range entries {
		if e.Missing {
			outs[i] = Output{Missing: true}
			continue
		}
		if err := ctx.Err(); err != nil {
			outs[i] = Output{Fault: err}
			continue
		}
		g.Go(func() error {
			outs[i] = runOne(ctx, e.Value, fn)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return outs, err
	}
	return outs, nil
}

func runOne(ctx context.Context, name string, fn Func) (out Output) {
	defer func() {
		if v := recover(); v != nil {
			out = Output{Fault: &errors.Fault{Name: name, Value: v}}
		}
	}()
	s, err := fn(ctx, name)
	if err != nil {
		return Output{Fault: fmt.Errorf("parse %q: %w", name, err)}
	}
	return Output{Value: s}
}

// Summarize counts outputs by kind.
func Summarize(outs []Output) Stats {
	var s Stats
	for _, o := range outs {
		switch {
		case o.Missing:
			s.Missing++
		case o.Fault != nil:
			s.Faults++
		default:
			s.Parsed++
		}
	}
	return s
}
