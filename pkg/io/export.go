package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/core/format"
)

// Writer writes outputs one per line.
type Writer struct {
	w      *bufio.Writer
	format format.Format

	// Missing is written in place of missing and faulted outputs.
	Missing string

	headerDone bool
	n          int
}

// NewWriter returns a Writer for outputs in format f.
func NewWriter(w io.Writer, f format.Format) *Writer {
	return &Writer{w: bufio.NewWriter(w), format: f}
}

// Write writes outs after any previously written outputs. The header of a
// tabular format is written before the first line.
func (w *Writer) Write(outs []batch.Output) error {
	if !w.headerDone {
		w.headerDone = true
		if h := format.Header(w.format); h != "" {
			if err := w.line(h); err != nil {
				return err
			}
		}
	}
	for _, o := range outs {
		v := o.Value
		if o.Missing || o.Fault != nil {
			v = w.Missing
		}
		if err := w.line(v); err != nil {
			return fmt.Errorf("output %d: %w", w.n, err)
		}
		w.n++
	}
	return nil
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns the number of outputs written.
func (w *Writer) Count() int { return w.n }

func (w *Writer) line(s string) error {
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// CreateOutput creates or truncates the output file at path.
func CreateOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return f, nil
}
