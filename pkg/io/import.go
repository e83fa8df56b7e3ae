package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/errors"
)

// MaxLineSize is the longest input line accepted.
const MaxLineSize = 1 << 20

// Reader reads entries line by line.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{sc: sc}
}

// Next reads up to n entries. It returns io.EOF once the input is exhausted
// and no entries were read. n <= 0 reads everything.
func (r *Reader) Next(n int) ([]batch.Entry, error) {
	var out []batch.Entry
	for n <= 0 || len(out) < n {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return out, fmt.Errorf("line %d: %w", r.line+1, err)
			}
			if len(out) == 0 {
				return nil, io.EOF
			}
			return out, nil
		}
		r.line++
		out = append(out, entry(r.sc.Text()))
	}
	return out, nil
}

// Line returns the number of lines read so far.
func (r *Reader) Line() int { return r.line }

func entry(line string) batch.Entry {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return batch.Entry{Missing: true}
	}
	return batch.Entry{Value: line}
}

// OpenNames opens the name file at path. A file that cannot be opened is a
// FILE_NOT_FOUND error naming the path.
func OpenNames(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open input %s", path)
	}
	return f, nil
}

// ReadJSON decodes a JSON array of names, where null marks a missing entry.
func ReadJSON(r io.Reader) ([]batch.Entry, error) {
	var names []*string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return batch.FromValues(names), nil
}
