package errors

import (
	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/format"
)

// ValidateFormat checks an output format name and returns the parsed format.
// The empty string selects compact JSON.
func ValidateFormat(name string) (format.Format, error) {
	f, err := format.Parse(name)
	if err != nil {
		return f, Wrap(ErrCodeInvalidFormat, err, "invalid format %q", name)
	}
	return f, nil
}

// ValidateCode checks a nomenclatural code name and returns the parsed code.
// The empty string means no code.
func ValidateCode(name string) (code.Code, error) {
	c, err := code.Parse(name)
	if err != nil {
		return c, Wrap(ErrCodeInvalidCode, err, "invalid code %q", name)
	}
	return c, nil
}

// ValidateBatchSize rejects batches longer than max. A max of zero or less
// disables the check.
func ValidateBatchSize(n, max int) error {
	if max > 0 && n > max {
		return New(ErrCodeInvalidInput, "batch too large: %d names (max %d)", n, max)
	}
	return nil
}
