package errors

import (
	"testing"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/format"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    format.Format
		wantErr bool
	}{
		{"", format.Compact, false},
		{"compact", format.Compact, false},
		{"pretty", format.Pretty, false},
		{"structured", format.Pretty, false},
		{"CSV", format.CSV, false},
		{"tsv", format.TSV, false},
		{"xml", format.Compact, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !Is(err, ErrCodeInvalidFormat) {
					t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		input   string
		want    code.Code
		wantErr bool
	}{
		{"", code.None, false},
		{"botanical", code.Botanical, false},
		{"ICZN", code.Zoological, false},
		{"bacterial", code.Bacterial, false},
		{"cultivars", code.Cultivars, false},
		{"virus", code.Virus, false},
		{"fungal", code.None, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !Is(err, ErrCodeInvalidCode) {
					t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidCode)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidateCode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateBatchSize(t *testing.T) {
	tests := []struct {
		name    string
		n, max  int
		wantErr bool
	}{
		{"under", 3, 10, false},
		{"at limit", 10, 10, false},
		{"over", 11, 10, true},
		{"unlimited", 1_000_000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatchSize(tt.n, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBatchSize(%d, %d) error = %v, wantErr %v", tt.n, tt.max, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
