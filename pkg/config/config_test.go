package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gnparser/pkg/cache"
	"github.com/matzehuels/gnparser/pkg/errors"
)

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", "gnparser", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got, err = Path()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", "gnparser", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should load defaults (-want +got):\n%s", diff)
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	in := `
[parse]
format = "csv"
code = "botanical"
jobs = 3

[cache]
backend = "redis"
url = "redis://localhost:6379/0"
ttl = "72h"

[server]
max_batch = 10
`
	cfg, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Parse.Format = "csv"
	want.Parse.Code = "botanical"
	want.Parse.Jobs = 3
	want.Cache.Options = cache.Options{Backend: "redis", URL: "redis://localhost:6379/0"}
	want.Cache.TTL = 72 * time.Hour
	want.Server.MaxBatch = 10
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"syntax", "[parse", errors.ErrCodeInvalidConfig},
		{"unknown key", "[parse]\ncolour = \"red\"", errors.ErrCodeInvalidConfig},
		{"bad format", "[parse]\nformat = \"xml\"", errors.ErrCodeInvalidFormat},
		{"bad code", "[parse]\ncode = \"martian\"", errors.ErrCodeInvalidCode},
		{"negative jobs", "[parse]\njobs = -1", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[parse]\ndetails = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Parse.Details {
		t.Error("details not loaded")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Parse.Format = "tsv"

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode(Encode()) error: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Parse.Code = "zoological"
	opts := cfg.PipelineOptions()
	if opts.Code != "zoological" || opts.CacheTTL != cfg.Cache.TTL {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}
