// Package config loads gnparser settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/gnparser/config.toml, or
// ~/.config/gnparser/config.toml when XDG_CONFIG_HOME is unset. Every key is
// optional; keys left out keep the values of [Default]. Command-line flags
// take precedence over the file.
//
//	[parse]
//	format = "csv"
//	code = "botanical"
//	jobs = 8
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
//	max_batch = 5000
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gnparser/pkg/cache"
	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/pipeline"
)

const (
	appName  = "gnparser"
	fileName = "config.toml"
)

// Config is the full set of file settings.
type Config struct {
	Parse  Parse  `toml:"parse"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Parse holds parse defaults shared by the CLI and the server.
type Parse struct {
	Format    string `toml:"format"`
	Code      string `toml:"code"`
	Details   bool   `toml:"details"`
	Diaereses bool   `toml:"diaereses"`
	Jobs      int    `toml:"jobs"`

	// BatchSize is how many input lines the CLI parses per batch.
	BatchSize int `toml:"batch_size"`

	// Missing is the placeholder line written for missing entries.
	Missing string `toml:"missing"`
}

// Cache selects the result cache.
type Cache struct {
	cache.Options

	// TTL is how long parse results stay cached.
	TTL time.Duration `toml:"ttl"`
}

// Server configures "gnparser serve".
type Server struct {
	Addr string `toml:"addr"`

	// MaxBatch caps the number of names in one API request.
	MaxBatch int `toml:"max_batch"`

	// Cache is the backend used by the server. Empty means memory.
	Cache string `toml:"cache"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Parse: Parse{
			Format:    "compact",
			Code:      "none",
			Jobs:      pipeline.DefaultJobs,
			BatchSize: pipeline.DefaultBatchSize,
		},
		Cache: Cache{
			Options: cache.Options{Backend: cache.BackendFile},
			TTL:     pipeline.DefaultCacheTTL,
		},
		Server: Server{
			Addr:     ":8080",
			MaxBatch: 5000,
			Cache:    cache.BackendMemory,
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the file at path over [Default]. A missing file is not an
// error. An empty path loads from [Path].
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML settings from r over [Default] and validates them.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config file")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks names and limits.
func (c Config) Validate() error {
	if _, err := errors.ValidateFormat(c.Parse.Format); err != nil {
		return err
	}
	if _, err := errors.ValidateCode(c.Parse.Code); err != nil {
		return err
	}
	if c.Parse.Jobs < 0 || c.Parse.BatchSize < 0 || c.Server.MaxBatch < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "negative jobs, batch_size or max_batch")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "negative cache ttl")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// PipelineOptions converts the parse settings.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Format:    c.Parse.Format,
		Code:      c.Parse.Code,
		Details:   c.Parse.Details,
		Diaereses: c.Parse.Diaereses,
		Jobs:      c.Parse.Jobs,
		CacheTTL:  c.Cache.TTL,
	}
}
