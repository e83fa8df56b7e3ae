package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/pkg/buildinfo"
	"github.com/matzehuels/gnparser/pkg/cache"
	"github.com/matzehuels/gnparser/pkg/config"
	"github.com/matzehuels/gnparser/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "gnparser"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config config.Config

	configPath string
	out        io.Writer
	in         io.Reader
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
		in:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetIO redirects command input and output. Logs are unaffected.
func (c *CLI) SetIO(in io.Reader, out io.Writer) {
	c.in, c.out = in, out
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gnparser splits scientific names into their semantic elements",
		Long: `gnparser parses biological scientific names into canonical forms,
authorship, rank and quality warnings, with code-aware handling of ambiguous
names.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigPath()+")")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the cache described by opts.
// A cache that cannot be opened is logged and replaced by no cache.
func (c *CLI) newRunner(ctx context.Context, opts cache.Options, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.openCache(ctx, opts, noCache), opts.Keyer(), c.Logger)
}

func (c *CLI) openCache(ctx context.Context, opts cache.Options, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cc, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", opts.Backend, "err", err)
		return cache.NewNullCache()
	}
	c.Logger.Debug("cache opened", "backend", cache.BackendName(cc))
	return cc
}

// =============================================================================
// Paths
// =============================================================================

func defaultConfigPath() string {
	p, err := config.Path()
	if err != nil {
		return "~/.config/" + appName + "/config.toml"
	}
	return p
}
