package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/internal/server"
	"github.com/matzehuels/gnparser/pkg/cache"
)

type serveOpts struct {
	addr     string
	maxBatch int
	cache    string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

  GET  /api/v1/ping
  GET  /api/v1/version
  GET  /api/v1/{names}    names separated by "|"
  POST /api/v1            {"names": [...], "format": ..., "code": ...}
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.Server
			if !cmd.Flags().Changed("addr") {
				opts.addr = s.Addr
			}
			if !cmd.Flags().Changed("max-batch") {
				opts.maxBatch = s.MaxBatch
			}
			if !cmd.Flags().Changed("cache") {
				opts.cache = s.Cache
			}
			return c.runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.addr, "addr", "a", ":8080", "listen address")
	f.IntVar(&opts.maxBatch, "max-batch", 5000, "maximum names per request")
	f.StringVar(&opts.cache, "cache", cache.BackendMemory, "cache backend: none, file, memory, redis, mongo")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cacheOpts := c.Config.Cache.Options
	cacheOpts.Backend = opts.cache
	runner := c.newRunner(ctx, cacheOpts, false)
	defer runner.Close()

	srv, err := server.New(runner, server.Config{
		Addr:     opts.addr,
		MaxBatch: opts.maxBatch,
		Defaults: c.Config.PipelineOptions(),
	}, logger)
	if err != nil {
		return err
	}

	printInfo("Listening on %s", StyleValue.Render(opts.addr))
	printKeyValue("cache", cache.BackendName(runner.Cache))
	printKeyValue("max batch", StyleNumber.Render(strconv.Itoa(opts.maxBatch)))
	return srv.ListenAndServe(ctx)
}
