package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parse result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached parse results",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Cache.Options
			cc, err := cache.Open(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			backend := cache.BackendName(cc)
			if backend == cache.BackendNone {
				printInfo("Cache is disabled")
				return nil
			}
			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared from the CLI", backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear %s cache: %w", backend, err)
			}

			printSuccess("Cleared %s cache", backend)
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.Cache.Dir
			if dir == "" {
				d, err := cache.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
