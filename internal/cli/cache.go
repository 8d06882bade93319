package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/internal/config"
	"github.com/matzehuels/iclabels/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `PDF and PNG conversions are cached by content, so re-rendering an
unchanged sheet skips the external converter.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ac, err := c.openCache(ctx, false)
			if err != nil {
				return err
			}
			defer ac.Close()

			var n int
			switch ac := ac.(type) {
			case *cache.FileCache:
				n, err = ac.Clear()
				if err == nil {
					defer printDetail("Directory: %s", ac.Dir())
				}
			case *cache.RedisCache:
				n, err = ac.Clear(ctx)
			default:
				printInfo("Caching is disabled")
				return nil
			}
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.settings().Cache
			switch cc.Backend {
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			case config.CacheRedis:
				fmt.Fprintln(stdout, cc.RedisURL)
				return nil
			}
			dir, err := cc.CacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
