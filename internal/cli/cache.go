package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/cache"
	"github.com/matzehuels/pyfmt/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the formatting result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// cache the current settings select: Redis keys under the pyfmt prefix or
// the file cache directory.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			cc, err := c.newCache(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			if err := clearCache(ctx, cc); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Cleared cache")
			switch cc := cc.(type) {
			case *cache.FileCache:
				printDetail(out, "Directory: %s", cc.Dir())
			case *cache.RedisCache:
				printDetail(out, "Redis keys: %s*", cc.Key(""))
			}
			return nil
		},
	}
}

func clearCache(ctx context.Context, cc cache.Cache) error {
	cl, ok := cc.(cache.Clearer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "cache %T cannot be cleared", cc)
	}
	return cl.Clear(ctx)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			dir, err := resolveCacheDir(cfg)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "get cache dir")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
