package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pydocscraper/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached HTTP responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.CacheNone {
				printWarning(c.Stdout, "Response cache is disabled in the config")
				return nil
			}

			store, err := c.newCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo(c.Stdout, "Cache is empty")
				return nil
			}
			printSuccess(c.Stdout, "Cleared %d cached entries", count)
			printDetail(c.Stdout, "Backend: %s", c.cfg.Cache.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached responses are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.cfg.Cache.Backend {
			case config.CacheNone:
				printKeyValue(c.Stdout, "backend", config.CacheNone)
			case config.CacheRedis:
				printKeyValue(c.Stdout, "backend", config.CacheRedis)
				printKeyValue(c.Stdout, "address", c.cfg.Cache.RedisAddr)
			default:
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(c.Stdout, dir)
			}
			return nil
		},
	}
}
