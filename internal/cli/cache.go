package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depfresh/internal/adapters"
	"depfresh/internal/types"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the registry version cache",
	}
	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCachePruneCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func newCacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached registry lookups with their age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := adapters.NewFileCacheAdapter(viper.GetString("cache_path"))
			entries := cache.Entries()
			keys := make([]string, 0, len(entries))
			for key := range entries {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			ttl := viper.GetDuration("cache_ttl")
			now := time.Now()
			for _, key := range keys {
				entry := entries[key]
				state := "fresh"
				if !entry.Fresh(ttl, now) {
					state = "stale"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					key, entry.Version, now.Sub(entry.FetchedAt).Round(time.Second), state)
			}
			return nil
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop cache entries older than the TTL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := adapters.NewFileCacheAdapter(viper.GetString("cache_path"))
			entries := cache.Entries()
			ttl := viper.GetDuration("cache_ttl")
			now := time.Now()
			fresh := map[string]types.CacheEntry{}
			for key, entry := range entries {
				if entry.Fresh(ttl, now) {
					fresh[key] = entry
				}
			}
			if err := cache.Clear(); err != nil {
				return err
			}
			if err := cache.Put(fresh); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d of %d entries\n", len(entries)-len(fresh), len(entries))
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cache file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := adapters.NewFileCacheAdapter(viper.GetString("cache_path"))
			return cache.Clear()
		},
	}
}
