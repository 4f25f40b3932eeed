package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/config"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var cacheKeys bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the registry response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location, TTL and entry count",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached registry response",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheStatsCmd.Flags().BoolVar(&cacheKeys, "keys", false, "also list the cached keys")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	enabled := "no"
	if cfg.Cache.Enabled {
		enabled = "yes"
	}

	ui.HeaderMsg("Cache")
	fmt.Printf("  %s: %s\n", ui.Cyan("Path"), config.CachePath())
	fmt.Printf("  %s: %s\n", ui.Cyan("Enabled"), enabled)
	fmt.Printf("  %s: %s\n", ui.Cyan("TTL"), cfg.CacheTTL())
	fmt.Printf("  %s: %d\n", ui.Cyan("Entries"), appCache.Len())

	if cacheKeys {
		for _, key := range appCache.Keys() {
			ui.MutedMsg("  %s", key)
		}
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if !cfg.Cache.Enabled {
		ui.InfoMsg("Cache is disabled")
		return nil
	}
	if err := appCache.Clear(); err != nil {
		return err
	}
	ui.SuccessMsg("Cache cleared")
	return nil
}
