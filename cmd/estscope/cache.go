package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"estscope/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached snapshot",
		Args:  cobra.NoArgs,
		RunE:  runCacheClean,
	}, &cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := driver.CacheRoot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})
	return cmd
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenCache()
	if err != nil {
		return err
	}
	n, err := cache.Clean()
	if err != nil {
		return fmt.Errorf("clean %s: %w", cache.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshots from %s\n", n, cache.Dir())
	return nil
}
