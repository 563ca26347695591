package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the media cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached media of the current cache version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer c.close()

			entries, err := c.store.ListEntries(ctx, c.worker.CacheName())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cache %s is empty\n", c.worker.CacheName())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove entries left behind by older cache versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer c.close()

			n, err := c.store.PurgeCachesExcept(ctx, c.worker.CacheName())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entries\n", n)
			return nil
		},
	})

	return cmd
}
