package commands

import (
	"context"
	"fmt"
	"log/slog"
	"steamcrawl/internal/itemlist"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(applistCmd)
}

var applistCmd = &cobra.Command{
	Use:   "applist",
	Short: "Downloads the Steam game catalog and writes it to the app list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := refreshAppList(cmd.Context(), current)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d apps to %s\n", n, current.config.AppList)
		return nil
	},
}

// refreshAppList replaces the app list with the current catalog.
func refreshAppList(ctx context.Context, s state) (int, error) {
	if s.config.APIKey == "" {
		return 0, fmt.Errorf("an api key is required, set api_key or %s", apiKeyEnv)
	}
	client, err := newStorefront(s)
	if err != nil {
		return 0, err
	}

	apps, err := client.FetchAppList(ctx, func(total int) {
		slog.Info("fetched app list page", "total", total)
	})
	if err != nil {
		return 0, err
	}

	entries := make([]itemlist.App, len(apps))
	for i, a := range apps {
		entries[i] = itemlist.App{ID: a.AppID, Name: a.Name}
	}
	entries = itemlist.Dedupe(entries)

	err = itemlist.Write(s.config.AppList, entries)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
