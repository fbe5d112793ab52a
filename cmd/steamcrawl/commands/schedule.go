package commands

import (
	"context"
	"log/slog"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/pipelines"
	libtelemetry "steamcrawl/lib/telemetry"
	"time"

	"github.com/spf13/cobra"
)

var skipAppList bool

func init() {
	scheduleCmd.Flags().BoolVar(&skipAppList, "skip-applist", false, "do not refresh the app list before each run")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refreshes the app list and runs every pipeline on the configured cron schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := current

		if s.otel.Enabled() {
			libtelemetry.InstrumentPerfStats(ctx, 30*time.Second)
		}

		cron := chrono.NewStandardCron(s.clock, s.tel)
		err := cron.Cron(s.config.Schedule, func() {
			scheduledRun(ctx, cmd, s)
		})
		if err != nil {
			return err
		}

		slog.Info("waiting for schedule", "spec", s.config.Schedule)
		cron.Run(ctx)
		return nil
	},
}

func scheduledRun(ctx context.Context, cmd *cobra.Command, s state) {
	if ctx.Err() != nil {
		return
	}
	if !skipAppList {
		n, err := refreshAppList(ctx, s)
		if err != nil {
			// an outdated list is still worth crawling
			slog.Error("failed to refresh app list", "err", err)
		} else {
			slog.Info("refreshed app list", "apps", n)
		}
	}

	err := runAndReport(ctx, cmd.OutOrStdout(), s, pipelines.Kinds)
	if err != nil {
		slog.Error("scheduled run failed", "err", err)
	}
}
