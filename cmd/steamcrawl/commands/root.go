package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"steamcrawl/internal/components/chrono"
	"steamcrawl/internal/components/telemetry"
	libtelemetry "steamcrawl/lib/telemetry"

	"github.com/spf13/cobra"
)

// state is filled in by the root command before any subcommand runs.
type state struct {
	config Config
	clock  chrono.API
	tel    telemetry.API
	otel   libtelemetry.Telemetry
}

var current state

var (
	configPath    string
	telemetryPath string
	verbose       bool

	dataDirFlag string
	periodFlag  string
	appListFlag string
	pauseFlag   float64
)

var rootCmd = &cobra.Command{
	Use:          "steamcrawl",
	Short:        "steamcrawl collects Steam catalog, store details, reviews and player counts into monthly CSV tables.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(os.Stderr, verbose)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("data-dir") {
			cfg.DataDir = dataDirFlag
		}
		if flags.Changed("period") {
			cfg.Period = periodFlag
		}
		if flags.Changed("app-list") {
			cfg.AppList = appListFlag
		}
		if flags.Changed("pause") {
			cfg.PauseSeconds = &pauseFlag
		}
		err = cfg.validate()
		if err != nil {
			return err
		}

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		otel, err := libtelemetry.SetupFromFile(cmd.Context(), "steamcrawl", telemetryPath)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		current = state{
			config: cfg,
			clock:  clock,
			tel:    telemetry.SlogAPI{},
			otel:   otel,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := current.otel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "steamcrawl.json5", "path to the config file")
	flags.StringVar(&telemetryPath, "telemetry", "telemetry.json5", "path to the OpenTelemetry exporter config")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every request and item")
	flags.StringVar(&dataDirFlag, "data-dir", "", "directory holding one subdirectory per period")
	flags.StringVar(&periodFlag, "period", "", "period to write to (YYYY-MM), defaults to the current month")
	flags.StringVar(&appListFlag, "app-list", "", "CSV file with an appid column")
	flags.Float64Var(&pauseFlag, "pause", 0, "seconds to wait between two items")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
