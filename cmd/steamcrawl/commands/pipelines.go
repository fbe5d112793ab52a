package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"steamcrawl/internal/ingest"
	"steamcrawl/internal/itemlist"
	"steamcrawl/internal/pipelines"

	"github.com/spf13/cobra"
)

func init() {
	for _, kind := range pipelines.Kinds {
		rootCmd.AddCommand(pipelineCmd(kind))
	}
	rootCmd.AddCommand(runCmd)
}

var pipelineShort = map[pipelines.Kind]string{
	pipelines.KindDetails: "Fetches store details, categories and genres of every listed app.",
	pipelines.KindReviews: "Fetches the review summary of every listed app.",
	pipelines.KindPlayers: "Scrapes the monthly player counts of every listed app.",
}

func pipelineCmd(kind pipelines.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind),
		Short: pipelineShort[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndReport(cmd.Context(), cmd.OutOrStdout(), current, []pipelines.Kind{kind})
		},
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the details, reviews and players pipelines in sequence.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAndReport(cmd.Context(), cmd.OutOrStdout(), current, pipelines.Kinds)
	},
}

func runAndReport(ctx context.Context, out io.Writer, s state, kinds []pipelines.Kind) error {
	summaries, err := runPipelines(ctx, s, kinds)
	if len(summaries) > 0 {
		renderSummaries(out, summaries)
	}
	return err
}

// runPipelines runs each pipeline over the app list in order. Per-item
// failures only show up in the summaries, errors are setup failures.
func runPipelines(ctx context.Context, s state, kinds []pipelines.Kind) ([]ingest.Summary, error) {
	ids, err := itemlist.Read(s.config.AppList)
	if err != nil {
		return nil, err
	}

	env := pipelines.Env{
		DataDir: s.config.DataDir,
		Period:  s.config.CurrentPeriod(s.clock),
		Pause:   s.config.Pause(),
		Tel:     s.tel,
	}
	slog.Info("starting run", "period", env.Period, "apps", len(ids), "dir", env.Dir())

	var summaries []ingest.Summary
	for _, kind := range kinds {
		driver, err := newPipeline(s, env, kind)
		if err != nil {
			return summaries, fmt.Errorf("setup %s: %w", kind, err)
		}

		summary := driver.Run(ctx, ids)
		summaries = append(summaries, summary)
		slog.Info(
			"pipeline finished",
			"pipeline", kind,
			"processed", summary.Processed(),
			"failed", summary.Failed,
			"skipped", summary.Skipped,
		)
		if summary.Interrupted {
			break
		}
	}
	return summaries, nil
}

func newPipeline(s state, env pipelines.Env, kind pipelines.Kind) (*ingest.Driver, error) {
	switch kind {
	case pipelines.KindDetails:
		client, err := newStorefront(s)
		if err != nil {
			return nil, err
		}
		return pipelines.NewDetails(env, client)
	case pipelines.KindReviews:
		client, err := newStorefront(s)
		if err != nil {
			return nil, err
		}
		return pipelines.NewReviews(env, client)
	case pipelines.KindPlayers:
		client, err := newSteamcharts(s)
		if err != nil {
			return nil, err
		}
		return pipelines.NewPlayers(env, client)
	}
	return nil, fmt.Errorf("unknown pipeline %q", kind)
}
