package commands

import (
	"fmt"
	"log/slog"
	"steamcrawl/internal/export"
	"steamcrawl/internal/pipelines"

	"github.com/spf13/cobra"
)

var exportFile string

func init() {
	exportCmd.Flags().StringVar(&exportFile, "db", "", "sqlite file to write to, overrides export.file")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path/to/steam.db>]",
	Short: "Loads every CSV table of a period into a sqlite or libsql database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := current
		dbConfig := s.config.Export
		if exportFile != "" {
			dbConfig.File = exportFile
			dbConfig.Url = ""
		}

		db, err := dbConfig.OpenDB()
		if err != nil {
			return fmt.Errorf("open export database: %w", err)
		}
		defer db.Close()

		dir := pipelines.PeriodDir(s.config.DataDir, s.config.CurrentPeriod(s.clock))
		slog.Info("exporting period", "dir", dir)

		results, err := export.Period(cmd.Context(), db, dir, s.tel)

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader([]any{"Table", "Rows"})
		for _, r := range results {
			t.AppendRow([]any{r.Table, r.Rows})
		}
		t.Render()
		return err
	},
}
