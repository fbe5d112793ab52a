package commands

import (
	"io"
	"steamcrawl/internal/ingest"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderSummaries(out io.Writer, summaries []ingest.Summary) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Pipeline", "Persisted", "No data", "Failed", "Skipped", "Failed apps"})
	for _, s := range summaries {
		name := s.Pipeline
		if s.Interrupted {
			name += " (interrupted)"
		}
		t.AppendRow(table.Row{
			name,
			s.Persisted,
			s.NoData,
			s.Failed,
			s.Skipped,
			formatIDs(s.FailedIDs, 10),
		})
	}
	t.Render()
}

// formatIDs lists at most limit ids.
func formatIDs(ids []int64, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, id := range ids {
		if i == limit {
			parts = append(parts, "+"+strconv.Itoa(len(ids)-limit)+" more")
			break
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}
