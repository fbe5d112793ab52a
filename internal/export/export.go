// Package export loads the CSV tables of a period directory into a SQL
// database, one SQL table per CSV file.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"steamcrawl/internal/components/telemetry"
	"steamcrawl/internal/table"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_export_table = "export.table"
)

var tracer = otel.Tracer("steamcrawl.export")

// TableResult is what was loaded from one CSV file.
type TableResult struct {
	Table string
	Rows  int
}

// Period replaces the contents of one SQL table per CSV file in dir. Every
// column is stored as TEXT, empty fields become NULL.
func Period(ctx context.Context, db *sql.DB, dir string, tel telemetry.API) ([]TableResult, error) {
	tel = telemetry.NewScopedAPI("export", tel)

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no tables found in %s", dir)
	}
	sort.Strings(paths)

	var results []TableResult
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		n, err := loadTable(ctx, db, name, p)
		if errors.Is(err, table.ErrNoHeader) {
			tel.ReportWarning(report_export_table, "skipping table without header", name)
			continue
		}
		if err != nil {
			tel.ReportBroken(report_export_table, err, name)
			return results, fmt.Errorf("export %s: %w", name, err)
		}
		tel.ReportDebug("exported table", name, n)
		results = append(results, TableResult{Table: name, Rows: n})
	}
	return results, nil
}

func loadTable(ctx context.Context, db *sql.DB, name, path string) (n int, err error) {
	ctx, span := tracer.Start(ctx, "export.table")
	defer span.End()
	span.SetAttributes(attribute.String("table", name))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to export table")
		}
	}()

	header, records, err := table.ReadAll(path)
	if err != nil {
		return 0, err
	}
	if len(header) == 0 {
		return 0, table.ErrNoHeader
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name))
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, createStatement(name, header))
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(name, header))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, rec := range records {
		for i := range args {
			args[i] = nil
			if i < len(rec) && rec[i] != "" {
				args[i] = rec[i]
			}
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("rows", len(records)))
	return len(records), nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createStatement(name string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
}

func insertStatement(name string, columns []string) string {
	cols := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
		params[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name),
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
	)
}
