package dimension

import (
	"fmt"
	"path/filepath"
	"sort"
	"steamcrawl/internal/table"
	"strconv"
	"strings"
)

// Layout describes the CSV table a dimension is persisted to.
type Layout struct {
	// FileName is the table's name inside a period directory, ex. categories.csv
	FileName   string
	IDColumn   string
	DescColumn string
}

// Header returns the table's column list.
func (l Layout) Header() []string {
	return []string{l.IDColumn, l.DescColumn}
}

// Record formats an entry in header order.
func (l Layout) Record(e Entry) []string {
	return []string{strconv.FormatInt(e.ID, 10), e.Description}
}

// ReadTable loads the entries of one dimension table. A missing table has no
// entries, rows with a non-integer id are skipped.
func ReadTable(path string, layout Layout) ([]Entry, error) {
	rows, err := table.ReadColumns(path, layout.IDColumn, layout.DescColumn)
	if err != nil {
		return nil, fmt.Errorf("read dimension table: %w", err)
	}

	var out []Entry
	for _, r := range rows {
		id, err := strconv.ParseInt(strings.TrimSpace(r[0]), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Entry{ID: id, Description: r[1]})
	}
	return out, nil
}

// PeriodTables lists the dimension table of every period directory under
// dataDir, oldest period first.
func PeriodTables(dataDir string, layout Layout) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, "*", layout.FileName))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// SeedFromDataDir seeds store with the dimension tables of all periods under
// dataDir, ids are global across periods.
func SeedFromDataDir(store *Store, dataDir string, layout Layout) error {
	paths, err := PeriodTables(dataDir, layout)
	if err != nil {
		return err
	}
	for _, p := range paths {
		entries, err := ReadTable(p, layout)
		if err != nil {
			return err
		}
		store.Seed(entries)
	}
	return nil
}
