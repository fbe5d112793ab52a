// Package itemlist reads and writes the upstream list of app ids to crawl.
package itemlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"steamcrawl/internal/table"
	"strconv"
	"strings"
)

// IDColumn is the column holding the app id.
const IDColumn = "appid"

// Read returns the app ids of the list at path in file order. Rows without a
// valid integer id are skipped, a missing or unreadable file is an error.
func Read(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open item list: %w", err)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) ([]int64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read item list header: %w", err)
	}
	col := table.ColumnIndex(header, IDColumn)
	if col < 0 {
		return nil, nil
	}

	var ids []int64
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read item list: %w", err)
		}
		if col >= len(rec) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[col]), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// App is a catalog entry.
type App struct {
	ID   int64
	Name string
}

// Dedupe keeps one entry per id, the last name seen wins, and sorts by id.
func Dedupe(apps []App) []App {
	byID := make(map[int64]string, len(apps))
	for _, a := range apps {
		byID[a.ID] = a.Name
	}
	out := make([]App, 0, len(byID))
	for id, name := range byID {
		out = append(out, App{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Write replaces the list at path with apps. The list is written to a
// temporary file in the same directory and renamed over path, so readers
// never see a partial list.
func Write(path string, apps []App) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("write item list: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write item list: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	err = w.Write([]string{IDColumn, "name"})
	for _, a := range apps {
		if err != nil {
			break
		}
		err = w.Write([]string{strconv.FormatInt(a.ID, 10), a.Name})
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return fmt.Errorf("write item list: %w", err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return fmt.Errorf("write item list: %w", err)
	}
	return nil
}
