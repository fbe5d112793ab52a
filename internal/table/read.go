package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNoHeader is returned by ReadAll for an empty file.
var ErrNoHeader = errors.New("table has no header")

// ReadAll reads a whole CSV table, returning its header and records. Rows
// that fail to parse are skipped.
func ReadAll(path string) (header []string, records [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err = reader.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

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
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// ReadColumns reads a table and projects each record onto the named columns.
// A missing file yields no records. Records shorter than a wanted column are
// skipped, a missing column is an error.
func ReadColumns(path string, columns ...string) ([][]string, error) {
	header, records, err := ReadAll(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNoHeader) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(columns))
	for i, col := range columns {
		idx[i] = ColumnIndex(header, col)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	var out [][]string
	for _, rec := range records {
		projected := make([]string, len(columns))
		ok := true
		for i, j := range idx {
			if j >= len(rec) {
				ok = false
				break
			}
			projected[i] = rec[j]
		}
		if ok {
			out = append(out, projected)
		}
	}
	return out, nil
}

// ColumnIndex returns the position of name in header or -1. A UTF-8 byte
// order mark on the first column is ignored.
func ColumnIndex(header []string, name string) int {
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		if col == name {
			return i
		}
	}
	return -1
}
