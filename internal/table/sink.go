// Package table appends rows to CSV tables with a fixed column layout.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Row maps a column name to its already formatted value. Columns missing
// from the row are written as empty fields.
type Row map[string]string

// Sink is an append-only CSV table. The header is written once, when the
// file is first created, from the fixed column list given to NewSink.
type Sink struct {
	path   string
	header []string
}

func NewSink(path string, header []string) *Sink {
	return &Sink{path: path, header: header}
}

func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) Header() []string {
	return s.header
}

// Record orders the values of row by the sink's header.
func (s *Sink) Record(row Row) []string {
	record := make([]string, len(s.header))
	for i, col := range s.header {
		record[i] = row[col]
	}
	return record
}

// AppendRow appends a single row.
func (s *Sink) AppendRow(row Row) error {
	return s.AppendRecords([][]string{s.Record(row)})
}

// AppendRows appends rows in order.
func (s *Sink) AppendRows(rows []Row) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = s.Record(row)
	}
	return s.AppendRecords(records)
}

// AppendRecords appends records that are already in header order. All
// records are encoded up front and handed to the file in a single write.
func (s *Sink) AppendRecords(records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if len(rec) != len(s.header) {
			return fmt.Errorf(
				"append %s: record has %d fields, table has %d columns",
				filepath.Base(s.path), len(rec), len(s.header),
			)
		}
	}

	err := os.MkdirAll(filepath.Dir(s.path), 0755)
	if err != nil {
		return fmt.Errorf("append %s: %w", filepath.Base(s.path), err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("append %s: %w", filepath.Base(s.path), err)
	}

	err = s.write(f, records)
	closeErr := f.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return fmt.Errorf("append %s: %w", filepath.Base(s.path), err)
	}
	return nil
}

func (s *Sink) write(f *os.File, records [][]string) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}

	size := info.Size()
	if size > 0 {
		last := make([]byte, 1)
		_, err := f.ReadAt(last, size-1)
		if err != nil && err != io.EOF {
			return err
		}
		if last[0] != '\n' {
			size, err = dropTornRecord(f, size)
			if err != nil {
				return fmt.Errorf("drop torn row: %w", err)
			}
		}
	}
	if size == 0 {
		records = append([][]string{s.header}, records...)
	}

	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	err = w.WriteAll(records)
	if err != nil {
		return err
	}

	_, err = f.Write(buff.Bytes())
	if err != nil {
		return err
	}
	return f.Sync()
}

// dropTornRecord truncates f to its last complete record and returns the new
// size. A record ends at a newline outside of quotes, so a row cut inside a
// quoted field is dropped along with any newlines it already contained.
func dropTornRecord(f *os.File, size int64) (int64, error) {
	data, err := io.ReadAll(io.NewSectionReader(f, 0, size))
	if err != nil {
		return 0, err
	}

	end := 0
	quoted := false
	for i, b := range data {
		switch b {
		case '"':
			quoted = !quoted
		case '\n':
			if !quoted {
				end = i + 1
			}
		}
	}

	err = f.Truncate(int64(end))
	if err != nil {
		return 0, err
	}
	return int64(end), nil
}
