// Package ledger keeps the durable set of item ids that need no further
// processing within a run period.
//
// The on-disk form is one decimal id per line. The file is only ever appended
// to, so a restart can always rebuild the set by reading it back.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Ledger is an append-only set of processed item ids backed by a file.
type Ledger struct {
	path      string
	processed map[int64]struct{}
	// the file ends in a partial line left by an interrupted write, only the
	// first size bytes hold whole lines
	torn bool
	size int64
}

// Open loads every entry of the ledger file at path. A missing file is an
// empty ledger, lines that are not integers are skipped. A last line without
// its newline was never fully written and is ignored.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:      path,
		processed: map[int64]struct{}{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		l.torn = true
		data = data[:bytes.LastIndexByte(data, '\n')+1]
	}
	l.size = int64(len(data))

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		text := strings.TrimSpace(string(line))
		if text == "" {
			continue
		}
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			continue
		}
		l.processed[id] = struct{}{}
	}

	return l, nil
}

// Path returns the file backing the ledger.
func (l *Ledger) Path() string {
	return l.path
}

// Contains reports whether id has been marked processed.
func (l *Ledger) Contains(id int64) bool {
	_, ok := l.processed[id]
	return ok
}

// Len returns the number of distinct processed ids.
func (l *Ledger) Len() int {
	return len(l.processed)
}

// MarkProcessed appends id to the ledger file and syncs it before adding id
// to the in-memory set. The line is written with a single write call so a
// crash leaves either the whole line or nothing.
func (l *Ledger) MarkProcessed(id int64) error {
	err := os.MkdirAll(filepath.Dir(l.path), 0755)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	if l.torn {
		err = os.Truncate(l.path, l.size)
		if err != nil {
			return fmt.Errorf("mark processed: drop partial line: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	line := strconv.AppendInt(nil, id, 10)
	line = append(line, '\n')
	_, err = f.Write(line)
	if err == nil {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return fmt.Errorf("mark processed %d: %w", id, err)
	}

	l.torn = false
	l.size += int64(len(line))
	l.processed[id] = struct{}{}
	return nil
}
