package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// utf8BOM is the byte order mark some spreadsheet exports prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store reads and writes one table at a fixed file path.
// The format is comma-delimited text with a header row.
type Store struct {
	path string
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the table from disk.
//
// A missing file is bootstrapped: an empty file is created and an empty
// table returned. A file that fails to parse also degrades to an empty
// table; the failure is logged, not returned, so a corrupt file never
// blocks the wizard from starting over.
func (s *Store) Load() (*Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			empty := New()
			if err := s.Save(empty); err != nil {
				return nil, fmt.Errorf("bootstrap %s: %w", s.path, err)
			}
			return empty, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		slog.Warn("table file failed to parse, starting empty",
			"path", s.path,
			"error", err,
		)
		return New(), nil
	}
	if len(records) == 0 {
		return New(), nil
	}

	t := New(records[0]...)
	for i, rec := range records[1:] {
		if err := t.AppendRow(rec); err != nil {
			slog.Warn("table file has a malformed row, starting empty",
				"path", s.path,
				"row", i+2,
				"error", err,
			)
			return New(), nil
		}
	}
	return t, nil
}

// Save writes the table to a temporary sibling file and atomically
// renames it over the target. The target is never left partially
// written.
func (s *Store) Save(t *Table) error {
	var buf bytes.Buffer
	if t.NumCols() > 0 {
		w := csv.NewWriter(&buf)
		if err := w.Write(t.columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, row := range t.rows {
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
