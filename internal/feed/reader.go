package feed

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Options controls how feed files are read.
type Options struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension (.tsv -> tab) or sniffed from the header.
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used when it is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for feed reading.
func DefaultOptions() Options {
	return Options{
		MaxRows:    100000,
		SheetIndex: 1,
	}
}

// Reader turns a feed file into a Table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader based on filename and parses the feed.
func ReadFile(path string, opt Options) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			t, err := r.Read(path, opt)
			if err != nil {
				return nil, err
			}
			if t.Name == "" {
				t.Name = filepath.Base(path)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, strings.ToLower(filepath.Ext(path)))
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

var (
	// ErrUnsupported indicates a feed format without a registered reader.
	ErrUnsupported = errors.New("unsupported feed format")
	// ErrNoHeader indicates the feed has no header row.
	ErrNoHeader = errors.New("feed has no header row")
)

// tableFromRecords builds a Table from a header record and string records, skipping blank
// lines and padding short records. Cells stay strings; numeric interpretation is left to Column.
func tableFromRecords(name string, header []string, next func() ([]string, bool, error), opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	t := &Table{Name: name, Headers: header}
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if j, dup := seen[h]; dup {
			t.Warnings = append(t.Warnings, fmt.Sprintf("duplicate column %q at positions %d and %d; the later one wins", h, j+1, i+1))
		}
		seen[h] = i
	}
	maxRows := opt.MaxRows
	for {
		rec, ok, err := next()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Total+1, err)
		}
		if !ok {
			break
		}
		if blank(rec) {
			continue
		}
		t.Total++
		if maxRows > 0 && len(t.Rows) >= maxRows {
			continue
		}
		row := make(Row, len(header))
		for j, h := range header {
			if j < len(rec) {
				row[h] = rec[j]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) < t.Total {
		t.Warnings = append(t.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(t.Rows), t.Total))
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
