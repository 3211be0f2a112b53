package rows

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-certgen/pkg/record"
)

// Format names a supported row encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = errors.New("rows: unsupported format")

// FormatFromFilename picks the reader from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Table is a header plus data rows, cells already trimmed.
type Table struct {
	Header []string
	Rows   [][]string
}

// Batch resolves the Name/UID columns from the header and projects every row.
// A header without a Name column yields *record.MissingRequiredColumnError
// before any record is produced.
func (t Table) Batch() (record.Batch, error) {
	schema, err := record.ResolveSchema(t.Header)
	if err != nil {
		return record.Batch{}, err
	}
	return record.NewBatch(schema, t.Rows), nil
}

// Option customises a read.
type Option func(*options)

type options struct {
	sheet    string
	sanitize bool
}

// WithSheet selects the spreadsheet tab to read. The first tab is used when
// unset.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// WithStripMarkup removes HTML tags and decodes entities in every cell, for
// sheets exported from rich text sources. Without it cells are read verbatim,
// so a name such as "<Ann>" reaches normalization unchanged.
func WithStripMarkup() Option {
	return func(o *options) {
		o.sanitize = true
	}
}

func resolveOptions(opts []Option) options {
	cfg := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// ReadFile opens path and reads it with the reader matching its extension.
func ReadFile(path string, opts ...Option) (Table, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return Table{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("rows: open %s: %w", path, err)
	}
	defer file.Close()

	table, err := Read(file, format, opts...)
	if err != nil {
		return Table{}, fmt.Errorf("rows: read %s: %w", path, err)
	}
	return table, nil
}

// Read decodes r as format.
func Read(r io.Reader, format Format, opts ...Option) (Table, error) {
	cfg := resolveOptions(opts)

	var (
		grid [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		grid, err = readXLSX(r, cfg.sheet)
	case FormatCSV:
		grid, err = readCSV(r)
	case FormatYAML, FormatJSON:
		grid, err = readDocument(r)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Table{}, err
	}
	return newTable(grid, cfg.sanitize), nil
}

// newTable cleans every cell and drops rows that are entirely blank. The
// first remaining row becomes the header.
func newTable(grid [][]string, sanitize bool) Table {
	clean := func(value string) string {
		value = strings.TrimSpace(value)
		if sanitize {
			value = StripMarkup(value)
		}
		return value
	}

	var table Table
	for _, row := range grid {
		cells := make([]string, len(row))
		blank := true
		for idx, value := range row {
			cells[idx] = clean(value)
			if cells[idx] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if table.Header == nil {
			table.Header = cells
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
