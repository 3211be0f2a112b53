package record

import "strings"

const (
	// ColumnName is the required header for recipient names.
	ColumnName = "Name"
	// ColumnIdentifier is the optional header for recipient identifiers.
	ColumnIdentifier = "UID"
)

// Schema locates the name and identifier columns inside a row. IDColumn is -1
// when the header carries no identifier column.
type Schema struct {
	NameColumn int
	IDColumn   int
}

// HasIdentifier reports whether rows projected through the schema carry an
// identifier field.
func (s Schema) HasIdentifier() bool {
	return s.IDColumn >= 0
}

// ResolveSchema inspects a header row. Matching trims whitespace and ignores
// case; the first matching column wins.
func ResolveSchema(header []string) (Schema, error) {
	schema := Schema{NameColumn: -1, IDColumn: -1}
	for idx, column := range header {
		key := strings.TrimSpace(column)
		switch {
		case schema.NameColumn < 0 && strings.EqualFold(key, ColumnName):
			schema.NameColumn = idx
		case schema.IDColumn < 0 && strings.EqualFold(key, ColumnIdentifier):
			schema.IDColumn = idx
		}
	}
	if schema.NameColumn < 0 {
		return Schema{}, &MissingRequiredColumnError{
			Column: ColumnName,
			Header: append([]string(nil), header...),
		}
	}
	return schema, nil
}

// Project extracts the schema columns from a row in [name, identifier] order.
// Short rows yield empty fields rather than failing; blank names are caught by
// Normalize.
func (s Schema) Project(row []string) RawRecord {
	out := RawRecord{cell(row, s.NameColumn)}
	if s.HasIdentifier() {
		out = append(out, cell(row, s.IDColumn))
	}
	return out
}

// NewBatch projects every row and fixes the identifier flag for the batch.
func NewBatch(schema Schema, rows [][]string) Batch {
	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, schema.Project(row))
	}
	return Batch{
		Records:           records,
		IncludeIdentifier: schema.HasIdentifier(),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
