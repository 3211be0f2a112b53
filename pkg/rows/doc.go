// Package rows reads recipient tables from spreadsheets (.xlsx), CSV files,
// and YAML/JSON row lists. Every reader yields a Table whose first row is the
// header; Table.Batch resolves the Name/UID columns and projects the rows
// into a record.Batch.
package rows
