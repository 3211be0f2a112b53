package rows_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/rows"
	"github.com/goliatone/go-certgen/pkg/testsupport"
)

func writeWorkbook(t *testing.T, dir string, sheets map[string][][]any, order ...string) string {
	t.Helper()

	book := excelize.NewFile()
	defer book.Close()

	for idx, name := range order {
		if idx == 0 {
			if err := book.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := book.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for rowIdx, row := range sheets[name] {
			cellRef, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := book.SetSheetRow(name, cellRef, &values); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(dir, "roster.xlsx")
	if err := book.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReadFile_XLSX(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Roster": {
			{"Name", "UID"},
			{"jane doe", "ab12cd"},
			{"", ""},
			{"<b>grace</b> hopper", 42},
		},
		"Other": {{"Name"}, {"ignored"}},
	}, "Roster", "Other")

	table, err := rows.ReadFile(path, rows.WithStripMarkup())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := rows.Table{
		Header: []string{"Name", "UID"},
		Rows: [][]string{
			{"jane doe", "ab12cd"},
			{"grace hopper", "42"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	other, err := rows.ReadFile(path, rows.WithSheet("Other"))
	if err != nil {
		t.Fatalf("read other sheet: %v", err)
	}
	if diff := cmp.Diff([][]string{{"ignored"}}, other.Rows); diff != "" {
		t.Fatalf("sheet selection mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile_XLSXMissingSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Roster": {{"Name"}, {"ada"}},
	}, "Roster")

	if _, err := rows.ReadFile(path, rows.WithSheet("Nope")); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}

func TestRead_CSV(t *testing.T) {
	input := "\ufeffuid, name ,extra\nab12, ada lovelace ,x\n, grace\n"
	table, err := rows.Read(strings.NewReader(input), rows.FormatCSV)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := rows.Table{
		Header: []string{"uid", "name", "extra"},
		Rows: [][]string{
			{"ab12", "ada lovelace", "x"},
			{"", "grace"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	batch, err := table.Batch()
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	wantBatch := record.Batch{
		Records:           []record.RawRecord{{"ada lovelace", "ab12"}, {"grace", ""}},
		IncludeIdentifier: true,
	}
	if diff := cmp.Diff(wantBatch, batch); diff != "" {
		t.Fatalf("batch mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_YAMLPreservesColumnOrder(t *testing.T) {
	input := `
- Name: ada lovelace
  Cohort: 1
- UID: x9
  Name: "grace &amp; co"
- Name: ~
`
	table, err := rows.Read(strings.NewReader(input), rows.FormatYAML, rows.WithStripMarkup())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := rows.Table{
		Header: []string{"Name", "Cohort", "UID"},
		Rows: [][]string{
			{"ada lovelace", "1", ""},
			{"grace & co", "", "x9"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_JSON(t *testing.T) {
	input := `[{"Name": "ada", "UID": "a1"}, {"Name": "bob", "UID": null}]`
	table, err := rows.Read(strings.NewReader(input), rows.FormatJSON)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([][]string{{"ada", "a1"}, {"bob", ""}}, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_DocumentMustBeList(t *testing.T) {
	if _, err := rows.Read(strings.NewReader("Name: ada\n"), rows.FormatYAML); err == nil {
		t.Fatalf("expected error for non-list document")
	}
	if _, err := rows.Read(strings.NewReader("- Name: [a, b]\n"), rows.FormatYAML); err == nil {
		t.Fatalf("expected error for nested value")
	}
}

func TestTableBatch_MissingNameColumn(t *testing.T) {
	table := rows.Table{Header: []string{"UID", "Email"}, Rows: [][]string{{"a1", "x@y"}}}
	_, err := table.Batch()
	if !errors.Is(err, record.ErrMissingRequiredColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := testsupport.WriteFile(t, t.TempDir(), "roster.txt", []byte("Name\nada\n"))
	if _, err := rows.ReadFile(path); !errors.Is(err, rows.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestFormatFromFilename(t *testing.T) {
	cases := map[string]rows.Format{
		"a.XLSX": rows.FormatXLSX,
		"a.csv":  rows.FormatCSV,
		"a.yml":  rows.FormatYAML,
		"a.json": rows.FormatJSON,
	}
	for name, want := range cases {
		got, err := rows.FormatFromFilename(name)
		if err != nil || got != want {
			t.Fatalf("FormatFromFilename(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	cases := map[string]string{
		"  plain  ":                    "plain",
		"<i>Ada</i> <b>Lovelace</b>":   "Ada Lovelace",
		"Tom &amp; Jerry":              "Tom & Jerry",
		"<script>alert(1)</script>Eve": "Eve",
		"":                             "",
	}
	for input, want := range cases {
		if got := rows.StripMarkup(input); got != want {
			t.Fatalf("StripMarkup(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRead_CellsVerbatimByDefault(t *testing.T) {
	input := "Name\n<b>ada</b>\na<b\n<Ann>\nTom &amp; Jerry\n"
	table, err := rows.Read(strings.NewReader(input), rows.FormatCSV)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := [][]string{{"<b>ada</b>"}, {"a<b"}, {"<Ann>"}, {"Tom &amp; Jerry"}}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	stripped, err := rows.Read(strings.NewReader(input), rows.FormatCSV, rows.WithStripMarkup())
	if err != nil {
		t.Fatalf("read stripped: %v", err)
	}
	if got := stripped.Rows[0][0]; got != "ada" {
		t.Fatalf("expected stripped cell, got %q", got)
	}
}
