package rows

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("rows: open workbook: %w", err)
	}
	defer book.Close()

	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("rows: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	grid, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("rows: sheet %q: %w", sheet, err)
	}
	return grid, nil
}
