package export

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/kuvahaku/kuvahaku/internal/records"
	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet in the workbook.
const SheetName = "Tulokset"

const (
	colYear      = 1 // Column A
	colOriginal  = 2 // Column B
	colTitle     = 3 // Column C
	colImage     = 4 // Column D
	colRecord    = 5 // Column E
	colLatitude  = 6 // Column F
	colLongitude = 7 // Column G
)

func buildWorkbook(table records.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, h := range Columns {
		if err := setCell(f, i+1, 1, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, r := range table {
		rowNum := i + 2
		values := map[int]any{
			colYear:     r.Year,
			colOriginal: r.OriginalYear,
			colTitle:    r.Title,
			colImage:    r.ImageURL,
			colRecord:   r.RecordURL,
		}
		if r.HasCoordinates() {
			values[colLatitude] = *r.Latitude
			values[colLongitude] = *r.Longitude
		}
		for col := colYear; col <= colLongitude; col++ {
			v, ok := values[col]
			if !ok {
				continue
			}
			if err := setCell(f, col, rowNum, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func setCell(f *excelize.File, col, rowNum int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return fmt.Errorf("invalid cell %d,%d: %w", col, rowNum, err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}

// WriteExcel writes the table as an .xlsx workbook.
func WriteExcel(w io.Writer, table records.Table) error {
	f, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveExcel writes the table to path.
func SaveExcel(path string, table records.Table) error {
	f, err := buildWorkbook(table)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	slog.Debug("Saved workbook", "path", path, "rows", len(table))
	return nil
}
