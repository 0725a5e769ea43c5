package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// WriteCSV streams one table as CSV.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes renders one table as a CSV payload.
func CSVBytes(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSVFile writes one table to a CSV file.
func WriteCSVFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteCSV(f, t)
}

// XLSXBytes renders the tables as a workbook, one sheet per table.
func XLSXBytes(tables ...Table) ([]byte, error) {
	f, err := buildWorkbook(tables)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSXFile writes the tables as a workbook file, one sheet per table.
func WriteXLSXFile(path string, tables ...Table) error {
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	return f.SaveAs(path)
}

func buildWorkbook(tables []Table) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, t := range tables {
		sheet := t.Name
		if sheet == "" {
			sheet = "Sheet1"
		}

		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		for c, h := range t.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return nil, err
			}
		}
		for r, row := range t.Rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}

	return f, nil
}

// JSONBytes renders any result set as indented JSON.
func JSONBytes(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
