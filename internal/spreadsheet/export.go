package spreadsheet

import (
	"fmt"

	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Students"

// BuildExport renders students into a workbook with a bold shaded header
// row and one data row per student in ExportHeaders order. The caller owns
// the returned file and must Close it.
func BuildExport(students []model.Student) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, exportSheet, 1, ExportHeaders); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(ExportHeaders))
	if err := f.SetCellStyle(exportSheet, "A1", last+"1", headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for i, s := range students {
		cells := make([]string, len(ExportHeaders))
		for col, h := range ExportHeaders {
			cells[col] = studentCell(s, h)
		}
		if err := writeRow(f, exportSheet, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	// Widen the identity and address columns so the sheet opens readable.
	if err := f.SetColWidth(exportSheet, "A", last, 18); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
