package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Import Template"

// templateExample is the illustrative row shipped with the template, keyed
// by external column name.
var templateExample = map[string]string{
	"STUDENT NUMBER":                     "2024-00123",
	"LAST NAME":                          "Dela Cruz",
	"GIVEN NAME":                         "Juan",
	"MIDDLE NAME":                        "Santos",
	"COURSE":                             "BS Information Technology",
	"COLLEGE":                            "College of Computing Studies",
	"CAMPUS":                             "Main Campus",
	"YEAR LEVEL":                         "3rd Year",
	"GENDER":                             "Male",
	"DATE OF BIRTH":                      "2003-06-15",
	"PLACE OF BIRTH":                     "Quezon City",
	"COMPLETE ADDRESS":                   "123 Sampaguita St.",
	"BARANGAY":                           "Barangay Commonwealth",
	"TOWN/CITY":                          "Quezon City",
	"Province":                           "Metro Manila",
	"Email":                              "juan.delacruz@example.com",
	"MobileNo.":                          "09171234567",
	"FatherName":                         "Dela Cruz, Pedro",
	"Father_Occupation":                  "Farmer",
	"MotherName":                         "Dela Cruz, Maria",
	"Mother_Occupation":                  "Teacher",
	"Student_Status":                     "Regular",
	"Last sem of enrolment for inactive": "",
	"Section":                            "IT-3A",
	"Approved to share the information":  "Yes",
}

// BuildTemplate produces an import-format workbook: the required header
// row, one styled example row, dropdown validation on the enumerated
// columns, and an instruction row naming the required columns. It touches
// no storage. The caller owns the returned file and must Close it.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(templateSheet)
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
	exampleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "808080"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, templateSheet, 1, ImportHeaders); err != nil {
		f.Close()
		return nil, err
	}

	example := make([]string, len(ImportHeaders))
	for i, h := range ImportHeaders {
		example[i] = templateExample[h]
	}
	if err := writeRow(f, templateSheet, 2, example); err != nil {
		f.Close()
		return nil, err
	}

	last, _ := excelize.ColumnNumberToName(len(ImportHeaders))
	if err := f.SetCellStyle(templateSheet, "A1", last+"1", headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(templateSheet, "A2", last+"2", exampleStyle); err != nil {
		f.Close()
		return nil, err
	}

	// Dropdown validation on the enumerated columns, covering a generous
	// number of data rows.
	for col, header := range ImportHeaders {
		allowed, ok := columnEnums[header]
		if !ok {
			continue
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1000", name, name)
		if err := dv.SetDropList(allowed); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.AddDataValidation(templateSheet, dv); err != nil {
			f.Close()
			return nil, err
		}
	}

	required := make([]string, 0, len(ImportHeaders))
	for _, h := range ImportHeaders {
		if !optionalColumns[h] {
			required = append(required, h)
		}
	}
	instruction := fmt.Sprintf(
		"Delete the example row before importing. Required columns: %s",
		strings.Join(required, ", "))
	if err := f.SetCellValue(templateSheet, "A4", instruction); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetColWidth(templateSheet, "A", last, 18); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
