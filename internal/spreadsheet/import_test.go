package spreadsheet

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook renders rows into an in-memory xlsx for ParseRecords.
func buildWorkbook(t *testing.T, rows [][]string) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, cells := range rows {
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// validRecord returns a record that passes every column rule.
func validRecord(row int) Record {
	fields := map[string]string{}
	for _, h := range ImportHeaders {
		fields[h] = templateExample[h]
	}
	return Record{Row: row, Fields: fields}
}

func TestParseRecords(t *testing.T) {
	dataRow := make([]string, len(ImportHeaders))
	for i, h := range ImportHeaders {
		dataRow[i] = templateExample[h]
	}

	r := buildWorkbook(t, [][]string{ImportHeaders, dataRow})
	records, rowErrors, err := ParseRecords(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Row != 1 {
		t.Errorf("expected row 1, got %d", records[0].Row)
	}
	if got := records[0].Fields["STUDENT NUMBER"]; got != "2024-00123" {
		t.Errorf("STUDENT NUMBER = %q", got)
	}
}

func TestParseRecordsSkipsBlankRows(t *testing.T) {
	dataRow := make([]string, len(ImportHeaders))
	for i, h := range ImportHeaders {
		dataRow[i] = templateExample[h]
	}
	blank := make([]string, len(ImportHeaders))

	r := buildWorkbook(t, [][]string{ImportHeaders, blank, dataRow, blank})
	records, rowErrors, err := ParseRecords(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	// Row numbering counts blank rows so error keys match what the user
	// sees in the sheet.
	if records[0].Row != 2 {
		t.Errorf("expected row 2, got %d", records[0].Row)
	}
}

func TestParseRecordsPadsShortRows(t *testing.T) {
	// Spreadsheet libraries drop trailing empty cells, so a row ending in
	// blanks arrives short. It must parse with the missing columns empty
	// and fail, if at all, in validation rather than at the parse step.
	short := []string{"2024-00999", "Reyes", "Ana"}

	r := buildWorkbook(t, [][]string{ImportHeaders, short})
	records, rowErrors, err := ParseRecords(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("short rows are not a structural error, got %v", rowErrors)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := records[0].Fields["GIVEN NAME"]; got != "Ana" {
		t.Errorf("GIVEN NAME = %q", got)
	}
	if got := records[0].Fields["GENDER"]; got != "" {
		t.Errorf("padded column should be empty, got %q", got)
	}
	if msgs := ValidateRecord(records[0]); len(msgs) == 0 {
		t.Error("the padded empties must still fail required-column validation")
	}
}

func TestParseRecordsBadWorkbook(t *testing.T) {
	_, _, err := ParseRecords(strings.NewReader("not a workbook"))
	if !errors.Is(err, ErrBadWorkbook) {
		t.Fatalf("expected ErrBadWorkbook, got %v", err)
	}
}

func TestParseRecordsMissingHeaders(t *testing.T) {
	headers := make([]string, 0, len(ImportHeaders)-2)
	for _, h := range ImportHeaders {
		if h == "GENDER" || h == "Email" {
			continue
		}
		headers = append(headers, h)
	}

	r := buildWorkbook(t, [][]string{headers})
	_, _, err := ParseRecords(r)

	var headerErr *HeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected HeaderError, got %v", err)
	}
	if len(headerErr.Missing) != 2 {
		t.Fatalf("expected 2 missing columns, got %v", headerErr.Missing)
	}
	if !strings.Contains(headerErr.Error(), "GENDER") || !strings.Contains(headerErr.Error(), "Email") {
		t.Errorf("message should name the missing columns: %q", headerErr.Error())
	}
}

func TestParseRecordsEmptyWorkbook(t *testing.T) {
	r := buildWorkbook(t, nil)
	_, _, err := ParseRecords(r)
	if !errors.Is(err, ErrEmptyWorkbook) {
		t.Fatalf("expected ErrEmptyWorkbook, got %v", err)
	}
}

func TestValidateRecord(t *testing.T) {
	if msgs := ValidateRecord(validRecord(1)); len(msgs) != 0 {
		t.Fatalf("valid record should pass, got %v", msgs)
	}

	rec := validRecord(1)
	rec.Fields["LAST NAME"] = ""
	msgs := ValidateRecord(rec)
	if len(msgs) != 1 || msgs[0] != "The LAST NAME field is required." {
		t.Errorf("missing required column: got %v", msgs)
	}

	rec = validRecord(1)
	rec.Fields["GENDER"] = "Unknown"
	msgs = ValidateRecord(rec)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "must be one of") {
		t.Errorf("enum violation: got %v", msgs)
	}

	rec = validRecord(1)
	rec.Fields["Email"] = "not-an-email"
	msgs = ValidateRecord(rec)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "valid email") {
		t.Errorf("email violation: got %v", msgs)
	}

	// Optional columns may be blank.
	rec = validRecord(1)
	rec.Fields["MIDDLE NAME"] = ""
	rec.Fields["COMPLETE ADDRESS"] = ""
	if msgs := ValidateRecord(rec); len(msgs) != 0 {
		t.Errorf("optional blanks should pass, got %v", msgs)
	}
}

func TestRowKey(t *testing.T) {
	if got := RowKey(7); got != "Row 7" {
		t.Errorf("RowKey(7) = %q", got)
	}
}

func TestStudentFromRecord(t *testing.T) {
	s := StudentFromRecord(validRecord(3))

	if s.StudentID != "2024-00123" {
		t.Errorf("StudentID = %q", s.StudentID)
	}
	if s.FirstName != "Juan" || s.LastName != "Dela Cruz" {
		t.Errorf("name mapping: %q %q", s.FirstName, s.LastName)
	}
	if s.MiddleName == nil || *s.MiddleName != "Santos" {
		t.Errorf("MiddleName = %v", s.MiddleName)
	}
	if s.Town != "Quezon City" || s.Number != "09171234567" {
		t.Errorf("address mapping: %q %q", s.Town, s.Number)
	}
	// Blank optional cells map to nil, not empty strings.
	if s.LastSem != nil {
		t.Errorf("LastSem should be nil, got %q", *s.LastSem)
	}
	if s.ScholarshipType != "" {
		t.Errorf("sheets carry no scholarship column, got %q", s.ScholarshipType)
	}
}
