package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// reopen round-trips a workbook through its serialized form so tests read
// exactly what a download would contain.
func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	out, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { out.Close() })
	return out
}

func TestBuildExport(t *testing.T) {
	middle := "Santos"
	students := []model.Student{
		{
			StudentID:  "2024-00001",
			LastName:   "Reyes",
			FirstName:  "Ana",
			MiddleName: &middle,
			Course:     "BS Biology",
			College:    "College of Science",
			Campus:     "Main Campus",
			YearLevel:  "2nd Year",
			Gender:     "Female",
			Approved:   "Yes",
		},
		{
			StudentID: "2024-00002",
			LastName:  "Santos",
			FirstName: "Ben",
			Gender:    "Male",
		},
	}

	f, err := BuildExport(students)
	if err != nil {
		t.Fatalf("BuildExport: %v", err)
	}
	defer f.Close()

	out := reopen(t, f)
	rows, err := out.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 data rows, got %d", len(rows))
	}

	for i, h := range ExportHeaders {
		if i >= len(rows[0]) || rows[0][i] != h {
			t.Fatalf("header column %d: expected %q", i, h)
		}
	}

	// First data row follows ExportHeaders order, not struct order.
	if rows[1][0] != "2024-00001" || rows[1][1] != "Reyes" || rows[1][3] != "Santos" {
		t.Errorf("unexpected first data row: %v", rows[1][:4])
	}
	if rows[2][0] != "2024-00002" {
		t.Errorf("unexpected second data row: %v", rows[2][:1])
	}
}

func TestBuildExportEmpty(t *testing.T) {
	f, err := BuildExport(nil)
	if err != nil {
		t.Fatalf("BuildExport: %v", err)
	}
	defer f.Close()

	out := reopen(t, f)
	rows, err := out.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header row only, got %d rows", len(rows))
	}
}

func TestBuildTemplate(t *testing.T) {
	f, err := BuildTemplate()
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	defer f.Close()

	out := reopen(t, f)
	rows, err := out.GetRows(templateSheet)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("expected header and example rows, got %d", len(rows))
	}

	for i, h := range ImportHeaders {
		if i >= len(rows[0]) || rows[0][i] != h {
			t.Fatalf("header column %d: expected %q", i, h)
		}
	}
	if rows[1][0] != "2024-00123" {
		t.Errorf("example row should lead with the sample student number, got %q", rows[1][0])
	}

	// The template itself must survive a re-import once the example row is
	// treated as data.
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize template: %v", err)
	}
	records, rowErrors, err := ParseRecords(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("template does not re-import: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	found := false
	for _, rec := range records {
		if rec.Fields["STUDENT NUMBER"] == "2024-00123" {
			if msgs := ValidateRecord(rec); len(msgs) != 0 {
				t.Errorf("example row should validate cleanly, got %v", msgs)
			}
			found = true
		}
	}
	if !found {
		t.Error("example row missing from re-imported template")
	}
}
