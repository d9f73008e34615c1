package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
	"github.com/scholartrack/registrar-backend/internal/spreadsheet"
	"github.com/xuri/excelize/v2"
)

// fakeStudentRepo is an in-memory StudentRepository for service tests.
type fakeStudentRepo struct {
	existing   map[string]bool
	students   map[int]*model.Student
	inserted   []model.Student
	batchSize  int
	listFilter model.StudentFilter
	bulkErr    error
	nextID     int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		existing: map[string]bool{},
		students: map[int]*model.Student{},
		nextID:   1,
	}
}

func (r *fakeStudentRepo) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	r.listFilter = f
	return nil, 0, nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *model.Student) error {
	s.ID = r.nextID
	r.nextID++
	r.students[s.ID] = s
	r.existing[s.StudentID] = true
	return nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, s *model.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) SoftDelete(ctx context.Context, id int) error {
	if _, ok := r.students[id]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *fakeStudentRepo) Restore(ctx context.Context, id int) error     { return nil }
func (r *fakeStudentRepo) ForceDelete(ctx context.Context, id int) error { return nil }

func (r *fakeStudentRepo) BulkSoftDelete(ctx context.Context, ids []int) (int, error) {
	if r.bulkErr != nil {
		return 0, r.bulkErr
	}
	return len(ids), nil
}

func (r *fakeStudentRepo) ExistsByStudentID(ctx context.Context, studentID string, excludeID int) (bool, error) {
	return r.existing[studentID], nil
}

func (r *fakeStudentRepo) InsertBatch(ctx context.Context, students []model.Student, batchSize int) (int, error) {
	r.inserted = append(r.inserted, students...)
	r.batchSize = batchSize
	return len(students), nil
}

// importSheet renders an import workbook with one data row per student
// number, all other columns filled with valid values.
func importSheet(t *testing.T, numbers ...string) io.Reader {
	t.Helper()

	valid := map[string]string{
		"LAST NAME":                         "Dela Cruz",
		"GIVEN NAME":                        "Juan",
		"COURSE":                            "BS Information Technology",
		"COLLEGE":                           "College of Computing Studies",
		"CAMPUS":                            "Main Campus",
		"YEAR LEVEL":                        "3rd Year",
		"GENDER":                            "Male",
		"DATE OF BIRTH":                     "2003-06-15",
		"PLACE OF BIRTH":                    "Quezon City",
		"BARANGAY":                          "Barangay Commonwealth",
		"TOWN/CITY":                         "Quezon City",
		"Province":                          "Metro Manila",
		"Email":                             "juan.delacruz@example.com",
		"MobileNo.":                         "09171234567",
		"FatherName":                        "Dela Cruz, Pedro",
		"Father_Occupation":                 "Farmer",
		"MotherName":                        "Dela Cruz, Maria",
		"Mother_Occupation":                 "Teacher",
		"Student_Status":                    "Regular",
		"Section":                           "IT-3A",
		"Approved to share the information": "Yes",
	}

	f := excelize.NewFile()
	defer f.Close()

	writeRow := func(row int, cells []string) {
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	writeRow(1, spreadsheet.ImportHeaders)
	for i, number := range numbers {
		cells := make([]string, len(spreadsheet.ImportHeaders))
		for col, h := range spreadsheet.ImportHeaders {
			if h == "STUDENT NUMBER" {
				cells[col] = number
			} else {
				cells[col] = valid[h]
			}
		}
		writeRow(i+2, cells)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func newTestStudentService(repo repository.StudentRepository) StudentService {
	return NewStudentService(repo, 500, zerolog.Nop())
}

func TestStudentCreateDuplicate(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.existing["2024-00001"] = true
	svc := newTestStudentService(repo)

	_, err := svc.Create(context.Background(), model.StudentRequest{StudentID: "2024-00001"})
	if !errors.Is(err, ErrDuplicateStudentID) {
		t.Fatalf("expected ErrDuplicateStudentID, got %v", err)
	}
}

func TestStudentGetNotFound(t *testing.T) {
	svc := newTestStudentService(newFakeStudentRepo())

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStudentImport(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo)

	count, err := svc.Import(context.Background(), importSheet(t, "2024-00001", "2024-00002"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserted, got count=%d inserted=%d", count, len(repo.inserted))
	}
	if repo.batchSize != 500 {
		t.Errorf("batch size = %d", repo.batchSize)
	}
	if repo.inserted[0].StudentID != "2024-00001" {
		t.Errorf("first inserted StudentID = %q", repo.inserted[0].StudentID)
	}
}

func TestStudentImportInFileDuplicate(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo)

	_, err := svc.Import(context.Background(), importSheet(t, "2024-00001", "2024-00001"))

	var rowsErr *ImportRowsError
	if !errors.As(err, &rowsErr) {
		t.Fatalf("expected ImportRowsError, got %v", err)
	}
	msgs := rowsErr.Rows["Row 2"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "duplicates row 1") {
		t.Fatalf("expected in-file duplicate message on Row 2, got %v", rowsErr.Rows)
	}
	if len(repo.inserted) != 0 {
		t.Error("nothing may be inserted when any row fails")
	}
}

func TestStudentImportTakenNumber(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.existing["2024-00002"] = true
	svc := newTestStudentService(repo)

	_, err := svc.Import(context.Background(), importSheet(t, "2024-00001", "2024-00002"))

	var rowsErr *ImportRowsError
	if !errors.As(err, &rowsErr) {
		t.Fatalf("expected ImportRowsError, got %v", err)
	}
	msgs := rowsErr.Rows["Row 2"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "already been taken") {
		t.Fatalf("expected taken message on Row 2, got %v", rowsErr.Rows)
	}
	if _, ok := rowsErr.Rows["Row 1"]; ok {
		t.Error("the clean row must not collect errors")
	}
	if len(repo.inserted) != 0 {
		t.Error("nothing may be inserted when any row fails")
	}
}

func TestStudentImportEmpty(t *testing.T) {
	svc := newTestStudentService(newFakeStudentRepo())

	_, err := svc.Import(context.Background(), importSheet(t))
	if !errors.Is(err, ErrImportEmpty) {
		t.Fatalf("expected ErrImportEmpty, got %v", err)
	}
}

func TestStudentBulkDeleteMissing(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.bulkErr = repository.ErrStudentMissing
	svc := newTestStudentService(repo)

	_, err := svc.BulkDelete(context.Background(), []int{1, 999})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStudentExportFilter(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo)

	f, err := svc.Export(context.Background(), model.StudentFilter{Limit: 10, Page: 3, Trashed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	if repo.listFilter.Limit != -1 {
		t.Errorf("export must fetch all rows, limit = %d", repo.listFilter.Limit)
	}
	if repo.listFilter.Trashed {
		t.Error("export must only cover live students")
	}
}
