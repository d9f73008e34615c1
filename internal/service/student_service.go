package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
	"github.com/scholartrack/registrar-backend/internal/spreadsheet"
	"github.com/xuri/excelize/v2"
)

// Import errors distinguishable by handlers.
var (
	// ErrImportEmpty means the workbook produced zero valid rows.
	ErrImportEmpty = errors.New("import contains no data rows")
	// ErrDuplicateStudentID mirrors the repository sentinel for create/update.
	ErrDuplicateStudentID = repository.ErrDuplicateStudentID
)

// ImportRowsError aggregates per-row validation failures. Any aggregated
// error set aborts the entire import; there is no partial-commit mode.
type ImportRowsError struct {
	Rows map[string][]string
}

func (e *ImportRowsError) Error() string {
	return fmt.Sprintf("%d rows failed validation", len(e.Rows))
}

type StudentService interface {
	List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error)
	Get(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, req model.StudentRequest) (*model.Student, error)
	Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error)
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	BulkDelete(ctx context.Context, ids []int) (int, error)
	Import(ctx context.Context, r io.Reader) (int, error)
	Export(ctx context.Context, f model.StudentFilter) (*excelize.File, error)
	Template() (*excelize.File, error)
}

type studentService struct {
	repo        repository.StudentRepository
	importBatch int
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo repository.StudentRepository, importBatch int, log zerolog.Logger) StudentService {
	return &studentService{repo: repo, importBatch: importBatch, log: log}
}

func (s *studentService) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	return s.repo.List(ctx, f)
}

func (s *studentService) Get(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func applyRequest(st *model.Student, req model.StudentRequest) {
	st.StudentID = req.StudentID
	st.LastName = req.LastName
	st.FirstName = req.FirstName
	st.MiddleName = req.MiddleName
	st.Course = req.Course
	st.College = req.College
	st.Campus = req.Campus
	st.YearLevel = req.YearLevel
	st.Gender = req.Gender
	st.Birthday = req.Birthday
	st.BirthPlace = req.BirthPlace
	st.CompAddress = req.CompAddress
	st.Barangay = req.Barangay
	st.Town = req.Town
	st.Province = req.Province
	st.Email = req.Email
	st.Number = req.Number
	st.FatherName = req.FatherName
	st.FatherOccup = req.FatherOccup
	st.MotherName = req.MotherName
	st.MotherOccup = req.MotherOccup
	st.StudentStatus = req.StudentStatus
	st.LastSem = req.LastSem
	st.Section = req.Section
	st.Approved = req.Approved
	st.ScholarshipType = req.ScholarshipType
}

func (s *studentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	taken, err := s.repo.ExistsByStudentID(ctx, req.StudentID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateStudentID
	}

	st := &model.Student{}
	applyRequest(st, req)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *studentService) Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error) {
	st, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	taken, err := s.repo.ExistsByStudentID(ctx, req.StudentID, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateStudentID
	}

	applyRequest(st, req)
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *studentService) SoftDelete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *studentService) Restore(ctx context.Context, id int) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *studentService) ForceDelete(ctx context.Context, id int) error {
	if err := s.repo.ForceDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// BulkDelete soft-deletes the given students atomically; if any id is
// unknown or already trashed, nothing is deleted.
func (s *studentService) BulkDelete(ctx context.Context, ids []int) (int, error) {
	count, err := s.repo.BulkSoftDelete(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrStudentMissing) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

// Import runs the spreadsheet import pipeline: parse, validate every row,
// and — only if no row failed — insert everything in chunked batches inside
// one transaction. Returns the number of imported students.
func (s *studentService) Import(ctx context.Context, r io.Reader) (int, error) {
	records, rowErrors, err := spreadsheet.ParseRecords(r)
	if err != nil {
		return 0, err
	}

	students := make([]model.Student, 0, len(records))
	seen := make(map[string]int, len(records))
	for _, rec := range records {
		msgs := spreadsheet.ValidateRecord(rec)

		number := rec.Fields["STUDENT NUMBER"]
		if number != "" {
			if first, dup := seen[number]; dup {
				msgs = append(msgs, fmt.Sprintf("The STUDENT NUMBER duplicates row %d of this file.", first))
			} else {
				seen[number] = rec.Row
				taken, err := s.repo.ExistsByStudentID(ctx, number, 0)
				if err != nil {
					return 0, err
				}
				if taken {
					msgs = append(msgs, "The STUDENT NUMBER has already been taken.")
				}
			}
		}

		if len(msgs) > 0 {
			key := spreadsheet.RowKey(rec.Row)
			rowErrors[key] = append(rowErrors[key], msgs...)
			continue
		}

		students = append(students, spreadsheet.StudentFromRecord(rec))
	}

	if len(rowErrors) > 0 {
		return 0, &ImportRowsError{Rows: rowErrors}
	}
	if len(students) == 0 {
		return 0, ErrImportEmpty
	}

	count, err := s.repo.InsertBatch(ctx, students, s.importBatch)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int("count", count).Msg("Student import committed")
	return count, nil
}

// Export fetches every student matching the filter (no pagination) and
// renders the workbook.
func (s *studentService) Export(ctx context.Context, f model.StudentFilter) (*excelize.File, error) {
	f.Limit = -1
	f.Trashed = false

	students, _, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return spreadsheet.BuildExport(students)
}

// Template produces the import-format guidance workbook.
func (s *studentService) Template() (*excelize.File, error) {
	return spreadsheet.BuildTemplate()
}
