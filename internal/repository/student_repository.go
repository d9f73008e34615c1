package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholartrack/registrar-backend/internal/model"
)

var (
	ErrDuplicateStudentID = errors.New("student with this student number already exists")
	ErrStudentMissing     = errors.New("one or more students do not exist")
)

const studentColumns = `id, student_id, last_name, first_name, middle_name, course, college, campus,
	year_level, gender, birthday, birth_place, comp_address, barangay, town, province,
	email, number, father_name, father_occup, mother_name, mother_occup,
	student_status, last_sem, section, approved, scholarship_type,
	created_at, updated_at, deleted_at`

// StudentRepository handles student data access.
type StudentRepository interface {
	List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error)
	GetByID(ctx context.Context, id int, withTrashed bool) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	BulkSoftDelete(ctx context.Context, ids []int) (int, error)
	ExistsByStudentID(ctx context.Context, studentID string, excludeID int) (bool, error)
	InsertBatch(ctx context.Context, students []model.Student, batchSize int) (int, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(
		&s.ID, &s.StudentID, &s.LastName, &s.FirstName, &s.MiddleName,
		&s.Course, &s.College, &s.Campus, &s.YearLevel, &s.Gender,
		&s.Birthday, &s.BirthPlace, &s.CompAddress, &s.Barangay, &s.Town, &s.Province,
		&s.Email, &s.Number, &s.FatherName, &s.FatherOccup, &s.MotherName, &s.MotherOccup,
		&s.StudentStatus, &s.LastSem, &s.Section, &s.Approved, &s.ScholarshipType,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// buildFilterClause renders the WHERE clause for a student filter, appending
// bind args to args and returning the updated arg index.
func buildFilterClause(f model.StudentFilter, args *[]interface{}, argIdx int) (string, int) {
	var conds []string

	if f.Trashed {
		conds = append(conds, "deleted_at IS NOT NULL")
	} else {
		conds = append(conds, "deleted_at IS NULL")
	}

	inSet := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", column, argIdx))
		*args = append(*args, values)
		argIdx++
	}

	inSet("course", f.Course)
	inSet("college", f.College)
	inSet("campus", f.Campus)
	inSet("year_level", f.YearLevel)
	inSet("student_status", f.StudentStatus)
	inSet("scholarship_type", f.ScholarshipType)

	if f.Search != "" {
		conds = append(conds, fmt.Sprintf("student_id ILIKE $%d", argIdx))
		*args = append(*args, "%"+f.Search+"%")
		argIdx++
	}

	return " WHERE " + strings.Join(conds, " AND "), argIdx
}

// List retrieves students matching the filter. Limit -1 returns every match.
func (r *studentRepository) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	var args []interface{}
	where, argIdx := buildFilterClause(f, &args, 1)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where + ` ORDER BY id`
	if f.Limit != -1 {
		limit := f.Limit
		if limit <= 0 {
			limit = 10
		}
		page := f.Page
		if page <= 0 {
			page = 1
		}
		query += ` LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

// GetByID retrieves a student by ID. Unless withTrashed is set, soft-deleted
// rows are treated as missing.
func (r *studentRepository) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	if !withTrashed {
		query += ` AND deleted_at IS NULL`
	}
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a new student.
func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (student_id, last_name, first_name, middle_name, course, college, campus,
			year_level, gender, birthday, birth_place, comp_address, barangay, town, province,
			email, number, father_name, father_occup, mother_name, mother_occup,
			student_status, last_sem, section, approved, scholarship_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		 RETURNING id, created_at, updated_at`,
		s.StudentID, s.LastName, s.FirstName, s.MiddleName, s.Course, s.College, s.Campus,
		s.YearLevel, s.Gender, s.Birthday, s.BirthPlace, s.CompAddress, s.Barangay, s.Town, s.Province,
		s.Email, s.Number, s.FatherName, s.FatherOccup, s.MotherName, s.MotherOccup,
		s.StudentStatus, s.LastSem, s.Section, s.Approved, s.ScholarshipType,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentID
		}
		return err
	}
	return nil
}

// Update modifies an existing student.
func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE students SET student_id = $1, last_name = $2, first_name = $3, middle_name = $4,
			course = $5, college = $6, campus = $7, year_level = $8, gender = $9,
			birthday = $10, birth_place = $11, comp_address = $12, barangay = $13, town = $14,
			province = $15, email = $16, number = $17, father_name = $18, father_occup = $19,
			mother_name = $20, mother_occup = $21, student_status = $22, last_sem = $23,
			section = $24, approved = $25, scholarship_type = $26, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $27 AND deleted_at IS NULL
		 RETURNING updated_at`,
		s.StudentID, s.LastName, s.FirstName, s.MiddleName,
		s.Course, s.College, s.Campus, s.YearLevel, s.Gender,
		s.Birthday, s.BirthPlace, s.CompAddress, s.Barangay, s.Town,
		s.Province, s.Email, s.Number, s.FatherName, s.FatherOccup,
		s.MotherName, s.MotherOccup, s.StudentStatus, s.LastSem,
		s.Section, s.Approved, s.ScholarshipType, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentID
		}
		return err
	}
	return nil
}

// SoftDelete marks a live student as deleted.
func (r *studentRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Restore clears the deletion timestamp of a trashed student.
func (r *studentRepository) Restore(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ForceDelete permanently removes a student row, trashed or not.
func (r *studentRepository) ForceDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// BulkSoftDelete soft-deletes a set of students atomically. Every id must
// exist and be live, otherwise nothing is deleted.
func (r *studentRepository) BulkSoftDelete(ctx context.Context, ids []int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var live int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE id = ANY($1) AND deleted_at IS NULL`, ids,
	).Scan(&live); err != nil {
		return 0, err
	}
	if live != len(ids) {
		return 0, ErrStudentMissing
	}

	tag, err := tx.Exec(ctx,
		`UPDATE students SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ExistsByStudentID reports whether a live student already holds the given
// student number, optionally excluding one record (for updates).
func (r *studentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM students
			WHERE student_id = $1 AND deleted_at IS NULL AND id <> $2
		)`, studentID, excludeID,
	).Scan(&exists)
	return exists, err
}

// batchSpans splits n rows into [start, end) spans of at most size rows.
// A non-positive size falls back to 100.
func batchSpans(n, size int) [][2]int {
	if size <= 0 {
		size = 100
	}
	var spans [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

// InsertBatch inserts all students inside one transaction, chunked into
// batches of batchSize rows. Chunking bounds memory per statement only;
// a failure in any batch rolls back the whole import.
func (r *studentRepository) InsertBatch(ctx context.Context, students []model.Student, batchSize int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, span := range batchSpans(len(students), batchSize) {
		chunk := students[span[0]:span[1]]

		batch := &pgx.Batch{}
		for _, s := range chunk {
			batch.Queue(
				`INSERT INTO students (student_id, last_name, first_name, middle_name, course, college, campus,
					year_level, gender, birthday, birth_place, comp_address, barangay, town, province,
					email, number, father_name, father_occup, mother_name, mother_occup,
					student_status, last_sem, section, approved, scholarship_type)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
					$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
				s.StudentID, s.LastName, s.FirstName, s.MiddleName, s.Course, s.College, s.Campus,
				s.YearLevel, s.Gender, s.Birthday, s.BirthPlace, s.CompAddress, s.Barangay, s.Town, s.Province,
				s.Email, s.Number, s.FatherName, s.FatherOccup, s.MotherName, s.MotherOccup,
				s.StudentStatus, s.LastSem, s.Section, s.Approved, s.ScholarshipType,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for range chunk {
			if _, err := br.Exec(); err != nil {
				br.Close()
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return 0, ErrDuplicateStudentID
				}
				return 0, err
			}
		}
		if err := br.Close(); err != nil {
			return 0, err
		}
		inserted += len(chunk)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}
