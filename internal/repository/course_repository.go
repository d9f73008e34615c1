package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholartrack/registrar-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository interface {
	List(ctx context.Context, search string, collegeID, page, limit int, trashed bool) ([]model.Course, int, error)
	GetByID(ctx context.Context, id int, withTrashed bool) (*model.Course, error)
	GetByName(ctx context.Context, collegeID int, name string, excludeID int) (*model.Course, error)
	Create(ctx context.Context, co *model.Course) error
	Update(ctx context.Context, co *model.Course) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]model.Course, error)
	ListActiveByCollege(ctx context.Context, collegeID int) ([]model.Course, error)
	StudentUsage(ctx context.Context, name string) (int, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseJoined = `c.id, c.college_id, c.name, c.description, c.active,
	c.created_at, c.updated_at, c.deleted_at, g.name`

func scanCourseJoined(row pgx.Row) (*model.Course, error) {
	co := &model.Course{}
	err := row.Scan(&co.ID, &co.CollegeID, &co.Name, &co.Description, &co.Active,
		&co.CreatedAt, &co.UpdatedAt, &co.DeletedAt, &co.CollegeName)
	if err != nil {
		return nil, err
	}
	return co, nil
}

func (r *courseRepository) List(ctx context.Context, search string, collegeID, page, limit int, trashed bool) ([]model.Course, int, error) {
	deleted := "IS NULL"
	if trashed {
		deleted = "IS NOT NULL"
	}

	where := ` WHERE c.deleted_at ` + deleted
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += ` AND c.name ILIKE $` + strconv.Itoa(len(args))
	}
	if collegeID > 0 {
		args = append(args, collegeID)
		where += ` AND c.college_id = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses c`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + courseJoined + ` FROM courses c JOIN colleges g ON g.id = c.college_id` +
		where + ` ORDER BY c.id`
	if limit != -1 {
		if limit <= 0 {
			limit = 10
		}
		if page <= 0 {
			page = 1
		}
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		co, err := scanCourseJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, *co)
	}
	return courses, total, rows.Err()
}

func (r *courseRepository) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Course, error) {
	query := `SELECT ` + courseJoined + ` FROM courses c JOIN colleges g ON g.id = c.college_id WHERE c.id = $1`
	if !withTrashed {
		query += ` AND c.deleted_at IS NULL`
	}
	return scanCourseJoined(r.pool.QueryRow(ctx, query, id))
}

func (r *courseRepository) GetByName(ctx context.Context, collegeID int, name string, excludeID int) (*model.Course, error) {
	return scanCourseJoined(r.pool.QueryRow(ctx,
		`SELECT `+courseJoined+` FROM courses c JOIN colleges g ON g.id = c.college_id
		 WHERE c.college_id = $1 AND c.name = $2 AND c.deleted_at IS NULL AND c.id <> $3`,
		collegeID, name, excludeID))
}

func (r *courseRepository) Create(ctx context.Context, co *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (college_id, name, description, active) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		co.CollegeID, co.Name, co.Description, co.Active,
	).Scan(&co.ID, &co.CreatedAt, &co.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, co *model.Course) error {
	return r.pool.QueryRow(ctx,
		`UPDATE courses SET college_id = $1, name = $2, description = $3, active = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 AND deleted_at IS NULL RETURNING updated_at`,
		co.CollegeID, co.Name, co.Description, co.Active, co.ID,
	).Scan(&co.UpdatedAt)
}

func (r *courseRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) Restore(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) ForceDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) ListActive(ctx context.Context) ([]model.Course, error) {
	return r.listActive(ctx, 0)
}

func (r *courseRepository) ListActiveByCollege(ctx context.Context, collegeID int) ([]model.Course, error) {
	return r.listActive(ctx, collegeID)
}

func (r *courseRepository) listActive(ctx context.Context, collegeID int) ([]model.Course, error) {
	query := `SELECT ` + courseJoined + ` FROM courses c JOIN colleges g ON g.id = c.college_id
		WHERE c.active AND c.deleted_at IS NULL`
	var args []interface{}
	if collegeID > 0 {
		query += ` AND c.college_id = $1`
		args = append(args, collegeID)
	}
	query += ` ORDER BY c.name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		co, err := scanCourseJoined(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *co)
	}
	return courses, rows.Err()
}

func (r *courseRepository) StudentUsage(ctx context.Context, name string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE course = $1 AND deleted_at IS NULL`, name,
	).Scan(&count)
	return count, err
}
