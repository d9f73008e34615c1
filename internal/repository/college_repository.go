package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholartrack/registrar-backend/internal/model"
)

const collegeColumns = `id, name, description, active, created_at, updated_at, deleted_at`
const courseColumns = `id, college_id, name, description, active, created_at, updated_at, deleted_at`

// CollegeRepository handles college data access, including the ownership
// cascade onto courses. Every multi-row mutation runs in one transaction.
type CollegeRepository interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.College, int, error)
	GetByID(ctx context.Context, id int, withTrashed bool) (*model.College, error)
	GetByName(ctx context.Context, name string, excludeID int) (*model.College, error)
	CreateWithCourses(ctx context.Context, c *model.College, courses []model.NestedCourseInput) error
	UpdateWithCourses(ctx context.Context, c *model.College, courses []model.NestedCourseInput) error
	SoftDeleteCascade(ctx context.Context, id int) error
	RestoreCascade(ctx context.Context, id int) error
	ForceDeleteCascade(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]model.College, error)
	StudentUsage(ctx context.Context, name string) (int, error)
}

type collegeRepository struct {
	pool *pgxpool.Pool
}

// NewCollegeRepository creates a new CollegeRepository.
func NewCollegeRepository(pool *pgxpool.Pool) CollegeRepository {
	return &collegeRepository{pool: pool}
}

func scanCollege(row pgx.Row) (*model.College, error) {
	c := &model.College{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCourseRow(rows pgx.Rows) (*model.Course, error) {
	co := &model.Course{}
	err := rows.Scan(&co.ID, &co.CollegeID, &co.Name, &co.Description, &co.Active,
		&co.CreatedAt, &co.UpdatedAt, &co.DeletedAt)
	if err != nil {
		return nil, err
	}
	return co, nil
}

// loadCourses attaches courses to the given colleges. Trashed parents get
// their trashed courses too so the trash view shows the full cascade.
func (r *collegeRepository) loadCourses(ctx context.Context, colleges []model.College, withTrashed bool) error {
	if len(colleges) == 0 {
		return nil
	}

	ids := make([]int, len(colleges))
	byID := make(map[int]*model.College, len(colleges))
	for i := range colleges {
		ids[i] = colleges[i].ID
		byID[colleges[i].ID] = &colleges[i]
		colleges[i].Courses = []model.Course{}
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE college_id = ANY($1)`
	if !withTrashed {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		co, err := scanCourseRow(rows)
		if err != nil {
			return err
		}
		if parent, ok := byID[co.CollegeID]; ok {
			parent.Courses = append(parent.Courses, *co)
		}
	}
	return rows.Err()
}

func (r *collegeRepository) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.College, int, error) {
	deleted := "IS NULL"
	if trashed {
		deleted = "IS NOT NULL"
	}

	where := ` WHERE deleted_at ` + deleted
	var args []interface{}
	if search != "" {
		where += ` AND name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM colleges`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + collegeColumns + ` FROM colleges` + where + ` ORDER BY id`
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

	colleges := []model.College{}
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, 0, err
		}
		colleges = append(colleges, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadCourses(ctx, colleges, trashed); err != nil {
		return nil, 0, err
	}
	return colleges, total, nil
}

func (r *collegeRepository) GetByID(ctx context.Context, id int, withTrashed bool) (*model.College, error) {
	query := `SELECT ` + collegeColumns + ` FROM colleges WHERE id = $1`
	if !withTrashed {
		query += ` AND deleted_at IS NULL`
	}
	c, err := scanCollege(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	single := []model.College{*c}
	if err := r.loadCourses(ctx, single, withTrashed); err != nil {
		return nil, err
	}
	return &single[0], nil
}

func (r *collegeRepository) GetByName(ctx context.Context, name string, excludeID int) (*model.College, error) {
	return scanCollege(r.pool.QueryRow(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE name = $1 AND deleted_at IS NULL AND id <> $2`,
		name, excludeID))
}

// CreateWithCourses inserts the college and its nested courses in one
// transaction.
func (r *collegeRepository) CreateWithCourses(ctx context.Context, c *model.College, courses []model.NestedCourseInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO colleges (name, description, active) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.Active,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	for _, in := range courses {
		active := true
		if in.Active != nil {
			active = *in.Active
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO courses (college_id, name, description, active) VALUES ($1, $2, $3, $4)`,
			c.ID, in.Name, in.Description, active,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UpdateWithCourses updates the college and reconciles the nested course set:
// known ids are updated, new entries inserted, and live courses absent from
// the payload are soft-deleted. All inside one transaction.
func (r *collegeRepository) UpdateWithCourses(ctx context.Context, c *model.College, courses []model.NestedCourseInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`UPDATE colleges SET name = $1, description = $2, active = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 AND deleted_at IS NULL RETURNING updated_at`,
		c.Name, c.Description, c.Active, c.ID,
	).Scan(&c.UpdatedAt); err != nil {
		return err
	}

	kept := []int{}
	for _, in := range courses {
		active := true
		if in.Active != nil {
			active = *in.Active
		}
		if in.ID > 0 {
			tag, err := tx.Exec(ctx,
				`UPDATE courses SET name = $1, description = $2, active = $3, updated_at = CURRENT_TIMESTAMP
				 WHERE id = $4 AND college_id = $5 AND deleted_at IS NULL`,
				in.Name, in.Description, active, in.ID, c.ID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 1 {
				kept = append(kept, in.ID)
				continue
			}
			// Unknown id for this college: fall through and create it.
		}
		var newID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO courses (college_id, name, description, active) VALUES ($1, $2, $3, $4) RETURNING id`,
			c.ID, in.Name, in.Description, active,
		).Scan(&newID); err != nil {
			return err
		}
		kept = append(kept, newID)
	}

	// Courses omitted from the payload go to trash, matching the previous
	// system's reconcile-on-update behavior.
	if _, err := tx.Exec(ctx,
		`UPDATE courses SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE college_id = $1 AND deleted_at IS NULL AND NOT (id = ANY($2))`,
		c.ID, kept,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SoftDeleteCascade trashes the college and all its live courses together.
func (r *collegeRepository) SoftDeleteCascade(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE colleges SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE college_id = $1 AND deleted_at IS NULL`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RestoreCascade restores a trashed college and every trashed course it
// owns, including courses trashed independently beforehand.
func (r *collegeRepository) RestoreCascade(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE colleges SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`UPDATE courses SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE college_id = $1 AND deleted_at IS NOT NULL`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ForceDeleteCascade permanently removes the college and its courses.
// The caller is responsible for the student-usage check.
func (r *collegeRepository) ForceDeleteCascade(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE college_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// ListActive returns active live colleges with their active courses, ordered
// by name, for dropdown population.
func (r *collegeRepository) ListActive(ctx context.Context) ([]model.College, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE active AND deleted_at IS NULL ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colleges := []model.College{}
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		colleges = append(colleges, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadCourses(ctx, colleges, false); err != nil {
		return nil, err
	}

	for i := range colleges {
		active := colleges[i].Courses[:0]
		for _, co := range colleges[i].Courses {
			if co.Active {
				active = append(active, co)
			}
		}
		colleges[i].Courses = active
	}
	return colleges, nil
}

func (r *collegeRepository) StudentUsage(ctx context.Context, name string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE college = $1 AND deleted_at IS NULL`, name,
	).Scan(&count)
	return count, err
}
