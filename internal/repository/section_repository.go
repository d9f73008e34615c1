package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholartrack/registrar-backend/internal/model"
)

const sectionColumns = `id, name, code, capacity, active, year_level, created_at, updated_at, deleted_at`

// SectionRepository handles class-section data access.
type SectionRepository interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Section, int, error)
	GetByID(ctx context.Context, id int, withTrashed bool) (*model.Section, error)
	GetByCode(ctx context.Context, code string, excludeID int) (*model.Section, error)
	Create(ctx context.Context, s *model.Section) error
	Update(ctx context.Context, s *model.Section) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]model.LookupOption, error)
	StudentUsage(ctx context.Context, name string) (int, error)
}

type sectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) SectionRepository {
	return &sectionRepository{pool: pool}
}

func scanSection(row pgx.Row) (*model.Section, error) {
	s := &model.Section{}
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Capacity, &s.Active, &s.YearLevel,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sectionRepository) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Section, int, error) {
	deleted := "IS NULL"
	if trashed {
		deleted = "IS NOT NULL"
	}

	where := ` WHERE deleted_at ` + deleted
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += ` AND (name ILIKE $1 OR code ILIKE $1)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sections`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + sectionColumns + ` FROM sections` + where + ` ORDER BY id`
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

	sections := []model.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, 0, err
		}
		sections = append(sections, *s)
	}
	return sections, total, rows.Err()
}

func (r *sectionRepository) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1`
	if !withTrashed {
		query += ` AND deleted_at IS NULL`
	}
	return scanSection(r.pool.QueryRow(ctx, query, id))
}

func (r *sectionRepository) GetByCode(ctx context.Context, code string, excludeID int) (*model.Section, error) {
	return scanSection(r.pool.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE code = $1 AND deleted_at IS NULL AND id <> $2`,
		code, excludeID))
}

func (r *sectionRepository) Create(ctx context.Context, s *model.Section) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sections (name, code, capacity, active, year_level) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Code, s.Capacity, s.Active, s.YearLevel,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *sectionRepository) Update(ctx context.Context, s *model.Section) error {
	return r.pool.QueryRow(ctx,
		`UPDATE sections SET name = $1, code = $2, capacity = $3, active = $4, year_level = $5,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6 AND deleted_at IS NULL RETURNING updated_at`,
		s.Name, s.Code, s.Capacity, s.Active, s.YearLevel, s.ID,
	).Scan(&s.UpdatedAt)
}

func (r *sectionRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sections SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectionRepository) Restore(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sections SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectionRepository) ForceDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectionRepository) ListActive(ctx context.Context) ([]model.LookupOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM sections WHERE active AND deleted_at IS NULL ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []model.LookupOption{}
	for rows.Next() {
		var o model.LookupOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *sectionRepository) StudentUsage(ctx context.Context, name string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE section = $1 AND deleted_at IS NULL`, name,
	).Scan(&count)
	return count, err
}
