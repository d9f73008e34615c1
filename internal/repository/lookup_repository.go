package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholartrack/registrar-backend/internal/model"
)

// LookupTable describes one of the simple reference tables and the student
// column that references it by name value.
type LookupTable struct {
	Table         string
	StudentColumn string
}

var (
	CampusTable      = LookupTable{Table: "campuses", StudentColumn: "campus"}
	ScholarshipTable = LookupTable{Table: "scholarships", StudentColumn: "scholarship_type"}
	YearLevelTable   = LookupTable{Table: "year_levels", StudentColumn: "year_level"}
)

// LookupRepository is the shared data-access contract for campuses,
// scholarships and year levels.
type LookupRepository interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Lookup, int, error)
	GetByID(ctx context.Context, id int, withTrashed bool) (*model.Lookup, error)
	GetByName(ctx context.Context, name string, excludeID int) (*model.Lookup, error)
	Create(ctx context.Context, l *model.Lookup) error
	Update(ctx context.Context, l *model.Lookup) error
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]model.LookupOption, error)
	StudentUsage(ctx context.Context, name string) (int, error)
}

type lookupRepository struct {
	pool *pgxpool.Pool
	t    LookupTable
}

// NewLookupRepository creates a LookupRepository bound to one reference table.
// Table identifiers come from the fixed LookupTable values above, never from
// user input.
func NewLookupRepository(pool *pgxpool.Pool, t LookupTable) LookupRepository {
	return &lookupRepository{pool: pool, t: t}
}

func (r *lookupRepository) scan(row pgx.Row) (*model.Lookup, error) {
	l := &model.Lookup{}
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Active, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *lookupRepository) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Lookup, int, error) {
	deleted := "IS NULL"
	if trashed {
		deleted = "IS NOT NULL"
	}

	where := fmt.Sprintf(` WHERE deleted_at %s`, deleted)
	var args []interface{}
	if search != "" {
		where += ` AND name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.t.Table, where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, name, description, active, created_at, updated_at, deleted_at FROM %s%s ORDER BY id`,
		r.t.Table, where)
	if limit != -1 {
		if limit <= 0 {
			limit = 10
		}
		if page <= 0 {
			page = 1
		}
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.Lookup{}
	for rows.Next() {
		l, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *l)
	}
	return items, total, rows.Err()
}

func (r *lookupRepository) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Lookup, error) {
	query := fmt.Sprintf(
		`SELECT id, name, description, active, created_at, updated_at, deleted_at FROM %s WHERE id = $1`,
		r.t.Table)
	if !withTrashed {
		query += ` AND deleted_at IS NULL`
	}
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

// GetByName finds a live row with the given name, excluding one id so
// updates don't collide with themselves.
func (r *lookupRepository) GetByName(ctx context.Context, name string, excludeID int) (*model.Lookup, error) {
	query := fmt.Sprintf(
		`SELECT id, name, description, active, created_at, updated_at, deleted_at
		 FROM %s WHERE name = $1 AND deleted_at IS NULL AND id <> $2`,
		r.t.Table)
	return r.scan(r.pool.QueryRow(ctx, query, name, excludeID))
}

func (r *lookupRepository) Create(ctx context.Context, l *model.Lookup) error {
	return r.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, description, active) VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at`, r.t.Table),
		l.Name, l.Description, l.Active,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *lookupRepository) Update(ctx context.Context, l *model.Lookup) error {
	return r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1, description = $2, active = $3, updated_at = CURRENT_TIMESTAMP
			WHERE id = $4 AND deleted_at IS NULL RETURNING updated_at`, r.t.Table),
		l.Name, l.Description, l.Active, l.ID,
	).Scan(&l.UpdatedAt)
}

func (r *lookupRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND deleted_at IS NULL`, r.t.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *lookupRepository) Restore(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND deleted_at IS NOT NULL`, r.t.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *lookupRepository) ForceDelete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListActive returns id+name of active live rows, ordered by name, for
// dropdown population.
func (r *lookupRepository) ListActive(ctx context.Context) ([]model.LookupOption, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE active AND deleted_at IS NULL ORDER BY name ASC`, r.t.Table))
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

// StudentUsage counts live students whose denormalized column matches the
// given name. A non-zero count blocks permanent deletion.
func (r *lookupRepository) StudentUsage(ctx context.Context, name string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM students WHERE %s = $1 AND deleted_at IS NULL`, r.t.StudentColumn),
		name,
	).Scan(&count)
	return count, err
}
