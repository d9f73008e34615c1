package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Student columns the dashboard may group by. A fixed whitelist keeps the
// column identifier out of user control.
var dashboardGroupColumns = map[string]bool{
	"course":           true,
	"college":          true,
	"campus":           true,
	"gender":           true,
	"year_level":       true,
	"student_status":   true,
	"scholarship_type": true,
	"approved":         true,
}

// DashboardRepository handles dashboard aggregation queries over live
// students.
type DashboardRepository interface {
	TotalStudents(ctx context.Context) (int, error)
	GroupCounts(ctx context.Context, column string) (map[string]int, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) TotalStudents(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE deleted_at IS NULL`).Scan(&total)
	return total, err
}

// GroupCounts returns the count per distinct value of the given column
// among live students.
func (r *dashboardRepository) GroupCounts(ctx context.Context, column string) (map[string]int, error) {
	if !dashboardGroupColumns[column] {
		return nil, fmt.Errorf("group column %q not allowed", column)
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s, COUNT(*) FROM students WHERE deleted_at IS NULL GROUP BY %s`, column, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		counts[value] = count
	}
	return counts, rows.Err()
}
