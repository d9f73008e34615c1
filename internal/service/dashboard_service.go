package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/config"
	"github.com/scholartrack/registrar-backend/internal/repository"
)

// DashboardSnapshot is the aggregate served to the dashboard. Counts cover
// live students only.
type DashboardSnapshot struct {
	TotalStudents   int            `json:"total_students"`
	ByCourse        map[string]int `json:"by_course"`
	ByCollege       map[string]int `json:"by_college"`
	ByCampus        map[string]int `json:"by_campus"`
	ByGender        map[string]int `json:"by_gender"`
	ByYearLevel     map[string]int `json:"by_year_level"`
	ByStudentStatus map[string]int `json:"by_student_status"`
	ByScholarship   map[string]int `json:"by_scholarship_type"`
	Approval        ApprovalCounts `json:"approval"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ApprovalCounts folds the free-text approved column into three buckets.
type ApprovalCounts struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Pending int `json:"pending"`
}

// DashboardService serves the aggregate snapshot, cached in redis so
// repeated dashboard loads inside the TTL return the same bytes without
// touching postgres. Staleness is bounded by the TTL alone; writes,
// including imports, never bust the cache.
type DashboardService interface {
	Snapshot(ctx context.Context) (json.RawMessage, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

func NewDashboardService(repo repository.DashboardRepository, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) DashboardService {
	return &dashboardService{repo: repo, rdb: rdb, ttl: ttl, log: log}
}

func (s *dashboardService) Snapshot(ctx context.Context) (json.RawMessage, error) {
	key := config.CacheKey.DashboardSnapshotKey()

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		// Cache trouble should not take the dashboard down.
		s.log.Warn().Err(err).Msg("Dashboard cache read failed")
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Dashboard cache write failed")
	}
	return payload, nil
}

func (s *dashboardService) build(ctx context.Context) (*DashboardSnapshot, error) {
	total, err := s.repo.TotalStudents(ctx)
	if err != nil {
		return nil, err
	}

	snap := &DashboardSnapshot{TotalStudents: total, GeneratedAt: time.Now().UTC()}

	groups := []struct {
		column string
		dest   *map[string]int
	}{
		{"course", &snap.ByCourse},
		{"college", &snap.ByCollege},
		{"campus", &snap.ByCampus},
		{"gender", &snap.ByGender},
		{"year_level", &snap.ByYearLevel},
		{"student_status", &snap.ByStudentStatus},
		{"scholarship_type", &snap.ByScholarship},
	}
	for _, g := range groups {
		counts, err := s.repo.GroupCounts(ctx, g.column)
		if err != nil {
			return nil, err
		}
		*g.dest = counts
	}

	approved, err := s.repo.GroupCounts(ctx, "approved")
	if err != nil {
		return nil, err
	}
	snap.Approval = foldApproval(approved)

	return snap, nil
}

// foldApproval normalizes approved values case-insensitively; anything that
// is not a clear yes or no counts as pending.
func foldApproval(counts map[string]int) ApprovalCounts {
	var a ApprovalCounts
	for value, count := range counts {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "yes":
			a.Yes += count
		case "no":
			a.No += count
		default:
			a.Pending += count
		}
	}
	return a
}
