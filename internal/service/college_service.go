package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
)

type CollegeService interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.College, int, error)
	Get(ctx context.Context, id int) (*model.College, error)
	Create(ctx context.Context, req model.CollegeRequest) (*model.College, error)
	Update(ctx context.Context, id int, req model.CollegeRequest) (*model.College, error)
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	Options(ctx context.Context) ([]model.College, error)
}

type collegeService struct {
	repo repository.CollegeRepository
}

func NewCollegeService(repo repository.CollegeRepository) CollegeService {
	return &collegeService{repo: repo}
}

func (s *collegeService) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.College, int, error) {
	return s.repo.List(ctx, search, page, limit, trashed)
}

func (s *collegeService) Get(ctx context.Context, id int) (*model.College, error) {
	c, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *collegeService) ensureNameFree(ctx context.Context, name string, excludeID int) error {
	existing, err := s.repo.GetByName(ctx, name, excludeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing != nil {
		return ErrNameTaken
	}
	return nil
}

func (s *collegeService) Create(ctx context.Context, req model.CollegeRequest) (*model.College, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	c := &model.College{Name: req.Name, Description: req.Description, Active: true}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.CreateWithCourses(ctx, c, req.Courses); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, c.ID, false)
}

func (s *collegeService) Update(ctx context.Context, id int, req model.CollegeRequest) (*model.College, error) {
	c, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.Description = req.Description
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.UpdateWithCourses(ctx, c, req.Courses); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, false)
}

func (s *collegeService) SoftDelete(ctx context.Context, id int) error {
	if err := s.repo.SoftDeleteCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *collegeService) Restore(ctx context.Context, id int) error {
	if err := s.repo.RestoreCascade(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ForceDelete permanently removes the college and its courses, refusing
// while any live student still references the college by name.
func (s *collegeService) ForceDelete(ctx context.Context, id int) error {
	c, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	used, err := s.repo.StudentUsage(ctx, c.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return &InUseError{Count: used}
	}

	return s.repo.ForceDeleteCascade(ctx, id)
}

func (s *collegeService) Options(ctx context.Context) ([]model.College, error) {
	return s.repo.ListActive(ctx)
}
