package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
)

// ErrCollegeMissing means the payload referenced a college that does not
// exist or is trashed.
var ErrCollegeMissing = errors.New("college not found")

type CourseService interface {
	List(ctx context.Context, search string, collegeID, page, limit int, trashed bool) ([]model.Course, int, error)
	Get(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, req model.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, id int, req model.CourseRequest) (*model.Course, error)
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	Options(ctx context.Context) ([]model.Course, error)
	OptionsByCollege(ctx context.Context, collegeID int) ([]model.Course, error)
}

type courseService struct {
	repo     repository.CourseRepository
	colleges repository.CollegeRepository
}

func NewCourseService(repo repository.CourseRepository, colleges repository.CollegeRepository) CourseService {
	return &courseService{repo: repo, colleges: colleges}
}

func (s *courseService) List(ctx context.Context, search string, collegeID, page, limit int, trashed bool) ([]model.Course, int, error) {
	return s.repo.List(ctx, search, collegeID, page, limit, trashed)
}

func (s *courseService) Get(ctx context.Context, id int) (*model.Course, error) {
	co, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return co, nil
}

func (s *courseService) validateParent(ctx context.Context, collegeID int) error {
	_, err := s.colleges.GetByID(ctx, collegeID, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCollegeMissing
		}
		return err
	}
	return nil
}

func (s *courseService) ensureNameFree(ctx context.Context, collegeID int, name string, excludeID int) error {
	existing, err := s.repo.GetByName(ctx, collegeID, name, excludeID)
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

func (s *courseService) Create(ctx context.Context, req model.CourseRequest) (*model.Course, error) {
	if err := s.validateParent(ctx, req.CollegeID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.CollegeID, req.Name, 0); err != nil {
		return nil, err
	}

	co := &model.Course{CollegeID: req.CollegeID, Name: req.Name, Description: req.Description, Active: true}
	if req.Active != nil {
		co.Active = *req.Active
	}
	if err := s.repo.Create(ctx, co); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, co.ID, false)
}

func (s *courseService) Update(ctx context.Context, id int, req model.CourseRequest) (*model.Course, error) {
	co, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.validateParent(ctx, req.CollegeID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.CollegeID, req.Name, id); err != nil {
		return nil, err
	}

	co.CollegeID = req.CollegeID
	co.Name = req.Name
	co.Description = req.Description
	if req.Active != nil {
		co.Active = *req.Active
	}
	if err := s.repo.Update(ctx, co); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, false)
}

func (s *courseService) SoftDelete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *courseService) Restore(ctx context.Context, id int) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *courseService) ForceDelete(ctx context.Context, id int) error {
	co, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	used, err := s.repo.StudentUsage(ctx, co.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return &InUseError{Count: used}
	}

	return s.repo.ForceDelete(ctx, id)
}

func (s *courseService) Options(ctx context.Context) ([]model.Course, error) {
	return s.repo.ListActive(ctx)
}

func (s *courseService) OptionsByCollege(ctx context.Context, collegeID int) ([]model.Course, error) {
	return s.repo.ListActiveByCollege(ctx, collegeID)
}
