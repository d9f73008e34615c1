package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
)

// ErrCodeTaken means another live section already carries the code.
var ErrCodeTaken = errors.New("code already in use")

type SectionService interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Section, int, error)
	Get(ctx context.Context, id int) (*model.Section, error)
	Create(ctx context.Context, req model.SectionRequest) (*model.Section, error)
	Update(ctx context.Context, id int, req model.SectionRequest) (*model.Section, error)
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	Options(ctx context.Context) ([]model.LookupOption, error)
}

type sectionService struct {
	repo repository.SectionRepository
}

func NewSectionService(repo repository.SectionRepository) SectionService {
	return &sectionService{repo: repo}
}

func (s *sectionService) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Section, int, error) {
	return s.repo.List(ctx, search, page, limit, trashed)
}

func (s *sectionService) Get(ctx context.Context, id int) (*model.Section, error) {
	sec, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sec, nil
}

func (s *sectionService) ensureCodeFree(ctx context.Context, code string, excludeID int) error {
	existing, err := s.repo.GetByCode(ctx, code, excludeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing != nil {
		return ErrCodeTaken
	}
	return nil
}

func (s *sectionService) Create(ctx context.Context, req model.SectionRequest) (*model.Section, error) {
	if err := s.ensureCodeFree(ctx, req.Code, 0); err != nil {
		return nil, err
	}

	sec := &model.Section{
		Name:      req.Name,
		Code:      req.Code,
		Capacity:  req.Capacity,
		Active:    true,
		YearLevel: req.YearLevel,
	}
	if req.Active != nil {
		sec.Active = *req.Active
	}
	if err := s.repo.Create(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *sectionService) Update(ctx context.Context, id int, req model.SectionRequest) (*model.Section, error) {
	sec, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ensureCodeFree(ctx, req.Code, id); err != nil {
		return nil, err
	}

	sec.Name = req.Name
	sec.Code = req.Code
	sec.Capacity = req.Capacity
	sec.YearLevel = req.YearLevel
	if req.Active != nil {
		sec.Active = *req.Active
	}
	if err := s.repo.Update(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *sectionService) SoftDelete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *sectionService) Restore(ctx context.Context, id int) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *sectionService) ForceDelete(ctx context.Context, id int) error {
	sec, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	used, err := s.repo.StudentUsage(ctx, sec.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return &InUseError{Count: used}
	}

	return s.repo.ForceDelete(ctx, id)
}

func (s *sectionService) Options(ctx context.Context) ([]model.LookupOption, error) {
	return s.repo.ListActive(ctx)
}
