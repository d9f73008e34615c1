package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
)

// LookupService covers the simple named entities (campuses, scholarships,
// year levels) that share the same CRUD, trash, and usage-guard behavior.
type LookupService interface {
	List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Lookup, int, error)
	Get(ctx context.Context, id int) (*model.Lookup, error)
	Create(ctx context.Context, req model.LookupRequest) (*model.Lookup, error)
	Update(ctx context.Context, id int, req model.LookupRequest) (*model.Lookup, error)
	SoftDelete(ctx context.Context, id int) error
	Restore(ctx context.Context, id int) error
	ForceDelete(ctx context.Context, id int) error
	Options(ctx context.Context) ([]model.LookupOption, error)
}

type lookupService struct {
	repo repository.LookupRepository
}

func NewLookupService(repo repository.LookupRepository) LookupService {
	return &lookupService{repo: repo}
}

func (s *lookupService) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Lookup, int, error) {
	return s.repo.List(ctx, search, page, limit, trashed)
}

func (s *lookupService) Get(ctx context.Context, id int) (*model.Lookup, error) {
	item, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *lookupService) Create(ctx context.Context, req model.LookupRequest) (*model.Lookup, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	item := &model.Lookup{Name: req.Name, Description: req.Description, Active: true}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *lookupService) Update(ctx context.Context, id int, req model.LookupRequest) (*model.Lookup, error) {
	item, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Description = req.Description
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *lookupService) ensureNameFree(ctx context.Context, name string, excludeID int) error {
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

func (s *lookupService) SoftDelete(ctx context.Context, id int) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *lookupService) Restore(ctx context.Context, id int) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ForceDelete permanently removes the record, refusing while any student
// row still references it by name.
func (s *lookupService) ForceDelete(ctx context.Context, id int) error {
	item, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	used, err := s.repo.StudentUsage(ctx, item.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return &InUseError{Count: used}
	}

	return s.repo.ForceDelete(ctx, id)
}

func (s *lookupService) Options(ctx context.Context) ([]model.LookupOption, error) {
	return s.repo.ListActive(ctx)
}
