package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/scholartrack/registrar-backend/internal/model"
)

// fakeLookupRepo is an in-memory LookupRepository keyed by id.
type fakeLookupRepo struct {
	items   map[int]*model.Lookup
	usage   map[string]int
	deleted []int
	nextID  int
}

func newFakeLookupRepo() *fakeLookupRepo {
	return &fakeLookupRepo{
		items:  map[int]*model.Lookup{},
		usage:  map[string]int{},
		nextID: 1,
	}
}

func (r *fakeLookupRepo) List(ctx context.Context, search string, page, limit int, trashed bool) ([]model.Lookup, int, error) {
	return nil, 0, nil
}

func (r *fakeLookupRepo) GetByID(ctx context.Context, id int, withTrashed bool) (*model.Lookup, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return item, nil
}

func (r *fakeLookupRepo) GetByName(ctx context.Context, name string, excludeID int) (*model.Lookup, error) {
	for id, item := range r.items {
		if item.Name == name && id != excludeID {
			return item, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLookupRepo) Create(ctx context.Context, l *model.Lookup) error {
	l.ID = r.nextID
	r.nextID++
	r.items[l.ID] = l
	return nil
}

func (r *fakeLookupRepo) Update(ctx context.Context, l *model.Lookup) error {
	r.items[l.ID] = l
	return nil
}

func (r *fakeLookupRepo) SoftDelete(ctx context.Context, id int) error { return nil }
func (r *fakeLookupRepo) Restore(ctx context.Context, id int) error    { return nil }

func (r *fakeLookupRepo) ForceDelete(ctx context.Context, id int) error {
	r.deleted = append(r.deleted, id)
	delete(r.items, id)
	return nil
}

func (r *fakeLookupRepo) ListActive(ctx context.Context) ([]model.LookupOption, error) {
	return nil, nil
}

func (r *fakeLookupRepo) StudentUsage(ctx context.Context, name string) (int, error) {
	return r.usage[name], nil
}

func TestLookupCreateDefaultsActive(t *testing.T) {
	repo := newFakeLookupRepo()
	svc := NewLookupService(repo)

	item, err := svc.Create(context.Background(), model.LookupRequest{Name: "Main Campus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Active {
		t.Error("new items default to active")
	}

	inactive := false
	item, err = svc.Create(context.Background(), model.LookupRequest{Name: "Old Campus", Active: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Active {
		t.Error("explicit active=false must win over the default")
	}
}

func TestLookupCreateNameTaken(t *testing.T) {
	repo := newFakeLookupRepo()
	svc := NewLookupService(repo)

	if _, err := svc.Create(context.Background(), model.LookupRequest{Name: "Main Campus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(context.Background(), model.LookupRequest{Name: "Main Campus"})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestLookupUpdateKeepsOwnName(t *testing.T) {
	repo := newFakeLookupRepo()
	svc := NewLookupService(repo)

	item, err := svc.Create(context.Background(), model.LookupRequest{Name: "Main Campus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Saving without renaming must not trip the uniqueness guard.
	if _, err := svc.Update(context.Background(), item.ID, model.LookupRequest{Name: "Main Campus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLookupForceDeleteInUse(t *testing.T) {
	repo := newFakeLookupRepo()
	svc := NewLookupService(repo)

	item, err := svc.Create(context.Background(), model.LookupRequest{Name: "Main Campus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.usage["Main Campus"] = 12

	err = svc.ForceDelete(context.Background(), item.ID)
	var inUse *InUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected InUseError, got %v", err)
	}
	if inUse.Count != 12 {
		t.Errorf("Count = %d", inUse.Count)
	}
	if len(repo.deleted) != 0 {
		t.Error("nothing may be deleted while students reference the name")
	}

	repo.usage["Main Campus"] = 0
	if err := svc.ForceDelete(context.Background(), item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Error("unreferenced items delete cleanly")
	}
}

func TestLookupGetNotFound(t *testing.T) {
	svc := NewLookupService(newFakeLookupRepo())

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
