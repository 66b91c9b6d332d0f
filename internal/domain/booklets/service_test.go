package booklets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Booklet

	failNext error // si está seteado, la próxima lectura falla
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Booklet{}}
}

func (r *testRepo) Create(ctx context.Context, b Booklet) error {
	if b.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[b.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) Update(ctx context.Context, b Booklet) error {
	if _, ok := r.byID[b.ID]; !ok {
		return ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Booklet, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return Booklet{}, err
	}
	b, ok := r.byID[id]
	if !ok {
		return Booklet{}, ErrNotFound
	}
	return b, nil
}

func (r *testRepo) ListByMother(ctx context.Context, motherUserID string) ([]Booklet, error) {
	out := make([]Booklet, 0)
	for _, b := range r.byID {
		if b.MotherUserID == motherUserID {
			out = append(out, b)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsToActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	b, err := svc.Create(context.Background(), "mother-1", CreateInput{
		Label: "  Embarazo 2026  ",
		Notes: "primer control semana 8",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if b.Status != StatusActive {
		t.Fatalf("expected status active, got %s", b.Status)
	}
	if b.Label != "Embarazo 2026" {
		t.Fatalf("expected trimmed label, got %q", b.Label)
	}
	if b.CreatedAt != now || b.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RequiresLabel(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "mother-1", CreateInput{Label: "   "}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank label, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", CreateInput{Label: "x"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}
}

func TestService_ChangeStatus_OwnerOnly_AndIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	b, err := svc.Create(context.Background(), "mother-1", CreateInput{Label: "Libreta"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.ChangeStatus(context.Background(), b.ID, "stranger", StatusArchived); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	later := now.Add(2 * time.Hour)
	svc.now = func() time.Time { return later }

	archived, err := svc.ChangeStatus(context.Background(), b.ID, "mother-1", StatusArchived)
	if err != nil {
		t.Fatalf("ChangeStatus error: %v", err)
	}
	if archived.Status != StatusArchived || archived.UpdatedAt != later {
		t.Fatalf("expected archived at %v, got %#v", later, archived)
	}

	// Idempotente: repetir el mismo estado no toca UpdatedAt
	again, err := svc.ChangeStatus(context.Background(), b.ID, "mother-1", StatusArchived)
	if err != nil {
		t.Fatalf("idempotent ChangeStatus error: %v", err)
	}
	if again.UpdatedAt != later {
		t.Fatalf("expected UpdatedAt unchanged on idempotent call")
	}

	if _, err := svc.ChangeStatus(context.Background(), b.ID, "mother-1", Status("deleted")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestService_OwnerOf_HidesExistence_PropagatesStoreErrors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	b, err := svc.Create(context.Background(), "mother-1", CreateInput{Label: "Libreta"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	owner, err := svc.OwnerOf(context.Background(), b.ID)
	if err != nil || owner != "mother-1" {
		t.Fatalf("expected owner mother-1, got %q err=%v", owner, err)
	}

	// No existe => ("", nil), no es un error
	owner, err = svc.OwnerOf(context.Background(), "bk-missing")
	if err != nil || owner != "" {
		t.Fatalf(`expected ("", nil) for unknown booklet, got (%q, %v)`, owner, err)
	}

	// Falla real del store sí se propaga
	storeErr := errors.New("store: connection reset")
	repo.failNext = storeErr
	if _, err := svc.OwnerOf(context.Background(), b.ID); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
