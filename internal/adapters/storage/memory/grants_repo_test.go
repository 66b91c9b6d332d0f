package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"maternal-booklet/internal/domain/access"
)

func TestGrantsRepo_Create_RejectsSecondActiveForPair(t *testing.T) {
	repo := NewGrantsRepo()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(context.Background(), access.Grant{
		ID: "g1", BookletID: "bk-1", DoctorUserID: "doc-1", GrantedAt: now,
	}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	err := repo.Create(context.Background(), access.Grant{
		ID: "g2", BookletID: "bk-1", DoctorUserID: "doc-1", GrantedAt: now,
	})
	if !errors.Is(err, access.ErrActiveGrantExists) {
		t.Fatalf("expected ErrActiveGrantExists, got %v", err)
	}

	// Otro par no choca
	if err := repo.Create(context.Background(), access.Grant{
		ID: "g3", BookletID: "bk-1", DoctorUserID: "doc-2", GrantedAt: now,
	}); err != nil {
		t.Fatalf("Create for another doctor error: %v", err)
	}

	// Una fila ya revocada es historia: se inserta junto al activo
	revoked := now.Add(-time.Hour)
	if err := repo.Create(context.Background(), access.Grant{
		ID: "g4", BookletID: "bk-1", DoctorUserID: "doc-1",
		GrantedAt: now.Add(-2 * time.Hour), RevokedAt: &revoked,
	}); err != nil {
		t.Fatalf("Create of revoked history row error: %v", err)
	}
}

func TestGrantsRepo_Create_Race_SingleActiveWinner(t *testing.T) {
	repo := NewGrantsRepo()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(context.Background(), access.Grant{
				ID:           fmt.Sprintf("g-%d", i),
				BookletID:    "bk-1",
				DoctorUserID: "doc-1",
				GrantedAt:    now,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, access.ErrActiveGrantExists):
		default:
			t.Fatalf("unexpected error in race: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}

	if _, err := repo.GetActiveGrant(context.Background(), "bk-1", "doc-1"); err != nil {
		t.Fatalf("expected an active grant after the race, got %v", err)
	}
}

func TestGrantsRepo_RevokeThenRegrant(t *testing.T) {
	repo := NewGrantsRepo()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	g := access.Grant{ID: "g1", BookletID: "bk-1", DoctorUserID: "doc-1", GrantedAt: now}
	if err := repo.Create(context.Background(), g); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	revokedAt := now.Add(5 * time.Minute)
	g.RevokedAt = &revokedAt
	if err := repo.Update(context.Background(), g); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if _, err := repo.GetActiveGrant(context.Background(), "bk-1", "doc-1"); !errors.Is(err, access.ErrNoActiveGrant) {
		t.Fatalf("expected ErrNoActiveGrant after revoke, got %v", err)
	}

	// Re-otorgar con fila nueva ahora sí pasa
	if err := repo.Create(context.Background(), access.Grant{
		ID: "g2", BookletID: "bk-1", DoctorUserID: "doc-1", GrantedAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("re-grant Create error: %v", err)
	}

	got, err := repo.GetActiveGrant(context.Background(), "bk-1", "doc-1")
	if err != nil || got.ID != "g2" {
		t.Fatalf("expected g2 active, got %#v err=%v", got, err)
	}
}
