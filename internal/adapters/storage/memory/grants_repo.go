package memory

import (
	"context"
	"errors"
	"sync"

	"maternal-booklet/internal/domain/access"
)

type grantRepo struct {
	mu   sync.RWMutex
	byID map[string]access.Grant
}

func NewGrantsRepo() access.GrantRepository {
	return &grantRepo{
		byID: make(map[string]access.Grant),
	}
}

// Create chequea la unicidad de grant activo por par y escribe sin soltar
// el mutex: es el segundo punto de exclusión mutua del protocolo (el otro
// es el consumo de tokens). Filas ya revocadas se insertan sin chequeo,
// son historia.
func (r *grantRepo) Create(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}

	if g.Active() {
		for _, ex := range r.byID {
			if ex.BookletID == g.BookletID && ex.DoctorUserID == g.DoctorUserID && ex.Active() {
				return access.ErrActiveGrantExists
			}
		}
	}

	r.byID[g.ID] = g
	return nil
}

func (r *grantRepo) Update(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; !exists {
		return errors.New("grant not found")
	}
	r.byID[g.ID] = g
	return nil
}

// Defensivo: si por data sucia hubiera más de un grant activo para el par,
// devolvemos el de GrantedAt más reciente.
func (r *grantRepo) GetActiveGrant(ctx context.Context, bookletID, doctorUserID string) (access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner access.Grant
	has := false

	for _, g := range r.byID {
		if g.BookletID != bookletID || g.DoctorUserID != doctorUserID {
			continue
		}
		if !g.Active() {
			continue
		}
		if !has || g.GrantedAt.After(winner.GrantedAt) {
			winner = g
			has = true
		}
	}

	if !has {
		return access.Grant{}, access.ErrNoActiveGrant
	}
	return winner, nil
}

func (r *grantRepo) ListByBooklet(ctx context.Context, bookletID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.BookletID == bookletID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *grantRepo) ListByDoctor(ctx context.Context, doctorUserID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.DoctorUserID == doctorUserID {
			out = append(out, g)
		}
	}
	return out, nil
}
