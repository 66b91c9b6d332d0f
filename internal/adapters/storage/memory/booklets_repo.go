package memory

import (
	"context"
	"errors"
	"sync"

	"maternal-booklet/internal/domain/booklets"
)

type bookletRepo struct {
	mu   sync.RWMutex
	byID map[string]booklets.Booklet
}

func NewBookletsRepo() booklets.Repository {
	return &bookletRepo{
		byID: make(map[string]booklets.Booklet),
	}
}

func (r *bookletRepo) Create(ctx context.Context, b booklets.Booklet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("booklet id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("booklet already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookletRepo) Update(ctx context.Context, b booklets.Booklet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("booklet id required")
	}
	if _, exists := r.byID[b.ID]; !exists {
		return booklets.ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookletRepo) GetByID(ctx context.Context, id string) (booklets.Booklet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return booklets.Booklet{}, booklets.ErrNotFound
	}
	return b, nil
}

func (r *bookletRepo) ListByMother(ctx context.Context, motherUserID string) ([]booklets.Booklet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]booklets.Booklet, 0)
	for _, b := range r.byID {
		if b.MotherUserID == motherUserID {
			out = append(out, b)
		}
	}
	return out, nil
}
