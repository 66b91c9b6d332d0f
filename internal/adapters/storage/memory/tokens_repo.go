package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"maternal-booklet/internal/domain/access"
)

type tokenRepo struct {
	mu   sync.Mutex
	byID map[string]access.Token
}

func NewTokensRepo() access.TokenRepository {
	return &tokenRepo{
		byID: make(map[string]access.Token),
	}
}

func (r *tokenRepo) Create(ctx context.Context, t access.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("token id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("token already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *tokenRepo) GetByID(ctx context.Context, id string) (access.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return access.Token{}, access.ErrTokenNotFound
	}
	return t, nil
}

// Consume es check-and-set bajo una única toma del lock: el chequeo de
// consumed y la escritura ocurren sin soltar el mutex, así dos canjes
// concurrentes del mismo token resuelven a exactamente un ganador.
func (r *tokenRepo) Consume(ctx context.Context, id, doctorUserID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return access.ErrTokenNotFound
	}
	if t.ConsumedAt != nil {
		return access.ErrTokenAlreadyUsed
	}

	consumedAt := at
	t.ConsumedAt = &consumedAt
	t.ConsumedBy = doctorUserID
	r.byID[id] = t
	return nil
}
