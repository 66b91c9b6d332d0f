package memory

import (
	"context"
	"errors"
	"sync"

	"maternal-booklet/internal/domain/patientids"
)

type patientIDRepo struct {
	mu sync.RWMutex
	// key: bookletID + "|" + doctorUserID (un mapping por par)
	byPair map[string]patientids.Mapping
}

func NewPatientIDsRepo() patientids.Repository {
	return &patientIDRepo{
		byPair: make(map[string]patientids.Mapping),
	}
}

func (r *patientIDRepo) Upsert(ctx context.Context, m patientids.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("mapping id required")
	}
	r.byPair[pairKey(m.BookletID, m.DoctorUserID)] = m
	return nil
}

func (r *patientIDRepo) Get(ctx context.Context, bookletID, doctorUserID string) (patientids.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byPair[pairKey(bookletID, doctorUserID)]
	if !ok {
		return patientids.Mapping{}, patientids.ErrNotFound
	}
	return m, nil
}

func pairKey(bookletID, doctorUserID string) string {
	return bookletID + "|" + doctorUserID
}
