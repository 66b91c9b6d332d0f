package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"maternal-booklet/internal/domain/records"
)

type recordRepo struct {
	mu   sync.RWMutex
	byID map[string]records.BookletRecord
}

func NewRecordsRepo() records.Repository {
	return &recordRepo{
		byID: make(map[string]records.BookletRecord),
	}
}

func (r *recordRepo) Create(ctx context.Context, rec records.BookletRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (records.BookletRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return records.BookletRecord{}, records.ErrNotFound
	}
	return rec, nil
}

func (r *recordRepo) ListByBooklet(ctx context.Context, bookletID string, filter records.ListFilter) ([]records.BookletRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.BookletRecord, 0)
	for _, rec := range r.byID {
		if rec.BookletID != bookletID {
			continue
		}
		if !matchesFilter(rec, filter) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *recordRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return records.ErrNotFound
	}
	rec.Status = records.RecordStatusVoided
	r.byID[id] = rec
	return nil
}

func matchesFilter(rec records.BookletRecord, filter records.ListFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if rec.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.From != nil && rec.OccurredAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && rec.OccurredAt.After(*filter.To) {
		return false
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(rec.Title), q) &&
			!strings.Contains(strings.ToLower(rec.Notes), q) {
			return false
		}
	}

	return true
}
