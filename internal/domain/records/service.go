package records

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"maternal-booklet/internal/domain/records/details"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type       RecordType
	OccurredAt time.Time
	Title      string
	Notes      string
	Details    json.RawMessage
	Source     Source
}

func (s *Service) Create(ctx context.Context, bookletID string, actor Actor, in CreateInput) (BookletRecord, error) {
	if strings.TrimSpace(bookletID) == "" {
		return BookletRecord{}, ErrInvalidInput
	}
	if in.Type == "" {
		return BookletRecord{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return BookletRecord{}, ErrInvalidInput
	}
	if actor.Type == "" || strings.TrimSpace(actor.ID) == "" {
		return BookletRecord{}, ErrInvalidInput
	}
	if err := validateDetails(in.Type, in.Details); err != nil {
		return BookletRecord{}, err
	}

	src := in.Source
	if src == "" {
		src = SourceManual
	}

	rec := BookletRecord{
		ID:         uuid.NewString(),
		BookletID:  bookletID,
		Type:       in.Type,
		OccurredAt: in.OccurredAt,
		RecordedAt: s.now(),
		Title:      strings.TrimSpace(in.Title),
		Notes:      strings.TrimSpace(in.Notes),
		Details:    in.Details,
		Actor:      actor,
		Source:     src,
		Status:     RecordStatusActive,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return BookletRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (BookletRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return BookletRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByBooklet(ctx context.Context, bookletID string, filter ListFilter) ([]BookletRecord, error) {
	return s.repo.ListByBooklet(ctx, bookletID, filter)
}

// validateDetails chequea el payload de detalle contra el tipo del registro:
// medicación recetada exige nombre, laboratorio exige test, vitales exige al
// menos una medición con kind y unidad. Tipos sin payload tipado aceptan
// cualquier JSON válido. Sin detalle siempre es válido.
func validateDetails(t RecordType, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return ErrInvalidInput
	}

	switch t {
	case RecordTypeMedication:
		var d details.Medication
		if err := json.Unmarshal(raw, &d); err != nil {
			return ErrInvalidInput
		}
		if strings.TrimSpace(d.Name) == "" {
			return ErrInvalidInput
		}
	case RecordTypeLabRequested, RecordTypeLabResult:
		var d details.Lab
		if err := json.Unmarshal(raw, &d); err != nil {
			return ErrInvalidInput
		}
		if strings.TrimSpace(d.TestName) == "" {
			return ErrInvalidInput
		}
	case RecordTypeVitals:
		var vs []details.Vital
		if err := json.Unmarshal(raw, &vs); err != nil {
			return ErrInvalidInput
		}
		if len(vs) == 0 {
			return ErrInvalidInput
		}
		for _, v := range vs {
			if v.Kind == "" || strings.TrimSpace(v.Unit) == "" {
				return ErrInvalidInput
			}
		}
	}
	return nil
}

// Void anula el registro (no se borra: el historial es append-preferred).
func (s *Service) Void(ctx context.Context, id string) (BookletRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return BookletRecord{}, ErrInvalidInput
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return BookletRecord{}, err
	}
	return s.repo.GetByID(ctx, id)
}
