package booklets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("booklet not found")
	ErrForbidden    = errors.New("forbidden")
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
	Label string
	Notes string
}

func (s *Service) Create(ctx context.Context, motherUserID string, in CreateInput) (Booklet, error) {
	if strings.TrimSpace(motherUserID) == "" {
		return Booklet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Label) == "" {
		return Booklet{}, ErrInvalidInput
	}

	now := s.now()
	b := Booklet{
		ID:           uuid.NewString(),
		MotherUserID: motherUserID,
		Label:        strings.TrimSpace(in.Label),
		Status:       StatusActive,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Booklet{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Booklet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Booklet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMother(ctx context.Context, motherUserID string) ([]Booklet, error) {
	motherUserID = strings.TrimSpace(motherUserID)
	if motherUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMother(ctx, motherUserID)
}

// ChangeStatus cambia el estado de la libreta (solo la madre dueña).
// No existe borrado: archived/completed son estados terminales blandos.
func (s *Service) ChangeStatus(ctx context.Context, id, requestingUserID string, status Status) (Booklet, error) {
	id = strings.TrimSpace(id)
	requestingUserID = strings.TrimSpace(requestingUserID)
	if id == "" || requestingUserID == "" {
		return Booklet{}, ErrInvalidInput
	}

	switch status {
	case StatusActive, StatusArchived, StatusCompleted:
	default:
		return Booklet{}, ErrInvalidInput
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Booklet{}, err
	}
	if b.MotherUserID != requestingUserID {
		return Booklet{}, ErrForbidden
	}

	if b.Status == status {
		// Idempotente
		return b, nil
	}

	b.Status = status
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Booklet{}, err
	}
	return b, nil
}
