package patientids

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("mapping not found")
	ErrNoAccess     = errors.New("no active grant for doctor")
)

// GrantChecker evita importar el paquete access (rompe ciclos).
// La condición es específica: el propio doctor con grant vigente.
type GrantChecker interface {
	HasActiveGrant(ctx context.Context, bookletID, doctorUserID string) (bool, error)
}

type Service struct {
	repo   Repository
	grants GrantChecker
	now    func() time.Time
}

func NewService(repo Repository, grants GrantChecker) *Service {
	return &Service{
		repo:   repo,
		grants: grants,
		now:    time.Now,
	}
}

type SetInput struct {
	ExternalRef string
	Label       string
}

// Set crea o actualiza el identificador del doctor para la libreta.
// Requiere grant vigente; con el grant revocado el mapping existe pero no
// se puede tocar hasta un re-otorgamiento.
func (s *Service) Set(ctx context.Context, bookletID, doctorUserID string, in SetInput) (Mapping, error) {
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	if bookletID == "" || doctorUserID == "" {
		return Mapping{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.ExternalRef) == "" {
		return Mapping{}, ErrInvalidInput
	}

	ok, err := s.grants.HasActiveGrant(ctx, bookletID, doctorUserID)
	if err != nil {
		return Mapping{}, err
	}
	if !ok {
		return Mapping{}, ErrNoAccess
	}

	now := s.now()

	m, err := s.repo.Get(ctx, bookletID, doctorUserID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Mapping{}, err
		}
		m = Mapping{
			ID:           uuid.NewString(),
			BookletID:    bookletID,
			DoctorUserID: doctorUserID,
			CreatedAt:    now,
		}
	}

	m.ExternalRef = strings.TrimSpace(in.ExternalRef)
	m.Label = strings.TrimSpace(in.Label)
	m.UpdatedAt = now

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// Get devuelve el mapping del doctor para la libreta. Mismo gate que Set:
// sin grant vigente responde ErrNoAccess aunque el mapping exista.
func (s *Service) Get(ctx context.Context, bookletID, doctorUserID string) (Mapping, error) {
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	if bookletID == "" || doctorUserID == "" {
		return Mapping{}, ErrInvalidInput
	}

	ok, err := s.grants.HasActiveGrant(ctx, bookletID, doctorUserID)
	if err != nil {
		return Mapping{}, err
	}
	if !ok {
		return Mapping{}, ErrNoAccess
	}

	return s.repo.Get(ctx, bookletID, doctorUserID)
}
