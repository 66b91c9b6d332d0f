package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"maternal-booklet/internal/platform/logger"
	"maternal-booklet/internal/ports/notify"

	"github.com/google/uuid"
)

// DefaultTokenTTL es la vigencia de un token QR si no se configura otra.
const DefaultTokenTTL = 10 * time.Minute

type Service struct {
	tokens TokenRepository
	grants GrantRepository
	owners BookletOwnerLookup

	ttl time.Duration
	now func() time.Time

	// Opcionales
	notifier notify.AccessNotifier
	log      logger.Logger
}

type ServiceOptions struct {
	TokenTTL time.Duration         // <=0 => DefaultTokenTTL
	Notifier notify.AccessNotifier // puede ser nil
	Logger   logger.Logger         // puede ser nil
}

func NewService(tokens TokenRepository, grants GrantRepository, owners BookletOwnerLookup, opts ServiceOptions) *Service {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		tokens:   tokens,
		grants:   grants,
		owners:   owners,
		ttl:      ttl,
		now:      time.Now,
		notifier: opts.Notifier,
		log:      opts.Logger,
	}
}

// IssueToken crea un token QR nuevo para una libreta de la madre.
// Emitir no invalida tokens anteriores sin consumir: cada uno muere por su
// propia expiración o por consumo. Si se quisiera "un token vivo a la vez"
// habría que invalidar explícitamente aquí.
func (s *Service) IssueToken(ctx context.Context, bookletID, motherUserID string) (Token, error) {
	bookletID = strings.TrimSpace(bookletID)
	motherUserID = strings.TrimSpace(motherUserID)
	if bookletID == "" || motherUserID == "" {
		return Token{}, ErrInvalidInput
	}

	owner, err := s.owners.OwnerOf(ctx, bookletID)
	if err != nil {
		return Token{}, err
	}
	// Libreta inexistente y libreta ajena responden igual: no filtramos
	// existencia a quien no es dueña.
	if owner == "" || owner != motherUserID {
		return Token{}, ErrUnauthorized
	}

	now := s.now()
	t := Token{
		ID:        uuid.NewString(),
		BookletID: bookletID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.tokens.Create(ctx, t); err != nil {
		return Token{}, err
	}
	return t, nil
}

// RedeemToken valida y consume un token, y deja un grant activo para
// (libreta, doctor). El consumo (tokens.Consume) es el punto de exclusión
// mutua: ante dos escaneos simultáneos del mismo QR, exactamente uno gana.
// El paso de grant es idempotente: si el par ya tiene grant activo se
// devuelve ese mismo; si el anterior fue revocado se crea una fila NUEVA
// (auditoría), nunca se "des-revoca".
func (s *Service) RedeemToken(ctx context.Context, tokenID, bookletID, doctorUserID string) (Grant, error) {
	tokenID = strings.TrimSpace(tokenID)
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	if tokenID == "" || bookletID == "" || doctorUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return Grant{}, err
	}

	// El booklet id viene del cliente además del token: un token de una
	// libreta presentado contra otra es un canje inválido.
	if t.BookletID != bookletID {
		return Grant{}, ErrTokenMismatch
	}

	now := s.now()

	// Expiración antes que consumo: un token vencido jamás se marca
	// consumido, son desenlaces mutuamente excluyentes.
	if t.ExpiredAt(now) {
		return Grant{}, ErrTokenExpired
	}
	if t.Consumed() {
		return Grant{}, ErrTokenAlreadyUsed
	}

	// Write condicional: el perdedor de una carrera recibe
	// ErrTokenAlreadyUsed desde el repo.
	if err := s.tokens.Consume(ctx, tokenID, doctorUserID, now); err != nil {
		return Grant{}, err
	}

	g, err := s.ensureActiveGrant(ctx, t.BookletID, doctorUserID, now)
	if err != nil {
		return Grant{}, err
	}

	s.notifyGrantCreated(ctx, g)

	return g, nil
}

// ensureActiveGrant es idempotente bajo retry: si un canje se reintenta
// después de haber consumido el token, encuentra el grant activo existente
// en vez de duplicarlo.
//
// Dos tokens DISTINTOS del mismo par canjeados a la vez pueden pasar ambos
// por la ventana lookup-then-create; el Create condicional del repo deja
// exactamente un ganador y el perdedor relee el grant que quedó.
func (s *Service) ensureActiveGrant(ctx context.Context, bookletID, doctorUserID string, now time.Time) (Grant, error) {
	existing, err := s.grants.GetActiveGrant(ctx, bookletID, doctorUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNoActiveGrant) {
		return Grant{}, err
	}

	g := Grant{
		ID:           uuid.NewString(),
		BookletID:    bookletID,
		DoctorUserID: doctorUserID,
		GrantedAt:    now,
	}
	if err := s.grants.Create(ctx, g); err != nil {
		if errors.Is(err, ErrActiveGrantExists) {
			return s.grants.GetActiveGrant(ctx, bookletID, doctorUserID)
		}
		return Grant{}, err
	}
	return g, nil
}

// Revoke termina el grant activo de (libreta, doctor). Puede revocarlo la
// madre dueña o el propio doctor (auto-revocación). Si no hay grant activo
// es un no-op exitoso (revocación idempotente).
func (s *Service) Revoke(ctx context.Context, bookletID, doctorUserID, requestingUserID string) error {
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	requestingUserID = strings.TrimSpace(requestingUserID)
	if bookletID == "" || doctorUserID == "" || requestingUserID == "" {
		return ErrInvalidInput
	}

	if requestingUserID != doctorUserID {
		owner, err := s.owners.OwnerOf(ctx, bookletID)
		if err != nil {
			return err
		}
		if owner == "" || owner != requestingUserID {
			return ErrUnauthorized
		}
	}

	// Se revocan TODAS las filas activas del par, no solo la más reciente:
	// si por data sucia quedara más de una, revocar tiene que cortar el
	// acceso igual. Sin filas activas es un no-op exitoso.
	items, err := s.grants.ListByBooklet(ctx, bookletID)
	if err != nil {
		return err
	}

	now := s.now()
	for _, g := range items {
		if g.DoctorUserID != doctorUserID || !g.Active() {
			continue
		}
		g.RevokedAt = &now
		if err := s.grants.Update(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// Authorize es el guard que TODA operación sobre datos de una libreta debe
// llamar antes de leer o escribir (registros médicos, medicaciones, labs,
// mapeos de paciente). No existe atajo "interno confiable": mobile, web y
// admin pasan por acá.
//
// Deny responde igual para "libreta inexistente" y "sin grant": no se
// filtra existencia. Un error del store se devuelve como error (el caller
// lo reintenta), nunca como deny silencioso.
func (s *Service) Authorize(ctx context.Context, bookletID, actingUserID string, c Capability) (Decision, error) {
	bookletID = strings.TrimSpace(bookletID)
	actingUserID = strings.TrimSpace(actingUserID)
	if bookletID == "" || actingUserID == "" {
		return Decision{Allowed: false, Reason: ReasonNoActiveGrant}, nil
	}

	owner, err := s.owners.OwnerOf(ctx, bookletID)
	if err != nil {
		return Decision{}, err
	}
	if owner != "" && owner == actingUserID {
		// La madre siempre tiene acceso total a sus libretas.
		return Decision{Allowed: true, Reason: ReasonOwner}, nil
	}
	if owner == "" {
		return Decision{Allowed: false, Reason: ReasonNoActiveGrant}, nil
	}

	// Hoy read y write exigen lo mismo; c queda declarado por el caller.
	_ = c

	_, err = s.grants.GetActiveGrant(ctx, bookletID, actingUserID)
	if err != nil {
		if errors.Is(err, ErrNoActiveGrant) {
			return Decision{Allowed: false, Reason: ReasonNoActiveGrant}, nil
		}
		return Decision{}, err
	}

	return Decision{Allowed: true, Reason: ReasonActiveGrant}, nil
}

// ListActiveByBooklet lista los grants vigentes de una libreta
// (la lista "mis doctores" de la madre).
func (s *Service) ListActiveByBooklet(ctx context.Context, bookletID string) ([]Grant, error) {
	bookletID = strings.TrimSpace(bookletID)
	if bookletID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.grants.ListByBooklet(ctx, bookletID)
	if err != nil {
		return nil, err
	}
	return onlyActive(items), nil
}

// ListActiveByDoctor lista los grants vigentes de un doctor
// (su lista "mis pacientes").
func (s *Service) ListActiveByDoctor(ctx context.Context, doctorUserID string) ([]Grant, error) {
	doctorUserID = strings.TrimSpace(doctorUserID)
	if doctorUserID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.grants.ListByDoctor(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	return onlyActive(items), nil
}

// HasActiveGrant responde si el doctor tiene grant vigente sobre la
// libreta. Lo usan los módulos cuyo gate es específicamente "este doctor"
// (ej: mapeos de identificador de paciente, que la madre no ve).
func (s *Service) HasActiveGrant(ctx context.Context, bookletID, doctorUserID string) (bool, error) {
	_, err := s.grants.GetActiveGrant(ctx, strings.TrimSpace(bookletID), strings.TrimSpace(doctorUserID))
	if err != nil {
		if errors.Is(err, ErrNoActiveGrant) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func onlyActive(in []Grant) []Grant {
	out := make([]Grant, 0, len(in))
	for _, g := range in {
		if g.Active() {
			out = append(out, g)
		}
	}
	return out
}

// notifyGrantCreated avisa a la madre del canje. Best-effort: el grant ya
// está confirmado y un fallo del notificador no lo revierte.
func (s *Service) notifyGrantCreated(ctx context.Context, g Grant) {
	if s.notifier == nil {
		return
	}

	mother, err := s.owners.OwnerOf(ctx, g.BookletID)
	if err != nil || mother == "" {
		mother = ""
	}

	if err := s.notifier.NotifyGrantCreated(ctx, notify.GrantCreated{
		GrantID:      g.ID,
		BookletID:    g.BookletID,
		MotherUserID: mother,
		DoctorUserID: g.DoctorUserID,
		GrantedAt:    g.GrantedAt,
	}); err != nil && s.log != nil {
		s.log.Warn("grant notification failed", map[string]any{
			"grant_id":   g.ID,
			"booklet_id": g.BookletID,
			"error":      err.Error(),
		})
	}
}
