package access

import (
	"context"
	"time"
)

type TokenRepository interface {
	Create(ctx context.Context, t Token) error

	// GetByID devuelve ErrTokenNotFound si el token no existe.
	GetByID(ctx context.Context, id string) (Token, error)

	// Consume marca el token como consumido SOLO si sigue sin consumir.
	// Es el único punto de exclusión mutua del protocolo: debe ser un
	// write condicional atómico del store (UPDATE ... WHERE consumed_at
	// IS NULL, o check-and-set bajo un mismo lock). Si dos canjes corren
	// sobre el mismo token, exactamente uno gana; el otro recibe
	// ErrTokenAlreadyUsed. Nunca implementar como read + write separados.
	Consume(ctx context.Context, id, doctorUserID string, at time.Time) error
}

type GrantRepository interface {
	// Create inserta un grant nuevo. Si el grant viene activo y el par
	// (booklet, doctor) ya tiene otro activo, devuelve ErrActiveGrantExists
	// SIN insertar: la unicidad de grant activo por par es garantía del
	// store (índice único parcial en Postgres, check bajo el mismo lock en
	// memoria), igual que el consumo de tokens. Dos canjes concurrentes de
	// tokens DISTINTOS para el mismo par resuelven acá a un solo grant.
	Create(ctx context.Context, g Grant) error

	Update(ctx context.Context, g Grant) error

	// GetActiveGrant devuelve ErrNoActiveGrant si el par no tiene grant
	// vigente (revoked_at IS NULL).
	GetActiveGrant(ctx context.Context, bookletID, doctorUserID string) (Grant, error)

	ListByBooklet(ctx context.Context, bookletID string) ([]Grant, error)
	ListByDoctor(ctx context.Context, doctorUserID string) ([]Grant, error)
}

// BookletOwnerLookup evita importar el paquete booklets (rompe ciclos).
// Contrato: libreta inexistente => ("", nil); error solo si el store falló.
type BookletOwnerLookup interface {
	OwnerOf(ctx context.Context, bookletID string) (string, error)
}
