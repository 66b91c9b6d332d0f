package records

import (
	"encoding/json"
	"time"
)

type Actor struct {
	Type ActorType
	ID   string
}

// BookletRecord es una entrada del historial médico de la libreta:
// controles, notas, medicaciones recetadas, pedidos y resultados de
// laboratorio. Nunca se borra; se anula (voided).
type BookletRecord struct {
	ID        string
	BookletID string

	Type RecordType

	OccurredAt time.Time
	RecordedAt time.Time

	Title string
	Notes string

	// Payload tipado según Type (details.Medication, details.Lab,
	// []details.Vital); se valida al crear y se guarda tal cual.
	Details json.RawMessage

	Actor  Actor
	Source Source
	Status RecordStatus
}
