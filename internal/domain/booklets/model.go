package booklets

import "time"

// Status define el ciclo de vida de una libreta.
// Las libretas nunca se borran: se archivan o se completan.
// @Enum active, archived, completed
type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

// Booklet representa la libreta de un embarazo.
// Pertenece siempre a exactamente una madre (MotherUserID).
type Booklet struct {
	ID           string
	MotherUserID string

	Label  string // ej: "Embarazo 2026"
	Status Status

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
