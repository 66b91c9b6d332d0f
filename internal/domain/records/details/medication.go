package details

import "time"

// Medication es el payload de detalle de un registro MEDICATION_PRESCRIBED.
type Medication struct {
	Name string `json:"name"`

	Dosage   string `json:"dosage"`    // "400"
	DoseUnit string `json:"dose_unit"` // "mg", "ml", "UI"

	Frequency string `json:"frequency"` // texto por ahora: "cada 8h"

	StartDate time.Time  `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Notes string `json:"notes,omitempty"`
}
