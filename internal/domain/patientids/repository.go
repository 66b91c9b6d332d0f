package patientids

import "context"

type Repository interface {
	// Upsert crea o reemplaza el mapping del par (booklet, doctor).
	Upsert(ctx context.Context, m Mapping) error

	// Get devuelve ErrNotFound si el par no tiene mapping.
	Get(ctx context.Context, bookletID, doctorUserID string) (Mapping, error)
}
