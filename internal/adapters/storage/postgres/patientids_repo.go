package postgres

import (
	"context"
	"database/sql"
	"strings"

	"maternal-booklet/internal/domain/patientids"
)

type PatientIDsRepo struct {
	db *sql.DB
}

func NewPatientIDsRepo(db *sql.DB) *PatientIDsRepo {
	return &PatientIDsRepo{db: db}
}

// Upsert escribe el mapping del par (booklet, doctor). El UNIQUE
// (booklet_id, doctor_user_id) de la tabla hace el conflicto explícito.
func (r *PatientIDsRepo) Upsert(ctx context.Context, m patientids.Mapping) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_id_mappings (
			id, booklet_id, doctor_user_id,
			external_ref, label,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (booklet_id, doctor_user_id) DO UPDATE
		SET external_ref = EXCLUDED.external_ref,
		    label = EXCLUDED.label,
		    updated_at = EXCLUDED.updated_at
	`,
		m.ID,
		m.BookletID,
		m.DoctorUserID,
		m.ExternalRef,
		m.Label,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *PatientIDsRepo) Get(ctx context.Context, bookletID, doctorUserID string) (patientids.Mapping, error) {
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	if bookletID == "" || doctorUserID == "" {
		return patientids.Mapping{}, patientids.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, booklet_id, doctor_user_id, external_ref, label, created_at, updated_at
		FROM patient_id_mappings
		WHERE booklet_id = $1
		  AND doctor_user_id = $2
	`, bookletID, doctorUserID)

	var m patientids.Mapping

	if err := row.Scan(
		&m.ID,
		&m.BookletID,
		&m.DoctorUserID,
		&m.ExternalRef,
		&m.Label,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return patientids.Mapping{}, patientids.ErrNotFound
		}
		return patientids.Mapping{}, err
	}

	return m, nil
}
