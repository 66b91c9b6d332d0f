package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"maternal-booklet/internal/domain/access"

	"github.com/jackc/pgx/v5/pgconn"
)

type GrantsRepo struct {
	db *sql.DB
}

func NewGrantsRepo(db *sql.DB) *GrantsRepo {
	return &GrantsRepo{db: db}
}

// Create inserta el grant. La unicidad de grant activo por par la garantiza
// el índice único parcial access_grants_one_active_per_pair (ver
// migrations/0001_init.sql): si otro canje ya dejó un grant vigente para el
// par, el INSERT viola el índice y se traduce a ErrActiveGrantExists para
// que el servicio relea al ganador.
func (r *GrantsRepo) Create(ctx context.Context, g access.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (
			id, booklet_id, doctor_user_id, granted_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		g.ID,
		g.BookletID,
		g.DoctorUserID,
		g.GrantedAt,
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "access_grants_one_active_per_pair" {
			return access.ErrActiveGrantExists
		}
		return err
	}
	return nil
}

func (r *GrantsRepo) Update(ctx context.Context, g access.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET revoked_at = $2
		WHERE id = $1
	`,
		g.ID,
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *GrantsRepo) GetActiveGrant(ctx context.Context, bookletID, doctorUserID string) (access.Grant, error) {
	bookletID = strings.TrimSpace(bookletID)
	doctorUserID = strings.TrimSpace(doctorUserID)
	if bookletID == "" || doctorUserID == "" {
		return access.Grant{}, access.ErrNoActiveGrant
	}

	// Por invariante hay a lo sumo un grant con revoked_at IS NULL por par;
	// el ORDER BY es defensivo ante data sucia.
	row := r.db.QueryRowContext(ctx, `
		SELECT id, booklet_id, doctor_user_id, granted_at, revoked_at
		FROM access_grants
		WHERE booklet_id = $1
		  AND doctor_user_id = $2
		  AND revoked_at IS NULL
		ORDER BY granted_at DESC
		LIMIT 1
	`, bookletID, doctorUserID)

	var g access.Grant
	var revokedAt sql.NullTime

	if err := row.Scan(
		&g.ID,
		&g.BookletID,
		&g.DoctorUserID,
		&g.GrantedAt,
		&revokedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return access.Grant{}, access.ErrNoActiveGrant
		}
		return access.Grant{}, err
	}

	g.RevokedAt = fromNullTime(revokedAt)
	return g, nil
}

func (r *GrantsRepo) ListByBooklet(ctx context.Context, bookletID string) ([]access.Grant, error) {
	bookletID = strings.TrimSpace(bookletID)
	if bookletID == "" {
		return nil, nil
	}

	return r.list(ctx, `
		SELECT id, booklet_id, doctor_user_id, granted_at, revoked_at
		FROM access_grants
		WHERE booklet_id = $1
		ORDER BY granted_at ASC
	`, bookletID)
}

func (r *GrantsRepo) ListByDoctor(ctx context.Context, doctorUserID string) ([]access.Grant, error) {
	doctorUserID = strings.TrimSpace(doctorUserID)
	if doctorUserID == "" {
		return nil, nil
	}

	return r.list(ctx, `
		SELECT id, booklet_id, doctor_user_id, granted_at, revoked_at
		FROM access_grants
		WHERE doctor_user_id = $1
		ORDER BY granted_at DESC
	`, doctorUserID)
}

func (r *GrantsRepo) list(ctx context.Context, query string, arg any) ([]access.Grant, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]access.Grant, 0)
	for rows.Next() {
		var g access.Grant
		var revokedAt sql.NullTime

		if err := rows.Scan(
			&g.ID,
			&g.BookletID,
			&g.DoctorUserID,
			&g.GrantedAt,
			&revokedAt,
		); err != nil {
			return nil, err
		}

		g.RevokedAt = fromNullTime(revokedAt)
		out = append(out, g)
	}

	return out, rows.Err()
}
