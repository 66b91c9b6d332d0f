package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"maternal-booklet/internal/domain/access"
)

type TokensRepo struct {
	db *sql.DB
}

func NewTokensRepo(db *sql.DB) *TokensRepo {
	return &TokensRepo{db: db}
}

func (r *TokensRepo) Create(ctx context.Context, t access.Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_tokens (
			id, booklet_id, issued_at, expires_at,
			consumed_at, consumed_by
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		t.ID,
		t.BookletID,
		t.IssuedAt,
		t.ExpiresAt,
		toNullTime(t.ConsumedAt),
		nullString(t.ConsumedBy),
	)
	return err
}

func (r *TokensRepo) GetByID(ctx context.Context, id string) (access.Token, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return access.Token{}, access.ErrTokenNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, booklet_id, issued_at, expires_at, consumed_at, consumed_by
		FROM access_tokens
		WHERE id = $1
	`, id)

	return scanToken(row)
}

// Consume es el punto de exclusión mutua del protocolo: un UPDATE
// condicional sobre consumed_at IS NULL. De dos canjes concurrentes del
// mismo token el motor serializa uno solo con rows=1; el otro ve rows=0 y
// se re-lee el token para distinguir "no existe" de "ya usado".
func (r *TokensRepo) Consume(ctx context.Context, id, doctorUserID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_tokens
		SET consumed_at = $2, consumed_by = $3
		WHERE id = $1
		  AND consumed_at IS NULL
	`, id, at, doctorUserID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err // ErrTokenNotFound o error del store
	}
	return access.ErrTokenAlreadyUsed
}

func scanToken(row *sql.Row) (access.Token, error) {
	var t access.Token
	var consumedAt sql.NullTime
	var consumedBy sql.NullString

	if err := row.Scan(
		&t.ID,
		&t.BookletID,
		&t.IssuedAt,
		&t.ExpiresAt,
		&consumedAt,
		&consumedBy,
	); err != nil {
		if err == sql.ErrNoRows {
			return access.Token{}, access.ErrTokenNotFound
		}
		return access.Token{}, err
	}

	t.ConsumedAt = fromNullTime(consumedAt)
	if consumedBy.Valid {
		t.ConsumedBy = consumedBy.String
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
