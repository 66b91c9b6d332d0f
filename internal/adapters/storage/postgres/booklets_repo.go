package postgres

import (
	"context"
	"database/sql"
	"strings"

	"maternal-booklet/internal/domain/booklets"
)

type BookletsRepo struct {
	db *sql.DB
}

func NewBookletsRepo(db *sql.DB) *BookletsRepo {
	return &BookletsRepo{db: db}
}

func (r *BookletsRepo) Create(ctx context.Context, b booklets.Booklet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO booklets (
			id, mother_user_id, label, status, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		b.ID,
		b.MotherUserID,
		b.Label,
		string(b.Status),
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *BookletsRepo) Update(ctx context.Context, b booklets.Booklet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE booklets
		SET label = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $1
	`,
		b.ID,
		b.Label,
		string(b.Status),
		b.Notes,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return booklets.ErrNotFound
	}
	return nil
}

func (r *BookletsRepo) GetByID(ctx context.Context, id string) (booklets.Booklet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return booklets.Booklet{}, booklets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, mother_user_id, label, status, notes, created_at, updated_at
		FROM booklets
		WHERE id = $1
	`, id)

	var b booklets.Booklet
	var status string

	if err := row.Scan(
		&b.ID,
		&b.MotherUserID,
		&b.Label,
		&status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return booklets.Booklet{}, booklets.ErrNotFound
		}
		return booklets.Booklet{}, err
	}

	b.Status = booklets.Status(status)
	return b, nil
}

func (r *BookletsRepo) ListByMother(ctx context.Context, motherUserID string) ([]booklets.Booklet, error) {
	motherUserID = strings.TrimSpace(motherUserID)
	if motherUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, mother_user_id, label, status, notes, created_at, updated_at
		FROM booklets
		WHERE mother_user_id = $1
		ORDER BY created_at DESC
	`, motherUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]booklets.Booklet, 0)
	for rows.Next() {
		var b booklets.Booklet
		var status string

		if err := rows.Scan(
			&b.ID,
			&b.MotherUserID,
			&b.Label,
			&status,
			&b.Notes,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}

		b.Status = booklets.Status(status)
		out = append(out, b)
	}

	return out, rows.Err()
}
