package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"maternal-booklet/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.BookletRecord) error {
	// jsonb nullable: sin detalle se guarda NULL, no un string vacío
	var details []byte
	if len(rec.Details) > 0 {
		details = rec.Details
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO booklet_records (
			id, booklet_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		rec.ID,
		rec.BookletID,
		string(rec.Type),
		rec.OccurredAt,
		rec.RecordedAt,
		rec.Title,
		rec.Notes,
		details,
		string(rec.Actor.Type),
		rec.Actor.ID,
		string(rec.Source),
		string(rec.Status),
	)
	return err
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.BookletRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.BookletRecord{}, records.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, booklet_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		FROM booklet_records
		WHERE id = $1
	`, id)

	var rec records.BookletRecord
	var typ, actorType, source, status string
	var details []byte

	if err := row.Scan(
		&rec.ID,
		&rec.BookletID,
		&typ,
		&rec.OccurredAt,
		&rec.RecordedAt,
		&rec.Title,
		&rec.Notes,
		&details,
		&actorType,
		&rec.Actor.ID,
		&source,
		&status,
	); err != nil {
		if err == sql.ErrNoRows {
			return records.BookletRecord{}, records.ErrNotFound
		}
		return records.BookletRecord{}, err
	}

	rec.Type = records.RecordType(typ)
	rec.Details = details
	rec.Actor.Type = records.ActorType(actorType)
	rec.Source = records.Source(source)
	rec.Status = records.RecordStatus(status)

	return rec, nil
}

func (r *RecordsRepo) ListByBooklet(ctx context.Context, bookletID string, filter records.ListFilter) ([]records.BookletRecord, error) {
	bookletID = strings.TrimSpace(bookletID)
	if bookletID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, booklet_id,
			type, occurred_at, recorded_at,
			title, notes, details,
			actor_type, actor_id,
			source, status
		FROM booklet_records
		WHERE booklet_id = $1
	`)

	args := []any{bookletID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	if strings.TrimSpace(filter.Query) != "" {
		sb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR notes ILIKE $%d)", argN, argN))
		args = append(args, "%"+strings.TrimSpace(filter.Query)+"%")
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY occurred_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.BookletRecord, 0)
	for rows.Next() {
		var rec records.BookletRecord
		var typ, actorType, source, status string
		var details []byte

		if err := rows.Scan(
			&rec.ID,
			&rec.BookletID,
			&typ,
			&rec.OccurredAt,
			&rec.RecordedAt,
			&rec.Title,
			&rec.Notes,
			&details,
			&actorType,
			&rec.Actor.ID,
			&source,
			&status,
		); err != nil {
			return nil, err
		}

		rec.Type = records.RecordType(typ)
		rec.Details = details
		rec.Actor.Type = records.ActorType(actorType)
		rec.Source = records.Source(source)
		rec.Status = records.RecordStatus(status)

		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *RecordsRepo) Void(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE booklet_records
		SET status = 'voided'
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}
