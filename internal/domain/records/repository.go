package records

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rec BookletRecord) error
	GetByID(ctx context.Context, id string) (BookletRecord, error)
	ListByBooklet(ctx context.Context, bookletID string, filter ListFilter) ([]BookletRecord, error)
	Void(ctx context.Context, id string) error
}

type ListFilter struct {
	Types []RecordType
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}
