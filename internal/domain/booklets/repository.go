package booklets

import "context"

type Repository interface {
	Create(ctx context.Context, b Booklet) error
	Update(ctx context.Context, b Booklet) error
	GetByID(ctx context.Context, id string) (Booklet, error)
	ListByMother(ctx context.Context, motherUserID string) ([]Booklet, error)
}
