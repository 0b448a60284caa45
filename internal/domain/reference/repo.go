package reference

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for reference values.
type Repository interface {
	Create(ctx context.Context, v *Value) error
	GetByID(ctx context.Context, id uuid.UUID) (*Value, error)
	List(ctx context.Context, f Filter) ([]*Value, error)
	Update(ctx context.Context, v *Value) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	ReplaceAll(ctx context.Context, values []*Value) error
}
