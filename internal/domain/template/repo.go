package template

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for templates. Listings are ordered
// by sort order ascending with insertion order breaking ties.
type Repository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	ListBySection(ctx context.Context, sectionName string) ([]*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	ReplaceAll(ctx context.Context, templates []*Template) error
}
