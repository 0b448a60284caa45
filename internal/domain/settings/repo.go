package settings

import "context"

// Repository persists the singleton settings row. Get returns Defaults()
// when nothing has been saved yet.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}
