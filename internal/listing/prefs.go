package listing

import "context"

// LimitStore persists the page size a user picked for a list, keyed by the
// list name.
type LimitStore interface {
	GetLimit(ctx context.Context, key string) (int, bool, error)
	SetLimit(ctx context.Context, key string, limit int) error
}
