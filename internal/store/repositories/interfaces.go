package repositories

import (
	"context"

	"listkit/internal/domain/worker"
	"listkit/internal/drilldown"
)

// WorkerQuery selects a window of mobile workers in a project domain.
type WorkerQuery struct {
	Domain          string
	Search          string
	DeactivatedOnly bool
	Limit           int
	Offset          int
}

// WorkerRepository defines the contract for mobile worker data access
type WorkerRepository interface {
	Search(ctx context.Context, q WorkerQuery) ([]worker.Record, error)
	Count(ctx context.Context, q WorkerQuery) (int, error)
}

// LocationRepository defines the contract for location hierarchy access
type LocationRepository interface {
	Hierarchy(ctx context.Context, domain string) ([]drilldown.FlatNode, error)
}
