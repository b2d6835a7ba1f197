package directory

import (
	"context"

	"listkit/internal/domain/worker"
	"listkit/internal/drilldown"
	"listkit/internal/listing"
	"listkit/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Service serves the mobile worker list and the location drilldown.
type Service struct {
	workers   repositories.WorkerRepository
	locations repositories.LocationRepository
	limits    Limits
}

// NewService creates a new directory service
func NewService(workers repositories.WorkerRepository, locations repositories.LocationRepository, limits Limits) *Service {
	return &Service{
		workers:   workers,
		locations: locations,
		limits:    limits,
	}
}

// ListWorkers returns one page of mobile workers in domain and the total
// number of workers matching the same query.
func (s *Service) ListWorkers(ctx context.Context, domain string, req ListRequest) (listing.PageResult[worker.MobileWorker], error) {
	req.Normalize(s.limits)

	q := repositories.WorkerQuery{
		Domain:          domain,
		Search:          req.Query,
		DeactivatedOnly: req.DeactivatedOnly,
		Limit:           req.Limit,
		Offset:          req.Offset(),
	}

	records, err := s.workers.Search(ctx, q)
	if err != nil {
		return listing.PageResult[worker.MobileWorker]{}, &ServiceError{Op: "list_workers", Err: err}
	}
	total, err := s.workers.Count(ctx, q)
	if err != nil {
		return listing.PageResult[worker.MobileWorker]{}, &ServiceError{Op: "count_workers", Err: err}
	}

	items := make([]worker.MobileWorker, 0, len(records))
	for _, r := range records {
		items = append(items, r.ToListItem())
	}

	log.Debug().
		Str("domain", domain).
		Int("page", req.Page).
		Int("limit", req.Limit).
		Int("returned", len(items)).
		Int("total", total).
		Msg("listed mobile workers")

	return listing.PageResult[worker.MobileWorker]{Items: items, Total: total}, nil
}

// LocationDrilldown returns the location hierarchy of domain as a
// drilldown tree.
func (s *Service) LocationDrilldown(ctx context.Context, domain string) (drilldown.Map, error) {
	rows, err := s.locations.Hierarchy(ctx, domain)
	if err != nil {
		return nil, &ServiceError{Op: "location_drilldown", Err: err}
	}
	return drilldown.BuildMap(rows), nil
}

// ServiceError represents a directory service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "directory service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
