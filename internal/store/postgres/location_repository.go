package postgres

import (
	"context"

	"listkit/internal/drilldown"
	"listkit/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

type locationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *pgxpool.Pool) repositories.LocationRepository {
	return &locationRepository{db: db}
}

// Hierarchy returns every unarchived location of domain with its parent
func (r *locationRepository) Hierarchy(ctx context.Context, domain string) ([]drilldown.FlatNode, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(parent_id, ''), name
		FROM locations
		WHERE domain = $1 AND NOT archived`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []drilldown.FlatNode
	for rows.Next() {
		var n drilldown.FlatNode
		if err := rows.Scan(&n.ID, &n.ParentID, &n.Label); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
