package postgres

import (
	"context"
	"strings"
	"time"

	"listkit/internal/domain/worker"
	"listkit/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// workerRepository implements WorkerRepository on the mobile_workers table
type workerRepository struct {
	db *pgxpool.Pool
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *pgxpool.Pool) repositories.WorkerRepository {
	return &workerRepository{db: db}
}

const workerFilter = `
	WHERE domain = $1
	  AND is_active = NOT $2
	  AND ($3 = '' OR username ILIKE $3 OR first_name ILIKE $3 OR last_name ILIKE $3)`

// Search returns one window of workers ordered by username
func (r *workerRepository) Search(ctx context.Context, q repositories.WorkerQuery) ([]worker.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, domain, username, first_name, last_name, created_on, is_active
		FROM mobile_workers`+workerFilter+`
		ORDER BY username ASC, id ASC
		LIMIT $4 OFFSET $5`,
		q.Domain, q.DeactivatedOnly, likePattern(q.Search), q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []worker.Record{}
	for rows.Next() {
		rec, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of workers matching q, ignoring Limit and Offset
func (r *workerRepository) Count(ctx context.Context, q repositories.WorkerQuery) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM mobile_workers`+workerFilter,
		q.Domain, q.DeactivatedOnly, likePattern(q.Search)).Scan(&total)
	return total, err
}

func scanWorker(row pgx.Row) (worker.Record, error) {
	var rec worker.Record
	var createdOn *time.Time
	if err := row.Scan(&rec.ID, &rec.Domain, &rec.Username, &rec.FirstName, &rec.LastName, &createdOn, &rec.IsActive); err != nil {
		return worker.Record{}, err
	}
	rec.CreatedOn = createdOn
	return rec, nil
}

// likePattern turns a search string into a contains pattern with LIKE
// wildcards escaped. An empty search stays empty and matches everything.
func likePattern(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}
