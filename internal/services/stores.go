package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/footfall/pkg/models"
)

// StoreRepository provides CRUD and statistics access to stores.
type StoreRepository interface {
	// List returns a searched, sorted, paginated page of store summaries.
	List(ctx context.Context, p Pagination) (*PagedResult[models.StoreSummary], error)

	// Get returns a single store by ID.
	Get(ctx context.Context, id int64) (*models.Store, error)

	// Create inserts a new store and assigns its engine ID.
	Create(ctx context.Context, store *models.Store) error

	// Update overwrites name, city, and country of an existing store.
	Update(ctx context.Context, store *models.Store) error

	// Delete removes a store by ID; its entries are cascade-deleted.
	Delete(ctx context.Context, id int64) error

	// DeleteBulk removes every store whose id is in ids. ErrNotFound when
	// no row matched.
	DeleteBulk(ctx context.Context, ids []int64) error

	// Statistics returns daily entry counts for one store over an inclusive
	// datetime range, ascending by calendar date.
	Statistics(ctx context.Context, id int64, start, end time.Time) ([]models.DateCount, error)
}

// Compile-time interface guard.
var _ StoreRepository = (*SQLiteStoreRepository)(nil)

// SQLiteStoreRepository implements StoreRepository using SQLite.
type SQLiteStoreRepository struct {
	db *sql.DB
}

// NewSQLiteStoreRepository creates a StoreRepository. The stores and entries
// tables must already exist (created by store.Migrations).
func NewSQLiteStoreRepository(db *sql.DB) *SQLiteStoreRepository {
	return &SQLiteStoreRepository{db: db}
}

// storeSortColumns maps sort-expression fields to ORDER BY columns.
var storeSortColumns = map[string]string{
	"id":      "s.id",
	"name":    "s.name",
	"entries": "entry_count",
}

func (r *SQLiteStoreRepository) List(ctx context.Context, p Pagination) (*PagedResult[models.StoreSummary], error) {
	p = normalizePagination(p)

	where := "1=1"
	var args []any
	if p.Search != "" {
		where += " AND LOWER(s.name) LIKE ?"
		args = append(args, "%"+p.Search+"%")
	}

	var total int
	//nolint:gosec // where uses parameterized placeholders only
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stores s WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count stores: %w", err)
	}

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, p.PageSize, p.offset())

	//nolint:gosec // where is parameterized and the sort clause is validated against storeSortColumns
	query := fmt.Sprintf(`
		SELECT s.id, s.name,
			(SELECT COUNT(*) FROM entries e WHERE e.store_id = s.id) AS entry_count
		FROM stores s
		WHERE %s
		ORDER BY %s
		LIMIT ? OFFSET ?`,
		where, sortClause(p.Sort, storeSortColumns, "s.id"),
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var items []models.StoreSummary
	for rows.Next() {
		var s models.StoreSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.EntryCount); err != nil {
			return nil, fmt.Errorf("scan store summary: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}

	return newPagedResult(p, total, items), nil
}

func (r *SQLiteStoreRepository) Get(ctx context.Context, id int64) (*models.Store, error) {
	var s models.Store
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, city, country FROM stores WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.City, &s.Country)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get store %d: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteStoreRepository) Create(ctx context.Context, store *models.Store) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (name, city, country) VALUES (?, ?, ?)`,
		store.Name, store.City, store.Country,
	)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	store.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create store id: %w", err)
	}
	return nil
}

func (r *SQLiteStoreRepository) Update(ctx context.Context, store *models.Store) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET name = ?, city = ?, country = ? WHERE id = ?`,
		store.Name, store.City, store.Country, store.ID,
	)
	if err != nil {
		return fmt.Errorf("update store %d: %w", store.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteStoreRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete store %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteStoreRepository) DeleteBulk(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return ErrNotFound
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	//nolint:gosec // placeholders is built from "?" tokens only
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM stores WHERE id IN ("+placeholders+")", args...,
	)
	if err != nil {
		return fmt.Errorf("bulk delete stores: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteStoreRepository) Statistics(ctx context.Context, id int64, start, end time.Time) ([]models.DateCount, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stores WHERE id = ?`, id,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check store %d: %w", id, err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	// Bounds compare as full datetimes; grouping is by calendar date.
	rows, err := r.db.QueryContext(ctx, `
		SELECT date(entry_date) AS day, COUNT(*)
		FROM entries
		WHERE store_id = ? AND entry_date >= ? AND entry_date <= ?
		GROUP BY day
		ORDER BY day ASC`,
		id, formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("store %d statistics: %w", id, err)
	}
	defer rows.Close()

	stats := []models.DateCount{}
	for rows.Next() {
		var dc models.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		stats = append(stats, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statistics: %w", err)
	}
	return stats, nil
}
