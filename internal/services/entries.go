package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/footfall/pkg/models"
)

// EntryRepository provides CRUD and statistics access to visit entries.
type EntryRepository interface {
	// List returns all entries, newest first, with store id and name.
	List(ctx context.Context, p Pagination) (*PagedResult[models.EntryDetail], error)

	// ListByStore returns one store's entries, newest first.
	ListByStore(ctx context.Context, storeID int64, p Pagination) (*PagedResult[models.StoreEntry], error)

	// ListByDate returns entries whose calendar date equals day.
	ListByDate(ctx context.Context, day time.Time, p Pagination) (*PagedResult[models.EntryDetail], error)

	// ListByStoreAndDate returns one store's entries on one calendar date.
	ListByStoreAndDate(ctx context.Context, storeID int64, day time.Time, p Pagination) (*PagedResult[models.StoreEntry], error)

	// ListByDateRange returns entries with timestamps in [start, end] inclusive.
	ListByDateRange(ctx context.Context, start, end time.Time, p Pagination) (*PagedResult[models.EntryDetail], error)

	// Create inserts a new entry. ErrStoreNotFound if the referenced store
	// does not exist.
	Create(ctx context.Context, entry *models.Entry) error

	// Update overwrites an entry's timestamp.
	Update(ctx context.Context, id int64, entryDate time.Time) error

	// Delete removes an entry by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteBulk removes every entry whose id is in ids. ErrNotFound when
	// no row matched.
	DeleteBulk(ctx context.Context, ids []int64) error

	// Statistics aggregates entries in [start, end] inclusive into daily
	// counts and per-store counts.
	Statistics(ctx context.Context, start, end time.Time) (*models.EntryStatistics, error)
}

// Compile-time interface guard.
var _ EntryRepository = (*SQLiteEntryRepository)(nil)

// SQLiteEntryRepository implements EntryRepository using SQLite.
type SQLiteEntryRepository struct {
	db *sql.DB
}

// NewSQLiteEntryRepository creates an EntryRepository. The stores and
// entries tables must already exist (created by store.Migrations).
func NewSQLiteEntryRepository(db *sql.DB) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{db: db}
}

func (r *SQLiteEntryRepository) List(ctx context.Context, p Pagination) (*PagedResult[models.EntryDetail], error) {
	return r.listDetail(ctx, p, "1=1")
}

func (r *SQLiteEntryRepository) ListByStore(ctx context.Context, storeID int64, p Pagination) (*PagedResult[models.StoreEntry], error) {
	return r.listStoreEntries(ctx, p, "e.store_id = ?", storeID)
}

func (r *SQLiteEntryRepository) ListByDate(ctx context.Context, day time.Time, p Pagination) (*PagedResult[models.EntryDetail], error) {
	return r.listDetail(ctx, p, "date(e.entry_date) = ?", day.UTC().Format(DateLayout))
}

func (r *SQLiteEntryRepository) ListByStoreAndDate(ctx context.Context, storeID int64, day time.Time, p Pagination) (*PagedResult[models.StoreEntry], error) {
	return r.listStoreEntries(ctx, p,
		"e.store_id = ? AND date(e.entry_date) = ?", storeID, day.UTC().Format(DateLayout))
}

func (r *SQLiteEntryRepository) ListByDateRange(ctx context.Context, start, end time.Time, p Pagination) (*PagedResult[models.EntryDetail], error) {
	return r.listDetail(ctx, p,
		"e.entry_date >= ? AND e.entry_date <= ?", formatTime(start), formatTime(end))
}

// listDetail runs the cross-store projection (id, store id, store name,
// timestamp) with the given filter, newest entries first.
func (r *SQLiteEntryRepository) listDetail(ctx context.Context, p Pagination, where string, args ...any) (*PagedResult[models.EntryDetail], error) {
	p = normalizePagination(p)

	total, err := r.countEntries(ctx, where, args)
	if err != nil {
		return nil, err
	}

	queryArgs := append(append([]any{}, args...), p.PageSize, p.offset())
	//nolint:gosec // where uses parameterized placeholders only
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.store_id, s.name, e.entry_date
		FROM entries e
		JOIN stores s ON s.id = e.store_id
		WHERE `+where+`
		ORDER BY e.entry_date DESC, e.id DESC
		LIMIT ? OFFSET ?`,
		queryArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var items []models.EntryDetail
	for rows.Next() {
		var e models.EntryDetail
		// The driver converts DATETIME columns to time.Time on read.
		if err := rows.Scan(&e.ID, &e.StoreID, &e.StoreName, &e.EntryDate); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return newPagedResult(p, total, items), nil
}

// listStoreEntries runs the single-store projection (id, timestamp) with the
// given filter, newest entries first.
func (r *SQLiteEntryRepository) listStoreEntries(ctx context.Context, p Pagination, where string, args ...any) (*PagedResult[models.StoreEntry], error) {
	p = normalizePagination(p)

	total, err := r.countEntries(ctx, where, args)
	if err != nil {
		return nil, err
	}

	queryArgs := append(append([]any{}, args...), p.PageSize, p.offset())
	//nolint:gosec // where uses parameterized placeholders only
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.entry_date
		FROM entries e
		WHERE `+where+`
		ORDER BY e.entry_date DESC, e.id DESC
		LIMIT ? OFFSET ?`,
		queryArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("list store entries: %w", err)
	}
	defer rows.Close()

	var items []models.StoreEntry
	for rows.Next() {
		var e models.StoreEntry
		if err := rows.Scan(&e.ID, &e.EntryDate); err != nil {
			return nil, fmt.Errorf("scan store entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store entries: %w", err)
	}

	return newPagedResult(p, total, items), nil
}

func (r *SQLiteEntryRepository) countEntries(ctx context.Context, where string, args []any) (int, error) {
	var total int
	//nolint:gosec // where uses parameterized placeholders only
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries e WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return total, nil
}

func (r *SQLiteEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	// No orphan creation: the referenced store must exist up front rather
	// than surfacing a raw FK violation.
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stores WHERE id = ?`, entry.StoreID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check store %d: %w", entry.StoreID, err)
	}
	if exists == 0 {
		return ErrStoreNotFound
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (store_id, entry_date) VALUES (?, ?)`,
		entry.StoreID, formatTime(entry.EntryDate),
	)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create entry id: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepository) Update(ctx context.Context, id int64, entryDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET entry_date = ? WHERE id = ?`,
		formatTime(entryDate), id,
	)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteEntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteEntryRepository) DeleteBulk(ctx context.Context, ids []int64) error {
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
		"DELETE FROM entries WHERE id IN ("+placeholders+")", args...,
	)
	if err != nil {
		return fmt.Errorf("bulk delete entries: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteEntryRepository) Statistics(ctx context.Context, start, end time.Time) (*models.EntryStatistics, error) {
	startArg, endArg := formatTime(start), formatTime(end)

	rows, err := r.db.QueryContext(ctx, `
		SELECT date(entry_date) AS day, COUNT(*)
		FROM entries
		WHERE entry_date >= ? AND entry_date <= ?
		GROUP BY day
		ORDER BY day ASC`,
		startArg, endArg,
	)
	if err != nil {
		return nil, fmt.Errorf("daily statistics: %w", err)
	}
	defer rows.Close()

	stats := &models.EntryStatistics{
		Daily:    []models.DateCount{},
		PerStore: []models.StoreCount{},
	}
	for rows.Next() {
		var dc models.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		stats.Daily = append(stats.Daily, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily statistics: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT e.store_id, s.name, COUNT(*) AS cnt
		FROM entries e
		JOIN stores s ON s.id = e.store_id
		WHERE e.entry_date >= ? AND e.entry_date <= ?
		GROUP BY e.store_id, s.name
		ORDER BY cnt DESC`,
		startArg, endArg,
	)
	if err != nil {
		return nil, fmt.Errorf("per-store statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.StoreCount
		if err := rows.Scan(&sc.StoreID, &sc.Name, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan store count: %w", err)
		}
		stats.PerStore = append(stats.PerStore, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate per-store statistics: %w", err)
	}

	return stats, nil
}
