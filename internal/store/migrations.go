package store

import "database/sql"

// Migrations returns the footfall schema migrations: the stores and entries
// tables plus the indexes backing the list, date-filter, and statistics
// query patterns.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create stores and entries tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE stores (
						id      INTEGER PRIMARY KEY AUTOINCREMENT,
						name    TEXT NOT NULL CHECK (length(name) > 0 AND length(name) <= 100),
						city    TEXT NOT NULL CHECK (length(city) > 0 AND length(city) <= 100),
						country TEXT NOT NULL CHECK (length(country) > 0 AND length(country) <= 100)
					)`,
					`CREATE INDEX idx_stores_name ON stores(name)`,
					`CREATE TABLE entries (
						id         INTEGER PRIMARY KEY AUTOINCREMENT,
						store_id   INTEGER NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
						entry_date DATETIME NOT NULL
					)`,
					`CREATE INDEX idx_entries_entry_date ON entries(entry_date)`,
					`CREATE INDEX idx_entries_store_date ON entries(store_id, entry_date)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
