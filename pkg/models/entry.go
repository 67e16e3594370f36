package models

import "time"

// Entry represents a single customer visit recorded against a store.
type Entry struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeId"`
	EntryDate time.Time `json:"entryDate"`
}

// EntryDetail is the cross-store list projection: each row carries the
// owning store's id and current name so the list is readable on its own.
type EntryDetail struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeId"`
	StoreName string    `json:"storeName"`
	EntryDate time.Time `json:"entryDate"`
}

// StoreEntry is the projection used when listing entries of a single store:
// the caller already knows which store it asked about.
type StoreEntry struct {
	ID        int64     `json:"id"`
	EntryDate time.Time `json:"entryDate"`
}

// EntryStatistics holds the two projections of one date-range aggregation:
// entry counts per calendar date (ascending by date) and per store
// (descending by count). Stores with no entries in range are absent.
type EntryStatistics struct {
	Daily    []DateCount  `json:"daily"`
	PerStore []StoreCount `json:"perStore"`
}
