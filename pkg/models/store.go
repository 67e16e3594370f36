// Package models defines the domain types and list/statistics projections
// shared between the Footfall repositories and the HTTP API.
package models

// MaxFieldLen is the maximum length of the store name, city, and country
// fields, enforced at the HTTP boundary and by a schema CHECK constraint.
const MaxFieldLen = 100

// Store represents a tracked retail location. A store owns its entries:
// deleting a store cascade-deletes every entry recorded against it.
type Store struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// StoreSummary is the list projection for stores: identity, name, and the
// number of entries currently recorded against the store.
type StoreSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	EntryCount int64  `json:"entryCount"`
}

// DateCount is one row of a daily statistics aggregate: the calendar date
// (yyyy-MM-dd) and the number of entries recorded on it.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// StoreCount is one row of a per-store statistics aggregate. Name reflects
// the store's current name at query time.
type StoreCount struct {
	StoreID int64  `json:"storeId"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}
