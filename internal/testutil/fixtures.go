package testutil

import (
	"time"

	"github.com/HerbHall/footfall/pkg/models"
)

// NewStoreFixture returns a Store with sensible defaults, suitable for
// test fixtures. Override individual fields via options as needed.
func NewStoreFixture(opts ...func(*models.Store)) models.Store {
	s := models.Store{
		Name:    "Store Test",
		City:    "Warsaw",
		Country: "Poland",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithName sets the store name.
func WithName(name string) func(*models.Store) {
	return func(s *models.Store) { s.Name = name }
}

// WithCity sets the store city.
func WithCity(city string) func(*models.Store) {
	return func(s *models.Store) { s.City = city }
}

// WithCountry sets the store country.
func WithCountry(country string) func(*models.Store) {
	return func(s *models.Store) { s.Country = country }
}

// NewEntryFixture returns an Entry against the given store.
func NewEntryFixture(storeID int64, opts ...func(*models.Entry)) models.Entry {
	e := models.Entry{
		StoreID:   storeID,
		EntryDate: time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithEntryDate sets the entry timestamp.
func WithEntryDate(t time.Time) func(*models.Entry) {
	return func(e *models.Entry) { e.EntryDate = t }
}
