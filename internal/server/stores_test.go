package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/footfall/internal/server"
	"github.com/HerbHall/footfall/internal/services"
	"github.com/HerbHall/footfall/internal/testutil"
	"github.com/HerbHall/footfall/pkg/models"
)

// newTestServer builds a Server over an in-memory database and returns its
// handler plus the repositories for seeding.
func newTestServer(t *testing.T) (http.Handler, services.StoreRepository, services.EntryRepository) {
	t.Helper()
	db := testutil.NewStore(t)
	stores := services.NewSQLiteStoreRepository(db.DB())
	entries := services.NewSQLiteEntryRepository(db.DB())
	srv := server.New("127.0.0.1:0", stores, entries, testutil.Logger())
	return srv.Handler(), stores, entries
}

// do executes a request against the handler and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return m
}

func seedStore(t *testing.T, repo services.StoreRepository, name string) int64 {
	t.Helper()
	s := models.Store{Name: name, City: "Warsaw", Country: "Poland"}
	if err := repo.Create(context.Background(), &s); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s.ID
}

func seedEntry(t *testing.T, repo services.EntryRepository, storeID int64, ts time.Time) int64 {
	t.Helper()
	e := models.Entry{StoreID: storeID, EntryDate: ts}
	if err := repo.Create(context.Background(), &e); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return e.ID
}

func TestHandleCreateStore(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "POST", "/api/v1/stores",
		map[string]string{"name": "Store Warsaw", "city": "Warsaw", "country": "Poland"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["status"] != true {
		t.Errorf("status field = %v, want true", body["status"])
	}
	if body["id"].(float64) < 1 {
		t.Errorf("id = %v, want positive", body["id"])
	}
}

func TestHandleCreateStoreValidation(t *testing.T) {
	h, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"city": "Warsaw", "country": "Poland"}},
		{"blank city", map[string]string{"name": "Store", "city": "  ", "country": "Poland"}},
		{"name too long", map[string]string{
			"name": strings.Repeat("x", 101), "city": "Warsaw", "country": "Poland"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/api/v1/stores", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if body := decode(t, rec); body["status"] != false {
				t.Errorf("status field = %v, want false", body["status"])
			}
		})
	}
}

func TestHandleGetStore(t *testing.T) {
	h, stores, _ := newTestServer(t)
	id := seedStore(t, stores, "Store Warsaw")

	rec := do(t, h, "GET", fmt.Sprintf("/api/v1/stores/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["name"] != "Store Warsaw" || body["city"] != "Warsaw" || body["country"] != "Poland" {
		t.Errorf("record = %v, want full store", body)
	}
}

func TestHandleGetStoreNotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/v1/stores/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != false {
		t.Errorf("status field = %v, want false", body["status"])
	}
	if body["message"] != "Store not found" {
		t.Errorf("message = %v, want %q", body["message"], "Store not found")
	}
}

func TestHandleListStoresPagination(t *testing.T) {
	h, stores, _ := newTestServer(t)
	for _, name := range []string{"Store Warsaw", "Store Berlin", "Store Paris"} {
		seedStore(t, stores, name)
	}

	rec := do(t, h, "GET", "/api/v1/stores?page=1&pageSize=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["totalItems"].(float64) != 3 {
		t.Errorf("totalItems = %v, want 3", body["totalItems"])
	}
	if body["totalPages"].(float64) != 2 {
		t.Errorf("totalPages = %v, want 2", body["totalPages"])
	}
	if items := body["items"].([]any); len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestHandleListStoresSearchNoMatch(t *testing.T) {
	h, stores, _ := newTestServer(t)
	seedStore(t, stores, "Store Warsaw")

	rec := do(t, h, "GET", "/api/v1/stores?search=madrid", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != true {
		t.Errorf("status field = %v, want true (no match is not an error)", body["status"])
	}
	if body["totalItems"].(float64) != 0 {
		t.Errorf("totalItems = %v, want 0", body["totalItems"])
	}
	if items := body["items"].([]any); len(items) != 0 {
		t.Errorf("items = %v, want empty", items)
	}
}

func TestHandleUpdateStore(t *testing.T) {
	h, stores, _ := newTestServer(t)
	id := seedStore(t, stores, "Old Name")

	rec := do(t, h, "PUT", fmt.Sprintf("/api/v1/stores/%d", id),
		map[string]string{"name": "New Name", "city": "Berlin", "country": "Germany"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	got, err := stores.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "New Name" || got.City != "Berlin" || got.Country != "Germany" {
		t.Errorf("store = %+v, want replaced fields", got)
	}
}

func TestHandleUpdateStoreNotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "PUT", "/api/v1/stores/9999",
		map[string]string{"name": "Name", "city": "City", "country": "Country"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDeleteStore(t *testing.T) {
	h, stores, _ := newTestServer(t)
	id := seedStore(t, stores, "Store")

	rec := do(t, h, "DELETE", fmt.Sprintf("/api/v1/stores/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = do(t, h, "DELETE", fmt.Sprintf("/api/v1/stores/%d", id), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestHandleDeleteStoresBulk(t *testing.T) {
	h, stores, _ := newTestServer(t)
	a := seedStore(t, stores, "A")
	b := seedStore(t, stores, "B")

	// Empty list is a validation failure.
	rec := do(t, h, "DELETE", "/api/v1/stores/bulk", []int64{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty list status = %d, want 400", rec.Code)
	}

	// All-nonexistent set is an aggregate failure.
	rec = do(t, h, "DELETE", "/api/v1/stores/bulk", []int64{9998, 9999})
	if rec.Code != http.StatusNotFound {
		t.Errorf("no-match status = %d, want 404", rec.Code)
	}
	if body := decode(t, rec); body["message"] != "No stores found" {
		t.Errorf("message = %v, want %q", body["message"], "No stores found")
	}

	// Partial match succeeds.
	rec = do(t, h, "DELETE", "/api/v1/stores/bulk", []int64{a, b, 9999})
	if rec.Code != http.StatusOK {
		t.Errorf("partial match status = %d, want 200", rec.Code)
	}
}

func TestHandleStoreStatistics(t *testing.T) {
	h, stores, entries := newTestServer(t)
	id := seedStore(t, stores, "Store Warsaw")
	seedEntry(t, entries, id, time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC))
	seedEntry(t, entries, id, time.Date(2026, 2, 3, 14, 0, 0, 0, time.UTC))
	seedEntry(t, entries, id, time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC))

	rec := do(t, h, "GET",
		fmt.Sprintf("/api/v1/stores/statistics/%d?startDate=2026-02-01&endDate=2026-02-05", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	stats := body["statistics"].([]any)
	if len(stats) != 2 {
		t.Fatalf("statistics rows = %d, want 2", len(stats))
	}
	first := stats[0].(map[string]any)
	if first["date"] != "2026-02-03" || first["count"].(float64) != 2 {
		t.Errorf("first row = %v, want 2026-02-03 count 2", first)
	}
}

func TestHandleStoreStatisticsInvertedRange(t *testing.T) {
	h, stores, _ := newTestServer(t)
	id := seedStore(t, stores, "Store")

	rec := do(t, h, "GET",
		fmt.Sprintf("/api/v1/stores/statistics/%d?startDate=2026-02-05&endDate=2026-02-01", id), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleStoreStatisticsStoreNotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "GET",
		"/api/v1/stores/statistics/9999?startDate=2026-02-01&endDate=2026-02-05", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["service"] != "footfall" {
		t.Errorf("service = %v, want footfall", body["service"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, "GET", "/api/v1/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	// A caller-provided ID is echoed back.
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}
