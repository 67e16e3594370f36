package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/HerbHall/footfall/internal/services"
	"github.com/HerbHall/footfall/pkg/models"
	"go.uber.org/zap"
)

// storeRequest is the JSON body for POST /stores and PUT /stores/{id}.
type storeRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// validate enforces the non-empty, max-length field constraints.
func (req *storeRequest) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"city", req.City},
		{"country", req.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		if len(f.value) > models.MaxFieldLen {
			return fmt.Errorf("%s must be at most %d characters", f.name, models.MaxFieldLen)
		}
	}
	return nil
}

// storeResponse is the single-record payload for GET /stores/{id}.
type storeResponse struct {
	Envelope
	models.Store
}

// storeStatisticsResponse carries daily entry counts for one store.
type storeStatisticsResponse struct {
	Envelope
	Statistics []models.DateCount `json:"statistics"`
}

// handleListStores returns a paginated page of store summaries.
//
//	@Summary		List stores
//	@Description	Returns stores with entry counts, searched, sorted, and paginated.
//	@Tags			stores
//	@Produce		json
//	@Param			page query int false "Page number" default(1)
//	@Param			pageSize query int false "Page size (max 50)" default(10)
//	@Param			sort query string false "Sort expression (field:direction)"
//	@Param			search query string false "Substring filter on name"
//	@Success		200 {object} pagedResponse[models.StoreSummary]
//	@Router			/stores [get]
func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	result, err := s.stores.List(r.Context(), queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list stores", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list stores")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleGetStore returns a single store by ID.
//
//	@Summary		Get store
//	@Tags			stores
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Success		200 {object} storeResponse
//	@Failure		404 {object} Envelope
//	@Router			/stores/{id} [get]
func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	store, err := s.stores.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Store not found")
			return
		}
		s.logger.Warn("failed to get store", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to get store")
		return
	}

	writeJSON(w, http.StatusOK, storeResponse{Envelope: okEnvelope(), Store: *store})
}

// handleCreateStore inserts a new store.
//
//	@Summary		Create store
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			body body storeRequest true "Store fields"
//	@Success		201 {object} idResponse
//	@Failure		400 {object} Envelope
//	@Router			/stores [post]
func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	store := &models.Store{Name: req.Name, City: req.City, Country: req.Country}
	if err := s.stores.Create(r.Context(), store); err != nil {
		s.logger.Warn("failed to create store", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to create store")
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{Envelope: okEnvelope(), ID: store.ID})
}

// handleUpdateStore overwrites all three fields of an existing store.
//
//	@Summary		Update store
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Param			body body storeRequest true "Store fields"
//	@Success		200 {object} idResponse
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/stores/{id} [put]
func (s *Server) handleUpdateStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	store := &models.Store{ID: id, Name: req.Name, City: req.City, Country: req.Country}
	if err := s.stores.Update(r.Context(), store); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Store not found")
			return
		}
		s.logger.Warn("failed to update store", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to update store")
		return
	}

	writeJSON(w, http.StatusOK, idResponse{Envelope: okEnvelope(), ID: id})
}

// handleDeleteStore deletes a store; its entries are cascade-deleted.
//
//	@Summary		Delete store
//	@Tags			stores
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Success		200 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/stores/{id} [delete]
func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.stores.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Store not found")
			return
		}
		s.logger.Warn("failed to delete store", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to delete store")
		return
	}

	writeJSON(w, http.StatusOK, okEnvelope())
}

// handleDeleteStoresBulk deletes every store in the given id set. Matching
// zero rows is a failure, not a no-op.
//
//	@Summary		Bulk delete stores
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			body body []int64 true "Store IDs"
//	@Success		200 {object} Envelope
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/stores/bulk [delete]
func (s *Server) handleDeleteStoresBulk(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(ids) == 0 {
		writeFailure(w, http.StatusBadRequest, "ids are required")
		return
	}

	if err := s.stores.DeleteBulk(r.Context(), ids); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "No stores found")
			return
		}
		s.logger.Warn("failed to bulk delete stores", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to delete stores")
		return
	}

	writeJSON(w, http.StatusOK, okEnvelope())
}

// handleStoreStatistics returns daily entry counts for one store over an
// inclusive date range.
//
//	@Summary		Store statistics
//	@Tags			stores
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Param			startDate query string true "Range start (inclusive)"
//	@Param			endDate query string true "Range end (inclusive)"
//	@Success		200 {object} storeStatisticsResponse
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/stores/statistics/{id} [get]
func (s *Server) handleStoreStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	start, end, err := queryRange(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.stores.Statistics(r.Context(), id, start, end)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Store not found")
			return
		}
		s.logger.Warn("failed to get store statistics", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	writeJSON(w, http.StatusOK, storeStatisticsResponse{Envelope: okEnvelope(), Statistics: stats})
}
