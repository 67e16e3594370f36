package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HerbHall/footfall/internal/services"
	"github.com/HerbHall/footfall/pkg/models"
	"go.uber.org/zap"
)

// createEntryRequest is the JSON body for POST /entries.
type createEntryRequest struct {
	StoreID   int64  `json:"storeId"`
	EntryDate string `json:"entryDate"`
}

// updateEntryRequest is the JSON body for PUT /entries/{id}. Only the
// timestamp is mutable.
type updateEntryRequest struct {
	EntryDate string `json:"entryDate"`
}

// entryStatisticsResponse carries both projections of the cross-store
// date-range aggregation.
type entryStatisticsResponse struct {
	Envelope
	Daily    []models.DateCount  `json:"daily"`
	PerStore []models.StoreCount `json:"perStore"`
}

// handleListEntries returns all entries across stores, newest first.
//
//	@Summary		List entries
//	@Tags			entries
//	@Produce		json
//	@Param			page query int false "Page number" default(1)
//	@Param			pageSize query int false "Page size (max 50)" default(10)
//	@Success		200 {object} pagedResponse[models.EntryDetail]
//	@Router			/entries [get]
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	result, err := s.entries.List(r.Context(), queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list entries", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleEntriesByStore returns one store's entries, newest first.
//
//	@Summary		List entries by store
//	@Tags			entries
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Success		200 {object} pagedResponse[models.StoreEntry]
//	@Router			/entries/store/{id} [get]
func (s *Server) handleEntriesByStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.entries.ListByStore(r.Context(), id, queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list store entries", zap.Int64("store_id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleEntriesByDate returns entries recorded on one calendar date,
// time of day ignored.
//
//	@Summary		List entries by date
//	@Tags			entries
//	@Produce		json
//	@Param			date path string true "Calendar date (yyyy-MM-dd)"
//	@Success		200 {object} pagedResponse[models.EntryDetail]
//	@Failure		400 {object} Envelope
//	@Router			/entries/date/{date} [get]
func (s *Server) handleEntriesByDate(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.PathValue("date"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.entries.ListByDate(r.Context(), day, queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list entries by date", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleEntriesByStoreAndDate returns one store's entries on one calendar date.
//
//	@Summary		List entries by store and date
//	@Tags			entries
//	@Produce		json
//	@Param			id path int true "Store ID"
//	@Param			date path string true "Calendar date (yyyy-MM-dd)"
//	@Success		200 {object} pagedResponse[models.StoreEntry]
//	@Failure		400 {object} Envelope
//	@Router			/entries/store/{id}/date/{date} [get]
func (s *Server) handleEntriesByStoreAndDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	day, err := parseDay(r.PathValue("date"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.entries.ListByStoreAndDate(r.Context(), id, day, queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list entries by store and date",
			zap.Int64("store_id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleEntriesByDateRange returns entries in an inclusive datetime range.
//
//	@Summary		List entries by date range
//	@Tags			entries
//	@Produce		json
//	@Param			startDate query string true "Range start (inclusive)"
//	@Param			endDate query string true "Range end (inclusive)"
//	@Success		200 {object} pagedResponse[models.EntryDetail]
//	@Failure		400 {object} Envelope
//	@Router			/entries/date [get]
func (s *Server) handleEntriesByDateRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.entries.ListByDateRange(r.Context(), start, end, queryPagination(r))
	if err != nil {
		s.logger.Warn("failed to list entries by range", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, newPagedResponse(result))
}

// handleCreateEntry records a visit against an existing store.
//
//	@Summary		Create entry
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body body createEntryRequest true "Entry fields"
//	@Success		201 {object} idResponse
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} idResponse
//	@Router			/entries [post]
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StoreID < 1 {
		writeFailure(w, http.StatusBadRequest, "storeId is required")
		return
	}
	ts, err := parseTimestamp(req.EntryDate)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := &models.Entry{StoreID: req.StoreID, EntryDate: ts}
	if err := s.entries.Create(r.Context(), entry); err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			// Failure payload keeps the id field, zero-valued.
			writeJSON(w, http.StatusNotFound, idResponse{Envelope: failEnvelope("Store not found")})
			return
		}
		s.logger.Warn("failed to create entry", zap.Int64("store_id", req.StoreID), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{Envelope: okEnvelope(), ID: entry.ID})
}

// handleUpdateEntry overwrites an entry's timestamp.
//
//	@Summary		Update entry
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			id path int true "Entry ID"
//	@Param			body body updateEntryRequest true "Entry fields"
//	@Success		200 {object} idResponse
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/entries/{id} [put]
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ts, err := parseTimestamp(req.EntryDate)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.entries.Update(r.Context(), id, ts); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Entry not found")
			return
		}
		s.logger.Warn("failed to update entry", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, idResponse{Envelope: okEnvelope(), ID: id})
}

// handleDeleteEntry deletes a single entry.
//
//	@Summary		Delete entry
//	@Tags			entries
//	@Produce		json
//	@Param			id path int true "Entry ID"
//	@Success		200 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/entries/{id} [delete]
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Entry not found")
			return
		}
		s.logger.Warn("failed to delete entry", zap.Int64("id", id), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, okEnvelope())
}

// handleDeleteEntriesBulk deletes every entry in the given id set. Matching
// zero rows is a failure, not a no-op.
//
//	@Summary		Bulk delete entries
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body body []int64 true "Entry IDs"
//	@Success		200 {object} Envelope
//	@Failure		400 {object} Envelope
//	@Failure		404 {object} Envelope
//	@Router			/entries/bulk [delete]
func (s *Server) handleDeleteEntriesBulk(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(ids) == 0 {
		writeFailure(w, http.StatusBadRequest, "ids are required")
		return
	}

	if err := s.entries.DeleteBulk(r.Context(), ids); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "No entries found")
			return
		}
		s.logger.Warn("failed to bulk delete entries", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to delete entries")
		return
	}

	writeJSON(w, http.StatusOK, okEnvelope())
}

// handleEntryStatistics aggregates entries across all stores over an
// inclusive date range.
//
//	@Summary		Entry statistics
//	@Tags			entries
//	@Produce		json
//	@Param			startDate query string true "Range start (inclusive)"
//	@Param			endDate query string true "Range end (inclusive)"
//	@Success		200 {object} entryStatisticsResponse
//	@Failure		400 {object} Envelope
//	@Router			/entries/statistics [get]
func (s *Server) handleEntryStatistics(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.entries.Statistics(r.Context(), start, end)
	if err != nil {
		s.logger.Warn("failed to get entry statistics", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	writeJSON(w, http.StatusOK, entryStatisticsResponse{
		Envelope: okEnvelope(),
		Daily:    stats.Daily,
		PerStore: stats.PerStore,
	})
}
