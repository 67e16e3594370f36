package server

import (
	"encoding/json"
	"net/http"

	"github.com/HerbHall/footfall/internal/services"
)

// Envelope is the status/message pair carried by every response body.
// Response types embed it rather than inheriting a shared base.
type Envelope struct {
	Status  bool    `json:"status"`
	Message *string `json:"message"`
}

func okEnvelope() Envelope {
	return Envelope{Status: true}
}

func failEnvelope(msg string) Envelope {
	return Envelope{Status: false, Message: &msg}
}

// idResponse carries the identity of a created or updated record.
type idResponse struct {
	Envelope
	ID int64 `json:"id"`
}

// pagedResponse wraps one page of a list query.
type pagedResponse[T any] struct {
	Envelope
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

func newPagedResponse[T any](r *services.PagedResult[T]) pagedResponse[T] {
	return pagedResponse[T]{
		Envelope:   okEnvelope(),
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalItems: r.TotalItems,
		TotalPages: r.TotalPages,
		Items:      r.Items,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeFailure writes a {status:false, message} envelope with the given
// HTTP status code.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failEnvelope(msg))
}
