// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/skprofiles/internal/app/system/importsheet"
)

// errorBody is the JSON shape of every error response.
//
//	{ "error": "record not found" }
//	{ "error": "validation failed", "fields": { "last_name": "is required" } }
type errorBody struct {
	Error  string               `json:"error"`
	Fields map[string]string    `json:"fields,omitempty"`
	Rows   []importsheet.RowError `json:"rows,omitempty"`
}

// Handler serves the router-level fallbacks.
// No DB needed.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
}
