package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bookhub-dashboard/internal/models"
	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/views"
)

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// pathID reads a positive integer path variable. On failure it writes a 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		slog.Warn("Invalid path id", "param", name, "value", raw, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid "+name, []models.ErrorDetail{
			{Field: name, Issue: "must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}

// formInt reads an integer form field. Missing or malformed values read as 0,
// which every screen treats as "not chosen" or "invalid".
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.PostFormValue(name))
	if err != nil {
		return 0
	}
	return n
}

// alertStatus maps a screen error to the page status: 200 for a validation
// failure, 502 for anything the API rejected or failed to answer
func alertStatus(err error) int {
	var validationErr *screens.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

// clientGone reports whether the request was cancelled, in which case nothing is rendered
func clientGone(r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		slog.Debug("Request cancelled before render", "path", r.URL.Path, "error", err)
		return true
	}
	return false
}

// pages renders screen templates for all page handlers
type pages struct {
	views *views.Renderer
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.PageData) {
	if clientGone(r) {
		return
	}
	if err := p.views.Render(w, status, page, data); err != nil {
		slog.Error("Failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
