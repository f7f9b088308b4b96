package handlers

import (
	"net/http"

	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/views"
)

// CopyHandler serves the read-only copies table
type CopyHandler struct {
	pages
	api screens.CopyListAPI
}

// NewCopyHandler creates a new copy handler
func NewCopyHandler(api screens.CopyListAPI, renderer *views.Renderer) *CopyHandler {
	return &CopyHandler{
		pages: pages{views: renderer},
		api:   api,
	}
}

// ListCopies handles GET /Nhanban - Every copy with its linked records
func (h *CopyHandler) ListCopies(w http.ResponseWriter, r *http.Request) {
	screen := screens.NewCopyList(h.api)

	status := http.StatusOK
	if err := screen.Load(r.Context()); err != nil {
		status = http.StatusBadGateway
	}

	h.render(w, r, status, views.PageCopyList, views.PageData{
		Title:     "Nhân Bản",
		ActiveNav: "copies",
		Screen:    screen,
	})
}
