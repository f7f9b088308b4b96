package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/views"
)

// DashboardAPI is everything the page and health handlers need from the bookstore API
type DashboardAPI interface {
	BookAPI
	OrderAPI
	screens.CopyListAPI
	Pinger
}

// Dashboard groups the handlers behind one router
type Dashboard struct {
	Books  *BookHandler
	Orders *OrderHandler
	Copies *CopyHandler
	Health *HealthHandler
}

// NewDashboard wires every handler to the same API client, renderer and flash store
func NewDashboard(api DashboardAPI, renderer *views.Renderer, flash *FlashStore) *Dashboard {
	return &Dashboard{
		Books:  NewBookHandler(api, renderer, flash),
		Orders: NewOrderHandler(api, renderer),
		Copies: NewCopyHandler(api, renderer),
		Health: NewHealthHandler(api),
	}
}

// RegisterRoutes adds the dashboard routes to r
func (d *Dashboard) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", d.Books.ListBooks).Methods(http.MethodGet)
	r.HandleFunc("/sach/{id}/delete", d.Books.DeleteBook).Methods(http.MethodPost)
	r.HandleFunc("/AddBook", d.Books.AddBookForm).Methods(http.MethodGet)
	r.HandleFunc("/AddBook", d.Books.CreateBook).Methods(http.MethodPost)

	r.HandleFunc("/Order", d.Orders.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/Order", d.Orders.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/Order/{id}", d.Orders.OrderDetail).Methods(http.MethodGet)
	r.HandleFunc("/Order/{id}/complete", d.Orders.CompleteOrder).Methods(http.MethodPost)
	r.HandleFunc("/Order/{id}/lines", d.Orders.AddLine).Methods(http.MethodPost)
	r.HandleFunc("/Order/{id}/lines/{lineId}", d.Orders.UpdateLine).Methods(http.MethodPost)

	r.HandleFunc("/Nhanban", d.Copies.ListCopies).Methods(http.MethodGet)

	r.HandleFunc("/health", d.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", d.Health.Ready).Methods(http.MethodGet)
}
