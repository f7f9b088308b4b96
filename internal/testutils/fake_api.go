// Package testutils provides an in-memory stand-in for the bookstore REST API.
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"bookhub-dashboard/internal/models"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// RecordedRequest is one request received by the FakeAPI
type RecordedRequest struct {
	Method string
	Path   string
	Route  string
	Body   []byte
}

// FakeAPI serves the bookstore endpoints from in-memory fixtures
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	Books      []models.Book
	Authors    []models.Author
	Genres     []models.Genre
	Publishers []models.Publisher
	Orders     []models.Order
	Lines      []models.OrderLine
	Copies     []models.Copy
	Accounts   []models.Account

	// NextID is used for every created record and incremented afterwards
	NextID int

	failures map[string]int
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	api := &FakeAPI{
		NextID:   100,
		failures: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(api.record)
	r.HandleFunc("/sach", api.listBooks).Methods(http.MethodGet)
	r.HandleFunc("/sach", api.createBook).Methods(http.MethodPost)
	r.HandleFunc("/sach/{id}", api.getBook).Methods(http.MethodGet)
	r.HandleFunc("/sach/{id}", api.deleteBook).Methods(http.MethodDelete)
	r.HandleFunc("/tac-gia", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Authors) }).Methods(http.MethodGet)
	r.HandleFunc("/the-loai", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Genres) }).Methods(http.MethodGet)
	r.HandleFunc("/nhaxuatban", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Publishers) }).Methods(http.MethodGet)
	r.HandleFunc("/don", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Orders) }).Methods(http.MethodGet)
	r.HandleFunc("/don", api.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/don/{id}", api.patchOrder).Methods(http.MethodPatch)
	r.HandleFunc("/chitietdon", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Lines) }).Methods(http.MethodGet)
	r.HandleFunc("/chitietdon", api.createLine).Methods(http.MethodPost)
	r.HandleFunc("/chitietdon/{id}", api.patchLine).Methods(http.MethodPatch)
	r.HandleFunc("/nhanban", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Copies) }).Methods(http.MethodGet)
	r.HandleFunc("/taikhoan", func(w http.ResponseWriter, r *http.Request) { api.writeList(w, api.Accounts) }).Methods(http.MethodGet)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Server.Close)

	return api
}

// URL returns the base address of the fake API
func (a *FakeAPI) URL() string {
	return a.Server.URL
}

// Fail makes every request matching method and route template answer with status
func (a *FakeAPI) Fail(method, route string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+route] = status
}

// Requests returns a copy of every request received so far
func (a *FakeAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]RecordedRequest, len(a.requests))
	copy(out, a.requests)
	return out
}

// RequestsTo returns the requests that matched method and route template
func (a *FakeAPI) RequestsTo(method, route string) []RecordedRequest {
	var out []RecordedRequest
	for _, req := range a.Requests() {
		if req.Method == method && req.Route == route {
			out = append(out, req)
		}
	}
	return out
}

// CountMutations returns the number of non-GET requests received
func (a *FakeAPI) CountMutations() int {
	count := 0
	for _, req := range a.Requests() {
		if req.Method != http.MethodGet {
			count++
		}
	}
	return count
}

func (a *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytesReader(body))

		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, Route: route, Body: body})
		status, failing := a.failures[r.Method+" "+route]
		a.mu.Unlock()

		if failing {
			http.Error(w, `{"message":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *FakeAPI) writeList(w http.ResponseWriter, list interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (a *FakeAPI) listBooks(w http.ResponseWriter, r *http.Request) {
	a.writeList(w, a.Books)
}

func (a *FakeAPI) getBook(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, book := range a.Books {
		if book.ID == id {
			writeJSON(w, http.StatusOK, book)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func (a *FakeAPI) createBook(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	book := models.Book{
		ID:              a.nextID(),
		Title:           req.Title,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		PublicationYear: req.PublicationYear,
		Author:          &models.Author{ID: req.Author.ID},
		Genre:           &models.Genre{ID: req.Genre.ID},
		Publisher:       &models.Publisher{ID: req.Publisher.ID},
	}
	a.Books = append(a.Books, book)
	writeJSON(w, http.StatusCreated, book)
}

func (a *FakeAPI) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	a.mu.Lock()
	defer a.mu.Unlock()
	for i, book := range a.Books {
		if book.ID == id {
			a.Books = append(a.Books[:i], a.Books[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func (a *FakeAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	order := models.Order{
		ID:          a.nextID(),
		AccountName: req.AccountUsername,
		Total:       decimal.Zero,
		Status:      models.OrderStatusPending,
	}
	a.Orders = append(a.Orders, order)
	writeJSON(w, http.StatusCreated, order)
}

func (a *FakeAPI) patchOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.Orders {
		if a.Orders[i].ID == id {
			a.Orders[i].Status = req.Status
			writeJSON(w, http.StatusOK, a.Orders[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

// createLine mirrors the real API: the response carries neither the unit price
// nor the embedded book and order.
func (a *FakeAPI) createLine(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	line := models.OrderLine{
		ID:       a.nextID(),
		OrderID:  req.OrderID,
		BookID:   req.BookID,
		Quantity: req.Quantity,
	}
	a.Lines = append(a.Lines, line)
	writeJSON(w, http.StatusCreated, map[string]int{"id": line.ID, "soLuong": line.Quantity})
}

func (a *FakeAPI) patchLine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.UpdateOrderLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.Lines {
		if a.Lines[i].ID == id {
			a.Lines[i].Quantity = req.Quantity
			writeJSON(w, http.StatusOK, a.Lines[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func (a *FakeAPI) nextID() int {
	id := a.NextID
	a.NextID++
	return id
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
