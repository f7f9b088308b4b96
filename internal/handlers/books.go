package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/views"
)

// BookAPI is what the book pages need from the bookstore API
type BookAPI interface {
	screens.BookListAPI
	screens.AddBookAPI
}

// BookHandler serves the book list and the add-book form
type BookHandler struct {
	pages
	api   BookAPI
	flash *FlashStore
	now   func() time.Time
}

// NewBookHandler creates a new book handler
func NewBookHandler(api BookAPI, renderer *views.Renderer, flash *FlashStore) *BookHandler {
	return &BookHandler{
		pages: pages{views: renderer},
		api:   api,
		flash: flash,
		now:   time.Now,
	}
}

func bookListPage(screen *screens.BookList) views.PageData {
	return views.PageData{Title: "Quản Lý Sách", ActiveNav: "books", Screen: screen}
}

func addBookPage(screen *screens.AddBook) views.PageData {
	return views.PageData{Title: "Thêm Sách Mới", ActiveNav: "addbook", Screen: screen}
}

// ListBooks handles GET / - Book table with aggregates
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	screen := screens.NewBookList(h.api)

	status := http.StatusOK
	if err := screen.Load(r.Context()); err != nil {
		status = http.StatusBadGateway
	}

	h.render(w, r, status, views.PageBookList, bookListPage(screen))
}

// DeleteBook handles POST /sach/{id}/delete - Delete one book and re-render the list
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	screen := screens.NewBookList(h.api)
	if err := screen.Load(r.Context()); err != nil {
		h.render(w, r, http.StatusBadGateway, views.PageBookList, bookListPage(screen))
		return
	}

	data := bookListPage(screen)
	status := http.StatusOK
	if err := screen.Delete(r.Context(), id); err != nil {
		data.Alert = screens.AlertMessage(err)
		status = alertStatus(err)
	}

	h.render(w, r, status, views.PageBookList, data)
}

// AddBookForm handles GET /AddBook - Empty form plus any pending success notice
func (h *BookHandler) AddBookForm(w http.ResponseWriter, r *http.Request) {
	screen := screens.NewAddBook(h.api, h.now)
	notice := h.flash.Pop(w, r)

	status := http.StatusOK
	if err := screen.Load(r.Context()); err != nil {
		status = http.StatusBadGateway
	}

	data := addBookPage(screen)
	data.Notice = notice
	h.render(w, r, status, views.PageAddBook, data)
}

// CreateBook handles POST /AddBook - Validate and create, then redirect back to the form
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("Failed to parse add book form", "error", err, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid form body", nil)
		return
	}

	screen := screens.NewAddBook(h.api, h.now)
	if err := screen.Load(r.Context()); err != nil {
		h.render(w, r, http.StatusBadGateway, views.PageAddBook, addBookPage(screen))
		return
	}

	form := screens.BookForm{
		Title:       r.PostFormValue("ten"),
		UnitPrice:   r.PostFormValue("don_gia"),
		Year:        formInt(r, "nam_xb"),
		Quantity:    formInt(r, "so_luong"),
		AuthorID:    formInt(r, "tacGia"),
		GenreID:     formInt(r, "theLoai"),
		PublisherID: formInt(r, "nhaXuatBan"),
	}

	if err := screen.Submit(r.Context(), form); err != nil {
		data := addBookPage(screen)
		if !screen.Failed() {
			data.Alert = screens.AlertMessage(err)
		}
		h.render(w, r, alertStatus(err), views.PageAddBook, data)
		return
	}

	h.flash.Set(w, screen.Notice)
	http.Redirect(w, r, "/AddBook", http.StatusSeeOther)
}
