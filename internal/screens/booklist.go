package screens

import (
	"context"
	"log/slog"
	"math"

	"bookhub-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// BookListAPI is the subset of the bookstore API used by BookList
type BookListAPI interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

// BookStats are the aggregates shown above the book table
type BookStats struct {
	TotalBooks    int
	TotalQuantity int
	TotalRevenue  decimal.Decimal
	// AverageYear is only meaningful when HasAverageYear is true
	AverageYear    int
	HasAverageYear bool
}

// BookList is the "Quản Lý Sách" screen
type BookList struct {
	State
	Books []models.Book

	api BookListAPI
}

// NewBookList creates a BookList in the loading state
func NewBookList(api BookListAPI) *BookList {
	return &BookList{api: api}
}

// Load fetches the book collection
func (s *BookList) Load(ctx context.Context) error {
	books, err := s.api.ListBooks(ctx)
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load books", "error", err)
		s.fail("Không thể tải dữ liệu sách")
		return err
	}

	s.Books = books
	s.ready()
	slog.Debug("Books loaded", "count", len(books))
	return nil
}

// Stats computes the four aggregates over the current list
func (s *BookList) Stats() BookStats {
	return ComputeBookStats(s.Books)
}

// ComputeBookStats sums quantities and revenue and averages publication years
func ComputeBookStats(books []models.Book) BookStats {
	stats := BookStats{
		TotalBooks:   len(books),
		TotalRevenue: decimal.Zero,
	}

	yearSum := 0
	for _, book := range books {
		stats.TotalQuantity += book.Quantity
		stats.TotalRevenue = stats.TotalRevenue.Add(book.UnitPrice.Mul(decimal.NewFromInt(int64(book.Quantity))))
		yearSum += book.PublicationYear
	}

	if len(books) > 0 {
		stats.AverageYear = int(math.Round(float64(yearSum) / float64(len(books))))
		stats.HasAverageYear = true
	}

	return stats
}

// Delete removes one book through the API and then from the local list.
// On failure the list is left untouched.
func (s *BookList) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteBook(ctx, id); err != nil {
		slog.Warn("Failed to delete book", "book_id", id, "error", err)
		return &ActionError{Message: "Không thể xóa sách", Err: err}
	}
	if !alive(ctx) {
		return ctx.Err()
	}

	kept := make([]models.Book, 0, len(s.Books))
	for _, book := range s.Books {
		if book.ID != id {
			kept = append(kept, book)
		}
	}
	s.Books = kept

	slog.Info("Book deleted", "book_id", id, "remaining", len(s.Books))
	return nil
}
