package screens

import (
	"context"
	"log/slog"
	"strconv"

	"bookhub-dashboard/internal/models"
)

// NotAvailable is rendered for a copy's missing linked record
const NotAvailable = "N/A"

// CopyListAPI is the subset of the bookstore API used by CopyList
type CopyListAPI interface {
	ListCopies(ctx context.Context) ([]models.Copy, error)
}

// CopyRow is one display row of the copies table
type CopyRow struct {
	ID           int
	Status       string
	ISBN         string
	BookID       string
	BookTitle    string
	ImportLineID string
	OrderLineID  string
}

// CopyList is the read-only "Nhân Bản" screen
type CopyList struct {
	State
	Copies []models.Copy

	api CopyListAPI
}

// NewCopyList creates a CopyList in the loading state
func NewCopyList(api CopyListAPI) *CopyList {
	return &CopyList{api: api}
}

// Load fetches the copies collection
func (s *CopyList) Load(ctx context.Context) error {
	copies, err := s.api.ListCopies(ctx)
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load copies", "error", err)
		s.fail("Không thể tải danh sách nhân bản")
		return err
	}

	s.Copies = copies
	s.ready()
	return nil
}

// Rows flattens every copy, substituting N/A for absent links
func (s *CopyList) Rows() []CopyRow {
	rows := make([]CopyRow, 0, len(s.Copies))
	for _, c := range s.Copies {
		row := CopyRow{
			ID:           c.ID,
			Status:       c.Status,
			ISBN:         c.ISBN,
			BookID:       NotAvailable,
			BookTitle:    NotAvailable,
			ImportLineID: NotAvailable,
			OrderLineID:  NotAvailable,
		}
		if c.Book != nil {
			row.BookID = strconv.Itoa(c.Book.ID)
			row.BookTitle = c.Book.Title
		}
		if c.ImportBatchLine != nil {
			row.ImportLineID = strconv.Itoa(c.ImportBatchLine.ID)
		}
		if c.OrderLine != nil {
			row.OrderLineID = strconv.Itoa(c.OrderLine.ID)
		}
		rows = append(rows, row)
	}
	return rows
}
