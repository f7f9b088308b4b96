package testutils

import (
	"bytes"
	"io"

	"bookhub-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// Price parses a decimal literal and panics on malformed fixtures
func Price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestBook creates a book with embedded references
func CreateTestBook(id int, title string, quantity int, price string, year int) models.Book {
	return models.Book{
		ID:              id,
		Title:           title,
		Quantity:        quantity,
		UnitPrice:       Price(price),
		PublicationYear: year,
		Author:          &models.Author{ID: 1, Name: "Nguyễn Nhật Ánh"},
		Genre:           &models.Genre{ID: 1, Name: "Văn học"},
		Publisher:       &models.Publisher{ID: 1, Name: "NXB Trẻ", Address: "TP.HCM", Phone: "028 3930 5859"},
	}
}

// CreateTestOrder creates an order with the given status
func CreateTestOrder(id int, account, total, status string) models.Order {
	return models.Order{
		ID:          id,
		AccountName: account,
		Total:       Price(total),
		Status:      status,
	}
}

// CreateTestOrderLine creates an order line embedding its order and book
func CreateTestOrderLine(id int, order models.Order, book models.Book, quantity int) models.OrderLine {
	o := order
	b := book
	return models.OrderLine{
		ID:        id,
		OrderID:   order.ID,
		BookID:    book.ID,
		Quantity:  quantity,
		UnitPrice: book.UnitPrice,
		Order:     &o,
		Book:      &b,
	}
}

// SeedReferenceData fills authors, genres, publishers and accounts
func (a *FakeAPI) SeedReferenceData() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Authors = []models.Author{{ID: 1, Name: "Nguyễn Nhật Ánh"}, {ID: 2, Name: "Tô Hoài"}}
	a.Genres = []models.Genre{{ID: 1, Name: "Văn học"}, {ID: 2, Name: "Thiếu nhi"}}
	a.Publishers = []models.Publisher{{ID: 1, Name: "NXB Trẻ"}, {ID: 2, Name: "NXB Kim Đồng"}}
	a.Accounts = []models.Account{
		{ID: 1, Username: "admin", Role: "QL"},
		{ID: 2, Username: "kh01", Role: models.RoleCustomer},
		{ID: 3, Username: "kh02", Role: models.RoleCustomer},
	}
}
