package screens

import (
	"context"
	"log/slog"

	"bookhub-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// OrderDetailAPI is the subset of the bookstore API used by OrderDetail
type OrderDetailAPI interface {
	ListOrderLines(ctx context.Context) ([]models.OrderLine, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int) (*models.Book, error)
	CreateOrderLine(ctx context.Context, line models.CreateOrderLineRequest) (*models.OrderLine, error)
	UpdateOrderLineQuantity(ctx context.Context, id int, update models.UpdateOrderLineRequest) error
}

// DetailView selects which sub-view OrderDetail renders
type DetailView int

const (
	// ViewFirstLine is shown while the order has no lines and therefore no header
	ViewFirstLine DetailView = iota
	// ViewFull is the header, line table and add-line form
	ViewFull
)

// OrderDetail is the "Chi tiết đơn hàng" screen for one order id
type OrderDetail struct {
	State
	OrderID int
	// Order is derived from the first line's embedded order; nil when there are no lines
	Order          *models.Order
	Lines          []models.OrderLine
	AvailableBooks []models.Book

	api OrderDetailAPI
}

// NewOrderDetail creates an OrderDetail in the loading state
func NewOrderDetail(api OrderDetailAPI, orderID int) *OrderDetail {
	return &OrderDetail{api: api, OrderID: orderID}
}

// Load fetches all order lines, keeps this order's, then loads the books
// that can still be added.
func (s *OrderDetail) Load(ctx context.Context) error {
	all, err := s.api.ListOrderLines(ctx)
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load order lines", "order_id", s.OrderID, "error", err)
		s.fail("Không thể tải chi tiết đơn hàng")
		return err
	}

	s.setLines(all)

	books, err := s.api.ListBooks(ctx)
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load books for order", "order_id", s.OrderID, "error", err)
		s.fail("Không thể tải danh sách sách")
		return err
	}

	s.AvailableBooks = AvailableBooks(books, s.Lines)
	s.ready()
	return nil
}

// View reports which sub-view to render
func (s *OrderDetail) View() DetailView {
	if s.Order == nil {
		return ViewFirstLine
	}
	return ViewFull
}

// Locked reports whether line items are read-only
func (s *OrderDetail) Locked() bool {
	return s.Order != nil && s.Order.IsCompleted()
}

// LinesTotal sums the displayed line totals. It can drift from the stored
// order total, which stays the authoritative figure.
func (s *OrderDetail) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// TotalDrifts reports whether the stored total differs from the line sum
func (s *OrderDetail) TotalDrifts() bool {
	return s.Order != nil && !s.Order.Total.Equal(s.LinesTotal())
}

// Line returns the line with the given id
func (s *OrderDetail) Line(id int) (models.OrderLine, bool) {
	for _, line := range s.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return models.OrderLine{}, false
}

// AvailableBooks keeps books in stock that are not yet lines of the order
func AvailableBooks(books []models.Book, lines []models.OrderLine) []models.Book {
	inOrder := make(map[int]bool, len(lines))
	for _, line := range lines {
		inOrder[line.BookID] = true
	}

	available := make([]models.Book, 0, len(books))
	for _, book := range books {
		if book.Quantity > 0 && !inOrder[book.ID] {
			available = append(available, book)
		}
	}
	return available
}

// AddLine creates a line for bookID. The creation response has no unit price
// or book details, so the line is completed from the already fetched book and a
// follow-up GET /sach/{id}; if that GET fails the local line is rolled back.
func (s *OrderDetail) AddLine(ctx context.Context, bookID, quantity int) error {
	if s.Locked() {
		return &ValidationError{Message: "Đơn hàng đã hoàn thành, không thể thay đổi"}
	}
	if bookID == Unchosen || quantity <= 0 {
		return &ValidationError{Message: "Vui lòng chọn sách và nhập số lượng hợp lệ!"}
	}

	selected, ok := s.availableBook(bookID)
	if !ok || quantity > selected.Quantity {
		return &ValidationError{Message: "Số lượng vượt quá số lượng trong kho!"}
	}

	created, err := s.api.CreateOrderLine(ctx, models.CreateOrderLineRequest{
		OrderID:  s.OrderID,
		BookID:   bookID,
		Quantity: quantity,
	})
	if err != nil {
		slog.Warn("Failed to create order line", "order_id", s.OrderID, "book_id", bookID, "error", err)
		return &ActionError{Message: "Không thể thêm chi tiết đơn hàng", Err: err}
	}
	if !alive(ctx) {
		return ctx.Err()
	}

	line := *created
	line.OrderID = s.OrderID
	line.BookID = bookID
	if line.Quantity == 0 {
		line.Quantity = quantity
	}
	line.UnitPrice = selected.UnitPrice
	line.Order = s.Order
	line.Book = &selected

	s.Lines = append(s.Lines, line)

	book, err := s.api.GetBook(ctx, bookID)
	if err != nil || !alive(ctx) {
		s.Lines = s.Lines[:len(s.Lines)-1]
		if err == nil {
			return ctx.Err()
		}
		slog.Warn("Rolled back order line after book lookup failed",
			"order_id", s.OrderID,
			"line_id", line.ID,
			"book_id", bookID,
			"error", err)
		return &ActionError{Message: "Không thể tải thông tin sách", Err: err}
	}
	s.Lines[len(s.Lines)-1].Book = book

	slog.Info("Order line added", "order_id", s.OrderID, "line_id", line.ID, "book_id", bookID, "quantity", quantity)

	s.refresh(ctx)
	return nil
}

// UpdateQuantity sets a line's quantity through the API and patches it locally
func (s *OrderDetail) UpdateQuantity(ctx context.Context, lineID, newQuantity int) error {
	if s.Locked() {
		return &ValidationError{Message: "Đơn hàng đã hoàn thành, không thể thay đổi"}
	}
	if newQuantity <= 0 {
		return &ValidationError{Message: "Số lượng phải lớn hơn 0!"}
	}
	if _, ok := s.Line(lineID); !ok {
		return &ValidationError{Message: "Không tìm thấy chi tiết đơn hàng"}
	}

	err := s.api.UpdateOrderLineQuantity(ctx, lineID, models.UpdateOrderLineRequest{
		OrderID:  s.OrderID,
		Quantity: newQuantity,
	})
	if err != nil {
		slog.Warn("Failed to update order line quantity", "line_id", lineID, "quantity", newQuantity, "error", err)
		return &ActionError{Message: "Cập nhật số lượng thất bại", Err: err}
	}
	if !alive(ctx) {
		return ctx.Err()
	}

	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			s.Lines[i].Quantity = newQuantity
		}
	}
	return nil
}

// StepQuantity applies the ±1 stepper to a line
func (s *OrderDetail) StepQuantity(ctx context.Context, lineID, delta int) error {
	line, ok := s.Line(lineID)
	if !ok {
		return &ValidationError{Message: "Không tìm thấy chi tiết đơn hàng"}
	}
	return s.UpdateQuantity(ctx, lineID, line.Quantity+delta)
}

// refresh re-runs the available-book filter after the line count changed.
// When the order had no header yet it is taken from the server's lines.
// Failures here only leave the previous lists in place.
func (s *OrderDetail) refresh(ctx context.Context) {
	if s.Order == nil {
		all, err := s.api.ListOrderLines(ctx)
		if err != nil {
			slog.Warn("Failed to refresh order header", "order_id", s.OrderID, "error", err)
		} else if alive(ctx) {
			for _, line := range filterLines(all, s.OrderID) {
				if line.Order != nil {
					order := *line.Order
					s.Order = &order
					break
				}
			}
		}
	}

	books, err := s.api.ListBooks(ctx)
	if err != nil {
		slog.Warn("Failed to refresh available books", "order_id", s.OrderID, "error", err)
		s.AvailableBooks = AvailableBooks(s.AvailableBooks, s.Lines)
		return
	}
	if alive(ctx) {
		s.AvailableBooks = AvailableBooks(books, s.Lines)
	}
}

func (s *OrderDetail) setLines(all []models.OrderLine) {
	s.Lines = filterLines(all, s.OrderID)
	s.Order = nil
	if len(s.Lines) > 0 && s.Lines[0].Order != nil {
		order := *s.Lines[0].Order
		s.Order = &order
	}
}

func (s *OrderDetail) availableBook(id int) (models.Book, bool) {
	for _, book := range s.AvailableBooks {
		if book.ID == id {
			return book, true
		}
	}
	return models.Book{}, false
}

func filterLines(all []models.OrderLine, orderID int) []models.OrderLine {
	lines := make([]models.OrderLine, 0)
	for _, line := range all {
		if line.OrderID == orderID {
			lines = append(lines, line)
		}
	}
	return lines
}
