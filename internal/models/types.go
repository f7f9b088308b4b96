package models

import "github.com/shopspring/decimal"

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Order status values as stored by the bookstore API
const (
	OrderStatusPending   = "dang_xu_ly"
	OrderStatusCompleted = "hoan_thanh"
)

// RoleCustomer is the account role allowed to place orders
const RoleCustomer = "KH"

// Author (tác giả) referenced by a book
type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"ten"`
	Biography string `json:"tieu_su,omitempty"`
}

// Genre (thể loại) referenced by a book
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"ten"`
}

// Publisher (nhà xuất bản) referenced by a book
type Publisher struct {
	ID      int    `json:"id"`
	Name    string `json:"ten"`
	Address string `json:"dia_chi,omitempty"`
	Phone   string `json:"so_dien_thoai,omitempty"`
}

// Book (sách) is a catalog title with stock quantity and unit price.
// Author, genre and publisher are embedded by GET /sach.
type Book struct {
	ID              int             `json:"id"`
	Title           string          `json:"ten"`
	Quantity        int             `json:"so_luong"`
	UnitPrice       decimal.Decimal `json:"don_gia"`
	PublicationYear int             `json:"nam_xb"`
	Author          *Author         `json:"tacGia,omitempty"`
	Genre           *Genre          `json:"theLoai,omitempty"`
	Publisher       *Publisher      `json:"nhaXuatBan,omitempty"`
}

// Order (đơn) aggregates order lines for one customer account
type Order struct {
	ID          int             `json:"id"`
	AccountName string          `json:"ten_tk"`
	Total       decimal.Decimal `json:"tongTien"`
	Status      string          `json:"trangThai"`
}

// IsCompleted reports whether the order can no longer be edited
func (o Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// OrderLine (chi tiết đơn) is one book-quantity-price entry within an order
type OrderLine struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"don_id"`
	BookID    int             `json:"sach_id"`
	Quantity  int             `json:"soLuong"`
	UnitPrice decimal.Decimal `json:"donGia"`
	Order     *Order          `json:"don,omitempty"`
	Book      *Book           `json:"sach,omitempty"`
}

// LineTotal returns unit price times quantity
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Account (tài khoản) as returned by GET /taikhoan
type Account struct {
	ID       int    `json:"id"`
	Username string `json:"tentk"`
	Role     string `json:"vaitro"`
}

// ImportBatchLine (chi tiết phiếu nhập kho) records stock received into inventory
type ImportBatchLine struct {
	ID            int `json:"id"`
	BookID        int `json:"sachId"`
	ImportBatchID int `json:"phieuNhapKhoId"`
	Quantity      int `json:"so_luong"`
}

// Copy (nhân bản) is a trackable instance of a book.
// Every linked record is optional.
type Copy struct {
	ID              int              `json:"id"`
	BookID          int              `json:"sachId"`
	Status          string           `json:"trang_thai"`
	ISBN            string           `json:"ISBN"`
	Book            *Book            `json:"sach"`
	ImportBatchLine *ImportBatchLine `json:"chitietpnk"`
	OrderLine       *OrderLine       `json:"chitietdon"`
}

// EntityRef is the {id} shape used to link a new book to its references
type EntityRef struct {
	ID int `json:"id"`
}

// CreateBookRequest is the POST /sach payload
type CreateBookRequest struct {
	Title           string          `json:"ten"`
	Quantity        int             `json:"so_luong"`
	UnitPrice       decimal.Decimal `json:"don_gia"`
	PublicationYear int             `json:"nam_xb"`
	Author          EntityRef       `json:"tacGia"`
	Genre           EntityRef       `json:"theLoai"`
	Publisher       EntityRef       `json:"nhaXuatBan"`
}

// CreateOrderRequest is the POST /don payload
type CreateOrderRequest struct {
	AccountUsername string `json:"tentk"`
}

// UpdateOrderStatusRequest is the PATCH /don/{id} payload
type UpdateOrderStatusRequest struct {
	Status string `json:"trangThai"`
}

// CreateOrderLineRequest is the POST /chitietdon payload
type CreateOrderLineRequest struct {
	OrderID  int `json:"donId"`
	BookID   int `json:"sachId"`
	Quantity int `json:"soLuong"`
}

// UpdateOrderLineRequest is the PATCH /chitietdon/{id} payload
type UpdateOrderLineRequest struct {
	OrderID  int `json:"donId"`
	Quantity int `json:"soLuong"`
}
