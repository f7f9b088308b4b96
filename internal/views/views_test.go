package views

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub-dashboard/internal/models"
	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/testutils"
)

type lineForm struct {
	BookID      int
	Quantity    string
	MaxQuantity int
}

func render(t *testing.T, status int, page string, data PageData) string {
	t.Helper()

	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, status, page, data))
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func TestRender_BookList(t *testing.T) {
	screen := &screens.BookList{
		State: screens.State{Status: screens.StatusReady},
		Books: []models.Book{testutils.CreateTestBook(1, "Mắt Biếc", 2, "45000", 1990)},
	}

	body := render(t, http.StatusOK, PageBookList, PageData{Title: "Quản Lý Sách", ActiveNav: "books", Screen: screen})

	assert.Contains(t, body, "Mắt Biếc")
	assert.Contains(t, body, "90.000\u00a0₫")
	assert.Contains(t, body, `action="/sach/1/delete"`)
	assert.Contains(t, body, "confirm(")
	assert.Contains(t, body, `href="/AddBook"`)
	assert.Contains(t, body, "© 2024 BookHub Dashboard")
	assert.Contains(t, body, `<a href="/" class="active">`)
}

func TestRender_BookListEmptyShowsPlaceholderYear(t *testing.T) {
	screen := &screens.BookList{State: screens.State{Status: screens.StatusReady}}

	body := render(t, http.StatusOK, PageBookList, PageData{Screen: screen})

	assert.Contains(t, body, `<strong id="average-year">—</strong>`)
	assert.Contains(t, body, "Không có dữ liệu")
}

func TestRender_ErrorState(t *testing.T) {
	screen := &screens.CopyList{State: screens.State{Status: screens.StatusError, ErrorMessage: "Không thể tải danh sách nhân bản"}}

	body := render(t, http.StatusBadGateway, PageCopyList, PageData{Screen: screen})

	assert.Contains(t, body, "Không thể tải danh sách nhân bản")
	assert.NotContains(t, body, "<table>")
}

func TestRender_AlertAndNotice(t *testing.T) {
	screen := &screens.AddBook{State: screens.State{Status: screens.StatusReady}}

	body := render(t, http.StatusOK, PageAddBook, PageData{
		Screen: screen,
		Alert:  "Vui lòng nhập tên sách!",
		Notice: "Sách đã được thêm thành công!",
	})

	assert.Contains(t, body, `role="alert">Vui lòng nhập tên sách!`)
	assert.Contains(t, body, `role="status">Sách đã được thêm thành công!`)
}

func TestRender_OrderList(t *testing.T) {
	screen := &screens.OrderList{
		State: screens.State{Status: screens.StatusReady},
		Orders: []models.Order{
			testutils.CreateTestOrder(1, "kh01", "120000", models.OrderStatusPending),
			testutils.CreateTestOrder(2, "kh02", "50000", models.OrderStatusCompleted),
		},
	}

	body := render(t, http.StatusOK, PageOrderList, PageData{Screen: screen})

	assert.Contains(t, body, "120.000\u00a0₫")
	assert.Contains(t, body, "Đang xử lý")
	assert.Contains(t, body, "Hoàn thành")
	assert.Contains(t, body, `action="/Order/1/complete"`)
	assert.Contains(t, body, `id="complete-1" >`)
	assert.Contains(t, body, `action="/Order/2/complete"`)
	assert.Contains(t, body, `id="complete-2" disabled`)
}

func TestRender_OrderListEmpty(t *testing.T) {
	screen := &screens.OrderList{State: screens.State{Status: screens.StatusReady}, Creating: true}

	body := render(t, http.StatusOK, PageOrderList, PageData{Screen: screen})

	assert.Contains(t, body, "Không có đơn hàng nào")
	assert.Contains(t, body, `id="create-order"`)
}

func TestRender_OrderDetailLocked(t *testing.T) {
	order := testutils.CreateTestOrder(5, "kh01", "90000", models.OrderStatusCompleted)
	line := testutils.CreateTestOrderLine(11, order, testutils.CreateTestBook(1, "Mắt Biếc", 2, "45000", 1990), 2)
	screen := &screens.OrderDetail{
		State:   screens.State{Status: screens.StatusReady},
		OrderID: 5,
		Order:   &order,
		Lines:   []models.OrderLine{line},
	}

	body := render(t, http.StatusOK, PageOrderDetail, PageData{Screen: screen, Form: lineForm{}})

	assert.Contains(t, body, "kh01")
	assert.Contains(t, body, "<td id=\"order-total\">90.000\u00a0₫</td>")
	assert.Contains(t, body, "1990")
	assert.Contains(t, body, "disabled")
	assert.NotContains(t, body, "Thêm sách đầu tiên")
	assert.NotContains(t, body, "total-drift")
}

func TestRender_OrderDetailTotalDrift(t *testing.T) {
	order := testutils.CreateTestOrder(6, "kh02", "100000", models.OrderStatusPending)
	line := testutils.CreateTestOrderLine(12, order, testutils.CreateTestBook(1, "Mắt Biếc", 2, "45000", 1990), 2)
	screen := &screens.OrderDetail{
		State:   screens.State{Status: screens.StatusReady},
		OrderID: 6,
		Order:   &order,
		Lines:   []models.OrderLine{line},
	}

	body := render(t, http.StatusOK, PageOrderDetail, PageData{Screen: screen, Form: lineForm{Quantity: "1"}})

	assert.Contains(t, body, "<td id=\"order-total\">100.000\u00a0₫</td>")
	assert.Contains(t, body, `id="total-drift"`)
	assert.Contains(t, body, "<td id=\"lines-total\">90.000\u00a0₫</td>")
	assert.Contains(t, body, `id="add-quantity" value="1"`)
}

func TestRender_OrderDetailFirstLine(t *testing.T) {
	screen := &screens.OrderDetail{
		State:          screens.State{Status: screens.StatusReady},
		OrderID:        99,
		AvailableBooks: []models.Book{testutils.CreateTestBook(2, "Tôi Thấy Hoa Vàng", 4, "80000", 2010)},
	}

	body := render(t, http.StatusOK, PageOrderDetail, PageData{Screen: screen, Form: lineForm{BookID: 2, MaxQuantity: 4}})

	assert.Contains(t, body, "Thêm sách đầu tiên cho đơn #99")
	assert.Contains(t, body, "Tôi Thấy Hoa Vàng - 80.000\u00a0₫ (Còn 4)")
	assert.Contains(t, body, `max="4"`)
	assert.NotContains(t, body, "order-total")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", PageData{}))
}
