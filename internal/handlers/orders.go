package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/views"
)

// OrderAPI is what the order pages need from the bookstore API
type OrderAPI interface {
	screens.OrderListAPI
	screens.OrderDetailAPI
}

// OrderHandler serves the order list and the order detail pages
type OrderHandler struct {
	pages
	api OrderAPI
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(api OrderAPI, renderer *views.Renderer) *OrderHandler {
	return &OrderHandler{
		pages: pages{views: renderer},
		api:   api,
	}
}

// LineForm echoes the add-line form back into the order detail page
type LineForm struct {
	BookID   int
	Quantity string
	// MaxQuantity is the stock of the selected book, 0 when none is selected
	MaxQuantity int
}

// defaultLineForm is the empty add-line form, one copy preselected
func defaultLineForm() LineForm {
	return LineForm{Quantity: "1"}
}

func newLineForm(screen *screens.OrderDetail, bookID int, quantity string) LineForm {
	form := LineForm{BookID: bookID, Quantity: quantity}
	for _, book := range screen.AvailableBooks {
		if book.ID == bookID {
			form.MaxQuantity = book.Quantity
		}
	}
	return form
}

func orderListPage(screen *screens.OrderList) views.PageData {
	return views.PageData{Title: "Danh sách đơn hàng", ActiveNav: "orders", Screen: screen}
}

func orderDetailPage(screen *screens.OrderDetail, form LineForm) views.PageData {
	return views.PageData{
		Title:     "Chi tiết đơn hàng #" + strconv.Itoa(screen.OrderID),
		ActiveNav: "orders",
		Screen:    screen,
		Form:      form,
	}
}

// ListOrders handles GET /Order - Orders table, ?create=1 opens the create form
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	screen := screens.NewOrderList(h.api)

	status := http.StatusOK
	if err := screen.Load(r.Context()); err != nil {
		status = http.StatusBadGateway
	}
	screen.Creating = r.URL.Query().Get("create") == "1"

	h.render(w, r, status, views.PageOrderList, orderListPage(screen))
}

// CreateOrder handles POST /Order - Place an empty order for the chosen account
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	screen := screens.NewOrderList(h.api)
	if err := screen.Load(r.Context()); err != nil {
		h.render(w, r, http.StatusBadGateway, views.PageOrderList, orderListPage(screen))
		return
	}
	screen.Creating = true

	data := orderListPage(screen)
	status := http.StatusOK
	if err := screen.Create(r.Context(), r.PostFormValue("tentk")); err != nil {
		data.Alert = screens.AlertMessage(err)
		status = alertStatus(err)
	}

	h.render(w, r, status, views.PageOrderList, data)
}

// CompleteOrder handles POST /Order/{id}/complete - Mark an order as completed
func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	screen := screens.NewOrderList(h.api)
	if err := screen.Load(r.Context()); err != nil {
		h.render(w, r, http.StatusBadGateway, views.PageOrderList, orderListPage(screen))
		return
	}

	data := orderListPage(screen)
	status := http.StatusOK
	if err := screen.Complete(r.Context(), id); err != nil {
		data.Alert = screens.AlertMessage(err)
		status = alertStatus(err)
	}

	h.render(w, r, status, views.PageOrderList, data)
}

// loadDetail parses the order id and loads the detail screen.
// It returns nil when a response has already been written.
func (h *OrderHandler) loadDetail(w http.ResponseWriter, r *http.Request) *screens.OrderDetail {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil
	}

	screen := screens.NewOrderDetail(h.api, id)
	if err := screen.Load(r.Context()); err != nil {
		h.render(w, r, http.StatusBadGateway, views.PageOrderDetail, orderDetailPage(screen, defaultLineForm()))
		return nil
	}
	return screen
}

// OrderDetail handles GET /Order/{id} - Lines of one order
func (h *OrderHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	screen := h.loadDetail(w, r)
	if screen == nil {
		return
	}

	h.render(w, r, http.StatusOK, views.PageOrderDetail, orderDetailPage(screen, defaultLineForm()))
}

// AddLine handles POST /Order/{id}/lines - Add a book to the order
func (h *OrderHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	screen := h.loadDetail(w, r)
	if screen == nil {
		return
	}

	bookID := formInt(r, "sachId")
	quantity := r.PostFormValue("soLuong")

	if err := screen.AddLine(r.Context(), bookID, formInt(r, "soLuong")); err != nil {
		data := orderDetailPage(screen, newLineForm(screen, bookID, quantity))
		data.Alert = screens.AlertMessage(err)
		h.render(w, r, alertStatus(err), views.PageOrderDetail, data)
		return
	}

	h.render(w, r, http.StatusOK, views.PageOrderDetail, orderDetailPage(screen, defaultLineForm()))
}

// UpdateLine handles POST /Order/{id}/lines/{lineId} - Set a quantity, or step it with delta=±1
func (h *OrderHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}
	screen := h.loadDetail(w, r)
	if screen == nil {
		return
	}

	var err error
	if delta := r.PostFormValue("delta"); delta != "" {
		step, convErr := strconv.Atoi(delta)
		if convErr != nil || (step != 1 && step != -1) {
			slog.Warn("Invalid quantity step", "delta", delta, "remote_addr", r.RemoteAddr)
			writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "delta must be 1 or -1", nil)
			return
		}
		err = screen.StepQuantity(r.Context(), lineID, step)
	} else {
		err = screen.UpdateQuantity(r.Context(), lineID, formInt(r, "quantity"))
	}

	data := orderDetailPage(screen, defaultLineForm())
	status := http.StatusOK
	if err != nil {
		data.Alert = screens.AlertMessage(err)
		status = alertStatus(err)
	}

	h.render(w, r, status, views.PageOrderDetail, data)
}
