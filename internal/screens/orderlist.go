package screens

import (
	"context"
	"log/slog"

	"bookhub-dashboard/internal/models"

	"golang.org/x/sync/errgroup"
)

// OrderListAPI is the subset of the bookstore API used by OrderList
type OrderListAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CreateOrder(ctx context.Context, accountUsername string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
}

// StatusIcon names the icon drawn next to an order status
type StatusIcon string

const (
	IconCheck StatusIcon = "check"
	IconClock StatusIcon = "clock"
	IconAlert StatusIcon = "alert"
)

// StatusView is how an order status is displayed
type StatusView struct {
	Icon  StatusIcon
	Label string
}

// ViewOrderStatus maps a stored status to its icon and label
func ViewOrderStatus(status string) StatusView {
	switch status {
	case models.OrderStatusCompleted:
		return StatusView{Icon: IconCheck, Label: "Hoàn thành"}
	case models.OrderStatusPending:
		return StatusView{Icon: IconClock, Label: "Đang xử lý"}
	default:
		return StatusView{Icon: IconAlert, Label: "Lỗi"}
	}
}

// OrderList is the "Danh sách đơn hàng" screen
type OrderList struct {
	State
	Orders   []models.Order
	Accounts []models.Account
	// Creating toggles the inline create-order form
	Creating        bool
	SelectedAccount string

	api OrderListAPI
}

// NewOrderList creates an OrderList in the loading state
func NewOrderList(api OrderListAPI) *OrderList {
	return &OrderList{api: api}
}

// Load fetches orders and customer accounts concurrently
func (s *OrderList) Load(ctx context.Context) error {
	var (
		orders   []models.Order
		accounts []models.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.api.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.api.ListAccounts(gctx)
		return err
	})

	err := g.Wait()
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load orders", "error", err)
		s.fail("Không thể tải danh sách đơn hàng")
		return err
	}

	s.Orders = orders
	s.Accounts = CustomerAccounts(accounts)
	s.ready()
	return nil
}

// CustomerAccounts keeps only accounts with the customer role
func CustomerAccounts(accounts []models.Account) []models.Account {
	customers := make([]models.Account, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Role == models.RoleCustomer {
			customers = append(customers, acc)
		}
	}
	return customers
}

// Create places a new empty order for username and appends it
func (s *OrderList) Create(ctx context.Context, username string) error {
	s.SelectedAccount = username
	if username == "" {
		return &ValidationError{Message: "Vui lòng chọn tài khoản!"}
	}

	order, err := s.api.CreateOrder(ctx, username)
	if err != nil {
		slog.Warn("Failed to create order", "account", username, "error", err)
		return &ActionError{Message: "Không thể tạo đơn hàng", Err: err}
	}
	if !alive(ctx) {
		return ctx.Err()
	}

	s.Orders = append(s.Orders, *order)
	s.Creating = false
	s.SelectedAccount = ""

	slog.Info("Order created", "order_id", order.ID, "account", username)
	return nil
}

// Complete moves an order to the completed status
func (s *OrderList) Complete(ctx context.Context, id int) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return &ValidationError{Message: "Không tìm thấy đơn hàng"}
	}
	if s.Orders[idx].IsCompleted() {
		return &ValidationError{Message: "Đơn hàng đã hoàn thành"}
	}

	if err := s.api.UpdateOrderStatus(ctx, id, models.OrderStatusCompleted); err != nil {
		slog.Warn("Failed to complete order", "order_id", id, "error", err)
		return &ActionError{Message: "Không thể cập nhật đơn hàng", Err: err}
	}
	if !alive(ctx) {
		return ctx.Err()
	}

	s.Orders[idx].Status = models.OrderStatusCompleted
	slog.Info("Order completed", "order_id", id)
	return nil
}

// CanComplete reports whether the complete action is enabled for an order
func CanComplete(order models.Order) bool {
	return !order.IsCompleted()
}

func (s *OrderList) indexOf(id int) int {
	for i, order := range s.Orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}
