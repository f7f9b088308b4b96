package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookhub-dashboard/internal/models"
)

// maxErrorBody caps how much of a failed response body is kept in a StatusError
const maxErrorBody = 512

// CallMetrics describes one finished call to the bookstore API
type CallMetrics struct {
	Method     string
	Resource   string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// CallObserver receives a CallMetrics after every request
type CallObserver interface {
	ObserveCall(ctx context.Context, call CallMetrics)
}

// Options configures a BookstoreClient
type Options struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Observer CallObserver
}

// BookstoreClient provides methods to interact with the bookstore REST API
type BookstoreClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	observer   CallObserver
}

// NewBookstoreClient creates a new bookstore client
func NewBookstoreClient(opts Options) *BookstoreClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BookstoreClient{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		observer: opts.Observer,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured API address
func (c *BookstoreClient) BaseURL() string {
	return c.baseURL
}

// Ping checks that the bookstore API answers at all. Any HTTP status counts as reachable.
func (c *BookstoreClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: http.MethodGet, Path: "/", Err: err}
	}
	defer resp.Body.Close()

	return nil
}

// ListBooks retrieves all books with their author, genre and publisher embedded
func (c *BookstoreClient) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.doJSON(ctx, http.MethodGet, "/sach", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook retrieves a single book
func (c *BookstoreClient) GetBook(ctx context.Context, id int) (*models.Book, error) {
	var book models.Book
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/sach/%d", id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook posts a new book
func (c *BookstoreClient) CreateBook(ctx context.Context, book models.CreateBookRequest) (*models.Book, error) {
	var created models.Book
	if err := c.doJSON(ctx, http.MethodPost, "/sach", book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBook deletes a book by id
func (c *BookstoreClient) DeleteBook(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/sach/%d", id), nil, nil)
}

// ListAuthors retrieves all authors
func (c *BookstoreClient) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	if err := c.doJSON(ctx, http.MethodGet, "/tac-gia", nil, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// ListGenres retrieves all genres
func (c *BookstoreClient) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := c.doJSON(ctx, http.MethodGet, "/the-loai", nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// ListPublishers retrieves all publishers
func (c *BookstoreClient) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	if err := c.doJSON(ctx, http.MethodGet, "/nhaxuatban", nil, &publishers); err != nil {
		return nil, err
	}
	return publishers, nil
}

// ListOrders retrieves all orders
func (c *BookstoreClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/don", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder creates an empty order for the given customer account
func (c *BookstoreClient) CreateOrder(ctx context.Context, accountUsername string) (*models.Order, error) {
	var order models.Order
	body := models.CreateOrderRequest{AccountUsername: accountUsername}
	if err := c.doJSON(ctx, http.MethodPost, "/don", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus partially updates an order's status
func (c *BookstoreClient) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	body := models.UpdateOrderStatusRequest{Status: status}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/don/%d", id), body, nil)
}

// ListOrderLines retrieves the order lines of every order
func (c *BookstoreClient) ListOrderLines(ctx context.Context) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := c.doJSON(ctx, http.MethodGet, "/chitietdon", nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// CreateOrderLine adds a line to an order. The response does not carry the unit price.
func (c *BookstoreClient) CreateOrderLine(ctx context.Context, line models.CreateOrderLineRequest) (*models.OrderLine, error) {
	var created models.OrderLine
	if err := c.doJSON(ctx, http.MethodPost, "/chitietdon", line, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrderLineQuantity sets a new quantity on an order line
func (c *BookstoreClient) UpdateOrderLineQuantity(ctx context.Context, id int, update models.UpdateOrderLineRequest) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/chitietdon/%d", id), update, nil)
}

// ListCopies retrieves all book copies with their linked records
func (c *BookstoreClient) ListCopies(ctx context.Context) ([]models.Copy, error) {
	var copies []models.Copy
	if err := c.doJSON(ctx, http.MethodGet, "/nhanban", nil, &copies); err != nil {
		return nil, err
	}
	return copies, nil
}

// ListAccounts retrieves all accounts regardless of role
func (c *BookstoreClient) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.doJSON(ctx, http.MethodGet, "/taikhoan", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out (if non-nil)
func (c *BookstoreClient) doJSON(ctx context.Context, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	statusCode := 0
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(ctx, CallMetrics{
				Method:     method,
				Resource:   resourceOf(path),
				StatusCode: statusCode,
				Duration:   time.Since(start),
				Err:        err,
			})
		}
	}()

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}

	return nil
}

// resourceOf reduces "/sach/12" to "/sach" so metrics stay low-cardinality
func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
