package screens

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bookhub-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Unchosen is the select value meaning "nothing picked yet". Real ids start at 1.
const Unchosen = 0

// AddBookAPI is the subset of the bookstore API used by AddBook
type AddBookAPI interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	CreateBook(ctx context.Context, book models.CreateBookRequest) (*models.Book, error)
}

// BookForm is the raw state of the add-book form
type BookForm struct {
	Title       string
	UnitPrice   string
	Year        int
	Quantity    int
	AuthorID    int
	GenreID     int
	PublisherID int
}

// NewBookForm returns the form defaults: empty fields, current year, nothing selected
func NewBookForm(now time.Time) BookForm {
	return BookForm{Year: now.Year()}
}

// AddBook is the "Thêm Sách Mới" screen
type AddBook struct {
	State
	Authors    []models.Author
	Genres     []models.Genre
	Publishers []models.Publisher
	Form       BookForm
	// Notice is the transient success message after a submit
	Notice string

	api AddBookAPI
	now func() time.Time
}

// NewAddBook creates an AddBook screen in the loading state
func NewAddBook(api AddBookAPI, now func() time.Time) *AddBook {
	if now == nil {
		now = time.Now
	}
	return &AddBook{
		api:  api,
		now:  now,
		Form: NewBookForm(now()),
	}
}

// Load fetches authors, genres and publishers concurrently.
// If any of them fails nothing is kept.
func (s *AddBook) Load(ctx context.Context) error {
	var (
		authors    []models.Author
		genres     []models.Genre
		publishers []models.Publisher
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.api.ListAuthors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = s.api.ListGenres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		publishers, err = s.api.ListPublishers(gctx)
		return err
	})

	err := g.Wait()
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to load book reference data", "error", err)
		s.fail("Không thể tải dữ liệu")
		return err
	}

	s.Authors = authors
	s.Genres = genres
	s.Publishers = publishers
	s.ready()
	return nil
}

// Validate checks the form without contacting the API
func (s *AddBook) Validate(form BookForm) (models.CreateBookRequest, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return models.CreateBookRequest{}, &ValidationError{Message: "Vui lòng nhập tên sách!"}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.UnitPrice))
	if err != nil || price.IsNegative() {
		return models.CreateBookRequest{}, &ValidationError{Message: "Đơn giá không hợp lệ!"}
	}

	if form.Year <= 0 {
		return models.CreateBookRequest{}, &ValidationError{Message: "Năm xuất bản không hợp lệ!"}
	}

	if !s.hasAuthor(form.AuthorID) {
		return models.CreateBookRequest{}, &ValidationError{Message: "Vui lòng chọn tác giả!"}
	}
	if !s.hasGenre(form.GenreID) {
		return models.CreateBookRequest{}, &ValidationError{Message: "Vui lòng chọn thể loại!"}
	}
	if !s.hasPublisher(form.PublisherID) {
		return models.CreateBookRequest{}, &ValidationError{Message: "Vui lòng chọn nhà xuất bản!"}
	}

	// so_luong is always 0 whatever form.Quantity holds.
	return models.CreateBookRequest{
		Title:           title,
		Quantity:        0,
		UnitPrice:       price,
		PublicationYear: form.Year,
		Author:          models.EntityRef{ID: form.AuthorID},
		Genre:           models.EntityRef{ID: form.GenreID},
		Publisher:       models.EntityRef{ID: form.PublisherID},
	}, nil
}

// Submit validates and posts the form. A validation failure keeps the
// entered values; an API failure replaces the form with the error state.
func (s *AddBook) Submit(ctx context.Context, form BookForm) error {
	s.Form = form
	s.Notice = ""

	payload, err := s.Validate(form)
	if err != nil {
		return err
	}

	created, err := s.api.CreateBook(ctx, payload)
	if !alive(ctx) {
		return ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to create book", "title", payload.Title, "error", err)
		s.fail("Có lỗi xảy ra khi thêm sách")
		return &ActionError{Message: "Có lỗi xảy ra khi thêm sách", Err: err}
	}

	slog.Info("Book created", "book_id", created.ID, "title", payload.Title)
	s.Notice = "Sách đã được thêm thành công!"
	s.Form = NewBookForm(s.now())
	return nil
}

func (s *AddBook) hasAuthor(id int) bool {
	if id == Unchosen {
		return false
	}
	for _, a := range s.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *AddBook) hasGenre(id int) bool {
	if id == Unchosen {
		return false
	}
	for _, g := range s.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (s *AddBook) hasPublisher(id int) bool {
	if id == Unchosen {
		return false
	}
	for _, p := range s.Publishers {
		if p.ID == id {
			return true
		}
	}
	return false
}
