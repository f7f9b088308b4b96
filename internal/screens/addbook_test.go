package screens_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"bookhub-dashboard/internal/screens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC) }

func validForm() screens.BookForm {
	return screens.BookForm{
		Title:       "Cho tôi xin một vé đi tuổi thơ",
		UnitPrice:   "85000",
		Year:        2008,
		Quantity:    42,
		AuthorID:    1,
		GenreID:     2,
		PublisherID: 1,
	}
}

func TestAddBook_LoadFetchesAllReferenceLists(t *testing.T) {
	api, c := newAPI(t)
	api.SeedReferenceData()

	screen := screens.NewAddBook(c, fixedNow)
	require.NoError(t, screen.Load(context.Background()))

	assert.Equal(t, screens.StatusReady, screen.Status)
	assert.Len(t, screen.Authors, 2)
	assert.Len(t, screen.Genres, 2)
	assert.Len(t, screen.Publishers, 2)
	assert.Equal(t, 2026, screen.Form.Year, "year defaults to the current year")
	assert.Equal(t, screens.Unchosen, screen.Form.AuthorID)
}

func TestAddBook_AnyReferenceFailureIsOneErrorState(t *testing.T) {
	for _, route := range []string{"/tac-gia", "/the-loai", "/nhaxuatban"} {
		t.Run(route, func(t *testing.T) {
			api, c := newAPI(t)
			api.SeedReferenceData()
			api.Fail(http.MethodGet, route, http.StatusServiceUnavailable)

			screen := screens.NewAddBook(c, fixedNow)
			require.Error(t, screen.Load(context.Background()))

			assert.Equal(t, screens.StatusError, screen.Status)
			assert.Equal(t, "Không thể tải dữ liệu", screen.ErrorMessage)
			assert.Nil(t, screen.Authors)
			assert.Nil(t, screen.Genres)
			assert.Nil(t, screen.Publishers)
		})
	}
}

func TestAddBook_SubmitAlwaysPostsZeroQuantityAndResets(t *testing.T) {
	api, c := newAPI(t)
	api.SeedReferenceData()

	screen := screens.NewAddBook(c, fixedNow)
	require.NoError(t, screen.Load(context.Background()))
	require.NoError(t, screen.Submit(context.Background(), validForm()))

	posts := api.RequestsTo(http.MethodPost, "/sach")
	require.Len(t, posts, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(posts[0].Body, &payload))
	assert.Equal(t, float64(0), payload["so_luong"])
	assert.Equal(t, "Cho tôi xin một vé đi tuổi thơ", payload["ten"])
	assert.Equal(t, "85000", payload["don_gia"])
	assert.Equal(t, map[string]interface{}{"id": float64(2)}, payload["theLoai"])

	assert.Equal(t, screens.StatusReady, screen.Status)
	assert.Equal(t, "Sách đã được thêm thành công!", screen.Notice)
	assert.Equal(t, screens.NewBookForm(fixedNow()), screen.Form)
}

func TestAddBook_ValidationSendsNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *screens.BookForm)
		alert  string
	}{
		{name: "missing title", mutate: func(f *screens.BookForm) { f.Title = "  " }, alert: "Vui lòng nhập tên sách!"},
		{name: "non numeric price", mutate: func(f *screens.BookForm) { f.UnitPrice = "abc" }, alert: "Đơn giá không hợp lệ!"},
		{name: "negative price", mutate: func(f *screens.BookForm) { f.UnitPrice = "-1" }, alert: "Đơn giá không hợp lệ!"},
		{name: "missing year", mutate: func(f *screens.BookForm) { f.Year = 0 }, alert: "Năm xuất bản không hợp lệ!"},
		{name: "unchosen author", mutate: func(f *screens.BookForm) { f.AuthorID = screens.Unchosen }, alert: "Vui lòng chọn tác giả!"},
		{name: "unknown genre", mutate: func(f *screens.BookForm) { f.GenreID = 99 }, alert: "Vui lòng chọn thể loại!"},
		{name: "unchosen publisher", mutate: func(f *screens.BookForm) { f.PublisherID = screens.Unchosen }, alert: "Vui lòng chọn nhà xuất bản!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, c := newAPI(t)
			api.SeedReferenceData()

			screen := screens.NewAddBook(c, fixedNow)
			require.NoError(t, screen.Load(context.Background()))

			form := validForm()
			tt.mutate(&form)
			err := screen.Submit(context.Background(), form)

			var validationErr *screens.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.alert, validationErr.Message)
			assert.Equal(t, 0, api.CountMutations())
			assert.Equal(t, form, screen.Form, "entered values are kept")
			assert.Equal(t, screens.StatusReady, screen.Status)
		})
	}
}

func TestAddBook_PostFailureReplacesForm(t *testing.T) {
	api, c := newAPI(t)
	api.SeedReferenceData()
	api.Fail(http.MethodPost, "/sach", http.StatusBadRequest)

	screen := screens.NewAddBook(c, fixedNow)
	require.NoError(t, screen.Load(context.Background()))

	err := screen.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, screens.StatusError, screen.Status)
	assert.Equal(t, "Có lỗi xảy ra khi thêm sách", screen.ErrorMessage)
	assert.Empty(t, screen.Notice)
}
