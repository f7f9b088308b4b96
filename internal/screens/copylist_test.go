package screens_test

import (
	"context"
	"net/http"
	"testing"

	"bookhub-dashboard/internal/models"
	"bookhub-dashboard/internal/screens"
	"bookhub-dashboard/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyList_RowsUsePlaceholders(t *testing.T) {
	api, c := newAPI(t)
	book := testutils.CreateTestBook(4, "Số đỏ", 3, "60000", 1936)
	api.Copies = []models.Copy{
		{
			ID:              1,
			BookID:          4,
			Status:          "trong_kho",
			ISBN:            "978-604-1",
			Book:            &book,
			ImportBatchLine: &models.ImportBatchLine{ID: 21, BookID: 4, ImportBatchID: 2, Quantity: 10},
		},
		{
			ID:        2,
			BookID:    4,
			Status:    "da_ban",
			ISBN:      "978-604-2",
			OrderLine: &models.OrderLine{ID: 31, OrderID: 5, BookID: 4, Quantity: 1},
		},
	}

	list := screens.NewCopyList(c)
	require.NoError(t, list.Load(context.Background()))

	rows := list.Rows()
	require.Len(t, rows, 2)

	assert.Equal(t, screens.CopyRow{
		ID: 1, Status: "trong_kho", ISBN: "978-604-1",
		BookID: "4", BookTitle: "Số đỏ", ImportLineID: "21", OrderLineID: screens.NotAvailable,
	}, rows[0])
	assert.Equal(t, screens.CopyRow{
		ID: 2, Status: "da_ban", ISBN: "978-604-2",
		BookID: screens.NotAvailable, BookTitle: screens.NotAvailable, ImportLineID: screens.NotAvailable, OrderLineID: "31",
	}, rows[1])
}

func TestCopyList_LoadFailure(t *testing.T) {
	api, c := newAPI(t)
	api.Fail(http.MethodGet, "/nhanban", http.StatusInternalServerError)

	list := screens.NewCopyList(c)
	require.Error(t, list.Load(context.Background()))
	assert.Equal(t, screens.StatusError, list.Status)
	assert.Empty(t, list.Rows())
	assert.Zero(t, api.CountMutations())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", screens.StatusLoading.String())
	assert.Equal(t, "error", screens.StatusError.String())
	assert.Equal(t, "ready", screens.StatusReady.String())
	assert.Equal(t, "Status(9)", screens.Status(9).String())
}
