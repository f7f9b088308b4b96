package screens_test

import (
	"context"
	"testing"
	"time"

	"bookhub-dashboard/internal/client"
	"bookhub-dashboard/internal/testutils"
)

func newAPI(t *testing.T) (*testutils.FakeAPI, *client.BookstoreClient) {
	t.Helper()
	api := testutils.NewFakeAPI(t)
	c := client.NewBookstoreClient(client.Options{BaseURL: api.URL(), Timeout: 5 * time.Second})
	return api, c
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
