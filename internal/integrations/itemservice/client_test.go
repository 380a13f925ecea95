package itemservice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SharingService/pkg/logger"
)

func TestClient_GetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/internal/items/10":
			w.Write([]byte(`{"id":10,"name":"Drill","description":"Cordless","available":true,"ownerId":1}`))
		case "/internal/items/11":
			w.Write([]byte(`{"id":99,"name":"Saw","available":true,"ownerId":1}`))
		case "/internal/items/12":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewWithWriter(io.Discard, "error"))
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		item, err := client.GetItem(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "Drill", item.Name)
		assert.Equal(t, int64(1), item.OwnerID)
		assert.True(t, item.Available)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := client.GetItem(ctx, 404)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("MismatchedID", func(t *testing.T) {
		_, err := client.GetItem(ctx, 11)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		_, err := client.GetItem(ctx, 12)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}
