package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"popcat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Run("parses quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/quote", r.URL.Path)
			assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
			_, _ = w.Write([]byte(`{"symbol":"AAPL","c":187.5,"o":185.0,"h":189.2,"l":184.1}`))
		}))
		defer server.Close()

		quote, err := NewClient(server.URL, nil).Get(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.Equal(t, 187.5, quote.Current)
		assert.Equal(t, 189.2, quote.High)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).Get(context.Background(), "NOPE")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("zeroed price means untracked symbol", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"c":0,"o":0,"h":0,"l":0}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).Get(context.Background(), "GHOST")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).Get(context.Background(), "AAPL")
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	t.Run("empty symbol", func(t *testing.T) {
		_, err := NewClient("http://localhost", nil).Get(context.Background(), "  ")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
