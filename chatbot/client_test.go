package chatbot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"popcat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Reply(t *testing.T) {
	t.Run("parses reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get", r.URL.Path)
			assert.Equal(t, "brain-1", r.URL.Query().Get("bid"))
			assert.Equal(t, "key-1", r.URL.Query().Get("key"))
			assert.Equal(t, "42", r.URL.Query().Get("uid"))
			assert.Equal(t, "hello there", r.URL.Query().Get("msg"))
			_, _ = w.Write([]byte(`{"cnt":"hi!"}`))
		}))
		defer server.Close()

		reply, err := NewClient(server.URL, "brain-1", "key-1", nil).Reply(context.Background(), 42, "hello there")
		require.NoError(t, err)
		assert.Equal(t, "hi!", reply)
	})

	t.Run("empty reply is an upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"cnt":""}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "brain-1", "key-1", nil).Reply(context.Background(), 42, "hello")
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "brain-1", "key-1", nil).Reply(context.Background(), 42, "hello")
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := NewClient("http://localhost", "brain-1", "key-1", nil).Reply(context.Background(), 42, "   ")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
