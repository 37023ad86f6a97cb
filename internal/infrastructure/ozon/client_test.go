package ozon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorderSpy struct {
	mu        sync.Mutex
	exchanges []exchange.Exchange
}

func (r *recorderSpy) Record(_ context.Context, ex exchange.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, ex)
	return nil
}

func (r *recorderSpy) recorded() []exchange.Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]exchange.Exchange, len(r.exchanges))
	copy(out, r.exchanges)
	return out
}

func newTestClient(t *testing.T, baseURL string, rec Recorder) *Client {
	t.Helper()
	cfg := &config.OzonConfig{BaseURL: baseURL, TimeoutSeconds: 5}
	cred := Credential{Identity: "12345", APIKey: "key-abc"}
	return NewClient(cfg, cred, rec, zap.NewNop())
}

func TestClientCall(t *testing.T) {
	t.Run("sends credential headers and archives the exchange", func(t *testing.T) {
		var gotClientID, gotAPIKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotClientID = r.Header.Get("Client-Id")
			gotAPIKey = r.Header.Get("Api-Key")
			w.Write([]byte(`{"result":{"items":[{"product_id":1}]}}`))
		}))
		defer srv.Close()

		rec := &recorderSpy{}
		client := newTestClient(t, srv.URL, rec)

		env, err := client.Call(context.Background(), http.MethodPost, "/v3/product/list", map[string]any{"limit": 10})
		require.NoError(t, err)
		assert.Len(t, env.Items, 1)
		assert.Equal(t, "12345", gotClientID)
		assert.Equal(t, "key-abc", gotAPIKey)

		exchanges := rec.recorded()
		require.Len(t, exchanges, 1)
		assert.Equal(t, "/v3/product/list", exchanges[0].Endpoint)
		assert.True(t, exchanges[0].Success)
		assert.Equal(t, http.StatusOK, exchanges[0].HTTPStatus)
	})

	t.Run("non-2xx comes back as APIError and is still archived", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"invalid key"}`))
		}))
		defer srv.Close()

		rec := &recorderSpy{}
		client := newTestClient(t, srv.URL, rec)

		_, err := client.Call(context.Background(), http.MethodPost, "/v2/seller/info", nil)
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
		assert.False(t, IsNotFound(err))

		exchanges := rec.recorded()
		require.Len(t, exchanges, 1)
		assert.False(t, exchanges[0].Success)
		assert.Equal(t, "HTTP 403", exchanges[0].ErrorMessage)
	})

	t.Run("transport failures are archived without a status", func(t *testing.T) {
		rec := &recorderSpy{}
		client := newTestClient(t, "http://127.0.0.1:1", rec)

		_, err := client.Call(context.Background(), http.MethodPost, "/v3/product/list", nil)
		require.Error(t, err)

		exchanges := rec.recorded()
		require.Len(t, exchanges, 1)
		assert.False(t, exchanges[0].Success)
		assert.Zero(t, exchanges[0].HTTPStatus)
		assert.NotEmpty(t, exchanges[0].ErrorMessage)
	})

	t.Run("nil recorder is tolerated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, nil)
		_, err := client.Call(context.Background(), http.MethodPost, "/x", nil)
		assert.NoError(t, err)
	})
}

func TestClientCallWithFallback(t *testing.T) {
	t.Run("retries the legacy path on 404 only", func(t *testing.T) {
		var paths []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/v3/product/info/list" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"result":{"items":[{"id":1}]}}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, &recorderSpy{})
		env, err := client.CallWithFallback(context.Background(),
			http.MethodPost, "/v3/product/info/list", "/v2/product/info/list", nil)
		require.NoError(t, err)
		assert.Len(t, env.Items, 1)
		assert.Equal(t, []string{"/v3/product/info/list", "/v2/product/info/list"}, paths)
	})

	t.Run("other failures never trigger the fallback", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, &recorderSpy{})
		_, err := client.CallWithFallback(context.Background(),
			http.MethodPost, "/v3/product/info/list", "/v2/product/info/list", nil)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
