package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibedex/vibedex/pkg/types"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires proxy url", func(t *testing.T) {
		t.Parallel()
		c, err := New(Config{})
		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "ProxyURL is required")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, Config{ProxyURL: " http://localhost:5174// "})
		assert.Equal(t, "http://localhost:5174", c.proxyURL)
		assert.Equal(t, DefaultCatalogURL, c.catalogURL)
		require.NotNil(t, c.http)
		assert.Equal(t, defaultTimeout, c.http.Timeout)
	})

	t.Run("uses custom values", func(t *testing.T) {
		t.Parallel()
		hc := &http.Client{}
		c := newTestClient(t, Config{
			CatalogURL: "http://catalog.invalid/api/",
			ProxyURL:   "http://proxy.invalid",
			HTTPClient: hc,
		})
		assert.Equal(t, "http://catalog.invalid/api", c.catalogURL)
		assert.Same(t, hc, c.http)
	})
}

func TestFetchList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		respondJSON(w, http.StatusOK, map[string]any{
			"count": 1302,
			"next":  "http://example.invalid/pokemon?offset=60&limit=20",
			"results": []map[string]string{
				{"name": "bulbasaur", "url": "http://example.invalid/pokemon/1/"},
				{"name": "ivysaur", "url": "http://example.invalid/pokemon/2/"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{CatalogURL: srv.URL, ProxyURL: srv.URL})
	page, err := c.FetchList(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.Equal(t, 1302, page.Count)
	require.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, []types.NamedResource{
		{Name: "bulbasaur", URL: "http://example.invalid/pokemon/1/"},
		{Name: "ivysaur", URL: "http://example.invalid/pokemon/2/"},
	}, page.Results)
}

func TestFetchList_NonSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{CatalogURL: srv.URL, ProxyURL: srv.URL})
	page, err := c.FetchList(context.Background(), 20, 0)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrListFailed)
	assert.NotContains(t, err.Error(), "503")
}

func TestFetchDetails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/25/", r.URL.Path)
		respondJSON(w, http.StatusOK, map[string]any{
			"id":      25,
			"name":    "pikachu",
			"height":  4,
			"weight":  60,
			"sprites": map[string]any{"front_default": "http://img.invalid/25.png"},
			"types": []map[string]any{
				{"slot": 1, "type": map[string]string{"name": "electric", "url": "u"}},
			},
			"abilities": []map[string]any{
				{"slot": 1, "is_hidden": false, "ability": map[string]string{"name": "static"}},
				{"slot": 3, "is_hidden": true, "ability": map[string]string{"name": "lightning-rod"}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{ProxyURL: srv.URL})
	detail, err := c.FetchDetails(context.Background(), srv.URL+"/pokemon/25/")
	require.NoError(t, err)
	assert.Equal(t, 25, detail.ID)
	assert.Equal(t, "pikachu", detail.Name)
	assert.Equal(t, "http://img.invalid/25.png", detail.Sprites.FrontDefault)
	assert.Equal(t, []string{"electric"}, detail.TypeNames())
	assert.Equal(t, []string{"static", "lightning-rod"}, detail.AbilityNames())
	assert.True(t, detail.Abilities[1].IsHidden)
}

func TestFetchDetails_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{ProxyURL: srv.URL})

	_, err := c.FetchDetails(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detail url is required")

	_, err = c.FetchDetails(context.Background(), srv.URL+"/pokemon/9999/")
	require.ErrorIs(t, err, ErrDetailsFailed)
}

func TestFetchProtectedResource_Success(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/proxy", r.URL.Path)
		assert.Equal(t, "/__demo/protected", r.URL.Query().Get("path"))
		assert.Equal(t, "a=1&b=2", r.URL.Query().Get("query"))
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "n": 7})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{ProxyURL: srv.URL + "/"})
	payload, err := c.FetchProtectedResource(context.Background(), "/__demo/protected", "a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true, "n": json.Number("7")}, payload)
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetchProtectedResource_OmitsEmptyQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["query"]
		assert.False(t, present)
		respondJSON(w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{ProxyURL: srv.URL})
	_, err := c.FetchProtectedResource(context.Background(), "/x", "")
	require.NoError(t, err)
}

func TestFetchProtectedResource_NonSuccess(t *testing.T) {
	t.Parallel()

	t.Run("uses payload error field", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"error":   "Upstream request failed.",
				"status":  401,
				"details": map[string]any{"error": "Unauthorized."},
			})
		}))
		defer srv.Close()

		c := newTestClient(t, Config{ProxyURL: srv.URL})
		_, err := c.FetchProtectedResource(context.Background(), "/x", "")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Upstream request failed.", apiErr.Error())
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
		details, ok := apiErr.Details().(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("401"), details["status"])
		assert.False(t, errors.Is(err, ErrServerUnreachable))
	})

	t.Run("falls back to status message", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))
		defer srv.Close()

		c := newTestClient(t, Config{ProxyURL: srv.URL})
		_, err := c.FetchProtectedResource(context.Background(), "/x", "")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Request failed with status 418.", apiErr.Error())
		assert.Equal(t, map[string]any{"message": "short and stout"}, apiErr.Details())
	})
}

func TestFetchProtectedResource_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	proxyURL := srv.URL
	srv.Close()

	c := newTestClient(t, Config{ProxyURL: proxyURL})
	_, err := c.FetchProtectedResource(context.Background(), "/x", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerUnreachable)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Server not reachable.", apiErr.Error())
	assert.Zero(t, apiErr.StatusCode())
	details, ok := apiErr.Details().(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, details["error"])
}
