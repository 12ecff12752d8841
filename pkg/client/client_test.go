package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_QueriesAreCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"posts": []map[string]any{{"id": "p1", "title": "hello"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	first, err := c.Posts(ctx, 20, 0)
	require.NoError(t, err)
	second, err := c.Posts(ctx, 20, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, hits.Load(), "second read must be served from cache")

	// A different page is a different key.
	_, err = c.Posts(ctx, 20, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestClient_MutationInvalidatesQueries(t *testing.T) {
	t.Parallel()

	var listHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			listHits.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{"posts": []map[string]any{}})
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p-new"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Posts(ctx, 20, 0)
	require.NoError(t, err)

	_, err = c.CreatePost(ctx, "title", "content", nil)
	require.NoError(t, err)

	_, err = c.Posts(ctx, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, listHits.Load(), "create must evict cached pages")
}

func TestClient_FailedMutationLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	var listHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listHits.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{"bookmarks": []map[string]any{}})
		case http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "Invalid bookmark", "code": "VALIDATION_ERROR"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Bookmarks(ctx)
	require.NoError(t, err)

	_, err = c.CreateBookmark(ctx, "not-a-uuid")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	_, err = c.Bookmarks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, listHits.Load(), "failed mutation must not evict the cache")
}

func TestQueryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache := newQueryCache()
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.set("k", []byte("v"), 30*time.Second)
	_, ok := cache.get("k")
	require.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = cache.get("k")
	assert.False(t, ok)
}

func TestClient_TokenIsSentOnRequests(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	_, err := c.MyProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}
