// ABOUTME: Tests for the Webflow item API client
// ABOUTME: Covers slug lookup, idempotent upserts, batch publishing, and error classification
package webflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCMS is a minimal in-memory collection item API.
type fakeCMS struct {
	items       map[string]map[string]any // item id -> fieldData
	nextID      int
	createCalls int
	updateCalls int
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{items: make(map[string]map[string]any)}
}

func (f *fakeCMS) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			slug := r.URL.Query().Get("slug")
			var found []map[string]any
			for id, fields := range f.items {
				if fields["slug"] == slug {
					found = append(found, map[string]any{"id": id, "fieldData": fields})
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": found})

		case r.Method == http.MethodPost:
			var body struct {
				FieldData map[string]any `json:"fieldData"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.nextID++
			f.createCalls++
			id := fmt.Sprintf("item_%d", f.nextID)
			f.items[id] = body.FieldData
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "fieldData": body.FieldData})

		case r.Method == http.MethodPatch:
			var body struct {
				FieldData map[string]any `json:"fieldData"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.updateCalls++
			id := path.Base(r.URL.Path)
			f.items[id] = body.FieldData
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "fieldData": body.FieldData})
		}
	}
}

func TestItemBySlug(t *testing.T) {
	cms := newFakeCMS()
	cms.items["item_9"] = map[string]any{"slug": "acme-dumpsters", "name": "Acme"}
	server := httptest.NewServer(cms.handler())
	defer server.Close()

	client := NewClient(server.URL, "tok", zap.NewNop())

	item, err := client.ItemBySlug(context.Background(), "col_p", "acme-dumpsters")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "item_9", item.ID)

	missing, err := client.ItemBySlug(context.Background(), "col_p", "no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, missing, "not-found must not be an error")
}

func TestUpsertIsIdempotent(t *testing.T) {
	cms := newFakeCMS()
	server := httptest.NewServer(cms.handler())
	defer server.Close()

	client := NewClient(server.URL, "tok", zap.NewNop())
	fields := map[string]any{"slug": "acme-dumpsters", "name": "Acme"}

	item, created, err := client.Upsert(context.Background(), "col_p", "acme-dumpsters", fields)
	require.NoError(t, err)
	assert.True(t, created, "first upsert should create")
	firstID := item.ID

	item, created, err = client.Upsert(context.Background(), "col_p", "acme-dumpsters", fields)
	require.NoError(t, err)
	assert.False(t, created, "second upsert should update, not create")
	assert.Equal(t, firstID, item.ID, "same slug must map to the same remote item")

	assert.Equal(t, 1, cms.createCalls)
	assert.Equal(t, 1, cms.updateCalls)
	assert.Len(t, cms.items, 1, "no duplicate items for the same slug")
}

func TestPublishSplitsBatches(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ItemIDs []string `json:"itemIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		batchSizes = append(batchSizes, len(body.ItemIDs))
		_ = json.NewEncoder(w).Encode(map[string]any{"publishedItemIds": body.ItemIDs})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", zap.NewNop())

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("item_%d", i)
	}

	result := client.Publish(context.Background(), "col_p", ids)
	assert.Equal(t, []int{100, 100, 50}, batchSizes)
	assert.Len(t, result.Published, 250)
	assert.Empty(t, result.Failures)
}

func TestPublishAggregatesPartialFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ItemIDs []string `json:"itemIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		// Reject the first id of every batch, publish the rest
		resp := map[string]any{
			"publishedItemIds": body.ItemIDs[1:],
			"errors": []map[string]any{
				{"itemId": body.ItemIDs[0], "message": "item is invalid"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", zap.NewNop())

	result := client.Publish(context.Background(), "col_p", []string{"a", "b", "c"})
	assert.Equal(t, []string{"b", "c"}, result.Published)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "a", result.Failures[0].ItemID)
}

func TestPublishTransportFailureFoldsIntoFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", zap.NewNop())

	result := client.Publish(context.Background(), "col_p", []string{"a", "b"})
	assert.Empty(t, result.Published)
	require.Len(t, result.Failures, 2, "every id in a failed batch is reported")
	assert.Equal(t, "a", result.Failures[0].ItemID)
	assert.Contains(t, result.Failures[0].Message, "boom")
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		kind      ErrorKind
		retryable bool
	}{
		{429, KindRateLimited, true},
		{401, KindAuth, false},
		{403, KindAuth, false},
		{500, KindServer, true},
		{503, KindServer, true},
		{400, KindRequest, false},
		{404, KindRequest, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, "tok", zap.NewNop())
			_, _, err := client.Upsert(context.Background(), "col_p", "some-slug", map[string]any{"slug": "some-slug"})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "error should be an *APIError")
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.retryable, apiErr.Retryable())
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "col_p", apiErr.Collection)
			assert.Equal(t, "some-slug", apiErr.Slug)
		})
	}
}

func TestBearerTokenSent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok_secret", zap.NewNop())
	_, err := client.ItemBySlug(context.Background(), "col_p", "x")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok_secret", gotAuth)
}
