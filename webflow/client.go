// ABOUTME: HTTP client for the Webflow collection item API
// ABOUTME: Idempotent slug-keyed upserts, batched publishes, and typed error surfacing
package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// publishBatchLimit is the item-id cap the publish endpoint accepts per call.
const publishBatchLimit = 100

// Item is a remote collection item. The CMS assigns the opaque ID; the slug
// inside FieldData is caller-supplied and acts as the idempotency key.
type Item struct {
	ID        string         `json:"id"`
	FieldData map[string]any `json:"fieldData"`
}

// Slug returns the caller-supplied slug from the item's field data.
func (i *Item) Slug() string {
	s, _ := i.FieldData["slug"].(string)
	return s
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, token string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// ItemBySlug looks up an item by slug. A missing item returns (nil, nil);
// absence is an expected state, not an error.
func (c *Client) ItemBySlug(ctx context.Context, collectionID, slug string) (*Item, error) {
	var resp struct {
		Items []Item `json:"items"`
	}

	path := fmt.Sprintf("/collections/%s/items?slug=%s", collectionID, url.QueryEscape(slug))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, collectionID, slug); err != nil {
		return nil, err
	}

	for i := range resp.Items {
		if resp.Items[i].Slug() == slug {
			return &resp.Items[i], nil
		}
	}
	return nil, nil
}

// Upsert creates the item when the slug is unknown and updates it in place
// otherwise. Repeated calls with the same slug never create duplicates. The
// second return reports whether the item was created.
func (c *Client) Upsert(ctx context.Context, collectionID, slug string, fields map[string]any) (*Item, bool, error) {
	existing, err := c.ItemBySlug(ctx, collectionID, slug)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		item, err := c.createItem(ctx, collectionID, slug, fields)
		return item, true, err
	}

	item, err := c.updateItem(ctx, collectionID, existing.ID, slug, fields)
	return item, false, err
}

func (c *Client) createItem(ctx context.Context, collectionID, slug string, fields map[string]any) (*Item, error) {
	var item Item
	body := map[string]any{"fieldData": fields}
	path := fmt.Sprintf("/collections/%s/items", collectionID)
	if err := c.do(ctx, http.MethodPost, path, body, &item, collectionID, slug); err != nil {
		return nil, err
	}
	c.log.Debug("created cms item",
		zap.String("collection", collectionID),
		zap.String("slug", slug),
		zap.String("item_id", item.ID))
	return &item, nil
}

func (c *Client) updateItem(ctx context.Context, collectionID, itemID, slug string, fields map[string]any) (*Item, error) {
	var item Item
	body := map[string]any{"fieldData": fields}
	path := fmt.Sprintf("/collections/%s/items/%s", collectionID, itemID)
	if err := c.do(ctx, http.MethodPatch, path, body, &item, collectionID, slug); err != nil {
		return nil, err
	}
	c.log.Debug("updated cms item",
		zap.String("collection", collectionID),
		zap.String("slug", slug),
		zap.String("item_id", itemID))
	return &item, nil
}

// PublishResult aggregates a batched publish. A partial failure keeps the
// ids that did go live.
type PublishResult struct {
	Published []string
	Failures  []PublishFailure
}

type PublishFailure struct {
	ItemID  string
	Message string
}

// Publish marks items live, splitting oversized batches at the API cap.
// Per-item rejections and whole-batch transport failures both land in
// Failures, so the call itself never errors.
func (c *Client) Publish(ctx context.Context, collectionID string, itemIDs []string) *PublishResult {
	result := &PublishResult{}

	for start := 0; start < len(itemIDs); start += publishBatchLimit {
		end := start + publishBatchLimit
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		batch := itemIDs[start:end]

		var resp struct {
			PublishedItemIDs []string `json:"publishedItemIds"`
			Errors           []struct {
				ItemID  string `json:"itemId"`
				Message string `json:"message"`
			} `json:"errors"`
		}

		body := map[string]any{"itemIds": batch}
		path := fmt.Sprintf("/collections/%s/items/publish", collectionID)
		if err := c.do(ctx, http.MethodPost, path, body, &resp, collectionID, ""); err != nil {
			// The whole batch failed at the transport level; record every id
			// so the report shows what never went live.
			for _, id := range batch {
				result.Failures = append(result.Failures, PublishFailure{ItemID: id, Message: err.Error()})
			}
			continue
		}

		result.Published = append(result.Published, resp.PublishedItemIDs...)
		for _, e := range resp.Errors {
			result.Failures = append(result.Failures, PublishFailure{ItemID: e.ItemID, Message: e.Message})
		}
	}

	return result
}

func (c *Client) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	path := fmt.Sprintf("/collections/%s/items/%s", collectionID, itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, collectionID, "")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, collection, slug string) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Collection: collection,
			Slug:       slug,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Kind:       classifyStatus(resp.StatusCode),
		}
		c.log.Warn("cms request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", apiErr.Kind.String()))
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}
