// Package apiclient talks to the storeops HTTP API. It backs the search CLI
// and persists screen state through the previous-search endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/storeservice"
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d - %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SearchReceipts(ctx context.Context, q search.QuerySearch) (search.Result[*receipt.ReceiptOfMaterial], error) {
	var out search.Result[*receipt.ReceiptOfMaterial]
	err := c.do(ctx, http.MethodPost, "/api/receipts/search", q, &out)
	return out, err
}

func (c *Client) SearchStoreServices(ctx context.Context, q search.QuerySearch) (search.Result[*storeservice.StoreService], error) {
	var out search.Result[*storeservice.StoreService]
	err := c.do(ctx, http.MethodPost, "/api/store-services/search", q, &out)
	return out, err
}

// PatchStoreServices sends a grid save and returns the updated row count.
func (c *Client) PatchStoreServices(ctx context.Context, patches []search.Patch) (int, error) {
	var out struct {
		Updated int `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/store-services", patches, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

func (c *Client) PreviousSearch(ctx context.Context, screen string) (*search.PreviousSearch, error) {
	var ps search.PreviousSearch
	found, err := c.get(ctx, "/api/previous-search/"+url.PathEscape(screen), &ps)
	if err != nil || !found {
		return nil, err
	}
	return &ps, nil
}

func (c *Client) SavePreviousSearch(ctx context.Context, screen string, ps search.PreviousSearch) error {
	return c.do(ctx, http.MethodPut, "/api/previous-search/"+url.PathEscape(screen), ps, nil)
}

func (c *Client) PreviousColumns(ctx context.Context, screen string) ([]string, error) {
	var out struct {
		Columns []string `json:"columns"`
	}
	if _, err := c.get(ctx, "/api/previous-columns/"+url.PathEscape(screen), &out); err != nil {
		return nil, err
	}
	return out.Columns, nil
}

func (c *Client) SavePreviousColumns(ctx context.Context, screen string, columns []string) error {
	body := map[string][]string{"columns": columns}
	return c.do(ctx, http.MethodPut, "/api/previous-columns/"+url.PathEscape(screen), body, nil)
}

// get reports found=false on 204.
func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	return true, decodeResponse(resp, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

var _ search.PreviousSearchStore = (*Client)(nil)
