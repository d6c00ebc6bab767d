// Package devtools reads page metadata from a browser's remote debugging
// HTTP endpoint.
package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single metadata request.
const DefaultTimeout = 5 * time.Second

// Page is one entry of the /json listing.
type Page struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl,omitempty"`
}

// Client queries http://<host>:<port>/json.
type Client struct {
	httpClient *http.Client
	host       string
}

// NewClient creates a client for localhost with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		host:       "localhost",
	}
}

// Pages returns every page descriptor exposed on debugPort.
func (c *Client) Pages(ctx context.Context, debugPort int) ([]Page, error) {
	url := fmt.Sprintf("http://%s:%d/json", c.host, debugPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("GET %s: failed to read body: %w", url, err)
	}
	var pages []Page
	if err := json.Unmarshal(body, &pages); err != nil {
		return nil, fmt.Errorf("GET %s: invalid page list: %w", url, err)
	}
	return pages, nil
}

// FirstPage returns the active page descriptor, or false when the endpoint
// is unreachable, times out, or lists no pages.
func (c *Client) FirstPage(ctx context.Context, debugPort int) (Page, bool, error) {
	pages, err := c.Pages(ctx, debugPort)
	if err != nil {
		return Page{}, false, err
	}
	if len(pages) == 0 {
		return Page{}, false, nil
	}
	return pages[0], true, nil
}
