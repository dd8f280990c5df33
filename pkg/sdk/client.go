package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client reads from a running bot's stats API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetStats fetches the counts for date (YYYY-MM-DD). An empty date means today on the server
func (c *Client) GetStats(ctx context.Context, date string) (*StatsResponse, error) {
	path := "/api/stats"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}

	var out ApiResponse[StatsResponse]
	if err := c.doJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Health checks that the API is up
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil)
}

// doJSON is a helper to perform JSON requests to the API
func (c *Client) doJSON(ctx context.Context, method, path string, out any) error {
	// Create the request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// On error, read body and return error
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("[SDK]: '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
	}

	// If no output expected, return early
	if out == nil {
		return nil
	}

	// Decode the response body into the output struct
	return json.NewDecoder(resp.Body).Decode(out)
}
