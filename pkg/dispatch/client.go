package dispatch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single dispatch attempt
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of an error body is kept for the operator
const maxBodyBytes = 512

// Query parameter names expected by the destination endpoints
const (
	ParamInvoice = "invoice"
	ParamKey     = "key"
)

// Ack is the result of a successful dispatch
type Ack struct {
	Destination string
	Reference   string
	StatusCode  int
	RequestID   string
}

// Client sends references to destination endpoints
type Client struct {
	httpClient *http.Client
}

// NewClient creates a dispatch client with the given per-request timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClientWithHTTP(&http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a dispatch client around an existing http.Client
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Dispatch sends a single GET request carrying the reference and the destination's key.
// No retries are performed; the error is one of *ServerError, *ConnectionError or *UnexpectedError
func (c *Client) Dispatch(ctx context.Context, dest destination.Destination, reference string) (*Ack, error) {
	requestID := uuid.NewString()

	// Build the request URL, keeping any query already present in the configured URL
	u, err := url.Parse(dest.URL)
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("invalid url for '%s': %w", dest.Name, err)}
	}
	query := u.Query()
	query.Set(ParamInvoice, reference)
	query.Set(ParamKey, dest.Key)
	u.RawQuery = query.Encode()

	// Create the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}
	req.Header.Set("X-Request-ID", requestID)

	// Perform the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[DISPATCH]: Request %s to '%s' failed: %v", requestID, dest.Name, err)
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// On error, keep the start of the body for the operator
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		b = trimPartialRune(b)
		log.Printf("[DISPATCH]: Request %s to '%s' returned %d: %s", requestID, dest.Name, resp.StatusCode, string(b))
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Printf("[DISPATCH]: Request %s delivered reference %s to '%s'", requestID, reference, dest.Name)
	return &Ack{
		Destination: dest.Name,
		Reference:   reference,
		StatusCode:  resp.StatusCode,
		RequestID:   requestID,
	}, nil
}

// trimPartialRune drops a multi-byte character cut off at the end of b
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
