// Package web implements the remote-fetch capabilities the update pipeline
// consumes: raw bodies, parsed HTML trees, parsed JSON and content digests.
package web

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client wraps an http.Client with the request defaults every adapter shares.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		userAgent: userAgent,
	}
}

// Get fetches url and returns the response body. Any network problem or
// non-200 status is returned as an error; callers higher up the pipeline
// degrade it to an empty result.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// GetDocument fetches url and parses the body into a queryable HTML tree.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return ParseJSON(data, v)
}

// ParseDocument parses raw HTML into a queryable tree.
func ParseDocument(data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseJSON decodes JSON text that did not come off the network, e.g. a
// playlist embedded in a script block.
func ParseJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// Digest computes the content signature used for change detection. The value
// is opaque; only equality with a previously stored signature matters.
func Digest(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
