package tileserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// maxTileBytes caps a single upstream tile body.
const maxTileBytes = 4 << 20

// Client implements ports.TileFetcher over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a tile client with the given request timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, userAgent)
}

// NewClientWithHTTP creates a tile client with a custom HTTP client.
func NewClientWithHTTP(httpClient *http.Client, userAgent string) *Client {
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// FetchTile downloads the tile at url.
func (c *Client) FetchTile(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: tile not found upstream", domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}
	if len(data) > maxTileBytes {
		return nil, "", fmt.Errorf("%w: tile exceeds %d bytes", domain.ErrUpstream, maxTileBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
