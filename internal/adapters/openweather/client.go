package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
)

var (
	ErrUnauthorized = errors.New("weather api key rejected")
	ErrRateLimited  = errors.New("weather api rate limit exceeded")
)

// Client implements ports.WeatherProvider against the OpenWeatherMap API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	parser     ports.WeatherParser
}

// NewClient creates a client for baseURL (e.g. https://api.openweathermap.org).
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, apiKey, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client with a custom HTTP client.
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		parser:     Parser{},
	}
}

// CurrentWeather fetches the current conditions at lat/lon.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*domain.WeatherCondition, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("units", "metric")
	if c.apiKey != "" {
		params.Set("appid", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, ErrUnauthorized)
	case http.StatusNotFound:
		return nil, fmt.Errorf("weather at %.4f,%.4f: %w", lat, lon, domain.ErrNotFound)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, ErrRateLimited)
	default:
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	return c.parser.Parse(body)
}
