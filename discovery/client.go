// Package discovery implements the marketplace discovery client: a single
// filtered list query against the dexfra service catalog.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dexfra-fun/dexfra-agent/logger"
	"github.com/dexfra-fun/dexfra-agent/x402"
)

// Service is one marketplace listing.
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags,omitempty"`
	Endpoint    string   `json:"endpoint"`
}

// Filters narrows a marketplace search. Zero values are omitted from the
// query; price bounds are inclusive.
type Filters struct {
	Category string
	Query    string
	Tags     []string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// Client queries the marketplace API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for catalog queries.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAPIKey sets the marketplace API key sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger sets the structured logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a marketplace client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("marketplace base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search performs one filtered list query and returns the matching services.
// A 404 from the API maps to api_not_found; any other non-200 status,
// transport failure or undecodable body maps to api_search_failed.
func (c *Client) Search(ctx context.Context, filters Filters) ([]Service, error) {
	endpoint := c.baseURL + "/services?" + filters.encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, x402.NewProtocolError(x402.ErrCodeAPISearchFailed, "failed to build search request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, x402.NewProtocolError(x402.ErrCodeAPISearchFailed, "marketplace query failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, x402.NewProtocolError(x402.ErrCodeAPINotFound, "marketplace endpoint not found", nil).
			WithDetail("url", endpoint)
	case resp.StatusCode != http.StatusOK:
		return nil, x402.NewProtocolError(x402.ErrCodeAPISearchFailed,
			fmt.Sprintf("marketplace query returned status %d", resp.StatusCode), nil)
	}

	var result struct {
		Services []Service `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, x402.NewProtocolError(x402.ErrCodeAPISearchFailed, "failed to decode marketplace response", err)
	}

	c.log.Debug("marketplace search completed", map[string]any{
		"count":    len(result.Services),
		"category": filters.Category,
	})
	return result.Services, nil
}

func (f Filters) encode() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Query != "" {
		q.Set("search", f.Query)
	}
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q.Encode()
}
