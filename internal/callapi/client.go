// Package callapi provides a client for the paginated call-log HTTP API.
package callapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/source"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	maxPages       = 1000
	userAgent      = "callboard/1.0"
)

var (
	// ErrUnauthorized indicates the API token is missing, expired or invalid.
	ErrUnauthorized = errors.New("callapi: unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("callapi: rate limited")
)

// Client fetches call records from a remote call-log API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given API base URL and bearer token.
// Returns nil if the base URL is empty or not absolute.
func NewClient(baseURL, token string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		http:    &http.Client{},
	}
}

// Host returns the API host, for display.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}
	return u.Host
}

// FetchCalls fetches one page (1-based) of at most limit records.
func (c *Client) FetchCalls(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return nil, fmt.Errorf("callapi: limit must be at least 1, got %d", limit)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/calls?"+q.Encode())
	if err != nil {
		return nil, err
	}

	items, err := source.SplitPayloads(body)
	if err != nil {
		return nil, fmt.Errorf("callapi: parsing calls: %w", err)
	}

	p := &Page{Page: page, Limit: limit, FetchedAt: time.Now()}
	for _, raw := range items {
		rec, err := source.Normalize(raw)
		if err != nil {
			p.ParseErrors++
			continue
		}
		p.Calls = append(p.Calls, rec)
	}

	var meta pageMeta
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &meta)
	}
	if total, ok := meta.total(); ok {
		p.Total = total
		p.HasMore = meta.HasMore || page*limit < total
	} else {
		// Without a reported total, a full page implies there may be more.
		p.HasMore = meta.HasMore || len(items) == limit
		p.Total = (page-1)*limit + len(items)
		if p.HasMore {
			p.Total++
		}
	}
	return p, nil
}

// FetchAll walks every page and returns all records in server order.
func (c *Client) FetchAll(ctx context.Context, limit int) ([]model.CallRecord, error) {
	var all []model.CallRecord
	for page := 1; page <= maxPages; page++ {
		p, err := c.FetchCalls(ctx, page, limit)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}
		all = append(all, p.Calls...)
		if !p.HasMore || len(p.Calls) == 0 {
			return all, nil
		}
	}
	return all, nil
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("callapi: creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("callapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("callapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("callapi: reading response: %w", err)
	}
	return body, nil
}
