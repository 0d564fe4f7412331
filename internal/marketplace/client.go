package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 512

// Client wraps the marketplace seller REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a client. timeout bounds every single request.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Orders fetches one page of the seller's orders.
func (c *Client) Orders(ctx context.Context, creds Credentials, q PageQuery) (Page[Order], error) {
	return getPage[Order](ctx, c, creds, "order", "orders", q)
}

// Products fetches one page of the seller's product listings.
func (c *Client) Products(ctx context.Context, creds Credentials, q PageQuery) (Page[Product], error) {
	return getPage[Product](ctx, c, creds, "product", "products", q)
}

func getPage[T any](ctx context.Context, c *Client, creds Credentials, service, resource string, q PageQuery) (Page[T], error) {
	if !creds.Valid() {
		return Page[T]{}, ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/%s/sellers/%s/%s", c.baseURL, service, url.PathEscape(creds.SellerID), resource)
	u, err := url.Parse(endpoint)
	if err != nil {
		return Page[T]{}, fmt.Errorf("marketplace: build url: %w", err)
	}
	u.RawQuery = q.values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	req.SetBasicAuth(creds.APIKey, creds.APISecret)
	req.Header.Set("User-Agent", creds.SellerID+" - SelfIntegration")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("marketplace request failed",
			slog.String("resource", resource), slog.Int("page", q.Page), slog.Any("error", err))
		return Page[T]{}, fmt.Errorf("marketplace: %s page %d: %w", resource, q.Page, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return Page[T]{}, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return Page[T]{}, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return Page[T]{Page: q.Page, Size: q.Size}, nil
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Page[T]{}, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page Page[T]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return Page[T]{}, fmt.Errorf("marketplace: decode %s page %d: %w", resource, q.Page, err)
	}
	return page, nil
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.OrderByField != "" {
		v.Set("orderByField", q.OrderByField)
	}
	if q.OrderByDirection != "" {
		v.Set("orderByDirection", q.OrderByDirection)
	}
	return v
}
