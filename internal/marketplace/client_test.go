package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{SellerID: "1234", APIKey: "key", APISecret: "secret"}

func TestClientOrdersSendsAuthAndQuery(t *testing.T) {
	var seen *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		_ = json.NewEncoder(w).Encode(Page[Order]{
			Content:       []Order{{OrderNumber: "A-1", Status: "Created", TotalPrice: 99.9}},
			TotalElements: 1,
			TotalPages:    1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	page, err := c.Orders(context.Background(), testCreds, PageQuery{Page: 2, Size: 50, Status: "Created"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "A-1", page.Content[0].OrderNumber)

	require.NotNil(t, seen)
	assert.Equal(t, "/order/sellers/1234/orders", seen.URL.Path)
	assert.Equal(t, "2", seen.URL.Query().Get("page"))
	assert.Equal(t, "50", seen.URL.Query().Get("size"))
	assert.Equal(t, "Created", seen.URL.Query().Get("status"))
	assert.Equal(t, "1234 - SelfIntegration", seen.Header.Get("User-Agent"))
	user, pass, ok := seen.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "key", user)
	assert.Equal(t, "secret", pass)
}

func TestClientProductsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/sellers/1234/products", r.URL.Path)
		_, _ = w.Write([]byte(`{"content":[{"id":"p1","barcode":"B1","quantity":3,"dimensionalWeight":2.5}],"totalPages":1}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, time.Second, nil).Products(context.Background(), testCreds, PageQuery{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 2.5, page.Content[0].DimensionalWeight)
}

func TestClientErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, page Page[Order], err error)
	}{
		{http.StatusUnauthorized, func(t *testing.T, _ Page[Order], err error) { assert.True(t, errors.Is(err, ErrUnauthorized)) }},
		{http.StatusForbidden, func(t *testing.T, _ Page[Order], err error) { assert.True(t, errors.Is(err, ErrUnauthorized)) }},
		{http.StatusTooManyRequests, func(t *testing.T, _ Page[Order], err error) { assert.True(t, errors.Is(err, ErrRateLimited)) }},
		{http.StatusNotFound, func(t *testing.T, page Page[Order], err error) {
			require.NoError(t, err)
			assert.Empty(t, page.Content)
		}},
		{http.StatusBadGateway, func(t *testing.T, _ Page[Order], err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.Equal(t, "upstream down", apiErr.Body)
		}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("upstream down"))
			}))
			defer srv.Close()
			page, err := NewClient(srv.URL, time.Second, nil).Orders(context.Background(), testCreds, PageQuery{})
			tc.check(t, page, err)
		})
	}
}

func TestClientRequiresCredentials(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, nil)
	_, err := c.Orders(context.Background(), Credentials{SellerID: "1"}, PageQuery{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.True(t, IsFatal(err))
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 50*time.Millisecond, nil).Orders(context.Background(), testCreds, PageQuery{})
	require.Error(t, err)
	assert.False(t, IsFatal(err))
}
