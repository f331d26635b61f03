package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarhue/storefront/internal/domain/product"
)

const sampleBody = `[
	{"id": 1, "title": "Red Shoe", "description": "a shoe", "price": 10.5,
	 "category": {"id": 3, "name": "Shoes"},
	 "images": ["[\"https://cdn.test/shoe.jpg\"]"]},
	{"id": 2, "title": "Blue Hat", "price": 5,
	 "category": {"name": "Hats"}, "images": []}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 2*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestFetch_OK(t *testing.T) {
	var gotLimit string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	products, raw, err := c.Fetch(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)
	assert.Equal(t, []byte(sampleBody), raw)

	require.Len(t, products, 2)
	assert.Equal(t, "Red Shoe", products[0].Title)
	assert.Equal(t, "Shoes", products[0].Category)
	assert.True(t, d("10.5").Equal(products[0].Price))
	assert.Equal(t, []string{"https://cdn.test/shoe.jpg"}, products[0].Images, "stray brackets stripped")
	assert.Equal(t, []string{product.PlaceholderImage}, products[1].Images)
}

func TestFetch_Non200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, _, err := c.Fetch(context.Background(), 10)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetch_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	})

	_, _, err := c.Fetch(context.Background(), 10)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 50*time.Millisecond, nil)
	require.NoError(t, err)

	_, _, err = c.Fetch(context.Background(), 10)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", time.Second, nil)
	require.NoError(t, err)

	_, _, err = c.Fetch(context.Background(), 10)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewClient_BadEndpoint(t *testing.T) {
	_, err := NewClient("://nope", time.Second, nil)
	require.Error(t, err)
}

func TestDecodeProducts_Tolerant(t *testing.T) {
	body := `[
		null,
		"just a string",
		{"id": 1},
		{"id": 2, "title": 42, "price": "7.25", "category": "Bare", "images": [7, "https://cdn.test/a.jpg"]},
		{"id": 3, "price": -4}
	]`

	products, err := DecodeProducts([]byte(body))
	require.NoError(t, err)
	require.Len(t, products, 3, "null and non-object entries dropped")

	assert.Equal(t, product.DefaultTitle, products[0].Title)
	assert.Equal(t, product.DefaultCategory, products[0].Category)
	assert.True(t, products[0].Price.IsZero())

	assert.Equal(t, product.DefaultTitle, products[1].Title, "non-string title defaulted")
	assert.True(t, d("7.25").Equal(products[1].Price), "string price accepted")
	assert.Equal(t, "Bare", products[1].Category, "bare string category accepted")
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, products[1].Images)

	assert.True(t, products[2].Price.IsZero(), "negative price clamped")
}

func TestDecodeProducts_TopLevelNotArray(t *testing.T) {
	for _, body := range []string{`{}`, `"x"`, `12`, `not json`} {
		_, err := DecodeProducts([]byte(body))
		assert.ErrorIs(t, err, ErrMalformed, "body %q", body)
	}
}
