package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFallback records calls and returns canned placeholder products
type stubFallback struct {
	industrialCalls int
	suggestionCalls int
	products        []Product
}

func (s *stubFallback) IndustrialProducts(ctx context.Context, category Category, limit int) []Product {
	s.industrialCalls++
	return s.products
}

func (s *stubFallback) Suggestions(ctx context.Context, query string, limit int) []Product {
	s.suggestionCalls++
	return s.products
}

func placeholderProducts(n int) []Product {
	products := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, Product{
			ID:          "ext-1",
			Name:        "Demo Pipe",
			Category:    CategoryPipes,
			SizeOptions: []SizeOption{{Size: "standard", Price: 5}},
			External:    true,
		})
	}
	return products
}

func TestGetAllFallsBackWhenBackendEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fb := &stubFallback{products: placeholderProducts(2)}
	c := newTestClient(t, server.URL, WithFallback(fb))

	products := c.Products.GetAll(context.Background())

	assert.Equal(t, 1, fb.industrialCalls)
	require.Len(t, products, 2)
	assert.True(t, products[0].External)
}

func TestGetAllSkipsFallbackWhenBackendHasData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","name":"PVC Pipe","category":"Pipes","price":10}]`))
	}))
	defer server.Close()

	fb := &stubFallback{products: placeholderProducts(2)}
	c := newTestClient(t, server.URL, WithFallback(fb))

	products := c.Products.GetAll(context.Background())

	assert.Equal(t, 0, fb.industrialCalls)
	require.Len(t, products, 1)
	assert.False(t, products[0].External)
}

func TestGetByCategoryFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fb := &stubFallback{products: placeholderProducts(3)}
	c := newTestClient(t, server.URL, WithFallback(fb))

	products := c.Products.GetByCategory(context.Background(), CategoryValves)

	assert.Equal(t, 1, fb.industrialCalls)
	assert.Len(t, products, 3)
}

func TestListReadsNeverReturnNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// No fallback wired: degraded reads still produce an empty slice
	c := newTestClient(t, server.URL)
	ctx := context.Background()

	assert.NotNil(t, c.Products.GetAll(ctx))
	assert.NotNil(t, c.Products.GetByCategory(ctx, CategoryPipes))
	assert.NotNil(t, c.Products.Search(ctx, "valve"))
	assert.NotNil(t, c.Products.GetDiscounted(ctx))
	assert.NotNil(t, c.Products.GetPopular(ctx))
}

func TestGetByIDDegradesToNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	assert.Nil(t, c.Products.GetByID(context.Background(), "42"))
}

func TestGetByIDReturnsNormalizedProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"42","name":"Check Valve","category":"Industrial Valves","price":75}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	p := c.Products.GetByID(context.Background(), "42")

	require.NotNil(t, p)
	assert.Equal(t, CategoryValves, p.Category)
	require.Len(t, p.SizeOptions, 1)
	assert.Equal(t, 75.0, p.SizeOptions[0].Price)
}

func TestGetSuggestionsCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fb := &stubFallback{products: placeholderProducts(20)}
	c := newTestClient(t, server.URL, WithFallback(fb))

	assert.Len(t, c.Products.GetSuggestions(context.Background(), "pi", 5), 5)
	assert.Len(t, c.Products.GetSuggestions(context.Background(), "pi", 0), defaultSuggestionLimit)
}

func TestSearchSendsQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[{"id":"1","name":"Gate Valve","category":"Valves","price":80}]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	products := c.Products.Search(context.Background(), "gate valve")

	assert.Equal(t, "gate valve", gotQuery)
	assert.Len(t, products, 1)
}
