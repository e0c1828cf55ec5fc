package client

import (
	"context"
	"net/url"
)

// defaultSuggestionLimit caps suggestion results when the caller passes 0
const defaultSuggestionLimit = 8

// ProductService covers catalog reads. Every list method degrades to an
// empty slice and GetByID to nil, so rendering code never branches on
// failure for read paths. When the primary backend comes back empty or
// broken, listing and search fall through to the external demo catalog so
// the storefront never looks bare.
type ProductService struct {
	client *Client
}

// GetAll lists the full catalog
func (s *ProductService) GetAll(ctx context.Context) []Product {
	products := s.list(ctx, "/products", "products.GetAll")
	if len(products) == 0 && s.client.fallback != nil {
		return s.client.fallback.IndustrialProducts(ctx, "", 0)
	}
	return products
}

// GetByCategory lists one normalized category bucket
func (s *ProductService) GetByCategory(ctx context.Context, category Category) []Product {
	products := s.list(ctx, "/products/category/"+url.PathEscape(string(category)), "products.GetByCategory")
	if len(products) == 0 && s.client.fallback != nil {
		return s.client.fallback.IndustrialProducts(ctx, category, 0)
	}
	return products
}

// GetByID fetches a single product, nil on any failure including 404
func (s *ProductService) GetByID(ctx context.Context, id string) *Product {
	payload, err := s.client.do(ctx, "/products/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		s.logDegraded("products.GetByID", err)
		return nil
	}
	product, err := decodeProduct(payload)
	if err != nil {
		s.logDegraded("products.GetByID", err)
		return nil
	}
	return product
}

// Search runs a full-text catalog search
func (s *ProductService) Search(ctx context.Context, query string) []Product {
	products := s.list(ctx, "/products/search?q="+url.QueryEscape(query), "products.Search")
	if len(products) == 0 && s.client.fallback != nil {
		return s.client.fallback.Suggestions(ctx, query, 0)
	}
	return products
}

// GetSuggestions returns typeahead suggestions for a partial query
func (s *ProductService) GetSuggestions(ctx context.Context, query string, limit int) []Product {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	endpoint := "/products/search/suggestions?q=" + url.QueryEscape(query)
	products := s.list(ctx, endpoint, "products.GetSuggestions")
	if len(products) == 0 && s.client.fallback != nil {
		products = s.client.fallback.Suggestions(ctx, query, limit)
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// GetDiscounted lists the curated discount selection
func (s *ProductService) GetDiscounted(ctx context.Context) []Product {
	return s.list(ctx, "/products/discounted", "products.GetDiscounted")
}

// GetPopular lists the curated popular selection
func (s *ProductService) GetPopular(ctx context.Context) []Product {
	return s.list(ctx, "/products/popular", "products.GetPopular")
}

// list fetches and normalizes a product collection, degrading to empty
func (s *ProductService) list(ctx context.Context, endpoint, op string) []Product {
	payload, err := s.client.do(ctx, endpoint, RequestOptions{})
	if err != nil {
		s.logDegraded(op, err)
		return []Product{}
	}
	products, err := decodeProducts(payload)
	if err != nil {
		s.logDegraded(op, err)
		return []Product{}
	}
	if products == nil {
		return []Product{}
	}
	return products
}

func (s *ProductService) logDegraded(op string, err error) {
	s.client.logger.Debug("Read degraded to empty result", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
}
