// Package fallback draws placeholder catalog data from public demo APIs
// so the storefront appears populated while the primary backend has no
// inventory. Every record it produces is marked External and must never
// be treated as authoritative commerce data.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/industrialmart/storefront-go/client"
	"github.com/industrialmart/storefront-go/core"
)

const defaultLimit = 12

// Provider queries third-party demo catalogs and reshapes their payloads
// into the local product shape. Every method degrades to an empty result;
// none of them ever return an error to the caller.
type Provider struct {
	httpClient *http.Client
	logger     core.Logger

	catalogURL    string
	geocodeURL    string
	geocodeAPIKey string
}

// ProviderOption customizes a Provider
type ProviderOption func(*Provider)

// WithLogger sets the logger
func WithLogger(logger core.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(p *Provider) {
		if hc != nil {
			p.httpClient = hc
		}
	}
}

// New creates a Provider from configuration
func New(cfg *core.Config, opts ...ProviderOption) *Provider {
	p := &Provider{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        &core.NoOpLogger{},
		catalogURL:    cfg.CatalogURL,
		geocodeURL:    cfg.GeocodeURL,
		geocodeAPIKey: cfg.GeocodeAPIKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// categoryKeyword maps a normalized category to the search term used
// against the demo catalog
func categoryKeyword(category client.Category) string {
	switch category {
	case client.CategoryPipes:
		return "pipe"
	case client.CategoryFittings:
		return "fitting"
	case client.CategoryValves:
		return "valve"
	default:
		return "industrial"
	}
}

// demoProduct is the demo API's record shape
type demoProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (d demoProduct) toProduct(category client.Category) client.Product {
	image := d.Thumbnail
	if image == "" {
		image = d.Image
	}
	if category == "" {
		category = client.NormalizeCategory(d.Category)
	}
	return client.Product{
		ID:          "ext-" + strconv.Itoa(d.ID),
		Name:        d.Title,
		Category:    category,
		Image:       image,
		Description: d.Description,
		SizeOptions: []client.SizeOption{{Size: "standard", Price: d.Price}},
		External:    true,
	}
}

// IndustrialProducts fetches placeholder products for a category from the
// demo catalog. Empty on any failure, never an error.
func (p *Provider) IndustrialProducts(ctx context.Context, category client.Category, limit int) []client.Product {
	if limit <= 0 {
		limit = defaultLimit
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d",
		strings.TrimRight(p.catalogURL, "/"), url.QueryEscape(categoryKeyword(category)), limit)

	body, err := p.get(ctx, endpoint)
	if err != nil {
		p.logger.Debug("External catalog unavailable", map[string]interface{}{
			"operation": "fallback_products",
			"category":  string(category),
			"error":     err.Error(),
		})
		return []client.Product{}
	}

	var parsed struct {
		Products []demoProduct `json:"products"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Some demo APIs return a bare array
		var bare []demoProduct
		if err2 := json.Unmarshal(body, &bare); err2 != nil {
			return []client.Product{}
		}
		parsed.Products = bare
	}

	products := make([]client.Product, 0, len(parsed.Products))
	for _, d := range parsed.Products {
		if len(products) >= limit {
			break
		}
		products = append(products, d.toProduct(category))
	}
	return products
}

// Suggestions filters the built-in demo catalog by case-insensitive
// substring match against title and description. At most limit results.
func (p *Provider) Suggestions(ctx context.Context, query string, limit int) []client.Product {
	if limit <= 0 {
		limit = defaultLimit
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []client.Product{}
	}

	matches := make([]client.Product, 0, limit)
	for _, d := range demoCatalog {
		if len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(d.Title), needle) ||
			strings.Contains(strings.ToLower(d.Description), needle) {
			matches = append(matches, d.toProduct(""))
		}
	}
	return matches
}

// Geocode resolves an address to coordinates using the configured
// geocoding service. Orthogonal to the product domain; used by the
// contact page map.
func (p *Provider) Geocode(ctx context.Context, address string) (lat, lon float64, err error) {
	if p.geocodeAPIKey == "" {
		return 0, 0, fmt.Errorf("%w: geocode API key", core.ErrMissingConfiguration)
	}

	endpoint := fmt.Sprintf("%s?q=%s&api_key=%s",
		strings.TrimRight(p.geocodeURL, "/"), url.QueryEscape(address), url.QueryEscape(p.geocodeAPIKey))

	body, err := p.get(ctx, endpoint)
	if err != nil {
		return 0, 0, err
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode result for %q", address)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return lat, lon, nil
}

func (p *Provider) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
