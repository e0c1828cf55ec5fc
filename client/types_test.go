package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"Pipes", CategoryPipes},
		{"PVC PIPE", CategoryPipes},
		{"Fittings", CategoryFittings},
		{"Compression Fitting", CategoryFittings},
		{"Valves", CategoryValves},
		{"Ball Valve", CategoryValves},
		{"Gaskets", CategoryOther},
		{"", CategoryOther},
		// "pipe" outranks "fitting" regardless of word order
		{"GI Pipe Fittings", CategoryPipes},
		{"Fittings for Pipes", CategoryPipes},
		// "fitting" outranks "valve"
		{"Valve Fittings", CategoryFittings},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.raw), "raw=%q", tt.raw)
	}
}

func TestDecodeProductsSynthesizesSizeOptions(t *testing.T) {
	payload := json.RawMessage(`[{"id":"1","name":"PVC Pipe","category":"Pipes","price":12.5}]`)

	products, err := decodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, CategoryPipes, p.Category)
	require.Len(t, p.SizeOptions, 1)
	assert.Equal(t, "standard", p.SizeOptions[0].Size)
	assert.Equal(t, 12.5, p.SizeOptions[0].Price)
}

func TestDecodeProductsKeepsExplicitSizeOptions(t *testing.T) {
	payload := json.RawMessage(`[{"id":"1","name":"Ball Valve","category":"Valves","price":99,
		"sizeOptions":[{"size":"1/2\"","price":40},{"size":"3/4\"","price":55}]}]`)

	products, err := decodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].SizeOptions, 2)
	assert.Equal(t, `1/2"`, products[0].SizeOptions[0].Size)
}

func TestDecodeProductsWrappedCollection(t *testing.T) {
	payload := json.RawMessage(`{"products":[{"id":"1","name":"Elbow","category":"Fittings","price":3}]}`)

	products, err := decodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, CategoryFittings, products[0].Category)
}

func TestDecodeProductsEmptyPayload(t *testing.T) {
	products, err := decodeProducts(nil)
	require.NoError(t, err)
	assert.Nil(t, products)
}

func TestDecodeProduct(t *testing.T) {
	p, err := decodeProduct(json.RawMessage(`{"id":"7","name":"Gate Valve","category":"Valves","price":120}`))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, CategoryValves, p.Category)
	require.Len(t, p.SizeOptions, 1)
}

func TestDecodeProductEmptyRecord(t *testing.T) {
	p, err := decodeProduct(json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = decodeProduct(nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDecodeUser(t *testing.T) {
	// Wrapped shape
	u, err := decodeUser(json.RawMessage(`{"user":{"id":"u1","name":"Aisha","email":"a@b.com"}}`))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	// Direct shape
	u, err = decodeUser(json.RawMessage(`{"id":"u2","email":"c@d.com"}`))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u2", u.ID)

	// No active session
	u, err = decodeUser(json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = decodeUser(nil)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", extractErrorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "broken", extractErrorMessage([]byte(`{"message":"broken"}`)))
	assert.Equal(t, "plain text", extractErrorMessage([]byte("  plain text\n")))
	assert.Equal(t, "", extractErrorMessage(nil))
}
