package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsReturnsCopy(t *testing.T) {
	first := Products()
	require.Len(t, first, 6)

	first[0].Name = "mutated"
	first[0].Price = 0

	second := Products()
	assert.Equal(t, "Prodotto 1", second[0].Name)
	assert.Equal(t, 19.99, second[0].Price)
}

func TestProductsUniqueIDs(t *testing.T) {
	seen := make(map[int]bool)
	for _, p := range Products() {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
		if p.Price < 0 {
			t.Errorf("product %d has negative price", p.ID)
		}
		if p.MediaType != MediaImage && p.MediaType != MediaVideo {
			t.Errorf("product %d has media type %q", p.ID, p.MediaType)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{19.99, "$19.99"},
		{0, "$0.00"},
		{5, "$5.00"},
		{2.5, "$2.50"},
		{49.98000000000001, "$49.98"},
		{1234.1, "$1234.10"},
	}
	for _, tt := range tests {
		if got := FormatPrice("$", tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatCentsNegative(t *testing.T) {
	assert.Equal(t, "-€1.05", FormatCents("€", -105))
}

func TestParseMediaType(t *testing.T) {
	mt, err := ParseMediaType(" Video ")
	require.NoError(t, err)
	assert.Equal(t, MediaVideo, mt)

	_, err = ParseMediaType("audio")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	list := Products()
	p, ok := Lookup(list, 4)
	require.True(t, ok)
	assert.Equal(t, "Prodotto 4", p.Name)
	assert.True(t, p.IsVideo())

	_, ok = Lookup(list, 99)
	assert.False(t, ok)
}
