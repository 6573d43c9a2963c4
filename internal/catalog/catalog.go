// Package catalog holds the storefront's fixed product list.
// The catalog is defined once at build time and never mutated; callers
// always receive copies.
package catalog

import (
	"fmt"
	"math"
	"strings"
)

// MediaType selects how a product's media locator is rendered.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// ParseMediaType accepts "image" or "video" (case-insensitive).
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaImage:
		return MediaImage, nil
	case MediaVideo:
		return MediaVideo, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// Label is the Italian element label shown in the card.
func (t MediaType) Label() string {
	if t == MediaVideo {
		return "video"
	}
	return "immagine"
}

// Product is one immutable catalog record.
type Product struct {
	ID        int       `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Price     float64   `json:"price" yaml:"price"`
	Media     string    `json:"media" yaml:"media"`
	MediaType MediaType `json:"media_type" yaml:"media_type"`
}

// IsVideo reports whether the product renders a video element.
func (p Product) IsVideo() bool {
	return p.MediaType == MediaVideo
}

var products = [...]Product{
	{ID: 1, Name: "Prodotto 1", Price: 19.99, Media: "/assets/IMG_0281", MediaType: MediaImage},
	{ID: 2, Name: "Prodotto 2", Price: 29.99, Media: "/api/placeholder/400/300", MediaType: MediaVideo},
	{ID: 3, Name: "Prodotto 3", Price: 39.99, Media: "/api/placeholder/400/300", MediaType: MediaImage},
	{ID: 4, Name: "Prodotto 4", Price: 49.99, Media: "/api/placeholder/400/300", MediaType: MediaVideo},
	{ID: 5, Name: "Prodotto 5", Price: 59.99, Media: "/api/placeholder/400/300", MediaType: MediaImage},
	{ID: 6, Name: "Prodotto 6", Price: 69.99, Media: "/api/placeholder/400/300", MediaType: MediaVideo},
}

// Products returns a fresh copy of the catalog in display order.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products[:])
	return out
}

// Lookup finds a product by id.
func Lookup(list []Product, id int) (Product, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Cents rounds a decimal amount to integer cents.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatCents renders cents with exactly two decimal digits.
func FormatCents(symbol string, cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

// FormatPrice renders an amount as "<symbol>X.XX" regardless of input precision.
func FormatPrice(symbol string, amount float64) string {
	return FormatCents(symbol, Cents(amount))
}
