// Package cart implements the storefront's in-memory cart.
//
// The cart is an ordered multiset of full product records. Adding the same
// product twice stores two entries; removing a product drops every entry
// sharing its id. Mutations replace the backing slice instead of editing it,
// so slices handed out by Items stay valid snapshots.
package cart

import (
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
)

// Item is a product stored by value in the cart.
type Item = catalog.Product

// Line groups cart entries that share a product id.
type Line struct {
	Product  catalog.Product
	Quantity int
	Subtotal int64 // cents
}

// Cart is owned by the application root. It is not safe for concurrent use;
// all mutation happens on the UI event loop.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends the product at the end of the sequence.
func (c *Cart) Add(p catalog.Product) {
	next := make([]Item, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, p)
}

// Remove drops every entry whose id equals p.ID and reports how many were
// removed. The cart is unchanged when nothing matches.
func (c *Cart) Remove(p catalog.Product) int {
	next := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != p.ID {
			next = append(next, it)
		}
	}
	removed := len(c.items) - len(next)
	if removed > 0 {
		c.items = next
	}
	return removed
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of entries, counting duplicates.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalCents sums every entry's price in cents.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.items {
		total += catalog.Cents(it.Price)
	}
	return total
}

// Total returns the sum of every entry's price.
func (c *Cart) Total() float64 {
	return float64(c.TotalCents()) / 100
}

// FormattedTotal renders the total with two decimals.
func (c *Cart) FormattedTotal(symbol string) string {
	return catalog.FormatCents(symbol, c.TotalCents())
}

// Lines groups entries by id in first-insertion order.
func (c *Cart) Lines() []Line {
	index := make(map[int]int)
	var lines []Line
	for _, it := range c.items {
		i, ok := index[it.ID]
		if !ok {
			index[it.ID] = len(lines)
			lines = append(lines, Line{Product: it})
			i = len(lines) - 1
		}
		lines[i].Quantity++
		lines[i].Subtotal += catalog.Cents(it.Price)
	}
	return lines
}
