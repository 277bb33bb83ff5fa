// Package cart holds the customer's selection of menu items before checkout.
package cart

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/shopspring/decimal"
)

// MaxItems caps the total quantity across all entries, not per item.
const MaxItems = 4

var (
	ErrLimitReached  = fmt.Errorf("maximum %d items allowed per order", MaxItems)
	ErrItemNotInCart = errors.New("item not in cart")
	ErrInvalidEntry  = errors.New("invalid cart entry")
)

// Entry is one selected item and its quantity
type Entry struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
}

// Cart maps item name to entry. Entries keep insertion order for display.
// A Cart is owned by a single caller and is not safe for concurrent use.
type Cart struct {
	entries map[string]*Entry
	order   []string
}

// New returns an empty cart
func New() *Cart {
	return &Cart{entries: make(map[string]*Entry)}
}

// FromEntries rebuilds a cart, rejecting entries that would break its invariants.
func FromEntries(entries []Entry) (*Cart, error) {
	c := New()
	for _, e := range entries {
		if e.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %q has quantity %d", ErrInvalidEntry, e.Item.Name, e.Quantity)
		}
		if _, exists := c.entries[e.Item.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidEntry, e.Item.Name)
		}
		if c.Count()+e.Quantity > MaxItems {
			return nil, ErrLimitReached
		}
		entry := e
		c.entries[e.Item.Name] = &entry
		c.order = append(c.order, e.Item.Name)
	}
	return c, nil
}

// Add puts item in the cart with quantity 1. Adding an item already present
// is a no-op; use Increment to grow its quantity.
func (c *Cart) Add(item models.MenuItem) error {
	if c.Count() >= MaxItems {
		return ErrLimitReached
	}
	if _, exists := c.entries[item.Name]; exists {
		return nil
	}
	c.entries[item.Name] = &Entry{Item: item, Quantity: 1}
	c.order = append(c.order, item.Name)
	return nil
}

// Increment grows the quantity of an item already in the cart by one.
func (c *Cart) Increment(item models.MenuItem) error {
	if c.Count() >= MaxItems {
		return ErrLimitReached
	}
	entry, exists := c.entries[item.Name]
	if !exists {
		return ErrItemNotInCart
	}
	entry.Item = item
	entry.Quantity++
	return nil
}

// Decrement lowers an item's quantity by one, removing it at zero.
func (c *Cart) Decrement(item models.MenuItem) error {
	entry, exists := c.entries[item.Name]
	if !exists {
		return ErrItemNotInCart
	}
	entry.Quantity--
	if entry.Quantity > 0 {
		return nil
	}

	delete(c.entries, item.Name)
	for i, name := range c.order {
		if name == item.Name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Quantity returns the quantity held for the named item (0 if absent)
func (c *Cart) Quantity(name string) int {
	if entry, ok := c.entries[name]; ok {
		return entry.Quantity
	}
	return 0
}

// Count is the total quantity across all entries
func (c *Cart) Count() int {
	n := 0
	for _, entry := range c.entries {
		n += entry.Quantity
	}
	return n
}

// Total is the sum of price x quantity across all entries
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.entries {
		total = total.Add(entry.Item.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return total
}

// Len is the number of distinct items
func (c *Cart) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the entries in insertion order
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.entries[name])
	}
	return out
}

// LineItems freezes the current entries into order line items
func (c *Cart) LineItems() []models.LineItem {
	items := make([]models.LineItem, 0, len(c.order))
	for _, name := range c.order {
		entry := c.entries[name]
		items = append(items, models.LineItem{
			Name:     entry.Item.Name,
			Quantity: entry.Quantity,
			Price:    entry.Item.Price,
		})
	}
	return items
}

// Clear removes every entry
func (c *Cart) Clear() {
	c.entries = make(map[string]*Entry)
	c.order = nil
}
