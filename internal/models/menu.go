package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is a single dish. Name is the identity key within a category.
type MenuItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
}

// Category groups items; item order is display order
type Category struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu is a restaurant's published menu
type Menu struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	RestaurantName string     `json:"restaurantName,omitempty"`
	Description    string     `json:"description"`
	Categories     []Category `json:"categories"`
	RestaurantID   string     `json:"restaurantId"`
	WhatsappNumber string     `json:"whatsappNumber,omitempty"`
	ViewCount      int64      `json:"viewCount"`
}

// AcceptsOrders reports whether the menu has a contact number to hand orders off to.
func (m *Menu) AcceptsOrders() bool {
	return strings.TrimSpace(m.WhatsappNumber) != ""
}

// FindItem returns the first item with the given name across all categories.
func (m *Menu) FindItem(name string) (MenuItem, bool) {
	for _, c := range m.Categories {
		for _, item := range c.Items {
			if item.Name == name {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}

// Filter returns the categories whose items match term (case-insensitive
// substring of name or description), restricted to category when it is
// non-empty. Categories left without items are dropped.
func (m *Menu) Filter(term, category string) []Category {
	term = strings.ToLower(term)

	filtered := make([]Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		if category != "" && c.Name != category {
			continue
		}

		var items []MenuItem
		for _, item := range c.Items {
			if strings.Contains(strings.ToLower(item.Name), term) ||
				strings.Contains(strings.ToLower(item.Description), term) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			filtered = append(filtered, Category{Name: c.Name, Items: items})
		}
	}
	return filtered
}

// ItemCount is the number of items across the given categories
func ItemCount(categories []Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.Items)
	}
	return n
}
