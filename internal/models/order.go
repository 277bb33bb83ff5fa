package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo allows pending -> confirmed|cancelled and confirmed -> completed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusCompleted
	}
	return false
}

// LineItem is an item frozen into an order at submission time
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal is unit price times quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order represents a placed order
type Order struct {
	ID              string          `json:"id"`
	RestaurantID    string          `json:"restaurantId"`
	MenuID          string          `json:"menuId"`
	CustomerName    string          `json:"customerName"`
	CustomerMobile  string          `json:"customerMobile"`
	RoomTableNumber string          `json:"roomTableNumber"`
	Items           []LineItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"timestamp"`
	Status          OrderStatus     `json:"status"`
}

// Customer holds the fields a customer fills in at checkout
type Customer struct {
	Name            string `json:"customerName"`
	Mobile          string `json:"customerMobile"`
	RoomTableNumber string `json:"roomTableNumber"`
}

// OrderRequest places an order from an explicit item list
type OrderRequest struct {
	Customer
	Items []OrderItem `json:"items"`
}

// OrderItem is a requested item by name
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StatusUpdateRequest changes an order's status from the dashboard
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}
