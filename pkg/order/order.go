// Package order persists confirmed orders extracted from tool calls.
// Records are append-only: once saved, an order's item, quantity and
// price never change, and no cancel path exists.
package order

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
)

// Validation errors returned by Save.
var (
	ErrEmptyItem       = errors.New("order: item name is empty")
	ErrInvalidQuantity = errors.New("order: quantity must be positive")
	ErrInvalidPrice    = errors.New("order: price must be non-negative")
)

// Order is one persisted record.
type Order struct {
	ID        int64     `json:"id"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the order sink. Save appends one pending record and returns
// its id; ListAll returns records newest first.
type Store interface {
	Save(ctx context.Context, item string, quantity int, price float64) (int64, error)
	ListAll(ctx context.Context) ([]Order, error)
	Close()
}

// validate checks the Save arguments shared by all implementations.
func validate(item string, quantity int, price float64) error {
	if item == "" {
		return ErrEmptyItem
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
