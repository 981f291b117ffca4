package order

import (
	"context"
	"errors"
	"testing"
)

func TestPlaceOrderToolSaves(t *testing.T) {
	store := NewMemoryStore()
	tool := PlaceOrderTool(store, nil)

	if tool.Name != "place_order" {
		t.Errorf("expected tool name place_order, got %s", tool.Name)
	}

	result, err := tool.Handler(context.Background(), map[string]any{
		"item":     "Biryani",
		"quantity": float64(2), // JSON numbers decode as float64
		"price":    350.0,
	})
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	if result["status"] != "success" {
		t.Errorf("expected success result, got %v", result)
	}

	orders, _ := store.ListAll(context.Background())
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.Item != "Biryani" || o.Quantity != 2 || o.Price != 350.0 {
		t.Errorf("unexpected order %+v", o)
	}
	if o.Status != StatusPending {
		t.Errorf("expected pending status, got %s", o.Status)
	}
}

func TestPlaceOrderToolBadArgs(t *testing.T) {
	store := NewMemoryStore()
	tool := PlaceOrderTool(store, nil)

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing quantity", args: map[string]any{"item": "Chai", "price": 50.0}},
		{name: "quantity wrong type", args: map[string]any{"item": "Chai", "quantity": "two", "price": 50.0}},
		{name: "missing price", args: map[string]any{"item": "Chai", "quantity": float64(1)}},
		{name: "empty item", args: map[string]any{"item": "", "quantity": float64(1), "price": 50.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tool.Handler(context.Background(), tt.args); err == nil {
				t.Error("expected handler error")
			}
		})
	}

	orders, _ := store.ListAll(context.Background())
	if len(orders) != 0 {
		t.Errorf("bad args must not create orders, got %d", len(orders))
	}
}

type failingStore struct{}

func (failingStore) Save(ctx context.Context, item string, quantity int, price float64) (int64, error) {
	return 0, errors.New("connection refused")
}
func (failingStore) ListAll(ctx context.Context) ([]Order, error) { return nil, nil }
func (failingStore) Close()                                       {}

func TestPlaceOrderToolSinkFailure(t *testing.T) {
	tool := PlaceOrderTool(failingStore{}, nil)

	_, err := tool.Handler(context.Background(), map[string]any{
		"item":     "Biryani",
		"quantity": float64(1),
		"price":    350.0,
	})
	if err == nil {
		t.Error("expected sink error to surface to the relay for logging")
	}
}
