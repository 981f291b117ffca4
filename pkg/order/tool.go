package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spicetable/go-waiter/internal/log"
	"github.com/spicetable/go-waiter/pkg/hub"
	"github.com/spicetable/go-waiter/pkg/relay"
)

// Event is the order payload published to the kitchen feed.
type Event struct {
	ID       int64   `json:"id"`
	Item     string  `json:"item"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Status   Status  `json:"status"`
}

// PlaceOrderTool builds the place_order tool backed by a store. The feed
// is optional; when set, each saved order is broadcast to kitchen
// dashboards.
func PlaceOrderTool(store Store, feed *hub.Feed) relay.Tool {
	return relay.Tool{
		Name:        "place_order",
		Description: "Save order to database",
		Parameters: map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"item":     map[string]any{"type": "STRING"},
				"quantity": map[string]any{"type": "INTEGER"},
				"price":    map[string]any{"type": "NUMBER"},
			},
			"required": []string{"item", "quantity", "price"},
		},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			item, _ := args["item"].(string)
			quantity, err := intArg(args["quantity"])
			if err != nil {
				return nil, fmt.Errorf("order: quantity argument: %w", err)
			}
			price, err := floatArg(args["price"])
			if err != nil {
				return nil, fmt.Errorf("order: price argument: %w", err)
			}

			id, err := store.Save(ctx, item, quantity, price)
			if err != nil {
				return nil, err
			}
			log.Info("order saved", "id", id, "item", item, "quantity", quantity, "price", price)

			if feed != nil {
				event := Event{ID: id, Item: item, Quantity: quantity, Price: price, Status: StatusPending}
				if err := feed.Publish(event); err != nil {
					log.Warn("failed to publish order event", "error", err)
				}
			}

			return map[string]any{"status": "success"}, nil
		},
	}
}

// intArg coerces a JSON argument value to int.
func intArg(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// floatArg coerces a JSON argument value to float64.
func floatArg(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
