// Package hub provides a thread-safe websocket broadcast feed for order
// events, using the channel-based fan-out pattern. Kitchen dashboards
// subscribe and receive each newly placed order as JSON.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spicetable/go-waiter/internal/log"
)

// Feed maintains the set of subscribed dashboard clients and broadcasts
// order events to them.
type Feed struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	// Mutex for client count (read-only access from outside)
	mu sync.RWMutex
}

// NewFeed creates an order feed. Call Run in a goroutine before
// publishing.
func NewFeed() *Feed {
	return &Feed{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the feed's fan-out loop until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			f.mu.Lock()
			for c := range f.clients {
				close(c.send)
				delete(f.clients, c)
			}
			f.mu.Unlock()
			return

		case c := <-f.register:
			f.mu.Lock()
			f.clients[c] = true
			count := len(f.clients)
			f.mu.Unlock()
			log.Debug("order feed client connected", "clients", count)

		case c := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				close(c.send)
			}
			count := len(f.clients)
			f.mu.Unlock()
			log.Debug("order feed client disconnected", "clients", count)

		case msg := <-f.broadcast:
			f.mu.Lock()
			for c := range f.clients {
				select {
				case c.send <- msg:
				default:
					// Client's buffer is full - they're too slow
					close(c.send)
					delete(f.clients, c)
					log.Warn("dropped slow order feed client")
				}
			}
			f.mu.Unlock()
		}
	}
}

// Publish encodes and broadcasts one order event. Non-blocking: if the
// broadcast buffer is full the event is dropped with a warning.
func (f *Feed) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case f.broadcast <- data:
	default:
		log.Warn("order feed broadcast buffer full, dropping event")
	}
	return nil
}

// ClientCount returns the number of subscribed clients.
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}
