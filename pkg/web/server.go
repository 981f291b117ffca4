// Package web exposes the HTTP and WebSocket surface: the browser
// session endpoint, the order reporting API, the kitchen order feed and
// service metrics.
package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/spicetable/go-waiter/internal/config"
	"github.com/spicetable/go-waiter/pkg/hub"
	"github.com/spicetable/go-waiter/pkg/order"
	"github.com/spicetable/go-waiter/pkg/relay"
)

// Server wires the relay, order store and order feed behind one fiber app.
type Server struct {
	app     *fiber.App
	cfg     *config.Config
	store   order.Store
	feed    *hub.Feed
	tools   *relay.Registry
	metrics *relay.Metrics

	// sessionCtx is the base context for every relay session; Shutdown
	// cancels it so active conversations end instead of outliving the
	// listener.
	sessionCtx   context.Context
	stopSessions context.CancelFunc
}

// New builds the server and registers all routes.
func New(cfg *config.Config, store order.Store, feed *hub.Feed) *Server {
	tools := relay.NewRegistry()
	tools.Register(order.PlaceOrderTool(store, feed))

	sessionCtx, stopSessions := context.WithCancel(context.Background())
	s := &Server{
		cfg:          cfg,
		store:        store,
		feed:         feed,
		tools:        tools,
		metrics:      relay.NewMetrics(),
		sessionCtx:   sessionCtx,
		stopSessions: stopSessions,
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-waiter",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/orders", s.handleOrders)
	api.Get("/menu", s.handleMenu)
	api.Get("/metrics", s.handleMetrics)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleSessionWS))
	app.Get("/ws/orders", websocket.New(s.handleOrderFeedWS))

	s.app = app
	return s
}

// App returns the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Metrics returns the shared relay metrics.
func (s *Server) Metrics() *relay.Metrics {
	return s.metrics
}

// Listen serves until the listener fails or the app shuts down.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the server gracefully. Active relay sessions are
// cancelled first so they release their connections instead of pinning
// the listener until the deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopSessions()
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.app.Shutdown()
	}
	return s.app.ShutdownWithTimeout(time.Until(deadline))
}
