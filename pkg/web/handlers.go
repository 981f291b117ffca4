package web

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/spicetable/go-waiter/internal/log"
	"github.com/spicetable/go-waiter/pkg/gemini"
	"github.com/spicetable/go-waiter/pkg/menu"
	"github.com/spicetable/go-waiter/pkg/protocol"
	"github.com/spicetable/go-waiter/pkg/relay"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "go-waiter",
	})
}

// handleOrders returns all persisted orders, newest first.
func (s *Server) handleOrders(c *fiber.Ctx) error {
	orders, err := s.store.ListAll(c.Context())
	if err != nil {
		log.Error("failed to list orders", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list orders",
		})
	}
	return c.JSON(fiber.Map{
		"count":  len(orders),
		"orders": orders,
	})
}

// handleMenu serves the raw menu document so dashboards can render it.
func (s *Server) handleMenu(c *fiber.Ctx) error {
	raw, err := os.ReadFile(s.cfg.MenuPath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "menu not available",
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// handleMetrics emits relay counters in Prometheus text exposition format.
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	snap := s.metrics.Snapshot()

	var b strings.Builder
	writeMetric := func(name, help string, value any) {
		fmt.Fprintf(&b, "# HELP %s %s\n", name, help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", name, metricType(name))
		fmt.Fprintf(&b, "%s %v\n", name, value)
	}

	writeMetric("waiter_sessions_started_total", "Sessions that reached the relaying state.", snap.SessionsStarted)
	writeMetric("waiter_sessions_active", "Sessions currently relaying.", snap.SessionsActive)
	writeMetric("waiter_audio_frames_in_total", "Client audio frames forwarded upstream.", snap.AudioFramesIn)
	writeMetric("waiter_audio_frames_out_total", "Synthesized audio frames sent to clients.", snap.AudioFramesOut)
	writeMetric("waiter_dropped_frames_total", "Unrecognized client frames dropped.", snap.DroppedFrames)
	writeMetric("waiter_tool_calls_total", "Tool invocations dispatched.", snap.ToolCalls)
	writeMetric("waiter_unknown_tools_total", "Function calls with no registered handler.", snap.UnknownTools)
	writeMetric("waiter_sink_failures_total", "Tool handler errors reported as success.", snap.SinkFailures)
	fmt.Fprintf(&b, "# HELP waiter_feed_clients Connected order feed dashboards.\n")
	fmt.Fprintf(&b, "# TYPE waiter_feed_clients gauge\n")
	fmt.Fprintf(&b, "waiter_feed_clients %d\n", s.feed.ClientCount())

	c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4; charset=utf-8")
	return c.SendString(b.String())
}

func metricType(name string) string {
	if strings.HasSuffix(name, "_total") {
		return "counter"
	}
	return "gauge"
}

// handleSessionWS runs one relay session over the accepted browser
// connection. It blocks for the lifetime of the conversation.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	menuText, err := menu.Load(s.cfg.MenuPath)
	if err != nil {
		// The session proceeds with the placeholder text.
		log.Warn("menu unavailable for session", "error", err)
	}

	setup := protocol.NewSetup(s.cfg.Model, s.tools.Declarations(), s.cfg.Voice, menu.SystemPrompt(menuText))

	dial := func(ctx context.Context) (relay.Upstream, error) {
		return gemini.Dial(ctx, gemini.Config{
			URL:            s.cfg.UpstreamURL(),
			ConnectTimeout: s.cfg.ConnectTimeout,
			PingInterval:   s.cfg.PingInterval,
			PingTimeout:    s.cfg.PingTimeout,
		})
	}

	sess := relay.NewSession(c, dial, setup, s.tools, s.metrics)
	log.Info("browser connected", "session", sess.ID(), "remote", c.RemoteAddr().String())
	sess.Run(s.sessionCtx)
}

// handleOrderFeedWS subscribes a kitchen dashboard to the order feed.
func (s *Server) handleOrderFeedWS(c *websocket.Conn) {
	s.feed.Serve(c)
}
