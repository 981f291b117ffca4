// Package gemini implements the upstream session client for the Gemini
// Live (BidiGenerateContent) WebSocket API. One Client is one long-lived
// connection: connect with a bounded handshake, send the setup frame,
// exchange JSON frames, and keep the link alive with periodic pings. Any
// transport error is terminal; reconnection is session-level policy and
// does not live here.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spicetable/go-waiter/pkg/protocol"
)

// Defaults matching the session contract.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultPingInterval   = 20 * time.Second
	DefaultPingTimeout    = 10 * time.Second
)

// ErrClosed is returned when sending on a closed connection.
var ErrClosed = errors.New("gemini: connection closed")

// Config holds connection parameters for one upstream session.
type Config struct {
	// URL is the full wss endpoint including the auth key.
	URL string

	ConnectTimeout time.Duration
	PingInterval   time.Duration
	PingTimeout    time.Duration
}

// withDefaults fills in zero-valued timeouts.
func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = DefaultPingTimeout
	}
	return c
}

// Client is one connection to the upstream service.
type Client struct {
	conn *websocket.Conn
	cfg  Config

	// Serializes data writes. Control frames (pings) are safe to write
	// concurrently per gorilla's contract.
	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects to the upstream endpoint and starts the keep-alive loop.
// The returned Client is ready for SendSetup.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.ConnectTimeout,
	}
	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("gemini: connect failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("gemini: connect failed: %w", err)
	}

	c := &Client{
		conn:   conn,
		cfg:    cfg,
		closed: make(chan struct{}),
	}

	// A pong (or any read) extends the liveness window. Missing it
	// surfaces as a read timeout in Receive, which is terminal.
	conn.SetReadDeadline(time.Now().Add(c.livenessWindow()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.livenessWindow()))
	})

	go c.keepAlive()

	return c, nil
}

// livenessWindow is how long the connection may stay silent before it is
// declared dead: one ping period plus the ping timeout.
func (c *Client) livenessWindow() time.Duration {
	return c.cfg.PingInterval + c.cfg.PingTimeout
}

// keepAlive sends periodic pings until the connection closes.
func (c *Client) keepAlive() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.PingTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// SendSetup sends the handshake frame. Must be called before data frames;
// the setup response arrives asynchronously on the receive stream.
func (c *Client) SendSetup(frame protocol.SetupFrame) error {
	return c.Send(frame)
}

// Send writes one JSON frame. Best-effort: failures are reported, never
// retried, and mark the connection unusable for the caller.
func (c *Client) Send(v any) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("gemini: send: %w", err)
	}
	return nil
}

// Receive blocks for the next upstream frame. It returns a terminal error
// when the remote closes or the transport fails; the stream is not
// restartable.
func (c *Client) Receive() (*protocol.ServerFrame, error) {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("gemini: receive: %w", err)
	}
	c.conn.SetReadDeadline(time.Now().Add(c.livenessWindow()))

	frame, err := protocol.ParseServerFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse frame: %w", err)
	}
	return frame, nil
}

// Close tears down the connection. Idempotent.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}
