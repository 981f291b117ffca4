// Package relay coordinates one full-duplex conversation between a
// browser client and one upstream Gemini Live connection. Each session
// runs two forwarding pumps under a shared cancellation scope: the moment
// either pump ends, for any reason, the other is cancelled and both
// transports are closed. One side going away makes continuing the other
// meaningless.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/spicetable/go-waiter/internal/log"
	"github.com/spicetable/go-waiter/pkg/protocol"
)

// Error categories for loop-fatal failures. Tests and logs distinguish
// them with errors.Is.
var (
	ErrClientReceive = errors.New("relay: client receive failed")
	ErrClientSend    = errors.New("relay: client send failed")
	ErrTranslation   = errors.New("relay: malformed frame")
	ErrUpstreamSend  = errors.New("relay: upstream send failed")
)

// Upstream is the session's connection to the generative service.
// Implemented by gemini.Client; faked in tests.
type Upstream interface {
	SendSetup(protocol.SetupFrame) error
	Send(v any) error
	Receive() (*protocol.ServerFrame, error)
	Close() error
}

// ClientConn is the browser-facing duplex channel. The method set matches
// the fiber/gorilla websocket connection.
type ClientConn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens the upstream connection for one session.
type Dialer func(ctx context.Context) (Upstream, error)

// State is the session lifecycle position.
type State int32

const (
	StateInitializing State = iota
	StateHandshakeSent
	StateRelaying
	StateTerminating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateHandshakeSent:
		return "handshake_sent"
	case StateRelaying:
		return "relaying"
	case StateTerminating:
		return "terminating"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session owns one upstream connection and one client channel. It is
// created per browser connection and torn down exactly once.
type Session struct {
	id      string
	client  ClientConn
	dial    Dialer
	setup   protocol.SetupFrame
	tools   *Registry
	metrics *Metrics
	log     *slog.Logger

	state atomic.Int32

	mu       sync.Mutex
	upstream Upstream

	teardown sync.Once
}

// NewSession creates a session for one accepted browser connection.
func NewSession(client ClientConn, dial Dialer, setup protocol.SetupFrame, tools *Registry, metrics *Metrics) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		client:  client,
		dial:    dial,
		setup:   setup,
		tools:   tools,
		metrics: metrics,
		log:     log.Session(id),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) {
	// Closed is terminal. A pump result arriving after an external Close
	// must not regress the lifecycle to Terminating.
	for {
		cur := s.state.Load()
		if State(cur) == StateClosed {
			return
		}
		if s.state.CompareAndSwap(cur, int32(st)) {
			s.log.Debug("state transition", "state", st.String())
			return
		}
	}
}

// Run drives the session to completion: connect upstream, send the
// handshake, relay both directions until either pump ends, then tear
// everything down. It blocks until the session is closed.
func (s *Session) Run(ctx context.Context) {
	// The client channel is released on every path out of here.
	defer s.Close()

	up, err := s.dial(ctx)
	if err != nil {
		// ConnectError: the session never relays.
		s.setState(StateTerminating)
		s.log.Error("upstream connect failed", "error", err)
		return
	}
	s.mu.Lock()
	s.upstream = up
	alreadyClosed := s.State() == StateClosed
	s.mu.Unlock()
	if alreadyClosed {
		up.Close()
		return
	}

	if err := up.SendSetup(s.setup); err != nil {
		s.setState(StateTerminating)
		s.log.Error("handshake failed", "error", err)
		return
	}
	s.setState(StateHandshakeSent)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.setState(StateRelaying)
	s.metrics.SessionStarted()
	defer s.metrics.SessionEnded()
	s.log.Info("session relaying")

	errc := make(chan error, 2)
	go func() { errc <- s.pumpOutbound() }()
	go func() { errc <- s.pumpInbound(ctx) }()

	// The pumps block in transport reads, not on ctx. Closing the
	// transports is what unblocks them when the caller cancels (server
	// shutdown).
	stop := context.AfterFunc(ctx, s.closeTransports)
	defer stop()

	// First pump to finish ends the conversation. Cancel the sibling
	// and close both transports immediately; no drain, no grace period.
	first := <-errc
	s.setState(StateTerminating)
	cancel()
	s.closeTransports()
	second := <-errc

	s.logTermination(first)
	s.logTermination(second)
	s.log.Info("session ended")
}

// pumpOutbound forwards browser audio frames upstream. Any error while
// reading, translating or sending a frame is fatal to the loop.
func (s *Session) pumpOutbound() error {
	for {
		_, raw, err := s.client.ReadMessage()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrClientReceive, err)
		}

		frame, err := protocol.ParseClientFrame(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTranslation, err)
		}

		input, ok := protocol.ToRealtimeInput(frame)
		if !ok {
			// Unrecognized kinds are dropped on purpose; the counter
			// keeps the behavior observable.
			s.metrics.FrameDropped()
			continue
		}

		if err := s.upstreamConn().Send(input); err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamSend, err)
		}
		s.metrics.AudioIn()
	}
}

// pumpInbound forwards upstream frames to the browser and dispatches
// tool calls. The two extractions on each frame are independent: one
// frame may carry tool calls, audio parts, both, or neither.
func (s *Session) pumpInbound(ctx context.Context) error {
	for {
		frame, err := s.upstreamConn().Receive()
		if err != nil {
			return err
		}

		for _, call := range frame.FunctionCalls() {
			if err := s.handleToolCall(ctx, call); err != nil {
				return err
			}
		}

		for _, data := range frame.AudioParts() {
			if err := s.client.WriteJSON(protocol.NewClientAudio(data)); err != nil {
				return fmt.Errorf("%w: %v", ErrClientSend, err)
			}
			s.metrics.AudioOut()
		}
	}
}

// handleToolCall dispatches one function call and acknowledges it
// upstream. The sink call is best-effort relative to the conversation:
// a handler failure is logged and counted, and success is still reported
// so the model keeps talking.
func (s *Session) handleToolCall(ctx context.Context, call protocol.FunctionCall) error {
	tool, ok := s.tools.Lookup(call.Name)
	if !ok {
		s.metrics.UnknownTool()
		s.log.Warn("ignoring unknown tool call", "tool", call.Name, "call_id", call.ID)
		return nil
	}

	s.metrics.ToolCall()
	result, err := tool.Handler(ctx, call.Args)
	if err != nil {
		s.metrics.SinkFailure()
		s.log.Error("tool handler failed", "tool", call.Name, "call_id", call.ID, "error", err)
	}
	if result == nil {
		result = map[string]any{"status": "success"}
	}

	response := protocol.NewToolResponse(call.Name, call.ID, result)
	if err := s.upstreamConn().Send(response); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamSend, err)
	}
	return nil
}

// Close tears the session down. Idempotent: a second call does nothing.
// The state lands on Closed no matter which caller got the teardown.
func (s *Session) Close() {
	s.teardown.Do(s.closeTransports)
	s.state.Store(int32(StateClosed))
}

// closeTransports closes both legs to unblock any pump waiting in a
// read. Safe to call repeatedly; an already-closed transport returns an
// error we discard.
func (s *Session) closeTransports() {
	s.mu.Lock()
	up := s.upstream
	s.mu.Unlock()
	if up != nil {
		_ = up.Close()
	}
	_ = s.client.Close()
}

func (s *Session) upstreamConn() Upstream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstream
}

// logTermination records why a pump ended. Expected disconnects log at
// info; everything else is an error with its category intact.
func (s *Session) logTermination(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrClientReceive) {
		s.log.Info("client disconnected", "error", err)
		return
	}
	s.log.Error("pump terminated", "error", err)
}
