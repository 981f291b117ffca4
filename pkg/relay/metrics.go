package relay

import "sync/atomic"

// Metrics counts relay traffic across all sessions. Dropped frames are
// counted so that the silent-drop policy for unrecognized client frames
// stays observable.
type Metrics struct {
	sessionsStarted atomic.Uint64
	sessionsActive  atomic.Int64
	audioFramesIn   atomic.Uint64
	audioFramesOut  atomic.Uint64
	droppedFrames   atomic.Uint64
	toolCalls       atomic.Uint64
	unknownTools    atomic.Uint64
	sinkFailures    atomic.Uint64
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	SessionsStarted uint64
	SessionsActive  int64
	AudioFramesIn   uint64
	AudioFramesOut  uint64
	DroppedFrames   uint64
	ToolCalls       uint64
	UnknownTools    uint64
	SinkFailures    uint64
}

// NewMetrics creates a zeroed metrics set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// SessionStarted records a session entering Relaying.
func (m *Metrics) SessionStarted() {
	m.sessionsStarted.Add(1)
	m.sessionsActive.Add(1)
}

// SessionEnded records a session reaching Closed.
func (m *Metrics) SessionEnded() {
	m.sessionsActive.Add(-1)
}

// AudioIn counts one client audio frame forwarded upstream.
func (m *Metrics) AudioIn() { m.audioFramesIn.Add(1) }

// AudioOut counts one synthesized audio frame sent to the client.
func (m *Metrics) AudioOut() { m.audioFramesOut.Add(1) }

// FrameDropped counts one unrecognized client frame.
func (m *Metrics) FrameDropped() { m.droppedFrames.Add(1) }

// ToolCall counts one dispatched tool invocation.
func (m *Metrics) ToolCall() { m.toolCalls.Add(1) }

// UnknownTool counts a function call with no registered handler.
func (m *Metrics) UnknownTool() { m.unknownTools.Add(1) }

// SinkFailure counts a tool handler error that was swallowed.
func (m *Metrics) SinkFailure() { m.sinkFailures.Add(1) }

// Snapshot returns current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		SessionsStarted: m.sessionsStarted.Load(),
		SessionsActive:  m.sessionsActive.Load(),
		AudioFramesIn:   m.audioFramesIn.Load(),
		AudioFramesOut:  m.audioFramesOut.Load(),
		DroppedFrames:   m.droppedFrames.Load(),
		ToolCalls:       m.toolCalls.Load(),
		UnknownTools:    m.unknownTools.Load(),
		SinkFailures:    m.sinkFailures.Load(),
	}
}
