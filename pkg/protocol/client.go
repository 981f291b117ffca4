// Package protocol defines the JSON message types for both WebSocket legs
// of a relay session: the browser-facing audio envelope and the Gemini Live
// (BidiGenerateContent) envelope. All translation here is pure mapping with
// no I/O.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client frame kinds. Anything else is dropped by the outbound path.
const (
	ClientTypeAudio = "audio"
)

// ClientFrame is one JSON text frame on the browser leg.
// Inbound audio rides in "audio"; outbound playback rides in "data".
// The payload is an opaque already-encoded blob and is never decoded here.
type ClientFrame struct {
	Type  string `json:"type"`
	Audio string `json:"audio,omitempty"`
	Data  string `json:"data,omitempty"`
}

// ParseClientFrame decodes one browser text frame.
func ParseClientFrame(raw []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return ClientFrame{}, fmt.Errorf("protocol: parse client frame: %w", err)
	}
	return f, nil
}

// NewClientAudio builds an outbound playback frame for the browser.
func NewClientAudio(data string) ClientFrame {
	return ClientFrame{Type: ClientTypeAudio, Data: data}
}
