package protocol

import "encoding/json"

// MimePCM is the fixed MIME type for forwarded media chunks.
const MimePCM = "audio/pcm"

// --- Frames sent to the upstream service ---

// SetupFrame is the one handshake frame sent before any data frames.
type SetupFrame struct {
	Setup Setup `json:"setup"`
}

// Setup configures the session: model, tools, audio output and the
// system prompt carrying the embedded menu document.
type Setup struct {
	Model             string           `json:"model"`
	Tools             []Tools          `json:"tools,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
	SystemInstruction Content          `json:"systemInstruction"`
}

// Tools wraps a group of function declarations.
type Tools struct {
	FunctionDeclarations []FunctionDeclaration `json:"function_declarations"`
}

// FunctionDeclaration describes one callable function to the model.
type FunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// GenerationConfig selects audio output and the synthesized voice.
type GenerationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       SpeechConfig `json:"speechConfig"`
}

type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// Content is a list of parts, as used for system instructions.
type Content struct {
	Parts []Part `json:"parts"`
}

// RealtimeInputFrame carries media chunks toward the model.
type RealtimeInputFrame struct {
	RealtimeInput RealtimeInput `json:"realtimeInput"`
}

type RealtimeInput struct {
	MediaChunks []MediaChunk `json:"mediaChunks"`
}

// MediaChunk is one unit of encoded audio forwarded upstream.
type MediaChunk struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ToolResponseFrame acknowledges one or more function calls.
type ToolResponseFrame struct {
	ToolResponse ToolResponse `json:"toolResponse"`
}

type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

type FunctionResponse struct {
	Name     string         `json:"name"`
	ID       string         `json:"id"`
	Response map[string]any `json:"response"`
}

// --- Frames received from the upstream service ---

// ServerFrame is one message from the upstream receive stream. The
// tool-call and server-content shapes are independent and non-exclusive;
// a single frame may carry either, both, or neither.
type ServerFrame struct {
	SetupComplete        json.RawMessage `json:"setupComplete,omitempty"`
	ToolCall             *ToolCall       `json:"toolCall,omitempty"`
	ToolCallCancellation json.RawMessage `json:"toolCallCancellation,omitempty"`
	ServerContent        *ServerContent  `json:"serverContent,omitempty"`
}

// ToolCall carries function-call requests from the model.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

// FunctionCall is one request to execute a named function.
type FunctionCall struct {
	Name string         `json:"name"`
	ID   string         `json:"id"`
	Args map[string]any `json:"args"`
}

// ServerContent carries model output, including inline audio.
type ServerContent struct {
	ModelTurn    *ModelTurn `json:"modelTurn,omitempty"`
	TurnComplete bool       `json:"turnComplete,omitempty"`
	Interrupted  bool       `json:"interrupted,omitempty"`
}

type ModelTurn struct {
	Parts []Part `json:"parts"`
}

// Part is one piece of model content. Audio arrives as inline data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

// ParseServerFrame decodes one upstream message.
func ParseServerFrame(raw []byte) (*ServerFrame, error) {
	var f ServerFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
