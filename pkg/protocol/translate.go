package protocol

// ToRealtimeInput maps a browser frame to one upstream media chunk.
// Only frames of kind "audio" with a non-empty payload translate; every
// other frame yields (nil, false) and is dropped by the caller. The
// payload is forwarded verbatim with the fixed audio/pcm MIME type.
func ToRealtimeInput(f ClientFrame) (*RealtimeInputFrame, bool) {
	if f.Type != ClientTypeAudio || f.Audio == "" {
		return nil, false
	}
	return &RealtimeInputFrame{
		RealtimeInput: RealtimeInput{
			MediaChunks: []MediaChunk{
				{MimeType: MimePCM, Data: f.Audio},
			},
		},
	}, true
}

// FunctionCalls extracts the function-call requests from a frame.
// Returns nil when the frame has no tool-call shape.
func (f *ServerFrame) FunctionCalls() []FunctionCall {
	if f.ToolCall == nil {
		return nil
	}
	return f.ToolCall.FunctionCalls
}

// AudioParts extracts inline audio payloads in part order. Text-only
// parts are skipped; the payloads are opaque and stay encoded.
func (f *ServerFrame) AudioParts() []string {
	if f.ServerContent == nil || f.ServerContent.ModelTurn == nil {
		return nil
	}
	var parts []string
	for _, p := range f.ServerContent.ModelTurn.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			parts = append(parts, p.InlineData.Data)
		}
	}
	return parts
}

// NewSetup builds the session handshake frame.
func NewSetup(model string, decls []FunctionDeclaration, voice, systemPrompt string) SetupFrame {
	setup := Setup{
		Model: model,
		GenerationConfig: GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: SpeechConfig{
				VoiceConfig: VoiceConfig{
					PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
		SystemInstruction: Content{
			Parts: []Part{{Text: systemPrompt}},
		},
	}
	if len(decls) > 0 {
		setup.Tools = []Tools{{FunctionDeclarations: decls}}
	}
	return SetupFrame{Setup: setup}
}

// NewToolResponse builds the acknowledgement for one function call.
func NewToolResponse(name, id string, result map[string]any) ToolResponseFrame {
	return ToolResponseFrame{
		ToolResponse: ToolResponse{
			FunctionResponses: []FunctionResponse{
				{
					Name:     name,
					ID:       id,
					Response: map[string]any{"result": result},
				},
			},
		},
	}
}
