package relay

import (
	"context"

	"github.com/spicetable/go-waiter/pkg/protocol"
)

// Handler executes one tool invocation. The returned map becomes the
// "result" object in the tool response sent back upstream.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Tool is one named action the model can invoke during a session.
type Tool struct {
	// Name is the function name the model calls (e.g. "place_order").
	Name string

	// Description helps the model decide when to use the tool.
	Description string

	// Parameters is the schema for the tool's arguments, in the
	// upstream declaration format.
	Parameters map[string]any

	Handler Handler
}

// Registry maps function names to tools. Dispatch by name keeps the
// relay's interpretation loop decoupled from what the tools do.
type Registry struct {
	tools map[string]Tool
	names []string // insertion order, for stable declarations
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name replaces it.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.names = append(r.names, t.Name)
	}
	r.tools[t.Name] = t
}

// Lookup returns the tool for a function name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Declarations returns the function declarations for the setup frame,
// in registration order.
func (r *Registry) Declarations() []protocol.FunctionDeclaration {
	decls := make([]protocol.FunctionDeclaration, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		decls = append(decls, protocol.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return decls
}
