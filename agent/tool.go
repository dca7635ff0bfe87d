package agent

import (
	"context"
	"log"
)

// Tool is one operation the model may request. The catalog is fixed at
// construction time; there is no runtime registration.
type Tool struct {
	Name        string
	Description string
	Schema      *Schema
	Run         func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error)
}

// Registry resolves tool names to implementations and gates execution behind
// schema validation and a bound caller identity.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func newRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Resolve fetches a tool by name. Unknown names fail closed.
func (r *Registry) Resolve(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the catalog in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute resolves, validates and runs one tool invocation on behalf of
// ownerID. Every failure mode comes back as a *ToolError; faults never
// propagate out.
func (r *Registry) Execute(ctx context.Context, ownerID uint64, name string, args map[string]interface{}) (map[string]interface{}, *ToolError) {
	if ownerID == 0 {
		return nil, &ToolError{Kind: ErrKindExecutionFailed, Message: "no caller identity bound"}
	}

	tool, ok := r.Resolve(name)
	if !ok {
		return nil, &ToolError{Kind: ErrKindUnknownTool, Message: "no such tool: " + name}
	}

	if terr := tool.Schema.Validate(args); terr != nil {
		return nil, terr
	}

	result, err := tool.Run(ctx, ownerID, args)
	if err != nil {
		log.Printf("tool %s failed for owner %d: %v", name, ownerID, err)
		return nil, &ToolError{Kind: ErrKindExecutionFailed, Message: err.Error()}
	}
	return result, nil
}
