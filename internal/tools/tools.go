// Package tools defines the tools available to the agent and the
// dispatch contract the orchestration loop relies on: every outcome of
// a tool call (success, unknown tool, malformed arguments, handler
// failure) is a text result fed back to the model. Tool failures are
// conversational input, never loop-terminating errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string                                                         `json:"name"`
	Description string                                                         `json:"description"`
	Parameters  map[string]any                                                 `json:"parameters"`
	Handler     func(ctx context.Context, args map[string]any) (string, error) `json:"-"`
}

// Registry holds the available tools. It is populated once at startup
// and read-only afterward, so it is safe to share across concurrent
// turns without locking.
type Registry struct {
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry. Must not be called after the
// registry is shared with running turns.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get retrieves a tool by name, or nil.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns all tool declarations in the completion-API wire
// shape, in stable name order.
func (r *Registry) Catalog() []map[string]any {
	catalog := make([]map[string]any, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		catalog = append(catalog, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return catalog
}

// Dispatch runs a tool by name with JSON-encoded arguments and always
// returns a textual result. An unknown tool name, undecodable
// arguments, or a failing handler all produce a descriptive message the
// model can recover from (rephrase, apologize) instead of aborting the
// conversation.
func (r *Registry) Dispatch(ctx context.Context, name, argsJSON string) string {
	tool := r.tools[name]
	if tool == nil {
		r.logger.Warn("tool not found", "tool", name)
		return fmt.Sprintf("Outil '%s' non trouvé.", name)
	}

	var args map[string]any
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			r.logger.Warn("invalid tool arguments", "tool", name, "error", err)
			return fmt.Sprintf("Arguments invalides pour l'outil '%s' : %v.", name, err)
		}
	}

	result, err := tool.Handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Erreur lors de l'exécution de l'outil '%s' : %v.", name, err)
	}
	return result
}

// stringArg extracts a required string argument, erroring when absent
// or blank so the model gets a usable validation message.
func stringArg(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("le paramètre '%s' est requis", key)
	}
	return v, nil
}
