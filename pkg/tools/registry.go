package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry holds the available tools and turns invocations into
// observations. Tool failures never propagate as errors; they come back
// as observation text so the loop can keep reasoning.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
	slog.Info("🔧 Tool registered", "tool", tool.Name())
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions returns a usage block for the prompt listing every tool.
func (r *Registry) Descriptions() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.tools[name].Description())
	}
	return strings.TrimRight(b.String(), "\n")
}

// Execute runs a named tool and always returns an observation string.
// Unknown tools and panics are reported in the observation rather than
// as errors.
func (r *Registry) Execute(ctx context.Context, name, params string) (observation string) {
	tool, ok := r.Get(name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q. Available tools: %s", name, strings.Join(r.Names(), ", "))
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "Tool panicked", "tool", name, "panic", rec)
			observation = fmt.Sprintf("Error: tool %q failed unexpectedly. Try a different approach.", name)
		}
	}()

	result, err := tool.Execute(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "Tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Error: tool %q failed: %v", name, err)
	}
	return result
}
