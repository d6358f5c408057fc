package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Tool is one capability the agent can invoke during a turn. Execute
// returns a plain-text result that is fed back to the model.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, tenantID string, args map[string]interface{}) (string, error)
}

// Registry holds the available tools. Registration happens at bootstrap;
// lookups happen per request.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted for stable prompts.
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

// Describe returns the prompt line for one tool, or empty when unknown.
func (r *Registry) Describe(name string) string {
	t, ok := r.Get(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s: %s", t.Name(), t.Description())
}
