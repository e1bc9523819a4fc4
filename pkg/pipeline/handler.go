package pipeline

import (
	"context"
	"fmt"
	"sync"

	"stlc-manager-be/pkg/catalog"
)

type AdvancedSettings struct {
	MaxScenarios            int      `json:"maxScenarios"`
	IncludePrerequisites    bool     `json:"includePrerequisites"`
	IncludeDataRequirements bool     `json:"includeDataRequirements"`
	TestLevels              []string `json:"testLevels"`
}

// StepConfig is the per-process configuration chosen in the workspace.
type StepConfig struct {
	Model    string            `json:"model,omitempty"`
	TestType string            `json:"test_type,omitempty"`
	Advanced *AdvancedSettings `json:"advanced_settings,omitempty"`
}

type StepRequest struct {
	Process catalog.Process
	Files   []File
	Config  StepConfig
	// Prompt is the workspace's current custom prompt, empty when none was saved.
	Prompt string
}

type StepResult struct {
	Content string
	Model   string
}

// Handler runs one catalog process. A returned error marks the step failed.
type Handler interface {
	Run(ctx context.Context, req StepRequest) (StepResult, error)
}

type HandlerFunc func(ctx context.Context, req StepRequest) (StepResult, error)

func (f HandlerFunc) Run(ctx context.Context, req StepRequest) (StepResult, error) {
	return f(ctx, req)
}

// Registry maps process ids to handlers. Ids without an entry use the fallback.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

func NewRegistry(fallback Handler) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		fallback: fallback,
	}
}

func (r *Registry) Register(processID string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[processID] = h
}

func (r *Registry) Lookup(processID string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[processID]; ok {
		return h, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no handler registered for process %q", processID)
}

// Registered reports whether processID has a dedicated handler.
func (r *Registry) Registered(processID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[processID]
	return ok
}
