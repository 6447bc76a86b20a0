package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// Handler implements one action kind. Execute receives the action config with
// all placeholders already resolved. A handler reports failure through the
// returned ActionResult; it must not let errors or panics escape.
type Handler interface {
	Kind() string
	Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult
}

// Registry routes an action to the handler registered for its type. New
// action kinds are added with Register; the engine core needs no changes.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Kind()] = h
}

// Kinds returns the registered action types, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Dispatch invokes the handler for the action's type. An unknown type is a
// failed result, not a skip. A handler that panics despite its contract is
// recovered here so callers only ever see an ActionResult.
func (r *Registry) Dispatch(ctx context.Context, action domain.Action, execCtx *domain.ExecutionContext) (result domain.ActionResult) {
	r.mu.RLock()
	handler, ok := r.handlers[action.Type]
	r.mu.RUnlock()
	if !ok {
		return domain.ResultError("Unknown action type: " + action.Type)
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Action handler panicked", "type", action.Type, "panic", rec)
			result = domain.ResultError(fmt.Sprintf("%v", rec))
		}
	}()

	return handler.Execute(ctx, action.Config, execCtx)
}
