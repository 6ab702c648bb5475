package action

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/dshills/keyladder/internal/logging"
)

// Registry manages effect registration by exact action name.
//
// Action names are open string keys: ladders may reference names that were
// never registered, and customization may add names the built-ins do not
// know about. Dispatching an unregistered name is a logged no-op.
type Registry struct {
	mu      sync.RWMutex
	effects map[string]Effect
	logger  *logging.Logger
}

// NewRegistry creates an empty effect registry.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Registry{
		effects: make(map[string]Effect),
		logger:  logger.WithComponent("registry"),
	}
}

// Register adds an effect under its name.
// Registering a name twice is a configuration error.
func (r *Registry) Register(e Effect) error {
	if e == nil {
		return ErrNilEffect
	}
	if e.Name() == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.effects[e.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, e.Name())
	}
	r.effects[e.Name()] = e
	return nil
}

// Resolve returns the effect registered under name.
func (r *Registry) Resolve(name string) (Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.effects[name]
	return e, ok
}

// Has returns true if an effect is registered for the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.effects[name]
	return ok
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.effects))
	for name := range r.effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered effects.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.effects)
}

// Clear removes all registered effects.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = make(map[string]Effect)
}

// Dispatch applies the named effect and absorbs its failures.
//
// This is the error boundary: panics and error results are logged here
// and reported as StatusError, never propagated. An unknown name yields
// a no-op result.
func (r *Registry) Dispatch(name string, ctx *Context) Result {
	e, ok := r.Resolve(name)
	if !ok {
		r.logger.Debug("no effect for action %q, dispatching no-op", name)
		return NoOp().WithMessage(fmt.Sprintf("unknown action %q", name))
	}

	result := r.applyWithRecovery(e, ctx)
	if result.IsError() {
		r.logger.WithField("action", name).Error("effect failed: %v", result.Error)
	}
	return result
}

// applyWithRecovery applies an effect with panic recovery.
func (r *Registry) applyWithRecovery(e Effect, ctx *Context) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = Errorf("effect panic for %s: %v\n%s", e.Name(), rec, string(stack[:n]))
		}
	}()

	return e.Apply(ctx)
}
