package actions

import (
	"context"
	"fmt"
	"sort"
)

// ConflictError reports a duplicate action name at composition time.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("action %q is already registered", e.Name)
}

// NotFoundError reports a lookup for an unregistered action.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("action %q is not registered", e.Name)
}

// Registry is an immutable set of actions. Composition happens explicitly at
// construction: With returns a new registry and duplicate names are rejected
// with a ConflictError up front, never mid-call.
type Registry struct {
	actions map[string]Action
	order   []string
}

// NewRegistry builds a registry from the given actions.
func NewRegistry(actions ...Action) (*Registry, error) {
	r := &Registry{actions: make(map[string]Action)}
	return r.With(actions...)
}

// With returns a new registry containing the receiver's actions plus the
// given ones. The receiver is unchanged.
func (r *Registry) With(actions ...Action) (*Registry, error) {
	next := &Registry{
		actions: make(map[string]Action, len(r.actions)+len(actions)),
		order:   append([]string(nil), r.order...),
	}
	for name, a := range r.actions {
		next.actions[name] = a
	}

	for _, a := range actions {
		if a.Name == "" {
			return nil, fmt.Errorf("action name must not be empty")
		}
		if a.Handler == nil {
			return nil, fmt.Errorf("action %q has no handler", a.Name)
		}
		if _, exists := next.actions[a.Name]; exists {
			return nil, &ConflictError{Name: a.Name}
		}
		next.actions[a.Name] = a
		next.order = append(next.order, a.Name)
	}
	return next, nil
}

// Get returns the named action.
func (r *Registry) Get(name string) (Action, error) {
	a, ok := r.actions[name]
	if !ok {
		return Action{}, &NotFoundError{Name: name}
	}
	return a, nil
}

// List returns all actions in registration order.
func (r *Registry) List() []Action {
	out := make([]Action, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.actions[name])
	}
	return out
}

// Names returns the sorted action names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	return len(r.actions)
}

// Execute validates the raw parameters against the action's input schema and
// runs its handler. Handlers never see unvalidated input.
func (r *Registry) Execute(ctx context.Context, deps *Context, name string, raw map[string]any) (any, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	params, err := ValidateParams(a, raw)
	if err != nil {
		return nil, err
	}
	return a.Handler(ctx, deps, params)
}
