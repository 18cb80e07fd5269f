// Package form holds the state a set of fields binds to: a nested value
// tree addressed by dot-separated paths, plus the validation errors of the
// last schema run. State is mutated only from the program's update loop and
// is therefore not safe for concurrent use.
package form

import "strings"

// State is the form-lifetime value store. Values are kept in nested
// map[string]any levels so that a path like "shipping.address.city"
// addresses a leaf three levels deep.
type State struct {
	values map[string]any
	errors map[string]string
}

// NewState creates an empty form state.
func NewState() *State {
	return &State{
		values: make(map[string]any),
		errors: make(map[string]string),
	}
}

// Get returns the value at the given dot-separated path. The second return
// reports whether the path holds a value.
func (s *State) Get(path string) (any, bool) {
	node := s.values
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			value, ok := node[part]
			return value, ok
		}
		next, ok := node[part].(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}
	return nil, false
}

// Set stores a value at the given dot-separated path, creating intermediate
// levels as needed. A non-map value sitting on an intermediate segment is
// replaced by a new level.
func (s *State) Set(path string, value any) {
	node := s.values
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			node[part] = value
			return
		}
		next, ok := node[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[part] = next
		}
		node = next
	}
}

// Delete removes the value at the given dot-separated path. Intermediate
// levels are left in place.
func (s *State) Delete(path string) {
	node := s.values
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			delete(node, part)
			return
		}
		next, ok := node[part].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
}

// Values returns the root of the value tree, e.g. for serializing the
// submitted form.
func (s *State) Values() map[string]any {
	return s.values
}

// SetError records a validation error for the given field path.
func (s *State) SetError(path, message string) {
	s.errors[path] = message
}

// ErrorFor returns the validation error recorded for the given field path,
// or the empty string when the field is valid.
func (s *State) ErrorFor(path string) string {
	return s.errors[path]
}

// ClearErrors drops all recorded validation errors.
func (s *State) ClearErrors() {
	s.errors = make(map[string]string)
}

// HasErrors reports whether any validation error is recorded.
func (s *State) HasErrors() bool {
	return len(s.errors) > 0
}

// Binding is the {name, value, onChange} triple a field consumes, plus the
// validation error lookup for its path.
type Binding struct {
	name  string
	state *State
}

// Bind returns a binding for the given field path.
func (s *State) Bind(name string) Binding {
	return Binding{name: name, state: s}
}

// Name returns the bound field path.
func (b Binding) Name() string {
	return b.name
}

// Value returns the bound value and whether one has been committed.
func (b Binding) Value() (any, bool) {
	return b.state.Get(b.name)
}

// OnChange commits a new value for the bound path.
func (b Binding) OnChange(value any) {
	b.state.Set(b.name, value)
}

// Error returns the validation error for the bound path, empty when valid.
func (b Binding) Error() string {
	return b.state.ErrorFor(b.name)
}
