package step

import (
	"maps"
	"slices"
)

// State is the mutable key/value store shared by the steps of one scenario.
// The pipeline creates a fresh State per scenario and runs at most one
// handler against it at a time, so it carries no lock.
type State struct {
	values map[string]any
}

// NewState returns an empty State.
func NewState() *State {
	return &State{values: map[string]any{}}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (s *State) Set(key string, v any) {
	s.values[key] = v
}

// Delete removes key.
func (s *State) Delete(key string) {
	delete(s.values, key)
}

// Number returns the numeric value under key. Missing or non-numeric values
// read as 0.
func (s *State) Number(key string) float64 {
	switch n := s.values[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Add increments the numeric value under key by delta and returns the result.
func (s *State) Add(key string, delta float64) float64 {
	n := s.Number(key) + delta
	s.values[key] = n
	return n
}

// Append adds v to the list stored under key, creating it if needed.
// A non-list value under key is replaced.
func (s *State) Append(key string, v any) {
	list, _ := s.values[key].([]any)
	s.values[key] = append(list, v)
}

// List returns the list stored under key, or nil.
func (s *State) List(key string) []any {
	list, _ := s.values[key].([]any)
	return slices.Clone(list)
}

// Keys returns the stored keys in sorted order.
func (s *State) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the stored values. Lists are copied one level
// deep so later appends do not show through.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		if list, ok := v.([]any); ok {
			v = slices.Clone(list)
		}
		out[k] = v
	}
	return out
}
