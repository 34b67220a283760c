package startup

import (
	"fmt"
	"reflect"
	"sync"
)

// MapRegistry is a Registry backed by a map of labelled windows.
type MapRegistry struct {
	mu      sync.RWMutex
	windows map[string]Window
}

// NewMapRegistry returns an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{windows: make(map[string]Window)}
}

// Register adds or replaces the window for label.
func (r *MapRegistry) Register(label string, w Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[label] = w
}

// Window implements Registry.
func (r *MapRegistry) Window(label string) (Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[label]
	if !ok || isNilWindow(w) {
		return nil, fmt.Errorf("%q: %w", label, ErrWindowNotFound)
	}
	return w, nil
}

// isNilWindow also catches a nil pointer stored in the interface.
func isNilWindow(w Window) bool {
	if w == nil {
		return true
	}
	v := reflect.ValueOf(w)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
