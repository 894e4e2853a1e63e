package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	TransformIdentity = "identity"
	TransformDate     = "date"
)

// Transform converts a raw field value into the value placed in the request
type Transform func(value string) (string, error)

// TransformRegistry manages the named transforms contribution rules may refer to
type TransformRegistry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
}

// NewTransformRegistry creates a registry holding the built-in transforms
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{
		transforms: make(map[string]Transform),
	}
	r.Register(TransformIdentity, Identity)
	r.Register(TransformDate, DateOnly)
	return r
}

// Register adds or replaces a transform
func (r *TransformRegistry) Register(name string, fn Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = fn
}

// Get retrieves a transform by name
func (r *TransformRegistry) Get(name string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.transforms[name]
	return fn, ok
}

// Names returns the registered transform names, sorted
func (r *TransformRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for n := range r.transforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultTransforms = NewTransformRegistry()

// RegisterTransform adds a transform to the default registry.
// Register before building any schema that refers to it.
func RegisterTransform(name string, fn Transform) {
	defaultTransforms.Register(name, fn)
}

// TransformFor looks a transform up in the default registry
func TransformFor(name string) (Transform, bool) {
	return defaultTransforms.Get(name)
}

// TransformNames lists the transforms of the default registry
func TransformNames() []string {
	return defaultTransforms.Names()
}

// Identity passes the value through unchanged
func Identity(value string) (string, error) {
	return value, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate reads a date or date-time in any of the accepted layouts.
// Values without a zone are read as UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// DateOnly truncates a date-time to its UTC calendar date (YYYY-MM-DD).
func DateOnly(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.DateOnly), nil
}
