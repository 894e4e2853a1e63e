// Package schema holds the static table of resources, operations and fields
// the request resolver works from. A Schema is immutable once built and every
// accessor returns copies, so a single instance can be shared freely.
package schema

import (
	"fmt"
	"strings"
)

// Schema is a validated, immutable resource/operation/field table
type Schema struct {
	resources       []Resource
	fields          []Field
	defaultResource string
}

// New builds a schema and runs Check on it. The first resource is the default selection.
func New(resources []Resource, fields []Field) (*Schema, error) {
	s := &Schema{
		resources: make([]Resource, 0, len(resources)),
		fields:    make([]Field, 0, len(fields)),
	}
	for _, r := range resources {
		s.resources = append(s.resources, r.clone())
	}
	for _, f := range fields {
		s.fields = append(s.fields, f.clone())
	}
	if len(s.resources) > 0 {
		s.defaultResource = s.resources[0].ID
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on a malformed table
func MustNew(resources []Resource, fields []Field) *Schema {
	s, err := New(resources, fields)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

// Resources returns all resources in declaration order
func (s *Schema) Resources() []Resource {
	out := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r.clone())
	}
	return out
}

// Resource looks up a resource by identifier
func (s *Schema) Resource(id string) (Resource, bool) {
	for _, r := range s.resources {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return Resource{}, false
}

// DefaultResource returns the identifier of the initially selected resource
func (s *Schema) DefaultResource() string {
	return s.defaultResource
}

// OperationsFor returns the operations of a resource in declaration order.
// Unknown resources yield nil.
func (s *Schema) OperationsFor(resource string) []Operation {
	r, ok := s.Resource(resource)
	if !ok {
		return nil
	}
	return r.Operations
}

// Lookup finds the operation for a resource/operation pair
func (s *Schema) Lookup(resource, operation string) (Operation, bool) {
	for _, op := range s.OperationsFor(resource) {
		if op.ID == operation {
			return op, true
		}
	}
	return Operation{}, false
}

// FieldsFor returns the fields active for the pair, in declaration order.
func (s *Schema) FieldsFor(resource, operation string) []Field {
	if _, ok := s.Lookup(resource, operation); !ok {
		return nil
	}
	var out []Field
	for _, f := range s.fields {
		if f.Visibility.Matches(resource, operation) {
			out = append(out, f.clone())
		}
	}
	return out
}

// Validate returns the identifiers of every required active field that has no value.
// Fields that are not active for the pair are never reported.
func (s *Schema) Validate(resource, operation string, values Values) []string {
	var missing []string
	for _, f := range s.FieldsFor(resource, operation) {
		if !f.Required {
			continue
		}
		if _, ok := f.Value(values); !ok {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

// Subtitle renders the "<operation>: <resource>" caption hosts show for a selection
func Subtitle(resource, operation string) string {
	return operation + ": " + resource
}

func isBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}
