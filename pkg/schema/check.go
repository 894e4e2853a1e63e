package schema

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// Check verifies the table is internally consistent. It is run by New; a
// failure is a startup configuration error, never a per-request one.
func (s *Schema) Check() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	resourceIDs := map[string]bool{}
	operationIDs := map[string]bool{}
	for _, r := range s.resources {
		if r.ID == "" {
			add("resource with empty id")
			continue
		}
		if resourceIDs[r.ID] {
			add("duplicate resource %q", r.ID)
		}
		resourceIDs[r.ID] = true

		seen := map[string]bool{}
		for _, op := range r.Operations {
			if op.ID == "" {
				add("resource %q: operation with empty id", r.ID)
				continue
			}
			if seen[op.ID] {
				add("resource %q: duplicate operation %q", r.ID, op.ID)
			}
			seen[op.ID] = true
			operationIDs[op.ID] = true

			switch op.Request.Method {
			case http.MethodGet, http.MethodPost:
			default:
				add("operation %s.%s: unsupported method %q", r.ID, op.ID, op.Request.Method)
			}
			if op.Request.URL == "" || op.Request.URL[0] != '/' {
				add("operation %s.%s: url %q must start with /", r.ID, op.ID, op.Request.URL)
			}
			for _, stray := range StrayBraces(op.Request.URL) {
				add("operation %s.%s: url %q has malformed placeholder %q", r.ID, op.ID, op.Request.URL, stray)
			}
		}
		if r.DefaultOperation != "" && !seen[r.DefaultOperation] {
			add("resource %q: default operation %q is not one of its operations", r.ID, r.DefaultOperation)
		}
	}

	for _, f := range s.fields {
		if f.ID == "" {
			add("field with empty id")
			continue
		}
		if len(f.Visibility.Resources) == 0 || len(f.Visibility.Operations) == 0 {
			add("field %q: declares no owning resource/operation pair", f.ID)
		}
		for _, r := range f.Visibility.Resources {
			if !resourceIDs[r] {
				add("field %q: visibility names unknown resource %q", f.ID, r)
			}
		}
		for _, op := range f.Visibility.Operations {
			if !operationIDs[op] {
				add("field %q: visibility names unknown operation %q", f.ID, op)
			}
		}
		if len(f.Visibility.Resources) > 0 && len(f.Visibility.Operations) > 0 && !s.ownsAnyPair(f) {
			add("field %q: visibility matches no resource/operation pair", f.ID)
		}
		if f.Type == TypeOptions && len(f.Options) == 0 {
			add("field %q: options field without options", f.ID)
		}
		if f.Type == TypeOptions && f.Default != "" && !f.AllowsValue(f.Default) {
			add("field %q: default %q is not one of its options", f.ID, f.Default)
		}
		if c := f.Contribution; c != nil {
			if c.Key == "" {
				add("field %q: contribution without key", f.ID)
			}
			switch c.Location {
			case LocationURL, LocationBody, LocationHeader:
			default:
				add("field %q: unknown contribution location %q", f.ID, c.Location)
			}
			if _, ok := TransformFor(f.TransformName()); !ok {
				add("field %q: unknown transform %q", f.ID, f.TransformName())
			}
		}
	}

	for _, r := range s.resources {
		for _, op := range r.Operations {
			errs = append(errs, s.checkPair(r.ID, op)...)
		}
	}

	return errors.Join(errs...)
}

// ownsAnyPair reports whether the field's predicate selects at least one real pair.
func (s *Schema) ownsAnyPair(f Field) bool {
	for _, r := range s.resources {
		for _, op := range r.Operations {
			if f.Visibility.Matches(r.ID, op.ID) {
				return true
			}
		}
	}
	return false
}

// checkPair validates the fields active under one pair against its template.
func (s *Schema) checkPair(resource string, op Operation) []error {
	var errs []error
	ids := map[string]bool{}
	targets := map[string]string{}
	var urlKeys []string

	for _, f := range s.fields {
		if !f.Visibility.Matches(resource, op.ID) {
			continue
		}
		if ids[f.ID] {
			errs = append(errs, fmt.Errorf("operation %s.%s: field %q is active twice", resource, op.ID, f.ID))
		}
		ids[f.ID] = true

		c := f.Contribution
		if c == nil {
			continue
		}
		key := c.Key
		if c.Location == LocationHeader {
			key = http.CanonicalHeaderKey(key)
		}
		target := string(c.Location) + ":" + key
		if other, dup := targets[target]; dup {
			errs = append(errs, fmt.Errorf("operation %s.%s: fields %q and %q both write %s %q", resource, op.ID, other, f.ID, c.Location, c.Key))
		}
		targets[target] = f.ID
		if c.Location == LocationURL {
			urlKeys = append(urlKeys, c.Key)
		}
	}

	placeholders := op.Request.Placeholders()
	for _, token := range placeholders {
		if !slices.Contains(urlKeys, token) {
			errs = append(errs, fmt.Errorf("operation %s.%s: placeholder {%s} has no url field", resource, op.ID, token))
		}
	}
	for _, key := range urlKeys {
		if !slices.Contains(placeholders, key) {
			errs = append(errs, fmt.Errorf("operation %s.%s: url field targets missing placeholder {%s}", resource, op.ID, key))
		}
	}
	return errs
}
