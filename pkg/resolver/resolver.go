// Package resolver turns a resource/operation selection and field values
// into a concrete request descriptor.
//
// Resolution is a pure function of its inputs: the schema is immutable and
// each call owns its values and output, so a Resolver may be shared across
// goroutines. A call either returns a complete Descriptor or a single *Error.
package resolver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/imdario/mergo"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

// Values holds user supplied field values keyed by field identifier.
type Values = schema.Values

// Resolver resolves requests against one schema.
type Resolver struct {
	schema          *schema.Schema
	validateBaseURL bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURLValidation rejects base URLs that are not absolute http(s) URLs
// with an invalid_base_url error. Off by default: the credential provider owns the URL.
func WithBaseURLValidation() Option {
	return func(r *Resolver) {
		r.validateBaseURL = true
	}
}

// New creates a resolver over s.
func New(s *schema.Schema, opts ...Option) *Resolver {
	r := &Resolver{schema: s}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schema returns the schema the resolver works from.
func (r *Resolver) Schema() *schema.Schema {
	return r.schema
}

// Resolve builds the request for resource/operation from values.
func (r *Resolver) Resolve(baseURL, resource, operation string, values Values) (*Descriptor, error) {
	op, ok := r.schema.Lookup(resource, operation)
	if !ok {
		return nil, unknownOperation(resource, operation)
	}
	if r.validateBaseURL {
		if err := CheckBaseURL(baseURL); err != nil {
			return nil, err
		}
	}

	if missing := r.schema.Validate(resource, operation, values); len(missing) > 0 {
		return nil, missingRequiredFields(missing)
	}

	path := op.Request.URL
	headers := map[string]string{}
	var body map[string]any

	for _, f := range r.schema.FieldsFor(resource, operation) {
		raw, ok := f.Value(values)
		if !ok {
			continue
		}
		if !f.AllowsValue(raw) {
			return nil, invalidFieldValue(f.ID, fmt.Errorf("%q is not one of the allowed options", raw))
		}
		c := f.Contribution
		if c == nil {
			continue
		}

		transform, ok := schema.TransformFor(f.TransformName())
		if !ok {
			return nil, invalidFieldValue(f.ID, fmt.Errorf("unknown transform %q", f.TransformName()))
		}
		v, err := transform(raw)
		if err != nil {
			return nil, invalidFieldValue(f.ID, err)
		}

		switch c.Location {
		case schema.LocationURL:
			path = strings.ReplaceAll(path, "{"+c.Key+"}", EscapeSegment(v))
		case schema.LocationBody:
			if body == nil {
				body = map[string]any{}
			}
			body[c.Key] = v
		case schema.LocationHeader:
			headers[http.CanonicalHeaderKey(c.Key)] = v
		}
	}

	if token, ok := leftoverToken(path); ok {
		return nil, unresolvedPlaceholder(token)
	}

	// Defaults only fill keys the fields did not set.
	if err := mergo.Merge(&headers, DefaultHeaders()); err != nil {
		return nil, fmt.Errorf("merge default headers: %w", err)
	}

	return &Descriptor{
		Method:  op.Request.Method,
		URL:     JoinURL(baseURL, path),
		Headers: headers,
		Body:    body,
	}, nil
}

// leftoverToken reports the first brace token still in path. Substituted
// values are percent-encoded, so any brace left came from the template.
func leftoverToken(path string) (string, bool) {
	if remaining := schema.FindPlaceholders(path); len(remaining) > 0 {
		return remaining[0], true
	}
	if stray := schema.StrayBraces(path); len(stray) > 0 {
		return strings.Trim(stray[0], "{}"), true
	}
	return "", false
}

// Resolve resolves against the built-in NetSuite catalogue.
func Resolve(baseURL, resource, operation string, values Values) (*Descriptor, error) {
	return New(schema.NetSuite()).Resolve(baseURL, resource, operation, values)
}

// DefaultHeaders returns the headers every request carries unless a field overrides them.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}

// JoinURL prefixes path with baseURL, trimming one trailing slash from the
// base and making sure exactly one slash separates the two.
func JoinURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

// CheckBaseURL verifies baseURL is an absolute http or https URL.
func CheckBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return InvalidBaseURL(baseURL, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return InvalidBaseURL(baseURL, "scheme must be http or https")
	}
	if u.Host == "" {
		return InvalidBaseURL(baseURL, "host is required")
	}
	return nil
}

// EscapeSegment percent-encodes every byte outside the RFC 3986 unreserved
// set. Dot-only values are fully encoded so they cannot act as "." or "..".
func EscapeSegment(v string) string {
	if v != "" && strings.Trim(v, ".") == "" {
		return strings.Repeat("%2E", len(v))
	}
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
