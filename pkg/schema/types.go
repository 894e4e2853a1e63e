package schema

import (
	"regexp"
	"slices"

	"github.com/blimu-dev/netsuite-connector/pkg/utils"
)

// FieldType is the value type of a field
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeDateTime FieldType = "dateTime"
	TypeOptions  FieldType = "options"
)

// Location is where a field's value lands in the outgoing request
type Location string

const (
	LocationURL    Location = "url"
	LocationBody   Location = "body"
	LocationHeader Location = "header"
)

// Values holds user supplied field values keyed by field identifier
type Values map[string]string

var (
	placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	bracePattern       = regexp.MustCompile(`\{[^{}]*\}?|\}`)
)

// Resource is a named external entity owning a set of operations
type Resource struct {
	ID               string
	Name             string
	DefaultOperation string
	Operations       []Operation
}

// Operation is a single HTTP action on a resource
type Operation struct {
	ID      string
	Name    string
	Action  string
	Request RequestTemplate
}

// RequestTemplate is the method and URL an operation resolves to.
// URL may carry {token} placeholders filled from URL-location fields.
type RequestTemplate struct {
	Method string
	URL    string
}

// Placeholders returns the distinct placeholder tokens of the template URL in order of appearance.
func (t RequestTemplate) Placeholders() []string {
	return FindPlaceholders(t.URL)
}

// FindPlaceholders returns the distinct {token} names found in s.
func FindPlaceholders(s string) []string {
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// StrayBraces returns the brace fragments of s that are not well-formed
// {token} placeholders, such as "{order-id}", "{id" or "}".
func StrayBraces(s string) []string {
	return bracePattern.FindAllString(placeholderPattern.ReplaceAllString(s, ""), -1)
}

// Visibility decides when a field is active: the current resource must be in
// Resources and the current operation in Operations.
type Visibility struct {
	Resources  []string
	Operations []string
}

// Matches reports whether the predicate holds for the given selection.
func (v Visibility) Matches(resource, operation string) bool {
	return slices.Contains(v.Resources, resource) && slices.Contains(v.Operations, operation)
}

// Contribution maps a field value onto the outgoing request.
type Contribution struct {
	Location Location
	// Key is the placeholder token, body key or header name.
	Key string
	// Transform names a registered transform; empty selects the default for the field type.
	Transform string
}

// Option is one allowed value of an options field
type Option struct {
	Name  string
	Value string
}

// Field is a user supplied input
type Field struct {
	ID           string
	Label        string
	Type         FieldType
	Default      string
	Required     bool
	Placeholder  string
	Description  string
	Options      []Option
	Visibility   Visibility
	Contribution *Contribution
}

// DisplayLabel returns the label, deriving one from the identifier when none is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return utils.ToLabel(f.ID)
}

// TransformName returns the effective transform of the field's contribution.
func (f Field) TransformName() string {
	if f.Contribution != nil && f.Contribution.Transform != "" {
		return f.Contribution.Transform
	}
	if f.Type == TypeDateTime {
		return TransformDate
	}
	return TransformIdentity
}

// Value returns the field's value from values, falling back to the default.
// Whitespace-only values count as absent.
func (f Field) Value(values Values) (string, bool) {
	if v, ok := values[f.ID]; ok && !isBlank(v) {
		return v, true
	}
	if !isBlank(f.Default) {
		return f.Default, true
	}
	return "", false
}

// AllowsValue reports whether v is acceptable for an options field.
// Non-options fields accept anything.
func (f Field) AllowsValue(v string) bool {
	if f.Type != TypeOptions {
		return true
	}
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

func (r Resource) clone() Resource {
	r.Operations = slices.Clone(r.Operations)
	return r
}

func (f Field) clone() Field {
	f.Options = slices.Clone(f.Options)
	f.Visibility = Visibility{
		Resources:  slices.Clone(f.Visibility.Resources),
		Operations: slices.Clone(f.Visibility.Operations),
	}
	if f.Contribution != nil {
		c := *f.Contribution
		f.Contribution = &c
	}
	return f
}
