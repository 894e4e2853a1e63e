package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-readable failure kind.
type ErrorCode string

const (
	CodeUnknownOperation      ErrorCode = "unknown_operation"
	CodeMissingRequiredField  ErrorCode = "missing_required_field"
	CodeUnresolvedPlaceholder ErrorCode = "unresolved_placeholder"
	CodeInvalidBaseURL        ErrorCode = "invalid_base_url"
	CodeInvalidFieldValue     ErrorCode = "invalid_field_value"
)

// Sentinels for errors.Is; any *Error with the same code matches.
var (
	ErrUnknownOperation      = &Error{Code: CodeUnknownOperation}
	ErrMissingRequiredField  = &Error{Code: CodeMissingRequiredField}
	ErrUnresolvedPlaceholder = &Error{Code: CodeUnresolvedPlaceholder}
	ErrInvalidBaseURL        = &Error{Code: CodeInvalidBaseURL}
	ErrInvalidFieldValue     = &Error{Code: CodeInvalidFieldValue}
)

// Error is a typed resolution failure.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Errorf creates an error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a copy of the error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

func unknownOperation(resource, operation string) *Error {
	return Errorf(CodeUnknownOperation, "%s.%s is not in the schema", resource, operation).
		WithDetail("resource", resource).
		WithDetail("operation", operation)
}

func missingRequiredFields(fields []string) *Error {
	return Errorf(CodeMissingRequiredField, "missing required fields: %s", strings.Join(fields, ", ")).
		WithDetail("fields", fields)
}

func unresolvedPlaceholder(token string) *Error {
	return Errorf(CodeUnresolvedPlaceholder, "placeholder {%s} was not substituted", token).
		WithDetail("token", token)
}

func invalidFieldValue(field string, cause error) *Error {
	e := Errorf(CodeInvalidFieldValue, "field %s: %v", field, cause).WithDetail("field", field)
	e.cause = cause
	return e
}

// InvalidBaseURL reports a base URL that is not an absolute http(s) URL.
func InvalidBaseURL(baseURL string, reason string) *Error {
	return Errorf(CodeInvalidBaseURL, "base url %q: %s", baseURL, reason).WithDetail("baseUrl", baseURL)
}

// CodeOf returns the code of a resolver error, or "" for anything else.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MissingFields returns the field identifiers carried by a missing_required_field error.
func MissingFields(err error) []string {
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeMissingRequiredField {
		return nil
	}
	fields, _ := e.Details["fields"].([]string)
	return fields
}
