package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Descriptor is a fully resolved request, ready to hand to a transport.
type Descriptor struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    map[string]any    `json:"body,omitempty" yaml:"body,omitempty"`
}

// Transport performs the network call for a descriptor. Implementations live
// outside this module; the resolver never dispatches requests itself.
type Transport interface {
	Do(ctx context.Context, d *Descriptor) (*http.Response, error)
}

// JSONBody encodes the body, or returns nil when the descriptor has none.
func (d *Descriptor) JSONBody() ([]byte, error) {
	if d.Body == nil {
		return nil, nil
	}
	return json.Marshal(d.Body)
}

// HTTPRequest converts the descriptor into an *http.Request without sending it.
func (d *Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	body, err := d.JSONBody()
	if err != nil {
		return nil, err
	}
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, r)
	if err != nil {
		return nil, err
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
