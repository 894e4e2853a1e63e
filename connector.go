// Package connector resolves NetSuite connector operations into HTTP request
// descriptors.
//
// The connector exposes a fixed catalogue of resources (customers, products,
// sales orders), each with operations that resolve to a single HTTP request.
// Resolution never performs network I/O: the returned descriptor is handed
// to whatever transport the caller uses.
//
// Quick Start:
//
//	import connector "github.com/blimu-dev/netsuite-connector"
//
//	d, err := connector.Resolve("https://api.example.com", "products", "getPrice",
//		connector.Values{"productId": "42"})
//	// d.Method == "GET", d.URL == "https://api.example.com/v1/products/42/prices"
//
// For typed inputs, credentials and OpenAPI export see the pkg/ packages.
package connector

import (
	"context"

	"github.com/spf13/afero"

	"github.com/blimu-dev/netsuite-connector/pkg/credentials"
	"github.com/blimu-dev/netsuite-connector/pkg/openapi"
	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

// Values holds field values keyed by field identifier.
type Values = resolver.Values

// Descriptor is a resolved request.
type Descriptor = resolver.Descriptor

// Resolve builds the request for resource/operation against the NetSuite catalogue.
//
// Example:
//
//	d, err := connector.Resolve(baseURL, "salesOrders", "getByDateRange", connector.Values{
//		"startDate": "2024-03-15T10:00:00Z",
//		"endDate":   "2024-04-01T00:00:00Z",
//	})
//	// d.Body == map[string]any{"start_date": "2024-03-15", "end_date": "2024-04-01"}
func Resolve(baseURL, resource, operation string, values Values) (*Descriptor, error) {
	return resolver.Resolve(baseURL, resource, operation, values)
}

// ResolveWithCredential loads the base URL from a credential reference such
// as "env:NETSUITE_BASE_URL" and resolves the request.
func ResolveWithCredential(ctx context.Context, ref, resource, operation string, values Values) (*Descriptor, error) {
	c, err := credentials.NewRegistry(afero.NewOsFs()).Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return Resolve(c.BaseURL, resource, operation, values)
}

// Operations lists the operations of a resource in declaration order.
func Operations(resource string) []schema.Operation {
	return schema.NetSuite().OperationsFor(resource)
}

// Fields lists the fields active for a resource/operation pair.
func Fields(resource, operation string) []schema.Field {
	return schema.NetSuite().FieldsFor(resource, operation)
}

// ExportOpenAPI describes the catalogue as an OpenAPI 3 document in JSON or YAML.
func ExportOpenAPI(ctx context.Context, baseURL string, format openapi.Format) ([]byte, error) {
	doc, err := openapi.Export(ctx, schema.NetSuite(), openapi.ExportOptions{BaseURL: baseURL})
	if err != nil {
		return nil, err
	}
	return openapi.Marshal(doc, format)
}

// ValidateDocument validates an OpenAPI document file or URL.
func ValidateDocument(ctx context.Context, path string) error {
	return openapi.ValidateDocument(ctx, path)
}
