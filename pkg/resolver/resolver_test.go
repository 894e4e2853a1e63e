package resolver

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

const base = "https://api.x.com"

func TestResolveGetByEmail(t *testing.T) {
	d, err := Resolve(base, "customers", "getByEmail", Values{"email": "a@b.com"})
	require.NoError(t, err)

	assert.Equal(t, "POST", d.Method)
	assert.Equal(t, "https://api.x.com/v1/customers/search/by-email", d.URL)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, d.Body)
	assert.Equal(t, DefaultHeaders(), d.Headers)
}

func TestResolveGetPrice(t *testing.T) {
	d, err := Resolve(base, "products", "getPrice", Values{"productId": "42"})
	require.NoError(t, err)

	assert.Equal(t, "GET", d.Method)
	assert.Equal(t, base+"/v1/products/42/prices", d.URL)
	assert.Empty(t, d.Body)
}

func TestResolveGetByDateRange(t *testing.T) {
	d, err := Resolve(base, "salesOrders", "getByDateRange", Values{
		"startDate": "2024-03-15T10:00:00Z",
		"endDate":   "2024-04-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "POST", d.Method)
	assert.Equal(t, base+"/v1/salesorders/daterange", d.URL)
	assert.Equal(t, map[string]any{"start_date": "2024-03-15", "end_date": "2024-04-01"}, d.Body)
}

func TestResolveCatalogue(t *testing.T) {
	tests := []struct {
		resource  string
		operation string
		values    Values
		method    string
		url       string
	}{
		{"customers", "getAll", nil, "GET", base + "/v1/customers"},
		{"customers", "getByEmail", Values{"email": "x@y.z"}, "POST", base + "/v1/customers/search/by-email"},
		{"products", "getAll", nil, "GET", base + "/v1/products"},
		{"products", "getPrice", Values{"productId": "7"}, "GET", base + "/v1/products/7/prices"},
		{"salesOrders", "getItems", Values{"transactionNumber": "SO-100"}, "GET", base + "/v1/salesorders/SO-100/items"},
		{"salesOrders", "getByDateRange", Values{"startDate": "2024-01-01", "endDate": "2024-01-31"}, "POST", base + "/v1/salesorders/daterange"},
	}

	for _, test := range tests {
		t.Run(test.resource+"."+test.operation, func(t *testing.T) {
			d, err := Resolve(base, test.resource, test.operation, test.values)
			require.NoError(t, err)
			assert.Equal(t, test.method, d.Method)
			assert.Equal(t, test.url, d.URL)
			assert.NotContains(t, d.URL, "{")
		})
	}
}

func TestResolveMissingRequiredField(t *testing.T) {
	d, err := Resolve(base, "products", "getPrice", Values{})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
	assert.Equal(t, []string{"productId"}, MissingFields(err))
	assert.Equal(t, CodeMissingRequiredField, CodeOf(err))
}

func TestResolveReportsEveryMissingField(t *testing.T) {
	_, err := Resolve(base, "salesOrders", "getByDateRange", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"startDate", "endDate"}, MissingFields(err))
}

func TestResolveUnknownOperation(t *testing.T) {
	tests := []struct {
		resource  string
		operation string
	}{
		{"customers", "getPrice"},
		{"invoices", "getAll"},
		{"", ""},
	}

	for _, test := range tests {
		d, err := Resolve(base, test.resource, test.operation, Values{"productId": "1"})
		assert.Nil(t, d)
		assert.True(t, errors.Is(err, ErrUnknownOperation), "%s.%s: %v", test.resource, test.operation, err)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	values := Values{"startDate": "2024-03-15T10:00:00Z", "endDate": "2024-04-01T00:00:00Z"}
	first, err := Resolve(base, "salesOrders", "getByDateRange", values)
	require.NoError(t, err)
	second, err := Resolve(base, "salesOrders", "getByDateRange", values)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Values{"startDate": "2024-03-15T10:00:00Z", "endDate": "2024-04-01T00:00:00Z"}, values, "inputs must not be modified")
}

func TestResolveTrailingSlash(t *testing.T) {
	withSlash, err := Resolve(base+"/", "products", "getPrice", Values{"productId": "42"})
	require.NoError(t, err)
	without, err := Resolve(base, "products", "getPrice", Values{"productId": "42"})
	require.NoError(t, err)

	assert.Equal(t, without.URL, withSlash.URL)
	assert.Equal(t, "https://api.x.com/v1/products/42/prices", withSlash.URL)
}

func TestResolveBaseURLWithPath(t *testing.T) {
	d, err := Resolve("https://api.x.com/netsuite/", "customers", "getAll", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.x.com/netsuite/v1/customers", d.URL)
}

func TestResolveIgnoresInactiveFields(t *testing.T) {
	d, err := Resolve(base, "customers", "getAll", Values{
		"email":     "a@b.com",
		"productId": "42",
		"startDate": "not a date",
		"unknown":   "x",
	})
	require.NoError(t, err)
	assert.Nil(t, d.Body)
	assert.Equal(t, base+"/v1/customers", d.URL)

	// required fields of other operations never block resolution
	d, err = Resolve(base, "products", "getPrice", Values{"productId": "42", "email": ""})
	require.NoError(t, err)
	assert.Nil(t, d.Body)
}

func TestResolveEncodesURLValues(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"42", "/v1/products/42/prices"},
		{"a b", "/v1/products/a%20b/prices"},
		{"a/b", "/v1/products/a%2Fb/prices"},
		{"x?y=1&z", "/v1/products/x%3Fy%3D1%26z/prices"},
		{"a:b@c", "/v1/products/a%3Ab%40c/prices"},
		{"{productId}", "/v1/products/%7BproductId%7D/prices"},
		{"..", "/v1/products/%2E%2E/prices"},
		{"é", "/v1/products/%C3%A9/prices"},
	}

	for _, test := range tests {
		d, err := Resolve(base, "products", "getPrice", Values{"productId": test.value})
		require.NoError(t, err, test.value)
		assert.Equal(t, base+test.expected, d.URL, test.value)
	}
}

func TestResolveInvalidDate(t *testing.T) {
	d, err := Resolve(base, "salesOrders", "getByDateRange", Values{"startDate": "soon", "endDate": "2024-01-01"})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFieldValue))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "startDate", rerr.Details["field"])
}

func TestResolveBaseURLValidation(t *testing.T) {
	r := New(schema.NetSuite(), WithBaseURLValidation())

	for _, bad := range []string{"", "api.x.com", "ftp://api.x.com", "https://"} {
		_, err := r.Resolve(bad, "customers", "getAll", nil)
		assert.True(t, errors.Is(err, ErrInvalidBaseURL), "base %q: %v", bad, err)
	}

	_, err := r.Resolve(base, "customers", "getAll", nil)
	assert.NoError(t, err)

	// without the option the base URL is taken as given
	_, err = New(schema.NetSuite()).Resolve("api.x.com", "customers", "getAll", nil)
	assert.NoError(t, err)
}

// customSchema exercises the contribution kinds the built-in catalogue does not use.
func customSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(
		[]schema.Resource{{
			ID: "orders",
			Operations: []schema.Operation{
				{ID: "get", Request: schema.RequestTemplate{Method: "GET", URL: "/orders/{id}"}},
				{ID: "search", Request: schema.RequestTemplate{Method: "POST", URL: "/orders/search"}},
			},
		}},
		[]schema.Field{
			{
				ID:           "id",
				Type:         schema.TypeString,
				Visibility:   schema.Visibility{Resources: []string{"orders"}, Operations: []string{"get"}},
				Contribution: &schema.Contribution{Location: schema.LocationURL, Key: "id"},
			},
			{
				ID:           "accept",
				Type:         schema.TypeString,
				Visibility:   schema.Visibility{Resources: []string{"orders"}, Operations: []string{"get", "search"}},
				Contribution: &schema.Contribution{Location: schema.LocationHeader, Key: "accept"},
			},
			{
				ID:           "tenant",
				Type:         schema.TypeString,
				Default:      "main",
				Visibility:   schema.Visibility{Resources: []string{"orders"}, Operations: []string{"search"}},
				Contribution: &schema.Contribution{Location: schema.LocationHeader, Key: "X-Tenant"},
			},
			{
				ID:           "status",
				Type:         schema.TypeOptions,
				Options:      []schema.Option{{Name: "Open", Value: "open"}, {Name: "Closed", Value: "closed"}},
				Visibility:   schema.Visibility{Resources: []string{"orders"}, Operations: []string{"search"}},
				Contribution: &schema.Contribution{Location: schema.LocationBody, Key: "status"},
			},
		},
	)
	require.NoError(t, err)
	return s
}

func TestResolveUnresolvedPlaceholder(t *testing.T) {
	r := New(customSchema(t))

	d, err := r.Resolve(base, "orders", "get", Values{})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedPlaceholder))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "id", rerr.Details["token"])
}

func TestLeftoverToken(t *testing.T) {
	tests := []struct {
		path  string
		token string
		found bool
	}{
		{"/orders/42", "", false},
		{"/orders/%7Bid%7D", "", false},
		{"/orders/{id}", "id", true},
		{"/orders/{order-id}", "order-id", true},
		{"/orders/{id", "id", true},
		{"/orders/42}", "", true},
	}

	for _, test := range tests {
		token, found := leftoverToken(test.path)
		assert.Equal(t, test.found, found, test.path)
		assert.Equal(t, test.token, token, test.path)
	}
}

func TestMalformedTemplateNeverResolves(t *testing.T) {
	_, err := schema.New(
		[]schema.Resource{{
			ID:         "orders",
			Operations: []schema.Operation{{ID: "get", Request: schema.RequestTemplate{Method: "GET", URL: "/orders/{order-id}"}}},
		}},
		nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `malformed placeholder "{order-id}"`)
}

func TestResolveHeaderContributions(t *testing.T) {
	r := New(customSchema(t))

	d, err := r.Resolve(base, "orders", "search", Values{"accept": "text/csv", "status": "open"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Accept":       "text/csv",
		"Content-Type": "application/json",
		"X-Tenant":     "main",
	}, d.Headers)
	assert.Equal(t, map[string]any{"status": "open"}, d.Body)
}

func TestResolveRejectsValueOutsideOptions(t *testing.T) {
	r := New(customSchema(t))

	_, err := r.Resolve(base, "orders", "search", Values{"status": "archived"})
	assert.True(t, errors.Is(err, ErrInvalidFieldValue))
}

func TestResolveConcurrently(t *testing.T) {
	r := New(schema.NetSuite())
	expected, err := r.Resolve(base, "products", "getPrice", Values{"productId": "42"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Descriptor, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Resolve(base, "products", "getPrice", Values{"productId": "42"})
		}(i)
	}
	wg.Wait()

	for _, d := range results {
		assert.Equal(t, expected, d)
	}
}

func TestDescriptorHTTPRequest(t *testing.T) {
	d, err := Resolve(base, "customers", "getByEmail", Values{"email": "a@b.com"})
	require.NoError(t, err)

	req, err := d.HTTPRequest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, d.URL, req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(body))

	get, err := Resolve(base, "customers", "getAll", nil)
	require.NoError(t, err)
	req, err = get.HTTPRequest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, req.Body)
}

func TestErrorHelpers(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Nil(t, MissingFields(errors.New("plain")))
	assert.False(t, errors.Is(ErrUnknownOperation, ErrMissingRequiredField))

	e := Errorf(CodeUnknownOperation, "x").WithDetail("a", 1)
	assert.Equal(t, "unknown_operation: x", e.Error())
	assert.Equal(t, 1, e.Details["a"])
}
