package openapi

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

func exportNetSuite(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := Export(context.Background(), schema.NetSuite(), ExportOptions{BaseURL: "https://api.x.com/"})
	require.NoError(t, err)
	return doc
}

func TestExportPaths(t *testing.T) {
	doc := exportNetSuite(t)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "NetSuite", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.x.com", doc.Servers[0].URL)
	assert.Len(t, doc.Tags, 3)

	tests := []struct {
		path        string
		method      string
		operationID string
	}{
		{"/v1/customers", "GET", "customersGetAll"},
		{"/v1/customers/search/by-email", "POST", "customersGetByEmail"},
		{"/v1/products", "GET", "productsGetAll"},
		{"/v1/products/{productId}/prices", "GET", "productsGetPrice"},
		{"/v1/salesorders/{transactionNumber}/items", "GET", "salesOrdersGetItems"},
		{"/v1/salesorders/daterange", "POST", "salesOrdersGetByDateRange"},
	}

	for _, test := range tests {
		item := doc.Paths.Value(test.path)
		require.NotNil(t, item, test.path)
		op := item.GetOperation(test.method)
		require.NotNil(t, op, "%s %s", test.method, test.path)
		assert.Equal(t, test.operationID, op.OperationID)
	}
}

func TestExportParametersAndBodies(t *testing.T) {
	doc := exportNetSuite(t)

	price := doc.Paths.Value("/v1/products/{productId}/prices").Get
	require.Len(t, price.Parameters, 1)
	p := price.Parameters[0].Value
	assert.Equal(t, "productId", p.Name)
	assert.Equal(t, "path", p.In)
	assert.True(t, p.Required)
	assert.Nil(t, price.RequestBody)

	dates := doc.Paths.Value("/v1/salesorders/daterange").Post
	require.NotNil(t, dates.RequestBody)
	body := dates.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.ElementsMatch(t, []string{"start_date", "end_date"}, body.Required)
	assert.Equal(t, "date", body.Properties["start_date"].Value.Format)

	email := doc.Paths.Value("/v1/customers/search/by-email").Post
	assert.Contains(t, email.RequestBody.Value.Content.Get("application/json").Schema.Value.Properties, "email")
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := exportNetSuite(t)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Marshal(doc, format)
		require.NoError(t, err, format)

		loaded, err := LoadData(context.Background(), data)
		require.NoError(t, err, format)
		require.NoError(t, loaded.Validate(context.Background()), format)
		assert.Equal(t, doc.Paths.Len(), loaded.Paths.Len(), format)
	}

	data, err := Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "openapi: 3.0.3"), string(data[:40]))

	_, err = Marshal(doc, "xml")
	assert.EqualError(t, err, `unsupported format "xml"`)
}

func TestWriteAndValidateDocument(t *testing.T) {
	doc := exportNetSuite(t)
	path := filepath.Join(t.TempDir(), "netsuite.yaml")

	require.NoError(t, Write(afero.NewOsFs(), path, doc, FormatYAML))
	assert.NoError(t, ValidateDocument(context.Background(), path))

	fs := afero.NewMemMapFs()
	require.NoError(t, Write(fs, "/out/netsuite.json", doc, FormatJSON))
	exists, err := afero.Exists(fs, "/out/netsuite.json")
	require.NoError(t, err)
	assert.True(t, exists)
}
