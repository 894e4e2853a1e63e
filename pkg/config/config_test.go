package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

const sample = `credential: file:credential.yaml
envFile: .env
invocations:
  - name: price-42
    resource: products
    operation: getPrice
    values:
      productId: "42"
  - name: march-orders
    resource: salesOrders
    operation: getByDateRange
    values:
      startDate: "2024-03-01"
      endDate: "2024-03-31"
`

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/home/u/.config/netsuite-connector/config.yaml", sample)

	cfg, err := Load(fs, "/home/u/.config/netsuite-connector/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "file:/home/u/.config/netsuite-connector/credential.yaml", cfg.Credential)
	assert.Equal(t, "/home/u/.config/netsuite-connector/.env", cfg.EnvFile)
	require.Len(t, cfg.Invocations, 2)

	inv, ok := cfg.Find("march-orders")
	require.True(t, ok)
	assert.Equal(t, "getByDateRange: salesOrders", inv.Subtitle())
	assert.Equal(t, "2024-03-01", inv.Values["startDate"])

	_, ok = cfg.Find("missing")
	assert.False(t, ok)

	assert.NoError(t, cfg.Check(schema.NetSuite()))
}

func TestLoadKeepsAbsoluteAndNonFileReferences(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/a/config.yaml", "credential: env:NETSUITE_BASE_URL\nenvFile: /b/.env\n")

	cfg, err := Load(fs, "/a/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "env:NETSUITE_BASE_URL", cfg.Credential)
	assert.Equal(t, "/b/.env", cfg.EnvFile)
	assert.Empty(t, cfg.Invocations)
}

func TestLoadWithoutCredential(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/a/config.yaml", "invocations:\n  - {name: all, resource: customers, operation: getAll}\n")

	cfg, err := Load(fs, "/a/config.yaml")
	require.NoError(t, err)
	assert.Empty(t, cfg.Credential)
	require.Len(t, cfg.Invocations, 1)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"unknown key", "credential: env:X\nbaseUrl: https://x\n", "field baseUrl not found"},
		{
			"missing operation",
			"credential: env:X\ninvocations:\n  - name: a\n    resource: products\n",
			"Operation",
		},
		{
			"duplicate names",
			"credential: env:X\ninvocations:\n  - {name: a, resource: products, operation: getAll}\n  - {name: a, resource: customers, operation: getAll}\n",
			"unique",
		},
		{"malformed yaml", "credential: [\n", "parse"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			write(t, fs, "/config.yaml", test.content)
			_, err := Load(fs, "/config.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.errText)
		})
	}

	_, err := Load(afero.NewMemMapFs(), "/missing.yaml")
	assert.Error(t, err)
}

func TestCheckUnknownOperation(t *testing.T) {
	cfg := &Config{
		Credential: "env:X",
		Invocations: []Invocation{
			{Name: "ok", Resource: "products", Operation: "getAll"},
			{Name: "bad", Resource: "customers", Operation: "getPrice"},
		},
	}

	err := cfg.Check(schema.NetSuite())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invocations[1] "bad": unknown operation customers.getPrice`)
}
