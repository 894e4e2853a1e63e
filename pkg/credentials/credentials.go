// Package credentials resolves the connector credential from a prefixed
// reference such as "env:NETSUITE_BASE_URL" or "file:/etc/netsuite.yaml".
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
)

// DefaultEnvVar is read by a bare "env:" reference.
const DefaultEnvVar = "NETSUITE_BASE_URL"

var validate = validator.New()

// Metadata describes a credential type to users.
type Metadata struct {
	Name             string
	DisplayName      string
	DocumentationURL string
	// Label, Placeholder and Description describe the base URL property.
	Label       string
	Placeholder string
	Description string
}

// NetSuite is the display metadata of the NetSuite credential.
var NetSuite = Metadata{
	Name:             "netSuiteApi",
	DisplayName:      "NetSuite API",
	DocumentationURL: "https://www.netsuite.com/portal/home.shtml",
	Label:            "Base URL",
	Placeholder:      "https://api.yourdomain.com",
	Description:      "Enter your NetSuite API Base URL",
}

// Hint returns a one-line prompt for supplying the base URL.
func (m Metadata) Hint() string {
	return fmt.Sprintf("%s: %s, e.g. %s", m.DisplayName, m.Description, m.Placeholder)
}

// Credential holds the connection settings of the external API.
type Credential struct {
	BaseURL string `yaml:"baseUrl" env:"NETSUITE_BASE_URL" validate:"required,url"`
}

// Validate checks the base URL is an absolute http or https URL.
func (c *Credential) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return resolver.InvalidBaseURL(c.BaseURL, fmt.Sprintf("failed %q validation", verrs[0].Tag()))
		}
		return resolver.InvalidBaseURL(c.BaseURL, err.Error())
	}
	return resolver.CheckBaseURL(c.BaseURL)
}

// Provider loads a credential for the identifier following its prefix.
type Provider interface {
	Prefix() string
	Load(ctx context.Context, id string) (*Credential, error)
}

// Registry maps reference prefixes to providers
type Registry struct {
	providers map[string]Provider
}

// Option configures the built-in providers of a registry.
type Option func(*options)

type options struct {
	envFile string
}

// WithEnvFile makes the env provider fall back to variables from a dotenv file.
func WithEnvFile(path string) Option {
	return func(o *options) {
		o.envFile = path
	}
}

// NewRegistry creates a registry with the literal, env and file providers, all reading through fs.
func NewRegistry(fs afero.Fs, opts ...Option) *Registry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	r := &Registry{providers: make(map[string]Provider)}
	r.Register(literalProvider{})
	r.Register(envProvider{fs: fs, envFile: o.envFile})
	r.Register(fileProvider{fs: fs})
	return r
}

// Register adds or replaces the provider for its prefix
func (r *Registry) Register(p Provider) {
	r.providers[p.Prefix()] = p
}

// Get retrieves a provider by prefix
func (r *Registry) Get(prefix string) (Provider, bool) {
	p, ok := r.providers[prefix]
	return p, ok
}

// Prefixes returns the registered prefixes, sorted
func (r *Registry) Prefixes() []string {
	prefixes := make([]string, 0, len(r.providers))
	for p := range r.providers {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// split parses a reference. A plain http(s) URL is read as a literal.
func split(ref string) (string, string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return literalPrefix, ref, nil
	}
	prefix, id, ok := strings.Cut(ref, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid credential reference: %s", ref)
	}
	return prefix, id, nil
}

// ValidateRef checks that the reference uses a known prefix.
func (r *Registry) ValidateRef(ref string) error {
	prefix, _, err := split(ref)
	if err != nil {
		return err
	}
	if _, ok := r.providers[prefix]; !ok {
		return fmt.Errorf("unknown credential source: %s", prefix)
	}
	return nil
}

// Load resolves ref with the matching provider and validates the result.
func (r *Registry) Load(ctx context.Context, ref string) (*Credential, error) {
	prefix, id, err := split(ref)
	if err != nil {
		return nil, err
	}
	p, ok := r.providers[prefix]
	if !ok {
		return nil, fmt.Errorf("unknown credential source: %s", prefix)
	}
	c, err := p.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load %s credential: %w", prefix, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
