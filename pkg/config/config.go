package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

// RelativePath is where the config lives under the XDG config directories.
const RelativePath = "netsuite-connector/config.yaml"

var validate = validator.New()

// Config represents a saved set of connector invocations
type Config struct {
	// Credential is an optional credential reference, e.g. "env:NETSUITE_BASE_URL"
	// or "file:credential.yaml". Without one the resolve flags or NETSUITE_BASE_URL apply.
	Credential string `yaml:"credential,omitempty"`
	// EnvFile is an optional dotenv file consulted by env: credentials
	EnvFile     string       `yaml:"envFile"`
	Invocations []Invocation `yaml:"invocations" validate:"unique=Name,dive"`
}

// Invocation is one named resource/operation selection with its field values
type Invocation struct {
	Name      string            `yaml:"name" validate:"required"`
	Resource  string            `yaml:"resource" validate:"required"`
	Operation string            `yaml:"operation" validate:"required"`
	Values    map[string]string `yaml:"values"`
}

// Subtitle returns the display subtitle of the invocation.
func (i *Invocation) Subtitle() string {
	return schema.Subtitle(i.Resource, i.Operation)
}

// Find returns the invocation with the given name.
func (c *Config) Find(name string) (*Invocation, bool) {
	for i := range c.Invocations {
		if c.Invocations[i].Name == name {
			return &c.Invocations[i], true
		}
	}
	return nil, false
}

// Check reports invocations that name a pair s does not define.
func (c *Config) Check(s *schema.Schema) error {
	var errs []error
	for i, inv := range c.Invocations {
		if _, ok := s.Lookup(inv.Resource, inv.Operation); !ok {
			errs = append(errs, fmt.Errorf("invocations[%d] %q: unknown operation %s.%s", i, inv.Name, inv.Resource, inv.Operation))
		}
	}
	return errors.Join(errs...)
}

// Load loads configuration from a YAML file
func Load(fs afero.Fs, path string) (*Config, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Relative files are relative to the config, not the working directory
	dir := filepath.Dir(path)
	if cfg.EnvFile != "" && !filepath.IsAbs(cfg.EnvFile) {
		cfg.EnvFile = filepath.Join(dir, cfg.EnvFile)
	}
	if ref, ok := strings.CutPrefix(cfg.Credential, "file:"); ok && !filepath.IsAbs(ref) {
		cfg.Credential = "file:" + filepath.Join(dir, ref)
	}
	return &cfg, nil
}

// DefaultPath finds config.yaml in the XDG config directories.
func DefaultPath() (string, error) {
	return xdg.SearchConfigFile(RelativePath)
}
