package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/netsuite-connector/internal/logging"
	"github.com/blimu-dev/netsuite-connector/pkg/config"
	"github.com/blimu-dev/netsuite-connector/pkg/credentials"
	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

// Env carries the dependencies shared by every command.
type Env struct {
	Fs     afero.Fs
	Out    io.Writer
	Logger *logging.Logger
	Schema *schema.Schema
	// Prompt asks for field values; defaults to an interactive huh form.
	Prompt func(fields []schema.Field, values resolver.Values) error
}

// NewEnv returns the environment of a real process.
func NewEnv() *Env {
	return &Env{
		Fs:     afero.NewOsFs(),
		Out:    os.Stdout,
		Logger: logging.CreateLogger(),
		Schema: schema.NetSuite(),
		Prompt: promptFields,
	}
}

type RunResolveParams struct {
	Resource    string
	Operation   string
	Set         []string
	BaseURL     string
	Credential  string
	ConfigPath  string
	Invocation  string
	EnvFile     string
	Interactive bool
	Output      string
}

// Result is one resolved invocation.
type Result struct {
	Name     string               `json:"name" yaml:"name"`
	Subtitle string               `json:"subtitle" yaml:"subtitle"`
	Request  *resolver.Descriptor `json:"request" yaml:"request"`
}

func RunResolve(ctx context.Context, env *Env, p RunResolveParams) error {
	cfg, err := loadConfig(env, p.ConfigPath, p.Resource == "")
	if err != nil {
		return err
	}

	var invocations []config.Invocation
	switch {
	case p.Resource != "":
		inv, err := flagInvocation(env, p)
		if err != nil {
			return err
		}
		invocations = append(invocations, inv)
	case cfg != nil:
		if p.Invocation != "" {
			inv, ok := cfg.Find(p.Invocation)
			if !ok {
				return fmt.Errorf("invocation %q not found in config", p.Invocation)
			}
			invocations = append(invocations, *inv)
		} else {
			invocations = cfg.Invocations
		}
		if err := cfg.Check(env.Schema); err != nil {
			return err
		}
	default:
		return errors.New("either --resource or a config with invocations must be provided")
	}
	if len(invocations) == 0 {
		return errors.New("no invocations to resolve")
	}

	baseURL, err := loadBaseURL(ctx, env, cfg, p)
	if err != nil {
		return err
	}

	r := resolver.New(env.Schema)
	results := make([]Result, 0, len(invocations))
	for _, inv := range invocations {
		d, err := r.Resolve(baseURL, inv.Resource, inv.Operation, inv.Values)
		if err != nil {
			env.Logger.Debug("resolve failed", "invocation", inv.Name, "code", resolver.CodeOf(err))
			return fmt.Errorf("%s: %w", inv.Name, err)
		}
		env.Logger.Debug("resolved", "invocation", inv.Name, "method", d.Method, "url", d.URL)
		results = append(results, Result{Name: inv.Name, Subtitle: inv.Subtitle(), Request: d})
	}

	if p.Resource != "" {
		return writeOutput(env.Out, p.Output, results[0].Request)
	}
	return writeOutput(env.Out, p.Output, results)
}

// flagInvocation builds an invocation from --resource, --operation and --set.
func flagInvocation(env *Env, p RunResolveParams) (config.Invocation, error) {
	res, ok := env.Schema.Resource(p.Resource)
	if !ok {
		return config.Invocation{}, resolver.Errorf(resolver.CodeUnknownOperation, "unknown resource %q", p.Resource)
	}
	op := p.Operation
	if op == "" {
		op = res.DefaultOperation
	}
	values, err := parseSet(p.Set)
	if err != nil {
		return config.Invocation{}, err
	}
	if p.Interactive {
		if err := env.Prompt(env.Schema.FieldsFor(p.Resource, op), values); err != nil {
			return config.Invocation{}, fmt.Errorf("prompt: %w", err)
		}
	}
	return config.Invocation{
		Name:      p.Resource + "." + op,
		Resource:  p.Resource,
		Operation: op,
		Values:    values,
	}, nil
}

func parseSet(pairs []string) (resolver.Values, error) {
	values := resolver.Values{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, expected field=value", pair)
		}
		values[k] = v
	}
	return values, nil
}

// loadConfig loads the named config. Without a path, the XDG config is used
// when discover is set and one exists.
func loadConfig(env *Env, path string, discover bool) (*config.Config, error) {
	if path == "" {
		if !discover {
			return nil, nil
		}
		found, err := config.DefaultPath()
		if err != nil {
			return nil, nil
		}
		env.Logger.Debug("using discovered config", "path", found)
		path = found
	}
	return config.Load(env.Fs, path)
}

// loadBaseURL picks the credential from --base-url, --credential, the config,
// then the NETSUITE_BASE_URL variable.
func loadBaseURL(ctx context.Context, env *Env, cfg *config.Config, p RunResolveParams) (string, error) {
	envFile := p.EnvFile
	ref := p.Credential
	if cfg != nil {
		if envFile == "" {
			envFile = cfg.EnvFile
		}
		if ref == "" {
			ref = cfg.Credential
		}
	}
	if p.BaseURL != "" {
		ref = "literal:" + p.BaseURL
	}
	defaulted := ref == ""
	if defaulted {
		ref = "env:"
	}

	var opts []credentials.Option
	if envFile != "" {
		opts = append(opts, credentials.WithEnvFile(envFile))
	}
	c, err := credentials.NewRegistry(env.Fs, opts...).Load(ctx, ref)
	if err != nil {
		if defaulted {
			return "", fmt.Errorf("%w (%s; pass --base-url or --credential)", err, credentials.NetSuite.Hint())
		}
		return "", err
	}
	return c.BaseURL, nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unsupported output format: %s", format)
}
