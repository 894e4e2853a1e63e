package credentials

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const literalPrefix = "literal"

// literalProvider takes the base URL verbatim from the reference.
type literalProvider struct{}

func (literalProvider) Prefix() string { return literalPrefix }

func (literalProvider) Load(_ context.Context, id string) (*Credential, error) {
	return &Credential{BaseURL: strings.TrimSpace(id)}, nil
}

// envProvider reads the base URL from an environment variable. Variables in
// the optional dotenv file apply only where the process environment has none.
type envProvider struct {
	fs      afero.Fs
	envFile string
}

func (envProvider) Prefix() string { return "env" }

func (p envProvider) Load(_ context.Context, id string) (*Credential, error) {
	set, err := p.environ()
	if err != nil {
		return nil, err
	}
	if id == "" {
		var c Credential
		if err := env.Unmarshal(set, &c); err != nil {
			return nil, err
		}
		if c.BaseURL == "" {
			return nil, fmt.Errorf("environment variable %s is not set", DefaultEnvVar)
		}
		return &c, nil
	}
	v := strings.TrimSpace(set[id])
	if v == "" {
		return nil, fmt.Errorf("environment variable %s is not set", id)
	}
	return &Credential{BaseURL: v}, nil
}

func (p envProvider) environ() (env.EnvSet, error) {
	set, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, err
	}
	if p.envFile == "" {
		return set, nil
	}
	content, err := afero.ReadFile(p.fs, p.envFile)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	fileVars, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", p.envFile, err)
	}
	for k, v := range fileVars {
		if _, ok := set[k]; !ok {
			set[k] = v
		}
	}
	return set, nil
}

// fileProvider reads a YAML credential document.
type fileProvider struct {
	fs afero.Fs
}

func (fileProvider) Prefix() string { return "file" }

func (p fileProvider) Load(_ context.Context, id string) (*Credential, error) {
	f, err := p.fs.Open(id)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Credential
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", id, err)
	}
	return &c, nil
}
