// Package docs renders the connector catalogue as markdown.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
	"github.com/blimu-dev/netsuite-connector/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

type catalogue struct {
	Title          string
	OperationCount int
	Resources      []resourceDoc
}

type resourceDoc struct {
	schema.Resource
	Operations []operationDoc
}

type operationDoc struct {
	Operation schema.Operation
	Default   bool
	Fields    []schema.Field
}

func buildCatalogue(title string, s *schema.Schema) catalogue {
	c := catalogue{Title: title}
	for _, r := range s.Resources() {
		rd := resourceDoc{Resource: r}
		for _, op := range r.Operations {
			rd.Operations = append(rd.Operations, operationDoc{
				Operation: op,
				Default:   op.ID == r.DefaultOperation,
				Fields:    s.FieldsFor(r.ID, op.ID),
			})
			c.OperationCount++
		}
		c.Resources = append(c.Resources, rd)
	}
	return c
}

func funcMap() template.FuncMap {
	funcs := template.FuncMap{
		"anchor": func(resource, operation string) string {
			return utils.ToKebabCase(resource + " " + operation)
		},
		"contribution": func(f schema.Field) string {
			c := f.Contribution
			if c == nil {
				return "-"
			}
			out := fmt.Sprintf("%s `%s`", c.Location, c.Key)
			if name := f.TransformName(); name != schema.TransformIdentity {
				out += " (" + name + ")"
			}
			return out
		},
	}
	for k, v := range sprig.TxtFuncMap() {
		if _, ok := funcs[k]; !ok {
			funcs[k] = v
		}
	}
	return funcs
}

// Render writes the markdown catalogue of s to w.
func Render(w io.Writer, title string, s *schema.Schema) error {
	const name = "catalogue.md.gotmpl"
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(funcMap()).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	if err := tmpl.Execute(w, buildCatalogue(title, s)); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

// RenderFile renders the catalogue into path on fs.
func RenderFile(fs afero.Fs, path, title string, s *schema.Schema) error {
	var buf bytes.Buffer
	if err := Render(&buf, title, s); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, buf.Bytes(), 0644)
}
