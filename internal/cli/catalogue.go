package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blimu-dev/netsuite-connector/pkg/docs"
	"github.com/blimu-dev/netsuite-connector/pkg/openapi"
	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// RunOperations lists the operations of one resource, or of every resource when resource is empty.
func RunOperations(env *Env, resource string) error {
	resources := env.Schema.Resources()
	if resource != "" {
		r, ok := env.Schema.Resource(resource)
		if !ok {
			return resolver.Errorf(resolver.CodeUnknownOperation, "unknown resource %q", resource)
		}
		resources = []schema.Resource{r}
	}

	for _, r := range resources {
		fmt.Fprintln(env.Out, titleStyle.Render(r.Name)+" "+dimStyle.Render("("+r.ID+")"))
		for _, op := range r.Operations {
			marker := "  "
			if op.ID == r.DefaultOperation {
				marker = "* "
			}
			fmt.Fprintf(env.Out, "%s%s %s %s\n", marker, idStyle.Render(op.ID), op.Request.Method, op.Request.URL)
			fmt.Fprintln(env.Out, "    "+dimStyle.Render(op.Action))
		}
	}
	return nil
}

// RunFields lists the fields active for a resource/operation pair.
func RunFields(env *Env, resource, operation string) error {
	if operation == "" {
		if r, ok := env.Schema.Resource(resource); ok {
			operation = r.DefaultOperation
		}
	}
	if _, ok := env.Schema.Lookup(resource, operation); !ok {
		return resolver.Errorf(resolver.CodeUnknownOperation, "%s.%s is not in the schema", resource, operation)
	}

	fmt.Fprintln(env.Out, titleStyle.Render(schema.Subtitle(resource, operation)))
	fields := env.Schema.FieldsFor(resource, operation)
	if len(fields) == 0 {
		fmt.Fprintln(env.Out, dimStyle.Render("no fields"))
		return nil
	}
	for _, f := range fields {
		line := fmt.Sprintf("%s %s", idStyle.Render(f.ID), f.Type)
		if f.Required {
			line += " " + requiredStyle.Render("required")
		}
		if c := f.Contribution; c != nil {
			line += dimStyle.Render(fmt.Sprintf(" -> %s %s", c.Location, c.Key))
		}
		fmt.Fprintln(env.Out, line)
		if f.Description != "" {
			fmt.Fprintln(env.Out, "    "+dimStyle.Render(f.Description))
		}
		if len(f.Options) > 0 {
			values := make([]string, 0, len(f.Options))
			for _, o := range f.Options {
				values = append(values, o.Value)
			}
			fmt.Fprintln(env.Out, "    options: "+strings.Join(values, ", "))
		}
	}
	return nil
}

// RunDescribe renders the markdown catalogue to out, or to stdout when out is empty.
func RunDescribe(env *Env, out string) error {
	if out == "" {
		return docs.Render(env.Out, "NetSuite", env.Schema)
	}
	if err := docs.RenderFile(env.Fs, out, "NetSuite", env.Schema); err != nil {
		return err
	}
	env.Logger.Info("catalogue written", "path", out)
	return nil
}

type RunExportParams struct {
	BaseURL string
	Format  string
	Out     string
	Title   string
	Version string
}

// RunExport writes the catalogue as an OpenAPI document.
func RunExport(ctx context.Context, env *Env, p RunExportParams) error {
	doc, err := openapi.Export(ctx, env.Schema, openapi.ExportOptions{
		Title:   p.Title,
		Version: p.Version,
		BaseURL: p.BaseURL,
	})
	if err != nil {
		return err
	}
	format := openapi.Format(p.Format)
	if p.Out == "" {
		data, err := openapi.Marshal(doc, format)
		if err != nil {
			return err
		}
		_, err = env.Out.Write(data)
		return err
	}
	if err := openapi.Write(env.Fs, p.Out, doc, format); err != nil {
		return err
	}
	env.Logger.Info("openapi document written", "path", p.Out, "operations", doc.Paths.Len())
	return nil
}

// RunValidate validates an OpenAPI document
func RunValidate(ctx context.Context, env *Env, input string) error {
	if err := openapi.ValidateDocument(ctx, input); err != nil {
		return err
	}
	env.Logger.Info("document is valid", "input", input)
	return nil
}
