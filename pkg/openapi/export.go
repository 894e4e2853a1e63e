package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/netsuite-connector/pkg/schema"
	"github.com/blimu-dev/netsuite-connector/pkg/utils"
)

// Format is an output encoding for exported documents
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ExportOptions describe the exported document
type ExportOptions struct {
	Title   string
	Version string
	BaseURL string
}

// Export describes every operation of s as an OpenAPI 3 document and validates it.
func Export(ctx context.Context, s *schema.Schema, opts ExportOptions) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = "NetSuite"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: opts.Title, Version: opts.Version},
		Paths:   openapi3.NewPaths(),
	}
	if opts.BaseURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: strings.TrimSuffix(opts.BaseURL, "/")}}
	}

	for _, r := range s.Resources() {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: r.ID, Description: r.Name})
		for _, op := range r.Operations {
			item := doc.Paths.Value(op.Request.URL)
			if item == nil {
				item = &openapi3.PathItem{}
				doc.Paths.Set(op.Request.URL, item)
			}
			item.SetOperation(op.Request.Method, exportOperation(r, op, s.FieldsFor(r.ID, op.ID)))
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("exported document is invalid: %w", err)
	}
	return doc, nil
}

func exportOperation(r schema.Resource, op schema.Operation, fields []schema.Field) *openapi3.Operation {
	o := openapi3.NewOperation()
	o.OperationID = utils.ToCamelCase(r.ID + " " + op.ID)
	o.Summary = op.Name
	o.Description = op.Action
	o.Tags = []string{r.ID}

	body := openapi3.NewObjectSchema()
	for _, f := range fields {
		c := f.Contribution
		if c == nil {
			continue
		}
		s := fieldSchema(f)
		switch c.Location {
		case schema.LocationURL:
			o.AddParameter(openapi3.NewPathParameter(c.Key).WithSchema(s).WithDescription(f.Description))
		case schema.LocationHeader:
			p := openapi3.NewHeaderParameter(c.Key).WithSchema(s).WithDescription(f.Description)
			p.Required = f.Required
			o.AddParameter(p)
		case schema.LocationBody:
			body.WithProperty(c.Key, s)
			if f.Required {
				body.Required = append(body.Required, c.Key)
			}
		}
	}
	if len(body.Properties) > 0 {
		o.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
		}
	}

	o.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Successful response").WithJSONSchema(openapi3.NewSchema()),
		}),
	)
	return o
}

func fieldSchema(f schema.Field) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if f.TransformName() == schema.TransformDate {
		s.WithFormat("date")
	}
	if len(f.Options) > 0 {
		values := make([]any, 0, len(f.Options))
		for _, o := range f.Options {
			values = append(values, o.Value)
		}
		s.WithEnum(values...)
	}
	s.Title = f.DisplayLabel()
	s.Description = f.Description
	return s
}

// Marshal encodes doc in the requested format
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON, "":
		return append(data, '\n'), nil
	case FormatYAML:
		// JSON is valid YAML; re-encoding the node tree keeps key order.
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		blockStyle(&node)
		return yaml.Marshal(&node)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Write encodes doc and writes it to path on fs
func Write(fs afero.Fs, path string, doc *openapi3.T, format Format) error {
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0644)
}
