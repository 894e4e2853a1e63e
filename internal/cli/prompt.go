package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/blimu-dev/netsuite-connector/pkg/resolver"
	"github.com/blimu-dev/netsuite-connector/pkg/schema"
)

// promptFields asks for every active field, prefilled with values already given.
func promptFields(fields []schema.Field, values resolver.Values) error {
	if len(fields) == 0 {
		return nil
	}

	answers := make([]string, len(fields))
	items := make([]huh.Field, 0, len(fields))
	for i, f := range fields {
		answers[i] = values[f.ID]
		if answers[i] == "" {
			answers[i] = f.Default
		}

		if len(f.Options) > 0 {
			opts := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o.Name, o.Value))
			}
			items = append(items, huh.NewSelect[string]().
				Title(f.DisplayLabel()).
				Description(f.Description).
				Options(opts...).
				Value(&answers[i]))
			continue
		}

		items = append(items, huh.NewInput().
			Title(f.DisplayLabel()).
			Description(f.Description).
			Placeholder(f.Placeholder).
			Validate(requiredValidator(f)).
			Value(&answers[i]))
	}

	if err := huh.NewForm(huh.NewGroup(items...)).Run(); err != nil {
		return err
	}
	for i, f := range fields {
		if answers[i] != "" {
			values[f.ID] = answers[i]
		}
	}
	return nil
}

func requiredValidator(f schema.Field) func(string) error {
	return func(v string) error {
		if f.Required && strings.TrimSpace(v) == "" {
			return errors.New(f.DisplayLabel() + " is required")
		}
		return nil
	}
}
