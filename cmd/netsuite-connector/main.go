package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/netsuite-connector/internal/cli"
	"github.com/blimu-dev/netsuite-connector/internal/logging"
)

func main() {
	env := cli.NewEnv()
	root := newRootCmd(env)

	if err := root.ExecuteContext(context.Background()); err != nil {
		env.Logger.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(env *cli.Env) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "netsuite-connector",
		Short:         "Resolve NetSuite connector operations into HTTP requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			env.Logger.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(newResolveCmd(env))
	root.AddCommand(newOperationsCmd(env))
	root.AddCommand(newFieldsCmd(env))
	root.AddCommand(newDescribeCmd(env))
	root.AddCommand(newExportCmd(env))
	root.AddCommand(newValidateCmd(env))
	return root
}

func newResolveCmd(env *cli.Env) *cobra.Command {
	var p cli.RunResolveParams

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an operation, or the invocations of a config, into request descriptors",
		Example: "  netsuite-connector resolve --resource products --operation getPrice --set productId=42 --base-url https://api.example.com\n" +
			"  netsuite-connector resolve --config connector.yaml --invocation price-42",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunResolve(cmd.Context(), env, p)
		},
	}

	cmd.Flags().StringVarP(&p.Resource, "resource", "r", "", "Resource to resolve (customers, products, salesOrders)")
	cmd.Flags().StringVarP(&p.Operation, "operation", "o", "", "Operation; defaults to the resource's default operation")
	cmd.Flags().StringArrayVar(&p.Set, "set", nil, "Field value as field=value (repeatable)")
	cmd.Flags().StringVar(&p.BaseURL, "base-url", "", "Base URL of the API")
	cmd.Flags().StringVar(&p.Credential, "credential", "", "Credential reference (env:VAR, file:path, literal:url)")
	cmd.Flags().StringVarP(&p.ConfigPath, "config", "c", "", "Path to a connector config")
	cmd.Flags().StringVar(&p.Invocation, "invocation", "", "Resolve only the named invocation from the config")
	cmd.Flags().StringVar(&p.EnvFile, "env-file", "", "Dotenv file consulted by env: credentials")
	cmd.Flags().BoolVarP(&p.Interactive, "interactive", "i", false, "Prompt for the active fields")
	cmd.Flags().StringVar(&p.Output, "output", "json", "Output format (json, yaml)")
	return cmd
}

func newOperationsCmd(env *cli.Env) *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List resources and their operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunOperations(env, resource)
		},
	}
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Only list this resource")
	return cmd
}

func newFieldsCmd(env *cli.Env) *cobra.Command {
	var resource, operation string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields active for an operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunFields(env, resource, operation)
		},
	}
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Resource")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "Operation; defaults to the resource's default operation")
	_ = cmd.MarkFlagRequired("resource")
	return cmd
}

func newDescribeCmd(env *cli.Env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Render the catalogue as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunDescribe(env, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file; stdout when empty")
	return cmd
}

func newExportCmd(env *cli.Env) *cobra.Command {
	var p cli.RunExportParams
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalogue as an OpenAPI 3 document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunExport(cmd.Context(), env, p)
		},
	}
	cmd.Flags().StringVar(&p.BaseURL, "base-url", "", "Server URL recorded in the document")
	cmd.Flags().StringVar(&p.Format, "format", "yaml", "Output format (json, yaml)")
	cmd.Flags().StringVar(&p.Out, "out", "", "Output file; stdout when empty")
	cmd.Flags().StringVar(&p.Title, "title", "", "Document title")
	cmd.Flags().StringVar(&p.Version, "version", "", "Document version")
	return cmd
}

func newValidateCmd(env *cli.Env) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), env, input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI document (yaml/json, path or URL)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
