// File: snowcfg/cmd/snowcfg/commands.go
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Snowflake-Labs/snowcfg"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the fully merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			final := resolver.Resolve()

			switch output {
			case "toml":
				data, err := snowcfg.DumpTOML(final)
				if err != nil {
					return err
				}
				cmd.Print(string(data))
				return nil
			case "table":
				presenter := snowcfg.NewResolutionPresenter(resolver.History())
				cmd.Print(presenter.Table())
				return nil
			default:
				return fmt.Errorf("unsupported output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format. Supported: table, toml")
	return cmd
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [key]",
		Short: "Show which source supplied each value and why",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			resolver.Resolve()
			presenter := snowcfg.NewResolutionPresenter(resolver.History())

			if len(args) == 0 {
				cmd.Print(presenter.Table())
				return nil
			}

			chain := presenter.Chain(args[0])
			if chain == "" {
				return fmt.Errorf("key %q was not supplied by any source", args[0])
			}
			cmd.Print(chain)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the resolution history as JSON for offline diagnosis",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			resolver.Resolve()
			presenter := snowcfg.NewResolutionPresenter(resolver.History())

			if outFile != "" {
				return presenter.ExportToFile(outFile)
			}
			data, err := presenter.ExportJSON()
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "Write the export to a file instead of stdout")
	return cmd
}

func newConnectionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Manage resolved connection records",
	}
	cmd.AddCommand(newConnectionsListCmd(opts), newConnectionsShowCmd(opts))
	return cmd
}

func newConnectionsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every connection name any source defines",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			for _, name := range resolver.ConnectionNames() {
				cmd.Println(name)
			}
			return nil
		},
	}
}

func newConnectionsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the resolved record for one connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			conn, err := resolver.ResolveConnection(args[0])
			if err != nil {
				return err
			}

			print := func(field, value string) {
				if value != "" {
					cmd.Printf("%-22s %s\n", field, value)
				}
			}
			print("account", conn.Account)
			print("user", conn.User)
			if conn.Password != "" {
				print("password", snowcfg.RedactionMarker)
			}
			print("host", conn.Host)
			if conn.Port != 0 {
				print("port", fmt.Sprintf("%d", conn.Port))
			}
			print("region", conn.Region)
			print("warehouse", conn.Warehouse)
			print("database", conn.Database)
			print("schema", conn.Schema)
			print("role", conn.Role)
			print("authenticator", conn.Authenticator)
			print("private_key_file", conn.PrivateKeyFile)
			if conn.PrivateKeyFilePwd != "" {
				print("private_key_file_pwd", snowcfg.RedactionMarker)
			}
			print("private_key_path", conn.PrivateKeyPath)
			if conn.Token != "" {
				print("token", snowcfg.RedactionMarker)
			}
			print("token_file_path", conn.TokenFilePath)
			return nil
		},
	}
}

func newVariablesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "variables",
		Short: "Show resolved substitution variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.buildResolver(cmd)
			if err != nil {
				return err
			}
			cliVars, err := snowcfg.ParseVariableDefinitions(opts.definitions)
			if err != nil {
				return err
			}

			vars := resolver.ResolveVariables(cliVars)
			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				cmd.Printf("%s=%s\n", name, vars[name])
			}
			return nil
		},
	}
}
