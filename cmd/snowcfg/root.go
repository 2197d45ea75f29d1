// File: snowcfg/cmd/snowcfg/root.go
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Snowflake-Labs/snowcfg"
)

// rootOptions carries the global flags shared by every subcommand.
type rootOptions struct {
	configFiles []string
	noDiscovery bool
	verbose     bool
	definitions []string

	// Connection-field overrides; only flags the user actually set reach the
	// CLI argument source.
	account   string
	user      string
	password  string
	warehouse string
	database  string
	schema    string
	role      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "snowcfg",
		Short:         "snowcfg inspects layered Snowflake CLI configuration",
		Long: `snowcfg resolves Snowflake CLI configuration across CLI arguments,
environment variables (SNOWFLAKE_* and legacy SNOWSQL_*), and configuration
files (config.toml, connections.toml, and the legacy snowsql config), and
explains which source supplied each value.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.configFiles, "config", nil, "Configuration file path (repeatable, highest precedence first)")
	flags.BoolVar(&opts.noDiscovery, "no-discovery", false, "Skip the default configuration file search paths")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log absorbed handler failures")
	flags.StringArrayVarP(&opts.definitions, "variable", "D", nil, "Define a substitution variable as key=value (repeatable)")

	flags.StringVar(&opts.account, "account", "", "Override the account")
	flags.StringVar(&opts.user, "user", "", "Override the user")
	flags.StringVar(&opts.password, "password", "", "Override the password")
	flags.StringVar(&opts.warehouse, "warehouse", "", "Override the warehouse")
	flags.StringVar(&opts.database, "database", "", "Override the database")
	flags.StringVar(&opts.schema, "schema", "", "Override the schema")
	flags.StringVar(&opts.role, "role", "", "Override the role")

	rootCmd.AddCommand(
		newResolveCmd(opts),
		newExplainCmd(opts),
		newExportCmd(opts),
		newConnectionsCmd(opts),
		newVariablesCmd(opts),
	)
	return rootCmd
}

// cliArguments gathers only the override flags the user set.
func (o *rootOptions) cliArguments(cmd *cobra.Command) map[string]any {
	args := make(map[string]any)
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			args[key] = value
		}
	}
	set("account", "account", o.account)
	set("user", "user", o.user)
	set("password", "password", o.password)
	set("warehouse", "warehouse", o.warehouse)
	set("database", "database", o.database)
	set("schema", "schema", o.schema)
	set("role", "role", o.role)
	return args
}

// buildResolver assembles the standard source stack from the global flags.
func (o *rootOptions) buildResolver(cmd *cobra.Command) (*snowcfg.ConfigurationResolver, error) {
	builder := snowcfg.NewBuilder().
		WithCLIArguments(o.cliArguments(cmd)).
		WithEnvironment().
		WithConfigFiles(o.configFiles...).
		WithHistory()
	if !o.noDiscovery {
		builder = builder.WithFileDiscovery()
	}
	return builder.Build()
}
