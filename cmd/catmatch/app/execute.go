package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/catmatch/internal/cmd/output"
	"github.com/agentstation/catmatch/pkg/constants"
)

// Execute runs the catmatch CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root command. Without a subcommand it runs
// the report.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "catmatch",
		Short:   "Reconcile Spanish and English event categories in CSV logs",
		Version: a.version,
		Long: `catmatch compares the Spanish CATEGORY label of every row in the
semicolon-delimited event logs found in a directory (and its reports/
subdirectory) with the English category embedded in the NEW_RESULT record,
and writes a workbook with the match rate of each file and the rows that
disagree.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runReportCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.catmatch.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: text, table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringP("dir", "d", "", "directory searched for input files (default is the working directory)")
	flags.String("output", "", "report file name, relative to --dir (default "+constants.DefaultReportName+")")
	flags.StringSlice("subdir", nil, "subdirectories searched besides --dir (default reports)")
	flags.StringSlice("exclude", nil, "glob or regex patterns of input names to skip")
	flags.String("mapping-file", "", "YAML file with extra source/target label pairs")
	flags.String("metrics-file", "", "write Prometheus gauges for the run to this textfile")

	rootCmd.SetVersionTemplate("catmatch {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	flags := cmd.Flags()
	if flags.Changed("dir") {
		a.config.Dir = mustGetString(cmd, "dir")
	}
	if flags.Changed("output") {
		a.config.Output = mustGetString(cmd, "output")
	}
	if flags.Changed("subdir") {
		a.config.Subdirs = mustGetStringSlice(cmd, "subdir")
	}
	if flags.Changed("exclude") {
		a.config.Exclude = mustGetStringSlice(cmd, "exclude")
	}
	if flags.Changed("mapping-file") {
		a.config.MappingFile = mustGetString(cmd, "mapping-file")
	}
	if flags.Changed("metrics-file") {
		a.config.MetricsFile = mustGetString(cmd, "metrics-file")
	}

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewReportCommand())
	rootCmd.AddCommand(a.NewEvaluateCommand())

	rootCmd.AddCommand(a.NewMappingCommand())
	rootCmd.AddCommand(a.NewNormalizeCommand())

	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
