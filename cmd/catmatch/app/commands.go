package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/catmatch/internal/cmd/output"
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/logging"
	"github.com/agentstation/catmatch/pkg/mapping"
	"github.com/agentstation/catmatch/pkg/slug"
)

// noInputsMessage is printed when discovery finds nothing to evaluate.
const noInputsMessage = "No CSV files found in project root or reports/."

// NewReportCommand creates the report command. The root command runs the
// same report when called without a subcommand.
func (a *App) NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		GroupID: "core",
		Short:   "Evaluate every input file and write the workbook",
		Args:    cobra.NoArgs,
		RunE:    a.runReportCommand,
	}
}

func (a *App) runReportCommand(cmd *cobra.Command, _ []string) error {
	summary, err := a.RunReport(cmd.Context())
	if errors.IsNoInputs(err) {
		fmt.Fprintln(a.stdout, noInputsMessage)
		return err
	}
	if err != nil {
		return err
	}
	return a.write(summary)
}

// NewEvaluateCommand creates the evaluate command.
func (a *App) NewEvaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "evaluate <file>...",
		GroupID: "core",
		Short:   "Evaluate files and print their mismatching rows",
		Long: `Evaluate runs the reconciliation on the given files without writing a
report and prints the totals and every mismatching row.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd.Context(), "evaluate")
			table, err := a.Table()
			if err != nil {
				return err
			}
			for _, path := range args {
				res, err := evaluate.File(ctx, path, table)
				if err != nil {
					return err
				}
				if err := a.write(output.Evaluation{Result: res}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewMappingCommand creates the mapping command.
func (a *App) NewMappingCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:     "mapping",
		GroupID: "inspect",
		Short:   "Show the category translation table",
		Long: `Mapping prints the normalized source to target table, including any
overlay loaded from --mapping-file. With --check it lists source labels that
appear more than once with different targets; the last one listed wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.commandContext(cmd.Context(), "mapping")
			table, err := a.Table()
			if err != nil {
				return err
			}
			view := output.Mapping{Entries: table.Entries()}
			if check {
				pairs, err := a.Pairs()
				if err != nil {
					return err
				}
				view.Conflicts = mapping.Conflicts(pairs)
				logger := logging.FromContext(logging.WithOperation(ctx, "check"))
				for _, c := range view.Conflicts {
					logger.Warn().Str("source", c.Source).Strs("targets", c.Targets).Msg("conflicting mapping")
				}
			}
			return a.write(view)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "report source labels with conflicting targets")
	return cmd
}

// NewNormalizeCommand creates the normalize command.
func (a *App) NewNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <text>...",
		GroupID: "inspect",
		Short:   "Print the slug of each argument",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out := make(output.Slugs, 0, len(args))
			for _, arg := range args {
				out = append(out, output.Slug{Input: arg, Slug: slug.Normalize(arg)})
			}
			return a.write(out)
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "catmatch %s\n  commit: %s\n  built: %s by %s\n  go: %s\n",
				a.version, a.commit, a.date, a.builtBy, runtime.Version())
			return err
		},
	}
}

func (a *App) write(data any) error {
	return output.Write(a.stdout, output.DetectFormat(a.config.Format), data)
}
