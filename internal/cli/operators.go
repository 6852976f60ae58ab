package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/searchops/internal/operator"
)

// OperatorsOutput lists the effective registry.
type OperatorsOutput struct {
	Operators []operator.Definition       `json:"operators"`
	Dropped   []*operator.DefinitionError `json:"dropped,omitempty"`
}

// NewOperatorsCommand creates the operators command.
func NewOperatorsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the registered search operators",
		Long: `List the search operators in alternation order, with their query
variables and value patterns.

Entries that fail validation are listed as dropped; they are ignored when
parsing.

Examples:
  searchops operators
  searchops operators --operators ./operators --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperators(rootOpts, cmd)
		},
	}
}

func runOperators(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	collector, err := opts.Collector()
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load operators", err)
	}

	reg, dropped := collector.RegistryWithErrors()
	out := OperatorsOutput{
		Operators: reg.Definitions(),
		Dropped:   dropped,
	}
	if out.Operators == nil {
		out.Operators = []operator.Definition{}
	}

	return formatter.Operators(out)
}
