package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/searchops/internal/ir"
	"github.com/roach88/searchops/internal/operator"
	"github.com/roach88/searchops/internal/parser"
	"github.com/roach88/searchops/internal/queryargs"
	"github.com/roach88/searchops/internal/store"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Args     []string // extra query variables as key=value
	Ignore   bool     // set the bypass flag
	Stateful bool     // parse into a stateful query object instead of plain args
	Database string   // record the parse in this history database

	// IDGenerator allows overriding request ids (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// ParseOutput is the parse command's result.
type ParseOutput struct {
	Search      string         `json:"search"`
	Query       map[string]any `json:"query"`
	Residual    string         `json:"residual"`
	Matches     int            `json:"matches"`
	Fingerprint string         `json:"fingerprint"`
	ID          string         `json:"id,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <search>",
		Short: "Parse search operators out of a search string",
		Long: `Parse search operators out of a search string and print the resulting
query variables.

The search text is stored under the search variable "s" together with any
--arg values, then resolved exactly as a host integration would.

Examples:
  searchops parse 'hello title:"big news" post_type:page'
  searchops parse --arg posts_per_page=10 'p:42'
  searchops parse --operators ./operators --db ./history.db 'author:jane'
  searchops parse --format json 'post_status:draft post_status:pending'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "extra query variable as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Ignore, "ignore", false, "set "+queryargs.IgnoreOperatorsVar+" and bypass parsing")
	cmd.Flags().BoolVar(&opts.Stateful, "stateful", false, "parse into a stateful query object")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the parse in this SQLite history database")

	return cmd
}

func runParse(opts *ParseOptions, search string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	initial, err := parseArgFlags(opts.Args)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --arg", err)
	}
	initial[operator.SearchVar] = search
	if opts.Ignore {
		initial[queryargs.IgnoreOperatorsVar] = "1"
	}

	collector, err := opts.Collector()
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load operators", err)
	}

	// One registry serves the query and the history row, so dropped
	// entries are reported once.
	logger := opts.Logger()
	reg := collector.Registry()
	adapter := queryargs.New(queryargs.SourceFunc(func() *operator.Registry { return reg }), logger)

	var query map[string]any
	if opts.Stateful {
		q := queryargs.NewVars(initial)
		adapter.ParseQuery(q)
		query = q.All()
	} else {
		query = adapter.ParseArgs(initial)
	}

	// The history row describes what the operators extracted, independent of
	// the host's extra variables.
	res := parser.Result{Fields: ir.NewFields(), Residual: search}
	if !opts.Ignore {
		p, err := parser.New(reg, logger)
		if err != nil {
			_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to compile operators", err)
		}
		res = p.Parse(search)
	}

	fingerprint, err := ir.Fingerprint(res.Fields)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to fingerprint fields", err)
	}

	out := ParseOutput{
		Search:      search,
		Query:       query,
		Residual:    res.Residual,
		Matches:     len(res.Applied),
		Fingerprint: fingerprint,
	}

	if opts.Database != "" {
		id, err := recordParse(cmd.Context(), opts, search, res, reg.Len())
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record parse", err)
		}
		out.ID = id
	}

	return formatter.Parse(out)
}

// recordParse appends the parse to the history database and returns its id.
func recordParse(ctx context.Context, opts *ParseOptions, search string, res parser.Result, operators int) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.Logger().Error("error closing database", "error", closeErr)
		}
	}()

	rec, err := store.NewRecorder(ctx, st, opts.IDGenerator, opts.Logger())
	if err != nil {
		return "", err
	}
	stored, err := rec.Record(ctx, search, res.Residual, res.Fields, len(res.Applied), operators)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// parseArgFlags turns key=value flags into a query mapping. Later values
// replace earlier ones.
func parseArgFlags(flags []string) (queryargs.Args, error) {
	args := queryargs.Args{}
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--arg %q: expected key=value", f)
		}
		args[key] = value
	}
	return args, nil
}
