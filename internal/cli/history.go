package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/searchops/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database    string // history database path (required)
	Limit       int    // most recent N parses, 0 for all
	Fingerprint string // only parses whose fields have this fingerprint
}

// HistoryOutput is the history command's result.
type HistoryOutput struct {
	Parses      []store.ParseRecord `json:"parses"`
	Fingerprint string              `json:"fingerprint,omitempty"`
	Count       int                 `json:"count"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded parses",
		Long: `Show parses recorded with "searchops parse --db", oldest first.

With --fingerprint, only parses that extracted exactly the same fields are
shown, and the count covers the whole database regardless of --limit.

Examples:
  searchops history --db ./history.db
  searchops history --db ./history.db --limit 20 --format json
  searchops history --db ./history.db --fingerprint 3f2a...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N parses")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only show parses with this fields fingerprint")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// store.Open creates missing databases; history only reads existing ones.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := readHistory(ctx, opts)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	return formatter.Records(out)
}

func readHistory(ctx context.Context, opts *HistoryOptions) (HistoryOutput, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return HistoryOutput{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.Logger().Error("error closing database", "error", closeErr)
		}
	}()

	if opts.Fingerprint == "" {
		parses, err := st.ReadParses(ctx, opts.Limit)
		if err != nil {
			return HistoryOutput{}, err
		}
		return HistoryOutput{Parses: parses, Count: len(parses)}, nil
	}

	count, err := st.CountByFingerprint(ctx, opts.Fingerprint)
	if err != nil {
		return HistoryOutput{}, err
	}

	all, err := st.ReadParses(ctx, 0)
	if err != nil {
		return HistoryOutput{}, err
	}
	parses := []store.ParseRecord{}
	for _, rec := range all {
		if rec.Fingerprint == opts.Fingerprint {
			parses = append(parses, rec)
		}
	}
	if opts.Limit > 0 && len(parses) > opts.Limit {
		parses = parses[len(parses)-opts.Limit:]
	}

	opts.Logger().Debug("history filtered", "fingerprint", opts.Fingerprint, "count", count, "shown", len(parses))
	return HistoryOutput{Parses: parses, Fingerprint: opts.Fingerprint, Count: count}, nil
}
