package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/searchops/internal/operator"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string   // "json" | "text"
	Operators  []string // CUE operator definition directories
	NoDefaults bool     // skip the built-in operators

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the searchops CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "searchops",
		Short: "searchops - search operators for query strings",
		Long: `Parse key:value search operators out of free-text search strings.

Operators such as title:"hello world" or post_type:page are extracted into
query variables; the remaining text stays the search term.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.logger)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringArrayVar(&opts.Operators, "operators", nil, "directory of CUE operator definitions (repeatable)")
	cmd.PersistentFlags().BoolVar(&opts.NoDefaults, "no-defaults", false, "do not register the built-in operators")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewOperatorsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// newLogger configures a text handler at Debug level when verbose, Info
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the logger configured by the root command, or
// slog.Default() when commands run standalone.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// Collector builds the operator collector for this invocation: the
// built-in operators unless disabled, then each --operators directory in
// flag order. Only directories that cannot be loaded at all are errors.
func (o *RootOptions) Collector() (*operator.Collector, error) {
	var providers []operator.Provider
	if !o.NoDefaults {
		providers = append(providers, operator.DefaultProvider)
	}

	for _, dir := range o.Operators {
		result, errs := LoadOperators(dir, LoadModeCollectAll)
		if result == nil {
			return nil, errs[0]
		}
		// Broken entries are skipped; validate reports them strictly.
		for _, err := range errs {
			o.Logger().Warn("operator entry skipped", "dir", dir, "error", err)
		}
		o.Logger().Debug("operators loaded", "dir", dir, "files", result.FileCount, "operators", result.File.Set.Len())
		providers = append(providers, result.File.Provider())
	}

	return operator.NewCollector(o.Logger(), providers...), nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
