package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // parse, listing or validation succeeded
	ExitFailure      = 1 // invalid operator definitions or failed scenarios
	ExitCommandError = 2 // unreadable operators directory, history database, flags
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError wrapping err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps a command error to a process exit code: ExitSuccess for
// nil, the carried code for an ExitError anywhere in the chain, ExitFailure
// otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // E001-E010, E_TEST_FAILED
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter renders command results as JSON envelopes or as text:
// query variables, operator tables and parse history.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; Writer when nil
	Verbose   bool
}

// newFormatter returns the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func (f *OutputFormatter) json() bool {
	return f.Format == "json"
}

// Success writes data in an "ok" envelope, or prints it as text.
func (f *OutputFormatter) Success(data any) error {
	if f.json() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an "error" envelope, or an "Error [code]: message" line.
// Details are printed in text mode only when verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.json() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line to ErrWriter when verbose, keeping
// JSON output on Writer intact.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Parse renders a parse result: the query variables, then the history id
// when the parse was recorded.
func (f *OutputFormatter) Parse(out ParseOutput) error {
	if f.json() {
		return f.Success(out)
	}
	f.Query(out.Query)
	if out.ID != "" {
		fmt.Fprintf(f.Writer, "recorded %s\n", out.ID)
	}
	return nil
}

// Query prints query variables as sorted `name = value` lines. Strings are
// quoted and multi-valued variables print as lists.
func (f *OutputFormatter) Query(query map[string]any) {
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		fmt.Fprintf(f.Writer, "%s = %s\n", name, formatQueryValue(query[name]))
	}
}

// Operators renders the registry as an aligned table followed by the
// dropped entries.
func (f *OutputFormatter) Operators(out OperatorsOutput) error {
	if f.json() {
		return f.Success(out)
	}

	w := f.Writer
	if len(out.Operators) == 0 {
		fmt.Fprintln(w, "No operators registered.")
	} else {
		keyWidth, varWidth := len("KEY"), len("QUERY VAR")
		for _, d := range out.Operators {
			keyWidth = max(keyWidth, len(d.Key))
			varWidth = max(varWidth, len(d.QueryVar))
		}
		fmt.Fprintf(w, "%-*s  %-*s  %s\n", keyWidth, "KEY", varWidth, "QUERY VAR", "PATTERN")
		for _, d := range out.Operators {
			fmt.Fprintf(w, "%-*s  %-*s  %s\n", keyWidth, d.Key, varWidth, d.QueryVar, d.Pattern)
		}
	}

	for _, d := range out.Dropped {
		fmt.Fprintf(w, "dropped %s\n", d.Error())
	}
	return nil
}

// Records renders stored parses oldest first, one line each, and the
// fingerprint count when the listing was filtered.
func (f *OutputFormatter) Records(out HistoryOutput) error {
	if f.json() {
		return f.Success(out)
	}

	w := f.Writer
	if len(out.Parses) == 0 {
		fmt.Fprintln(w, "No parses recorded.")
	}
	for _, rec := range out.Parses {
		fmt.Fprintf(w, "%4d  %s  %s  matches=%d  %q\n",
			rec.Seq, rec.ID, shortFingerprint(rec.Fingerprint), rec.Matches, rec.Search)
	}
	if out.Fingerprint != "" {
		fmt.Fprintf(w, "%d parse(s) with fingerprint %s\n", out.Count, shortFingerprint(out.Fingerprint))
	}
	return nil
}

func formatQueryValue(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case []string:
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
