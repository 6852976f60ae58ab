package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

func executeValidate(t *testing.T, format, dir string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	return buf.String(), err
}

// =============================================================================
// Valid definitions
// =============================================================================

func TestValidateValidOperators(t *testing.T) {
	dir := writeOperatorsDir(t, customOperatorsCUE)

	out, err := executeValidate(t, "text", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ All operators valid (2)\n", out)
}

func TestValidateValidOperatorsJSON(t *testing.T) {
	dir := writeOperatorsDir(t, customOperatorsCUE)

	out, err := executeValidate(t, "json", dir)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Operators)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidateMultipleFiles(t *testing.T) {
	dir := writeOperatorsDir(t, customOperatorsCUE)
	writeFile(t, dir, "more.cue", `package operators

operator: series: {query_var: "series_slug", pattern: "[a-z\\-]+"}
`)

	out, err := executeValidate(t, "text", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ All operators valid (3)\n", out)
}

// =============================================================================
// Rule violations (exit 1)
// =============================================================================

func TestValidateRuleViolations(t *testing.T) {
	dir := writeOperatorsDir(t, `package operators

operator: {
	tag: "\\w+"
	broken: ""
	search: {query_var: "s", pattern: "\\w+"}
	bad_regex: "([a-z"
}
`)

	out, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 3)

	assert.Equal(t, "E202", resp.Data.Errors[0].Code)
	assert.Equal(t, "operator.broken.pattern", resp.Data.Errors[0].Field)
	assert.Equal(t, 5, resp.Data.Errors[0].Line)

	assert.Equal(t, "E204", resp.Data.Errors[1].Code)
	assert.Equal(t, "operator.search.query_var", resp.Data.Errors[1].Field)
	assert.Equal(t, 6, resp.Data.Errors[1].Line)

	assert.Equal(t, "E205", resp.Data.Errors[2].Code)
	assert.Equal(t, 7, resp.Data.Errors[2].Line)

	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)
}

func TestValidateRuleViolationsText(t *testing.T) {
	dir := writeOperatorsDir(t, `package operators

operator: {
	broken: ""
}
`)

	out, err := executeValidate(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "line 4")
	assert.Contains(t, out, "E202: operator.broken.pattern: pattern must not be empty")
}

func TestValidateShapeErrorsCollected(t *testing.T) {
	dir := writeOperatorsDir(t, `package operators

operator: {
	count: 42
	extra: {pattern: "\\w+", colour: "red"}
	tag: "\\w+"
}
`)

	out, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Errors, 2)
	for _, e := range resp.Data.Errors {
		assert.Equal(t, ErrCodeOperatorShape, e.Code)
		assert.Equal(t, "load", e.Field)
		assert.Positive(t, e.Line)
	}
	assert.Contains(t, resp.Data.Errors[0].Message, "count")
	assert.Contains(t, resp.Data.Errors[1].Message, "extra.colour")
}

func TestValidateNoOperators(t *testing.T) {
	dir := writeOperatorsDir(t, `package operators

operator: {}
`)

	out, err := executeValidate(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNoOperators)
}

// =============================================================================
// Command errors (exit 2)
// =============================================================================

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := executeValidate(t, "text", "/nonexistent/operators")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateNoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# operators\n")

	out, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoFiles, resp.Error.Code)
}

func TestValidateSyntaxError(t *testing.T) {
	dir := writeOperatorsDir(t, `package operators

operator: {
	tag: "\\w+
}
`)

	_, err := executeValidate(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateMissingArgs(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
