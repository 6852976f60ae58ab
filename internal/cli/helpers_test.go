package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeRoot runs the root command with args and returns stdout and the
// command error.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// writeFile creates dir/name with content, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeOperatorsDir creates a directory holding one CUE operators file.
func writeOperatorsDir(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "operators.cue", content)
	return dir
}

const customOperatorsCUE = `package operators

operator: {
	author: {key: "author_name", pattern: "[\\w\\-]+"}
	tag: "\\w+"
}
`
