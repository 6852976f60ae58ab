package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "searchops", cmd.Use)
	assert.Contains(t, cmd.Long, "search operators")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"parse", "operators", "validate", "test", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	operatorsFlag := cmd.PersistentFlags().Lookup("operators")
	require.NotNil(t, operatorsFlag)
	assert.Equal(t, "stringArray", operatorsFlag.Value.Type())

	noDefaultsFlag := cmd.PersistentFlags().Lookup("no-defaults")
	require.NotNil(t, noDefaultsFlag)
	assert.Equal(t, "false", noDefaultsFlag.DefValue)
}

func TestParseCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	parseCmd, _, err := cmd.Find([]string{"parse"})
	require.NoError(t, err)

	for _, name := range []string{"arg", "ignore", "stateful", "db"} {
		assert.NotNil(t, parseCmd.Flags().Lookup(name), "parse should have --%s", name)
	}
	assert.Equal(t, "", parseCmd.Flags().Lookup("db").DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	dbFlag := historyCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)

	assert.NotNil(t, historyCmd.Flags().Lookup("fingerprint"))
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := executeRoot(t, "--format", "invalid", "operators")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCollectorFailsOnBadOperatorsDir(t *testing.T) {
	opts := &RootOptions{Format: "text", Operators: []string{"/nonexistent/operators"}}

	_, err := opts.Collector()
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestCollectorOrder(t *testing.T) {
	dir := writeOperatorsDir(t, customOperatorsCUE)

	t.Run("defaults_then_files", func(t *testing.T) {
		opts := &RootOptions{Operators: []string{dir}}
		collector, err := opts.Collector()
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"p", "page_id", "post_status", "post_type", "title", "author", "tag"},
			collector.Registry().Keys())
	})

	t.Run("no_defaults", func(t *testing.T) {
		opts := &RootOptions{Operators: []string{dir}, NoDefaults: true}
		collector, err := opts.Collector()
		require.NoError(t, err)

		assert.Equal(t, []string{"author", "tag"}, collector.Registry().Keys())
	})
}
