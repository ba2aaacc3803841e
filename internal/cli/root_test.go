package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "recipetracker", cmd.Use)
	assert.Contains(t, cmd.Long, "commit")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"recipes", "list"},
		{"recipes", "show"},
		{"recipes", "save"},
		{"recipes", "history"},
		{"recipes", "export"},
		{"logs", "list"},
		{"logs", "show"},
		{"logs", "add"},
		{"logs", "edit"},
		{"logs", "delete"},
		{"db", "push"},
		{"db", "pull"},
		{"identity", "show"},
		{"identity", "set"},
		{"checked"},
		{"slug"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
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

	for _, name := range []string{"config", "server", "state"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestRecipesSaveFlags(t *testing.T) {
	cmd := NewRootCommand()
	saveCmd, _, err := cmd.Find([]string{"recipes", "save"})
	require.NoError(t, err)

	fileFlag := saveCmd.Flags().Lookup("file")
	require.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)
	assert.NotNil(t, saveCmd.Flags().Lookup("ingredient"))
}

func TestRecipesExportRequiresOut(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"recipes", "export"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"out" not set`)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "slug", "Tomato Soup"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}
