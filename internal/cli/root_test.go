package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bistro/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bistro", cmd.Use)
	assert.Contains(t, cmd.Long, "document store")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"select", "insert", "update", "delete", "seed", "tables", "test"}

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

	for _, name := range []string{"db", "config", "id-scheme"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestSelectCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	selectCmd, _, err := cmd.Find([]string{"select"})
	require.NoError(t, err)

	for _, name := range []string{"eq", "gte", "lte", "in", "order", "desc", "range", "single", "explain"} {
		assert.NotNil(t, selectCmd.Flags().Lookup(name), name)
	}

	limitFlag := selectCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "-1", limitFlag.DefValue)
}

func TestSelectorCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"update", "delete"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, sub.Flags().Lookup("eq"), name)
		assert.NotNil(t, sub.Flags().Lookup("match"), name)
	}
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

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "tables"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bistro.yaml")
	content := "database: from-file.db\nid_scheme: uuidv7\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts := &RootOptions{ConfigPath: path, Database: "from-flag.db"}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-flag.db", cfg.Database)
	assert.Equal(t, "uuidv7", cfg.IDScheme)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := (&RootOptions{}).loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_InvalidIDScheme(t *testing.T) {
	_, err := (&RootOptions{IDScheme: "snowflake"}).loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_scheme")
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger(buf, config.LogConfig{Level: "error", Format: "json"}, true)
	logger.Debug("probe", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"probe"`)

	buf.Reset()
	logger = newLogger(buf, config.LogConfig{Level: "error", Format: "text"}, false)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}
