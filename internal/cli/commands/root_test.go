package commands

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args from a scratch working directory
// and returns stdout, stderr and the error
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err = cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "graphite-graph", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "compile", "functions", "init"} {
		assert.Contains(t, names, expected)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"
	defer func() {
		Version, GitCommit, BuildDate, GoVersion = "dev", "unknown", "unknown", "unknown"
	}()

	out, _, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)

	assert.Contains(t, out, "graphite-graph version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Build date: 2025-01-01")
	assert.Contains(t, out, "Go version: go1.23")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "render")
	assert.Error(t, err)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "g.yaml", "a:\n  series: a\n")

	_, _, err := execute(t, dir, "--log-level", "chatty", "compile", "g.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}
