package commands

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serversDefinition = `title: Server Load
base:
  ":is": abstract
  cactiStyle: true
hosts:
  ":is": prefix
  prefix: servers.web1
load:
  ":extends": base
  ":prefix": hosts
  scale: 0.5
requests:
  series: app.*.requests
  sum: true
  alias: Requests
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileCommand_Flags(t *testing.T) {
	cmd := NewCompileCommand()

	assert.Equal(t, "compile <file>", cmd.Use)
	for _, name := range []string{"format", "prefix", "var", "watch", "sequential"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestCompile_Text(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "servers.yaml", serversDefinition)

	out, _, err := execute(t, dir, "compile", "servers.yaml")
	require.NoError(t, err)

	want := "load\tcactiStyle(alias(scale(servers.web1.load,0.5),'Load'))\n" +
		"requests\talias(sumSeries(app.*.requests),'Requests')\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("compile output mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "servers.yaml", serversDefinition)

	out, _, err := execute(t, dir, "compile", "servers.yaml", "--format", "json", "--sequential")
	require.NoError(t, err)

	var got []compiledTarget
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []compiledTarget{
		{Name: "load", Target: "cactiStyle(alias(scale(servers.web1.load,0.5),'Load'))"},
		{Name: "requests", Target: "alias(sumSeries(app.*.requests),'Requests')"},
	}, got)
}

func TestCompile_PrefixAndVars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "if.toml", `[octets]
metric = "{{IF}}.octets"
derivative = true
`)

	out, _, err := execute(t, dir, "compile", "if.toml", "--prefix", "net.router1", "--var", "IF=Tunnel0")
	require.NoError(t, err)
	assert.Equal(t, "octets\talias(derivative(net.router1.Tunnel0.octets),'Tunnel0 Octets')\n", out)
}

func TestCompile_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "graphite-graph.yaml", "format: json\ncompile:\n  prefix: stats\n")
	writeFile(t, dir, "g.yaml", "hits:\n  alias: false\n")

	out, _, err := execute(t, dir, "compile", "g.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"target": "stats.hits"`)

	// flags win over the config file
	out, _, err = execute(t, dir, "compile", "g.yaml", "--format", "text", "--prefix", "")
	require.NoError(t, err)
	assert.Equal(t, "hits\thits\n", out)
}

func TestCompile_DefinitionError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "a:\n  \":extends\": ghost\n")

	out, errOut, err := execute(t, dir, "compile", "bad.yaml")
	require.Error(t, err)
	assert.Equal(t, "bad.yaml: 1 error", err.Error())
	assert.Empty(t, out)
	assert.Contains(t, errOut, "CFG200")
	assert.Contains(t, errOut, "extends unknown metric 'ghost'")
}

func TestCompile_MissingSeriesErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.toml", `[one]
series = ""
scale = 2

[two]
series = "0"
`)

	_, errOut, err := execute(t, dir, "compile", "bad.toml", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, "bad.toml: 2 errors", err.Error())

	var diagnostics []map[string]any
	require.NoError(t, json.Unmarshal([]byte(errOut), &diagnostics))
	require.Len(t, diagnostics, 2)
	for _, d := range diagnostics {
		assert.Equal(t, "CFG100", d["code"])
	}
}

func TestCompile_MissingFile(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "compile", "nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read definition")
}

func TestCompile_BadArguments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "g.yaml", "a:\n  series: a\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", []string{"compile"}, "accepts 1 arg"},
		{"bad format", []string{"compile", "g.yaml", "--format", "xml"}, `unknown format "xml"`},
		{"bad var", []string{"compile", "g.yaml", "--var", "IF"}, `invalid --var "IF"`},
		{"unsupported extension", []string{"compile", "g.json"}, "CFG205"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, dir, tt.args...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want) || strings.Contains(errOut, tt.want),
				"want %q in %q / %q", tt.want, err, errOut)
		})
	}
}

func TestSplitErrors(t *testing.T) {
	single := assert.AnError
	assert.Equal(t, []error{single}, splitErrors(single))

	joined := stderrors.Join(single, os.ErrNotExist)
	assert.Len(t, splitErrors(joined), 2)
}

func TestCompileFailure(t *testing.T) {
	assert.Equal(t, "a.yaml: 1 error", (&compileFailure{file: "a.yaml", count: 1}).Error())
	assert.Equal(t, "a.yaml: 3 errors", (&compileFailure{file: "a.yaml", count: 3}).Error())
}

// syncBuffer is written by the watcher goroutine while the test reads it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCompile_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "g.yaml", "a:\n  series: a.b\n  alias: false\n")

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	var stdout, stderr syncBuffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--no-color", "compile", path, "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "Watching")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "a\ta.b\n", stdout.String())

	require.NoError(t, os.WriteFile(path, []byte("a:\n  series: a.b\n  alias: false\n  scale: 2\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "a\tscale(a.b,2)\n")
	}, 2*time.Second, 10*time.Millisecond)

	// a broken save is reported and the session keeps going
	require.NoError(t, os.WriteFile(path, []byte("a:\n  \":extends\": ghost\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "COMPILE FAILED")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
