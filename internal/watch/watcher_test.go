package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(files []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestFileWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "servers.yaml")
	require.NoError(t, os.WriteFile(graph, []byte("a:\n  series: a\n"), 0o644))

	rec := &recorder{}
	fw, err := NewFileWatcher([]string{graph}, rec.record, WithDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer fw.Stop()
	require.NoError(t, fw.Start())

	require.NoError(t, os.WriteFile(graph, []byte("a:\n  series: b\n"), 0o644))

	require.Eventually(t, func() bool { return rec.count() > 0 }, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{graph}, rec.batches[0])
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "servers.yaml")
	require.NoError(t, os.WriteFile(graph, []byte(""), 0o644))

	rec := &recorder{}
	fw, err := NewFileWatcher([]string{graph}, rec.record, WithDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer fw.Stop()
	require.NoError(t, fw.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".servers.yaml.swp"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, rec.count())
}

func TestFileWatcher_LogsCallbackErrors(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "g.toml")
	require.NoError(t, os.WriteFile(graph, []byte(""), 0o644))

	core, logs := observer.New(zapcore.ErrorLevel)
	fw, err := NewFileWatcher([]string{graph},
		func([]string) error { return assert.AnError },
		WithDelay(20*time.Millisecond),
		WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer fw.Stop()
	require.NoError(t, fw.Start())

	require.NoError(t, os.WriteFile(graph, []byte("title = 'x'\n"), 0o644))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("error handling file changes").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewFileWatcher_NoFiles(t *testing.T) {
	_, err := NewFileWatcher(nil, func([]string) error { return nil })
	assert.Error(t, err)
}

func TestFileWatcher_Matches(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "servers.yaml")

	fw, err := NewFileWatcher([]string{graph}, func([]string) error { return nil })
	require.NoError(t, err)
	defer fw.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{graph, true},
		{filepath.Join(dir, "other.yaml"), false},
		{filepath.Join(dir, ".servers.yaml"), false},
		{filepath.Join(dir, "sub", "servers.yaml"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fw.matches(tt.path), tt.path)
	}
}

func TestFileWatcher_Directories(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "b", "one.yaml"),
		filepath.Join(dir, "a", "two.yaml"),
		filepath.Join(dir, "a", "three.yaml"),
	}

	fw, err := NewFileWatcher(files, func([]string) error { return nil })
	require.NoError(t, err)
	defer fw.Stop()

	assert.Equal(t, []string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}, fw.directories())
}

func TestFileWatcher_StopTwice(t *testing.T) {
	graph := filepath.Join(t.TempDir(), "g.yaml")
	fw, err := NewFileWatcher([]string{graph}, func([]string) error { return nil })
	require.NoError(t, err)
	require.NoError(t, fw.Start())

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}

func TestDebouncer_Add(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string

	debouncer := NewDebouncer(50 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, f)
	})

	debouncer.Add("b.yaml")
	debouncer.Add("a.yaml")
	debouncer.Add("b.yaml")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, calls[0])
}

func TestDebouncer_MultipleFlushes(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	debouncer := NewDebouncer(20 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})

	debouncer.Add("a.yaml")
	time.Sleep(80 * time.Millisecond)
	debouncer.Add("b.yaml")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, callCount)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	var mu sync.Mutex
	called := false

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
	})

	debouncer.Add("a.yaml")
	debouncer.Stop()
	debouncer.Add("b.yaml")
	debouncer.Stop()

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}

func BenchmarkDebouncer_Add(b *testing.B) {
	debouncer := NewDebouncer(100 * time.Millisecond)
	debouncer.SetCallback(func([]string) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		debouncer.Add("graph.yaml")
	}
}
