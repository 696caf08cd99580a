package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_HashContent(t *testing.T) {
	content := []byte("load:\n  series: servers.*.load\n")
	base := Fingerprint{}.HashContent(content)

	assert.Len(t, base, 64)
	assert.Equal(t, base, Fingerprint{}.HashContent(content), "deterministic")
	assert.Equal(t, base, Fingerprint{Vars: map[string]string{}}.HashContent(content))

	tests := []struct {
		name string
		f    Fingerprint
	}{
		{"prefix", Fingerprint{Prefix: "stats"}},
		{"vars", Fingerprint{Vars: map[string]string{"IF": "Tunnel0"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.f.HashContent(content))
		})
	}

	// values must not run together
	a := Fingerprint{Vars: map[string]string{"A": "BC"}}.HashContent(nil)
	b := Fingerprint{Vars: map[string]string{"AB": "C"}}.HashContent(nil)
	assert.NotEqual(t, a, b)

	// variable order does not matter
	x := Fingerprint{Vars: map[string]string{"A": "1", "B": "2"}}
	y := Fingerprint{Vars: map[string]string{"B": "2", "A": "1"}}
	assert.Equal(t, x.HashContent(content), y.HashContent(content))
}

func TestFingerprint_HashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	content := []byte("a:\n  series: a\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f := Fingerprint{Prefix: "p"}
	got, err := f.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, f.HashContent(content), got)

	_, err = f.HashFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestTargets(t *testing.T) {
	c := NewTargets()

	_, ok := c.Lookup("g.yaml", "h1")
	assert.False(t, ok)

	names := []string{"load"}
	targets := []string{"scale(a,2)"}
	c.Store("g.yaml", "h1", names, targets)
	names[0] = "mutated"

	entry, ok := c.Lookup("g.yaml", "h1")
	require.True(t, ok)
	assert.Equal(t, []string{"load"}, entry.Names, "stored slices are copies")
	assert.Equal(t, targets, entry.Targets)
	assert.False(t, entry.CachedAt.IsZero())

	_, ok = c.Lookup("g.yaml", "h2")
	assert.False(t, ok, "a different hash misses")

	c.Store("g.yaml", "h2", nil, nil)
	assert.Equal(t, 1, c.Size())

	c.Invalidate("g.yaml")
	assert.Zero(t, c.Size())
}

func TestTargets_Concurrent(t *testing.T) {
	c := NewTargets()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Store("g.yaml", "h", []string{"a"}, []string{"a"})
			c.Lookup("g.yaml", "h")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Size())
}
