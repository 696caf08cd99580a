package cache

import (
	"sync"
	"time"
)

// Entry is the compiled form of one definition file
type Entry struct {
	Path     string
	Hash     string
	Names    []string
	Targets  []string
	CachedAt time.Time
}

// Targets caches compiled definitions by path. It is safe for concurrent use.
type Targets struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewTargets creates an empty cache
func NewTargets() *Targets {
	return &Targets{entries: make(map[string]*Entry)}
}

// Lookup returns the entry for path when it was stored under hash
func (c *Targets) Lookup(path, hash string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[path]
	if !ok || entry.Hash != hash {
		return nil, false
	}
	return entry, true
}

// Store records the compiled targets of path, replacing any older entry
func (c *Targets) Store(path, hash string, names, targets []string) *Entry {
	entry := &Entry{
		Path:     path,
		Hash:     hash,
		Names:    append([]string(nil), names...),
		Targets:  append([]string(nil), targets...),
		CachedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry
	return entry
}

// Invalidate removes the entry for path
func (c *Targets) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Size returns the number of cached entries
func (c *Targets) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
