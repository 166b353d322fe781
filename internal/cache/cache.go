// Package cache holds scan results across a session (in memory) and across
// invocations (gob records on disk, TTL-bounded). Both tiers are
// single-writer: only the navigator's coordinating goroutine touches them.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// DefaultTTL bounds how long a persisted whole-tree record is trusted.
const DefaultTTL = time.Hour

// Cache is the two-tier scan cache. The session tier makes re-entering a
// directory instant within one run; the disk tier short-circuits repeated
// whole-tree scans across runs.
type Cache struct {
	mu      sync.Mutex
	session map[string]*fsentry.ScanResult

	sessionDir string
	diskDir    string
	ttl        time.Duration
}

// Open creates a cache with an ephemeral per-invocation session directory
// and a persistent record directory under the user cache root. The session
// directory is removed by Close however the session ends.
func Open(appName string) (*Cache, error) {
	sessionDir := filepath.Join(os.TempDir(), fmt.Sprintf("%s-session-%s", appName, uuid.NewString()))
	if err := os.MkdirAll(sessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		os.RemoveAll(sessionDir)
		return nil, err
	}
	diskDir := filepath.Join(home, ".cache", appName)
	if err := os.MkdirAll(diskDir, 0o755); err != nil {
		os.RemoveAll(sessionDir)
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		session:    make(map[string]*fsentry.ScanResult),
		sessionDir: sessionDir,
		diskDir:    diskDir,
		ttl:        DefaultTTL,
	}, nil
}

// SessionDir returns the ephemeral per-invocation directory.
func (c *Cache) SessionDir() string { return c.sessionDir }

// Get returns a copy of the session-tier result for path, if present.
func (c *Cache) Get(path string) (*fsentry.ScanResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.session[path]
	if !ok {
		return nil, false
	}
	return res.Clone(), true
}

// Put stores a copy of result in the session tier. The tier owns its copy;
// later mutation of the caller's value cannot corrupt it.
func (c *Cache) Put(path string, result *fsentry.ScanResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session[path] = result.Clone()
}

// Invalidate removes both tiers' entries for path. Called after any
// successful delete under the path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.session, path)
	c.mu.Unlock()
	os.Remove(c.recordPath(path))
}

// InvalidateTree drops every session entry at or under root and the disk
// record for root, for deletes that change an entire subtree's accounting.
func (c *Cache) InvalidateTree(root string) {
	prefix := root + string(os.PathSeparator)
	c.mu.Lock()
	for p := range c.session {
		if p == root || len(p) > len(prefix) && p[:len(prefix)] == prefix {
			delete(c.session, p)
		}
	}
	c.mu.Unlock()
	os.Remove(c.recordPath(root))
}

// Close clears the session tier and removes the session directory. Safe to
// call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.session = make(map[string]*fsentry.ScanResult)
	c.mu.Unlock()
	if c.sessionDir == "" {
		return nil
	}
	err := os.RemoveAll(c.sessionDir)
	c.sessionDir = ""
	return err
}
