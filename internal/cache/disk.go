package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// record is the on-disk bundle: one file per scanned root. Gob-encoded;
// readable by the same process version only, which is all the format
// promises.
type record struct {
	Path      string
	CreatedAt time.Time
	Result    fsentry.ScanResult
}

func (c *Cache) recordPath(path string) string {
	return filepath.Join(c.diskDir, fmt.Sprintf("%016x.cache", xxhash.Sum64String(path)))
}

// LoadRoot returns the persisted whole-tree result for path when a record
// exists, decodes, and is younger than the TTL. Anything else — missing
// file, stale record, corrupt gob, hash collision on a different path — is
// a miss. Stale files are not reaped here; they persist until overwritten.
func (c *Cache) LoadRoot(path string) (*fsentry.ScanResult, bool) {
	f, err := os.Open(c.recordPath(path))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var rec record
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, false
	}
	if rec.Path != path {
		return nil, false
	}
	if time.Since(rec.CreatedAt) >= c.ttl {
		return nil, false
	}
	return rec.Result.Clone(), true
}

// StoreRoot persists a whole-tree result, written atomically so a crash
// mid-write never leaves a truncated record behind.
func (c *Cache) StoreRoot(path string, result *fsentry.ScanResult) error {
	if result == nil {
		return fmt.Errorf("nil result for %s", path)
	}
	target := c.recordPath(path)
	tmp := target + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	rec := record{Path: path, CreatedAt: time.Now(), Result: *result.Clone()}
	if err := gob.NewEncoder(f).Encode(&rec); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode record: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
