package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	return &Cache{
		session:    make(map[string]*fsentry.ScanResult),
		sessionDir: t.TempDir(),
		diskDir:    t.TempDir(),
		ttl:        DefaultTTL,
	}
}

func sampleResult(root string) *fsentry.ScanResult {
	return &fsentry.ScanResult{
		Root: root,
		Entries: []fsentry.Entry{
			{Path: filepath.Join(root, "big"), Name: "big", Kind: fsentry.KindDirectory, Size: 2 << 30},
			{Path: filepath.Join(root, "file.mkv"), Name: "file.mkv", Kind: fsentry.KindFile, Size: 1 << 30},
		},
		LargeFiles: []fsentry.FileHit{{Path: filepath.Join(root, "file.mkv"), Size: 1 << 30}},
		Hotspots:   []fsentry.Hotspot{{Dir: root, TotalSize: 1 << 30, FileCount: 1}},
		TotalSize:  3 << 30,
	}
}

func TestSession_PutGetRoundTrip(t *testing.T) {
	c := testCache(t)
	want := sampleResult("/data")
	c.Put("/data", want)

	got, ok := c.Get("/data")
	if !ok {
		t.Fatal("Get after Put missed")
	}
	if got.TotalSize != want.TotalSize || len(got.Entries) != len(want.Entries) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// The tier owns its copy; mutating what we got back must not leak in.
	got.Entries[0].Size = 0
	again, _ := c.Get("/data")
	if again.Entries[0].Size != 2<<30 {
		t.Error("session tier shares memory with consumers")
	}
}

func TestSession_GetMissAndInvalidate(t *testing.T) {
	c := testCache(t)
	if _, ok := c.Get("/never"); ok {
		t.Error("miss expected for unknown path")
	}
	c.Put("/data", sampleResult("/data"))
	c.Invalidate("/data")
	if _, ok := c.Get("/data"); ok {
		t.Error("Get after Invalidate must miss")
	}
}

func TestSession_InvalidateTree(t *testing.T) {
	c := testCache(t)
	c.Put("/data", sampleResult("/data"))
	c.Put("/data/sub", sampleResult("/data/sub"))
	c.Put("/database", sampleResult("/database"))

	c.InvalidateTree("/data")

	if _, ok := c.Get("/data"); ok {
		t.Error("root survived InvalidateTree")
	}
	if _, ok := c.Get("/data/sub"); ok {
		t.Error("descendant survived InvalidateTree")
	}
	if _, ok := c.Get("/database"); !ok {
		t.Error("sibling with shared prefix wrongly invalidated")
	}
}

func TestDisk_StoreLoadRoundTrip(t *testing.T) {
	c := testCache(t)
	want := sampleResult("/volume")
	if err := c.StoreRoot("/volume", want); err != nil {
		t.Fatal(err)
	}

	got, ok := c.LoadRoot("/volume")
	if !ok {
		t.Fatal("LoadRoot missed a fresh record")
	}
	if got.TotalSize != want.TotalSize ||
		len(got.Entries) != 2 ||
		len(got.LargeFiles) != 1 ||
		len(got.Hotspots) != 1 {
		t.Errorf("persisted bundle incomplete: %+v", got)
	}
	if got.Entries[0].Name != "big" {
		t.Errorf("listing order lost across persistence: %+v", got.Entries)
	}
}

func TestDisk_ExpiredRecordIsMiss(t *testing.T) {
	c := testCache(t)
	if err := c.StoreRoot("/volume", sampleResult("/volume")); err != nil {
		t.Fatal(err)
	}
	c.ttl = time.Nanosecond
	time.Sleep(time.Millisecond)
	if _, ok := c.LoadRoot("/volume"); ok {
		t.Error("record older than TTL must be a miss even when well-formed")
	}
}

func TestDisk_CorruptRecordIsMiss(t *testing.T) {
	c := testCache(t)
	if err := os.WriteFile(c.recordPath("/volume"), []byte("not gob"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.LoadRoot("/volume"); ok {
		t.Error("corrupt record must be a miss")
	}
}

func TestDisk_InvalidateRemovesRecord(t *testing.T) {
	c := testCache(t)
	if err := c.StoreRoot("/volume", sampleResult("/volume")); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("/volume")
	if _, ok := c.LoadRoot("/volume"); ok {
		t.Error("disk record survived Invalidate")
	}
}

func TestDisk_RecordNamedByStableHash(t *testing.T) {
	c := testCache(t)
	a := c.recordPath("/volume")
	b := c.recordPath("/volume")
	if a != b {
		t.Error("record path not stable for one path")
	}
	if c.recordPath("/other") == a {
		t.Error("distinct paths share a record file")
	}
	if filepath.Ext(a) != ".cache" {
		t.Errorf("unexpected record name %q", a)
	}
}

func TestClose_RemovesSessionDir(t *testing.T) {
	c := testCache(t)
	dir := c.SessionDir()
	if _, err := os.Stat(dir); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("session dir survived Close")
	}
	// Second Close is a no-op, not a panic.
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOpen_CreatesUniqueSessionDirs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMPDIR", t.TempDir())

	a, err := Open("analyze-test")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := Open("analyze-test")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.SessionDir() == b.SessionDir() {
		t.Error("two invocations share a session dir")
	}
}
