package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProbe_DefiniteWithinBudget(t *testing.T) {
	p := &Prober{Sizer: func(ctx context.Context, path string) (int64, error) {
		return 12345, nil
	}}
	size, acc := p.Probe(context.Background(), "/whatever", time.Second)
	if size != 12345 || acc != fsentry.Definite {
		t.Errorf("Probe = (%d, %v), want (12345, definite)", size, acc)
	}
}

func TestProbe_TimeoutFallsBackToShallowEstimate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bin"), 4096)
	writeFile(t, filepath.Join(dir, "b.bin"), 1024)
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	// File in a subdirectory must not be counted by the estimate.
	writeFile(t, filepath.Join(dir, "nested", "deep.bin"), 1<<20)

	p := &Prober{Sizer: func(ctx context.Context, path string) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}}
	size, acc := p.Probe(context.Background(), dir, 10*time.Millisecond)
	if acc != fsentry.Estimated {
		t.Fatalf("accuracy = %v, want estimated", acc)
	}
	if size < 1 {
		t.Errorf("estimated size %d, want >= 1", size)
	}
	if size > 4096+1024 {
		t.Errorf("estimate %d includes nested content; shallow estimate must not recurse", size)
	}
}

func TestProbe_TimeoutOnEmptyDirFloorsAtOneByte(t *testing.T) {
	dir := t.TempDir()
	p := &Prober{Sizer: func(ctx context.Context, path string) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}}
	size, acc := p.Probe(context.Background(), dir, 5*time.Millisecond)
	if size != 1 || acc != fsentry.Estimated {
		t.Errorf("Probe = (%d, %v), want (1, estimated)", size, acc)
	}
}

func TestProbe_FailureReturnsZeroNotError(t *testing.T) {
	p := &Prober{Sizer: func(ctx context.Context, path string) (int64, error) {
		return 0, errors.New("permission denied")
	}}
	size, acc := p.Probe(context.Background(), "/root/forbidden", time.Second)
	if size != 0 || acc != fsentry.Definite {
		t.Errorf("Probe = (%d, %v), want (0, definite)", size, acc)
	}
}

func TestProbe_UnboundedBudget(t *testing.T) {
	var sawDeadline bool
	p := &Prober{Sizer: func(ctx context.Context, path string) (int64, error) {
		_, sawDeadline = ctx.Deadline()
		return 7, nil
	}}
	if size, _ := p.Probe(context.Background(), "/x", 0); size != 7 {
		t.Errorf("size = %d, want 7", size)
	}
	if sawDeadline {
		t.Error("budget 0 must not impose a deadline")
	}
}

func TestSkipLargeCandidate(t *testing.T) {
	if !SkipLargeCandidate("/src/main.GO") {
		t.Error("extension match should be case-insensitive")
	}
	if SkipLargeCandidate("/media/film.mkv") {
		t.Error("media files must be tracked")
	}
}

func TestInFoldedDir(t *testing.T) {
	if !InFoldedDir("/home/u/project/node_modules/pkg/big.wasm") {
		t.Error("node_modules content should be folded")
	}
	if InFoldedDir("/home/u/videos/big.mkv") {
		t.Error("plain path misreported as folded")
	}
}

func TestFilterHits(t *testing.T) {
	hits := []fsentry.FileHit{
		{Path: "/p/node_modules/x/blob.bin", Size: 300 << 20},
		{Path: "/p/dump.sql", Size: 500 << 20},
		{Path: "/p/video.mov", Size: 700 << 20},
	}
	got := FilterHits(hits)
	if len(got) != 1 || got[0].Path != "/p/video.mov" {
		t.Errorf("FilterHits = %+v, want only /p/video.mov", got)
	}
}

func TestShallowSize_UnreadableDir(t *testing.T) {
	if got := shallowSize(filepath.Join(t.TempDir(), "missing")); got != 0 {
		t.Errorf("shallowSize of missing dir = %d, want 0", got)
	}
}
