// Package probe wraps the external size-accounting and metadata-search
// primitives behind cancellable, budget-bounded calls. The primitives are
// injectable so scans can be exercised without the host tools.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// SizerFunc measures the recursive size of a directory in bytes. It must
// honor context cancellation; the default shells out to du under
// exec.CommandContext so the child process is killed, never abandoned.
type SizerFunc func(ctx context.Context, path string) (int64, error)

// Prober turns the sizer primitive into the Probe contract: definite result
// within budget, shallow estimate past it, zero on failure.
type Prober struct {
	Sizer SizerFunc
}

// New returns a Prober backed by the du primitive.
func New() *Prober {
	return &Prober{Sizer: DiskUsageSize}
}

// Probe measures path with a wall-clock budget. Within budget the result is
// Definite. Past budget the measurement is cancelled and replaced with a
// shallow estimate of immediately contained files only — no recursion, so
// deeply nested directories under-report; that latency trade-off is
// deliberate. The estimate is floored at 1 byte so the entry still sorts
// and renders. On failure (permission denied, path vanished) the size is 0
// and the entry stays listed; a probe never fails a scan.
//
// budget <= 0 means unbounded (explicit full scan).
func (p *Prober) Probe(ctx context.Context, path string, budget time.Duration) (int64, fsentry.Accuracy) {
	pctx := ctx
	var cancel context.CancelFunc
	if budget > 0 {
		pctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	size, err := p.Sizer(pctx, path)
	if err == nil {
		return size, fsentry.Definite
	}

	if errors.Is(err, context.DeadlineExceeded) || pctx.Err() != nil {
		est := shallowSize(path)
		if est < 1 {
			est = 1
		}
		return est, fsentry.Estimated
	}

	return 0, fsentry.Definite
}

// shallowSize sums the immediate regular files of dir without recursing.
func shallowSize(dir string) int64 {
	children, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, child := range children {
		if child.IsDir() {
			continue
		}
		info, err := child.Info()
		if err != nil {
			continue
		}
		total += ActualSize(info)
	}
	return total
}

// DiskUsageSize is the default sizer: `du -sk` with the caller's deadline.
func DiskUsageSize(ctx context.Context, path string) (int64, error) {
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, duTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(dctx, "du", "-sk", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if dctx.Err() != nil {
			return 0, dctx.Err()
		}
		if stderr.Len() > 0 {
			return 0, fmt.Errorf("du failed: %v (%s)", err, strings.TrimSpace(stderr.String()))
		}
		return 0, fmt.Errorf("du failed: %v", err)
	}
	fields := strings.Fields(stdout.String())
	if len(fields) == 0 {
		return 0, fmt.Errorf("du output empty")
	}
	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse du output: %v", err)
	}
	if kb < 0 {
		return 0, fmt.Errorf("du size invalid: %d", kb)
	}
	return kb * 1024, nil
}

// SkipSystemDir reports whether name is a volume-root system directory that
// scans leave out entirely.
func SkipSystemDir(name string) bool {
	return skipSystemDirs[name]
}

// ShouldFold reports whether a directory is sized but never expanded.
func ShouldFold(name string) bool {
	return foldDirs[name]
}

// SkipLargeCandidate reports whether a file is excluded from large-file
// tracking by extension.
func SkipLargeCandidate(path string) bool {
	return skipExtensions[strings.ToLower(filepath.Ext(path))]
}

// InFoldedDir reports whether any path component is a folded directory.
func InFoldedDir(path string) bool {
	for _, part := range strings.Split(path, string(os.PathSeparator)) {
		if foldDirs[part] {
			return true
		}
	}
	return false
}
