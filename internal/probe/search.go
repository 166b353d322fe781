package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// ErrSearchUnavailable signals that the metadata-indexed search primitive is
// missing on this host. Callers degrade to directory-only accounting.
var ErrSearchUnavailable = errors.New("size search unavailable")

// SearchFunc finds files under root whose size falls in [minSize, maxSize).
// maxSize <= 0 means no upper bound. Hits are sorted descending by size,
// ties by path.
type SearchFunc func(ctx context.Context, root string, minSize, maxSize int64) ([]fsentry.FileHit, error)

// SpotlightSearch is the default SearchFunc, backed by mdfind. Hits inside
// folded directories and files with skipped extensions are filtered out;
// directories and symlinks are never reported.
func SpotlightSearch(ctx context.Context, root string, minSize, maxSize int64) ([]fsentry.FileHit, error) {
	if _, err := exec.LookPath("mdfind"); err != nil {
		return nil, ErrSearchUnavailable
	}

	query := fmt.Sprintf("kMDItemFSSize >= %d", minSize)
	if maxSize > 0 {
		query = fmt.Sprintf("kMDItemFSSize >= %d && kMDItemFSSize < %d", minSize, maxSize)
	}

	sctx, cancel := context.WithTimeout(ctx, mdfindTimeout)
	defer cancel()

	cmd := exec.CommandContext(sctx, "mdfind", "-onlyin", root, query)
	output, err := cmd.Output()
	if err != nil {
		if sctx.Err() != nil {
			// Index too slow counts as unavailable, not as a scan failure.
			return nil, ErrSearchUnavailable
		}
		return nil, fmt.Errorf("mdfind: %w", err)
	}

	var hits []fsentry.FileHit
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		if SkipLargeCandidate(line) || InFoldedDir(line) {
			continue
		}
		info, err := os.Lstat(line)
		if err != nil {
			continue
		}
		if info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		hits = append(hits, fsentry.FileHit{Path: line, Size: ActualSize(info)})
	}

	fsentry.SortHits(hits)
	return hits, nil
}

// FilterHits applies the fold-dir and extension filters to an arbitrary hit
// list, for search backends that do no filtering of their own.
func FilterHits(hits []fsentry.FileHit) []fsentry.FileHit {
	out := hits[:0]
	for _, h := range hits {
		if SkipLargeCandidate(h.Path) || InFoldedDir(h.Path) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// MetadataSize asks the Spotlight metadata store for a directory's recorded
// size, a fast shortcut for whole-volume roots before a full probe.
func MetadataSize(ctx context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", path)
	}
	if _, err := exec.LookPath("mdls"); err != nil {
		return 0, ErrSearchUnavailable
	}

	mctx, cancel := context.WithTimeout(ctx, mdfindTimeout)
	defer cancel()

	out, err := exec.CommandContext(mctx, "mdls", "-raw", "-name", "kMDItemFSSize", path).Output()
	if err != nil {
		return 0, fmt.Errorf("mdls: %w", err)
	}
	value := strings.TrimSpace(string(out))
	if value == "" || value == "(null)" {
		return 0, fmt.Errorf("metadata size unavailable for %s", filepath.Base(path))
	}
	var size int64
	if _, err := fmt.Sscanf(value, "%d", &size); err != nil || size <= 0 {
		return 0, fmt.Errorf("metadata size invalid: %q", value)
	}
	return size, nil
}
