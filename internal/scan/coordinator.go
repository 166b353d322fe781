// Package scan fans size probes out over a directory's children, merges the
// probe and search result streams, and produces deterministically ordered
// listings.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
	"github.com/ojisanchamchi/mac-cleaner/internal/probe"
)

const (
	// DefaultMaxItems bounds how many rows a listing retains after the full
	// sort. Truncation never happens before sorting, so the retained rows
	// are always the true top N.
	DefaultMaxItems = 30

	// DefaultCeiling is the whole-operation time budget. When it trips, all
	// in-flight probes are cancelled and the result is flagged Partial.
	DefaultCeiling = 30 * time.Second

	// Probing is I/O-bound; the pool runs wider than the CPU count but is
	// clamped so slow network volumes don't pile up hundreds of du children.
	minWorkers = 12
	maxWorkers = 24
)

// Options configure one Scan call.
type Options struct {
	// MaxItems caps the listing length; 0 means DefaultMaxItems.
	MaxItems int
	// WholeTree additionally runs the large/medium file searches over the
	// entire subtree and disables the per-probe interactive budget.
	WholeTree bool
	// ProbeBudget overrides the per-directory probe budget; 0 picks the
	// interactive default, or unbounded for whole-tree scans.
	ProbeBudget time.Duration
	// Ceiling overrides the whole-operation budget; 0 means DefaultCeiling.
	Ceiling time.Duration
}

// Progress exposes live counters for the spinner line. Safe for concurrent
// use; the scan updates it, the UI reads it.
type Progress struct {
	Files   atomic.Int64
	Dirs    atomic.Int64
	Bytes   atomic.Int64
	current atomic.Pointer[string]
}

// Reset zeroes the counters before a new scan.
func (p *Progress) Reset() {
	if p == nil {
		return
	}
	p.Files.Store(0)
	p.Dirs.Store(0)
	p.Bytes.Store(0)
	empty := ""
	p.current.Store(&empty)
}

// SetCurrent records the path most recently probed.
func (p *Progress) SetCurrent(path string) {
	if p != nil {
		p.current.Store(&path)
	}
}

// Current returns the path most recently probed.
func (p *Progress) Current() string {
	if p == nil {
		return ""
	}
	if v := p.current.Load(); v != nil {
		return *v
	}
	return ""
}

// Coordinator owns the probe pool and the per-path in-flight marker.
type Coordinator struct {
	prober  *probe.Prober
	search  probe.SearchFunc
	workers int
	flight  singleflight.Group
}

// New builds a Coordinator around a prober and a search primitive. search
// may be nil when the host has no metadata index; whole-tree scans then
// return empty large/medium sections.
func New(p *probe.Prober, search probe.SearchFunc) *Coordinator {
	return &Coordinator{
		prober:  p,
		search:  search,
		workers: clampWorkers(runtime.NumCPU() * 2),
	}
}

func clampWorkers(n int) int {
	if n < minWorkers {
		return minWorkers
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}

// Scan lists the immediate children of root, sized concurrently, sorted
// descending by size with path tie-breaks, truncated to MaxItems. Identical
// concurrent requests for one path share a single execution; every caller
// receives its own copy of the result.
func (c *Coordinator) Scan(ctx context.Context, root string, opts Options, prog *Progress) (*fsentry.ScanResult, error) {
	v, err, _ := c.flight.Do(root, func() (interface{}, error) {
		return c.scan(ctx, root, opts, prog)
	})
	if err != nil {
		return nil, err
	}
	return v.(*fsentry.ScanResult).Clone(), nil
}

func (c *Coordinator) scan(ctx context.Context, root string, opts Options, prog *Progress) (*fsentry.ScanResult, error) {
	start := time.Now()

	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	ceiling := opts.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	budget := opts.ProbeBudget
	if budget == 0 && !opts.WholeTree {
		budget = probe.DefaultBudget
	}

	children, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	sctx, cancel := context.WithTimeout(ctx, ceiling)
	defer cancel()

	var (
		mu      sync.Mutex
		entries = make([]fsentry.Entry, 0, len(children))
		total   atomic.Int64
	)

	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	isRoot := root == string(os.PathSeparator)
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(root, name)

		if child.Type()&fs.ModeSymlink != 0 {
			// Symlinks count their own size and are never followed.
			info, err := os.Lstat(path)
			if err != nil {
				continue
			}
			size := probe.ActualSize(info)
			total.Add(size)
			prog.fileSeen(size)
			mu.Lock()
			entries = append(entries, fsentry.Entry{
				Path: path, Name: name, Kind: fsentry.KindFile, Size: size,
				Category: fsentry.CategoryForPath(path),
			})
			mu.Unlock()
			continue
		}

		if child.IsDir() {
			if isRoot && probe.SkipSystemDir(name) {
				continue
			}
			g.Go(func() error {
				prog.SetCurrent(path)
				size, acc := c.prober.Probe(sctx, path, budget)
				total.Add(size)
				prog.dirSeen(size)
				mu.Lock()
				entries = append(entries, fsentry.Entry{
					Path: path, Name: name, Kind: fsentry.KindDirectory,
					Size: size, Accuracy: acc, LastAccess: accessTime(path),
				})
				mu.Unlock()
				return nil
			})
			continue
		}

		info, err := child.Info()
		if err != nil {
			continue
		}
		size := probe.ActualSize(info)
		total.Add(size)
		prog.fileSeen(size)
		mu.Lock()
		entries = append(entries, fsentry.Entry{
			Path: path, Name: name, Kind: fsentry.KindFile, Size: size,
			Category:   fsentry.CategoryForPath(path),
			LastAccess: probe.AccessTime(info),
		})
		mu.Unlock()
	}

	var (
		large, medium []fsentry.FileHit
		sg            errgroup.Group
	)
	if opts.WholeTree && c.search != nil {
		sg.Go(func() error {
			hits, err := c.search(sctx, root, probe.MinLargeFileSize, 0)
			if err != nil {
				if errors.Is(err, probe.ErrSearchUnavailable) {
					return nil
				}
				return nil // search failures never fail a scan
			}
			large = hits
			return nil
		})
		sg.Go(func() error {
			hits, err := c.search(sctx, root, probe.MinMediumFileSize, probe.MinLargeFileSize)
			if err != nil {
				return nil
			}
			medium = hits
			return nil
		})
	}

	_ = g.Wait()
	_ = sg.Wait()

	partial := sctx.Err() != nil

	fsentry.SortEntries(entries)
	if len(entries) > maxItems {
		entries = entries[:maxItems]
	}
	fsentry.SortHits(large)
	fsentry.SortHits(medium)

	return &fsentry.ScanResult{
		Root:        root,
		Entries:     entries,
		LargeFiles:  large,
		MediumFiles: medium,
		Hotspots:    Aggregate(large),
		TotalSize:   total.Load(),
		Partial:     partial,
		Elapsed:     time.Since(start),
	}, nil
}

func accessTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return probe.AccessTime(info)
}

func (p *Progress) fileSeen(size int64) {
	if p == nil {
		return
	}
	p.Files.Add(1)
	p.Bytes.Add(size)
}

func (p *Progress) dirSeen(size int64) {
	if p == nil {
		return
	}
	p.Dirs.Add(1)
	p.Bytes.Add(size)
}
