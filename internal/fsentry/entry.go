// Package fsentry defines the records produced by scans: directory listing
// entries, large-file hits, hotspot aggregates and the scan result bundle.
package fsentry

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tags an entry as a directory or a file. Symlinks are listed as files
// with their own size and are never followed.
type Kind uint8

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "dir"
	}
	return "file"
}

// Accuracy records how an entry's size was obtained. Directory sizes are an
// approximation unless the probe finished within its budget.
type Accuracy uint8

const (
	// Definite means the size is a completed recursive measurement, or a
	// plain stat for files.
	Definite Accuracy = iota
	// Estimated means the probe ran out of budget and the size is a shallow
	// estimate of immediately contained files only.
	Estimated
)

func (a Accuracy) String() string {
	if a == Estimated {
		return "estimated"
	}
	return "definite"
}

// Category is a coarse file classification derived once from the extension,
// so render sites never re-derive it.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryMedia
	CategoryArchive
	CategoryImage
	CategoryBinary
)

var categoryByExt = map[string]Category{
	".mp4": CategoryMedia, ".mov": CategoryMedia, ".mkv": CategoryMedia,
	".avi": CategoryMedia, ".mp3": CategoryMedia, ".wav": CategoryMedia,
	".flac": CategoryMedia, ".m4a": CategoryMedia,

	".zip": CategoryArchive, ".tar": CategoryArchive, ".gz": CategoryArchive,
	".bz2": CategoryArchive, ".xz": CategoryArchive, ".7z": CategoryArchive,
	".rar": CategoryArchive, ".dmg": CategoryArchive, ".iso": CategoryArchive,

	".png": CategoryImage, ".jpg": CategoryImage, ".jpeg": CategoryImage,
	".gif": CategoryImage, ".heic": CategoryImage, ".raw": CategoryImage,
	".tiff": CategoryImage, ".psd": CategoryImage,

	".app": CategoryBinary, ".pkg": CategoryBinary, ".bin": CategoryBinary,
	".dylib": CategoryBinary, ".so": CategoryBinary, ".o": CategoryBinary,
}

// CategoryForPath classifies a file path by extension.
func CategoryForPath(path string) Category {
	return categoryByExt[strings.ToLower(filepath.Ext(path))]
}

// Entry is one row of a directory listing. Size 0 means unknown (the path
// was inaccessible); such entries stay listed so the user can still see and
// navigate past them.
type Entry struct {
	Path       string
	Name       string
	Kind       Kind
	Size       int64
	Accuracy   Accuracy
	Category   Category
	LastAccess time.Time
}

// FileHit is one result of a size-bounded file search.
type FileHit struct {
	Path string
	Size int64
}

// Hotspot is a directory holding a disproportionate share of large files,
// derived from a large-file hit list. Never persisted apart from its source
// scan.
type Hotspot struct {
	Dir       string
	TotalSize int64
	FileCount int
}

// ScanResult bundles everything a single scan produced. The listing is
// sorted descending by size, ties broken by path, so repeated scans of an
// unchanged tree render identically.
type ScanResult struct {
	Root        string
	Entries     []Entry
	LargeFiles  []FileHit
	MediumFiles []FileHit
	Hotspots    []Hotspot
	TotalSize   int64
	Partial     bool
	Elapsed     time.Duration
}

// Clone returns an independent copy. Cache tiers own their results;
// consumers get copies so an in-place mutation can never corrupt a cached
// listing.
func (r *ScanResult) Clone() *ScanResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Entries = append([]Entry(nil), r.Entries...)
	out.LargeFiles = append([]FileHit(nil), r.LargeFiles...)
	out.MediumFiles = append([]FileHit(nil), r.MediumFiles...)
	out.Hotspots = append([]Hotspot(nil), r.Hotspots...)
	return &out
}

// SortEntries orders entries descending by size, ascending by path on ties.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Path < entries[j].Path
	})
}

// SortHits orders hits descending by size, ascending by path on ties.
func SortHits(hits []FileHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Size != hits[j].Size {
			return hits[i].Size > hits[j].Size
		}
		return hits[i].Path < hits[j].Path
	})
}
