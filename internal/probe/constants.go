package probe

import "time"

const (
	// DefaultBudget bounds a single recursive size measurement during
	// interactive listing. Whole-tree scans pass 0 (unbounded).
	DefaultBudget = 1 * time.Second

	duTimeout     = 60 * time.Second
	mdfindTimeout = 15 * time.Second

	// MinLargeFileSize and MinMediumFileSize split search hits into the two
	// reporting tiers.
	MinLargeFileSize  = 1 << 30   // 1 GiB
	MinMediumFileSize = 100 << 20 // 100 MB
)

// Directories whose contents are never expanded or reported individually:
// package caches, build output, VCS internals.
var foldDirs = map[string]bool{
	".git":          true,
	".svn":          true,
	".hg":           true,
	"node_modules":  true,
	".npm":          true,
	".yarn":         true,
	".pnpm-store":   true,
	".next":         true,
	".nuxt":         true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"venv":          true,
	".venv":         true,
	"site-packages": true,
	"vendor":        true,
	"target":        true,
	".gradle":       true,
	".m2":           true,
	"build":         true,
	"dist":          true,
	".cache":        true,
	"Caches":        true,
	".Trash":        true,
	"Pods":          true,
	"DerivedData":   true,
	".cargo":        true,
	".rustup":       true,
	".docker":       true,
}

// System directories skipped entirely when scanning the volume root.
var skipSystemDirs = map[string]bool{
	"dev":                     true,
	"tmp":                     true,
	"private":                 true,
	"cores":                   true,
	"net":                     true,
	"home":                    true,
	"System":                  true,
	"sbin":                    true,
	"bin":                     true,
	"etc":                     true,
	"var":                     true,
	".vol":                    true,
	".Spotlight-V100":         true,
	".fseventsd":              true,
	".DocumentRevisions-V100": true,
	".TemporaryItems":         true,
}

// Source and text extensions excluded from large-file tracking; a big
// generated .json is noise next to a big video.
var skipExtensions = map[string]bool{
	".go": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".json": true, ".md": true, ".txt": true, ".yml": true, ".yaml": true,
	".xml": true, ".html": true, ".css": true, ".scss": true,
	".py": true, ".rb": true, ".java": true, ".kt": true, ".rs": true,
	".swift": true, ".m": true, ".mm": true, ".c": true, ".cpp": true,
	".h": true, ".hpp": true, ".cs": true, ".sql": true, ".lock": true,
}
