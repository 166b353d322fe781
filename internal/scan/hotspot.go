package scan

import (
	"path/filepath"
	"sort"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// Aggregate groups large-file hits by immediate parent directory and sums
// per-directory byte totals and file counts. Pure: the input is never
// mutated, and shuffled input yields the same grouped totals, ordered
// descending by total with directory tie-breaks.
func Aggregate(hits []fsentry.FileHit) []fsentry.Hotspot {
	if len(hits) == 0 {
		return nil
	}

	groups := make(map[string]*fsentry.Hotspot, len(hits))
	for _, hit := range hits {
		dir := filepath.Dir(hit.Path)
		spot, ok := groups[dir]
		if !ok {
			spot = &fsentry.Hotspot{Dir: dir}
			groups[dir] = spot
		}
		spot.TotalSize += hit.Size
		spot.FileCount++
	}

	out := make([]fsentry.Hotspot, 0, len(groups))
	for _, spot := range groups {
		out = append(out, *spot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].Dir < out[j].Dir
	})
	return out
}
