//go:build darwin

package probe

import (
	"io/fs"
	"syscall"
	"time"
)

// ActualSize returns on-disk usage (st_blocks * 512) when it is smaller
// than the apparent size, so sparse and cloud-offloaded files report what
// they really occupy.
func ActualSize(info fs.FileInfo) int64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.Size()
	}
	actual := stat.Blocks * 512
	if actual < info.Size() {
		return actual
	}
	return info.Size()
}

// AccessTime returns the last access time, or the zero time when the
// platform data is unavailable.
func AccessTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
}
