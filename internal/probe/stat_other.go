//go:build !darwin

package probe

import (
	"io/fs"
	"time"
)

func ActualSize(info fs.FileInfo) int64 {
	return info.Size()
}

func AccessTime(info fs.FileInfo) time.Time {
	return time.Time{}
}
