//go:build !windows

package snapshot

import (
	"io/fs"
	"time"
)

// creationTime 没有可移植的创建时间，使用修改时间
func creationTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
