//go:build windows

package snapshot

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime 文件创建时间
func creationTime(info fs.FileInfo) time.Time {
	if d, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, d.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
