package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StampLayout 快照文件名中的时间格式
const StampLayout = "20060102_150405"

// PreviewExt 预览图扩展名
const PreviewExt = ".png"

// FormatStamp 把时间格式化为文件名前缀
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ParseStamp 解析文件名（不含扩展名）前 15 个字符，按本地时区
func ParseStamp(stem string) (time.Time, bool) {
	if len(stem) < len(StampLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(StampLayout, stem[:len(StampLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SnapshotFileName 快照文件名，n > 0 时追加 _n 消除同一秒内的冲突
func SnapshotFileName(stamp string, n int, ext string) string {
	if n > 0 {
		return fmt.Sprintf("%s_%d%s", stamp, n, ext)
	}
	return stamp + ext
}

// RestoredCopyName 副本恢复的文件名 <base>_restored_<stamp>[_n].<ext>
func RestoredCopyName(base, stamp string, n int, ext string) string {
	if n > 0 {
		return fmt.Sprintf("%s_restored_%s_%d%s", base, stamp, n, ext)
	}
	return fmt.Sprintf("%s_restored_%s%s", base, stamp, ext)
}

// PreviewPathFor 快照对应的预览图路径
func PreviewPathFor(snapshotPath string) string {
	return strings.TrimSuffix(snapshotPath, filepath.Ext(snapshotPath)) + PreviewExt
}

// RelativeAge 人类可读的相对时间
func RelativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d mins ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d weeks ago", int(d.Hours()/(24*7)))
	default:
		return t.Format("2006-01-02")
	}
}
