package snapshot

import "time"

// Record 一个快照
type Record struct {
	// Timestamp 快照时间，取自文件名，解析失败时为文件创建时间
	Timestamp time.Time `json:"timestamp"`
	// SnapshotPath 快照文件路径
	SnapshotPath string `json:"snapshot_path"`
	// PreviewPath 预览图路径，不存在时为空
	PreviewPath string `json:"preview_path,omitempty"`
	// RelativeAge 相对当前时间的描述，列表时计算
	RelativeAge string `json:"relative_age"`
}

// WithRelativeAge 返回填充了相对时间的副本
func (r Record) WithRelativeAge(now time.Time) Record {
	r.RelativeAge = RelativeAge(r.Timestamp, now)
	return r
}
