package snapshot

import (
	"path/filepath"
	"sort"
	"strings"
)

// Timeline 按时间升序排列的快照列表和当前位置
// 不变量：-1 <= cursor < len(records)；列表非空时 cursor >= 0
type Timeline struct {
	records []Record
	cursor  int
}

// NewTimeline 创建空时间线
func NewTimeline() *Timeline {
	return &Timeline{cursor: -1}
}

// Replace 用磁盘扫描结果替换全部记录
// 旧位置指向的快照仍在列表中时保留位置，否则移到最新
func (t *Timeline) Replace(records []Record) {
	var current string
	if r, ok := t.Current(); ok {
		current = r.SnapshotPath
	}

	t.records = append([]Record(nil), records...)
	sortRecords(t.records)

	t.cursor = len(t.records) - 1
	if current != "" {
		if i := t.IndexOf(current); i >= 0 {
			t.cursor = i
		}
	}
}

// Add 加入新快照并把位置移到最新
// 位置之后的旧快照不会被截断，撤销后再保存只是在末尾追加
func (t *Timeline) Add(record Record) {
	t.records = append(t.records, record)
	sortRecords(t.records)
	t.cursor = len(t.records) - 1
}

// Step 计算向前/向后移动 delta 后的目标记录，不修改位置
// 越界时返回 false
func (t *Timeline) Step(delta int) (Record, int, bool) {
	if len(t.records) == 0 {
		return Record{}, -1, false
	}
	next := t.cursor + delta
	if next < 0 || next >= len(t.records) {
		return Record{}, -1, false
	}
	return t.records[next], next, true
}

// Commit 把位置移到 index
func (t *Timeline) Commit(index int) {
	if index >= 0 && index < len(t.records) {
		t.cursor = index
	}
}

// Clear 清空时间线
func (t *Timeline) Clear() {
	t.records = nil
	t.cursor = -1
}

// Cursor 当前位置，空时间线为 -1
func (t *Timeline) Cursor() int {
	return t.cursor
}

// Len 记录数量
func (t *Timeline) Len() int {
	return len(t.records)
}

// Records 返回记录副本
func (t *Timeline) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Current 当前位置的记录
func (t *Timeline) Current() (Record, bool) {
	if t.cursor < 0 || t.cursor >= len(t.records) {
		return Record{}, false
	}
	return t.records[t.cursor], true
}

// IndexOf 按快照路径查找（不区分大小写），找不到返回 -1
func (t *Timeline) IndexOf(path string) int {
	clean := filepath.Clean(path)
	for i, r := range t.records {
		if strings.EqualFold(filepath.Clean(r.SnapshotPath), clean) {
			return i
		}
	}
	return -1
}

// sortRecords 时间升序，同一秒内按文件名排序（_1、_2 后缀）
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return naturalLess(filepath.Base(records[i].SnapshotPath), filepath.Base(records[j].SnapshotPath))
	})
}

// naturalLess 先比长度再比字典序，使 _10 排在 _9 之后
func naturalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
