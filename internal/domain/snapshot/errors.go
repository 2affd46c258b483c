package snapshot

import "errors"

var (
	// ErrNoTrackedFile 当前没有跟踪任何项目文件
	ErrNoTrackedFile = errors.New("no project file is being tracked")
	// ErrSnapshotMissing 快照文件不存在
	ErrSnapshotMissing = errors.New("snapshot file is missing")
	// ErrProjectDirMissing 项目目录不存在
	ErrProjectDirMissing = errors.New("project directory is missing")
	// ErrNotProjectFile 不是可识别的项目文件
	ErrNotProjectFile = errors.New("not a recognized project file")
	// ErrProjectFileMissing 项目文件不存在
	ErrProjectFileMissing = errors.New("project file does not exist")
	// ErrForeignSnapshot 快照不属于当前跟踪的项目文件
	ErrForeignSnapshot = errors.New("snapshot does not belong to the tracked project")
)
