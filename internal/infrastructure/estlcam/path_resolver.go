package estlcam

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// Outcome 单个策略的结果
type Outcome string

const (
	// OutcomeMatch 唯一命中
	OutcomeMatch Outcome = "match"
	// OutcomeAmbiguous 多个候选，按规则选出一个
	OutcomeAmbiguous Outcome = "ambiguous"
	// OutcomeNoMatch 未命中，继续下一个策略
	OutcomeNoMatch Outcome = "no_match"
)

// StepTrace 一个策略的执行记录
type StepTrace struct {
	Strategy   string   `json:"strategy"`
	Outcome    Outcome  `json:"outcome"`
	Candidates []string `json:"candidates,omitempty"`
	Chosen     string   `json:"chosen,omitempty"`
	Note       string   `json:"note,omitempty"`
}

// Resolution 解析结果和执行轨迹
type Resolution struct {
	FileName string            `json:"file_name"`
	Path     string            `json:"path,omitempty"`
	Found    bool              `json:"found"`
	State    host.ProjectState `json:"state"`
	Steps    []StepTrace       `json:"steps"`
}

// strategy 按文件名定位项目文件的一种方式
type strategy interface {
	name() string
	resolve(fileName string, state host.ProjectState) StepTrace
}

// PathResolver 把窗口标题中的文件名解析为完整路径
// 依次尝试：最近文件列表精确匹配，默认项目目录拼接
type PathResolver struct {
	cache      *StateCache
	strategies []strategy
	logger     *slog.Logger
}

// NewPathResolver 创建路径解析器
func NewPathResolver(cache *StateCache) *PathResolver {
	return &PathResolver{
		cache: cache,
		strategies: []strategy{
			mruStrategy{modTime: fileModTime},
			defaultDirStrategy{exists: fileExists},
		},
		logger: log.NewModuleLogger("estlcam", "path_resolver"),
	}
}

// Resolve 解析文件名，找不到时返回 false，调用方可以提示用户手动选择
func (r *PathResolver) Resolve(fileName string) (string, bool) {
	res := r.Explain(fileName)
	return res.Path, res.Found
}

// Explain 解析文件名并返回每个策略的执行轨迹
func (r *PathResolver) Explain(fileName string) Resolution {
	fileName = strings.TrimSpace(fileName)
	res := Resolution{FileName: fileName}
	if fileName == "" {
		return res
	}

	res.State = r.cache.Get()
	for _, s := range r.strategies {
		step := s.resolve(fileName, res.State)
		res.Steps = append(res.Steps, step)
		if step.Outcome != OutcomeNoMatch {
			res.Path = step.Chosen
			res.Found = true
			break
		}
	}

	r.logger.Debug("Resolved project path",
		"file_name", fileName,
		"found", res.Found,
		"path", res.Path,
	)
	return res
}

// State 当前缓存的状态文件内容
func (r *PathResolver) State() host.ProjectState {
	return r.cache.Get()
}

// mruStrategy 最近文件列表中按文件名精确匹配（不区分大小写）
// 多个候选时优先默认项目目录下的，其次最近修改的
type mruStrategy struct {
	modTime func(path string) time.Time
}

func (mruStrategy) name() string { return "recent_files" }

func (s mruStrategy) resolve(fileName string, state host.ProjectState) StepTrace {
	step := StepTrace{Strategy: s.name(), Outcome: OutcomeNoMatch}

	for _, p := range state.RecentFiles {
		if strings.EqualFold(winBase(p), fileName) {
			step.Candidates = append(step.Candidates, p)
		}
	}

	switch len(step.Candidates) {
	case 0:
		return step
	case 1:
		step.Outcome = OutcomeMatch
		step.Chosen = step.Candidates[0]
		return step
	}

	step.Outcome = OutcomeAmbiguous
	if state.DefaultProjectDir != "" {
		for _, c := range step.Candidates {
			if sameDir(winDir(c), state.DefaultProjectDir) {
				step.Chosen = c
				step.Note = "in default project dir"
				return step
			}
		}
	}

	var bestTime time.Time
	for _, c := range step.Candidates {
		if t := s.modTime(c); step.Chosen == "" || t.After(bestTime) {
			step.Chosen = c
			bestTime = t
		}
	}
	step.Note = "most recently written"
	return step
}

// defaultDirStrategy 默认项目目录 + 文件名，文件存在才算命中
type defaultDirStrategy struct {
	exists func(path string) bool
}

func (defaultDirStrategy) name() string { return "default_dir" }

func (s defaultDirStrategy) resolve(fileName string, state host.ProjectState) StepTrace {
	step := StepTrace{Strategy: s.name(), Outcome: OutcomeNoMatch}
	if state.DefaultProjectDir == "" {
		step.Note = "no default project dir"
		return step
	}

	candidate := filepath.Join(state.DefaultProjectDir, fileName)
	step.Candidates = []string{candidate}
	if !s.exists(candidate) {
		step.Note = "file does not exist"
		return step
	}
	step.Outcome = OutcomeMatch
	step.Chosen = candidate
	return step
}

// winBase 同时识别 / 和 \ 的文件名，状态文件中总是 Windows 路径
func winBase(p string) string {
	return p[strings.LastIndexAny(p, `/\`)+1:]
}

func winDir(p string) string {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return ""
	}
	return p[:i]
}

func sameDir(a, b string) bool {
	return strings.EqualFold(strings.TrimRight(a, `/\`), strings.TrimRight(b, `/\`))
}

func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
