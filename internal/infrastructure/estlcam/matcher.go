package estlcam

import (
	"strings"
)

// ProcessMatcher 根据可执行文件路径判断进程是否为宿主
type ProcessMatcher struct {
	// ProcessMatch 进程名（不含 .exe）需包含的子串
	ProcessMatch string
	// ModuleNames 主模块名需包含其一，排除名字里同样带 estlcam 的辅助程序
	ModuleNames []string
}

// IsHostProcess 进程名是否包含宿主名
func (m ProcessMatcher) IsHostProcess(imagePath string) bool {
	if imagePath == "" || m.ProcessMatch == "" {
		return false
	}
	name := strings.ToLower(imageBase(imagePath))
	name = strings.TrimSuffix(name, ".exe")
	return strings.Contains(name, strings.ToLower(m.ProcessMatch))
}

// IsHostModule 进程名匹配且主模块名在允许列表中
func (m ProcessMatcher) IsHostModule(imagePath string) bool {
	if !m.IsHostProcess(imagePath) {
		return false
	}
	module := strings.ToLower(imageBase(imagePath))
	for _, want := range m.ModuleNames {
		if want != "" && strings.Contains(module, strings.ToLower(want)) {
			return true
		}
	}
	return false
}

func imageBase(p string) string {
	return p[strings.LastIndexAny(p, `/\`)+1:]
}
