package hotkey

import (
	"github.com/estlcameo/backend/internal/infrastructure/estlcam"
	"github.com/google/wire"
)

// ProvideFilter 用宿主探测器创建过滤器
func ProvideFilter(prober *estlcam.Prober) *Filter {
	return NewFilter(prober)
}

// ProvideHook 创建键盘钩子
func ProvideHook(filter *Filter) *Hook {
	return NewHook(filter)
}

// ProviderSet 快捷键 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideFilter,
	ProvideHook,
)
