package clock

import "github.com/google/wire"

// ProviderSet 时钟 ProviderSet
var ProviderSet = wire.NewSet(
	Real,
)
