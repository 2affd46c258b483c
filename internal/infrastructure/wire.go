package infrastructure

import (
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/estlcam"
	"github.com/estlcameo/backend/internal/infrastructure/hotkey"
	"github.com/estlcameo/backend/internal/infrastructure/notification"
	"github.com/estlcameo/backend/internal/infrastructure/storage"
	"github.com/estlcameo/backend/internal/infrastructure/watcher"
	"github.com/estlcameo/backend/internal/infrastructure/websocket"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	clock.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	storage.ProviderSet,
	watcher.ProviderSet,
	estlcam.ProviderSet,
	hotkey.ProviderSet,
)
