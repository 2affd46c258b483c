package application

import (
	"github.com/estlcameo/backend/internal/application/notification"
	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	notification.ProviderSet,
	snapshot.ProviderSet,
	session.ProviderSet,
)
