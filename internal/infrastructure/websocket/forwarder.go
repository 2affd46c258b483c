package websocket

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// EventForwarder 把事件总线上的全部事件转发到 event 通道
type EventForwarder struct {
	hub         *Hub
	bus         events.EventBus
	mu          sync.Mutex
	unsubscribe func()
	logger      *slog.Logger
}

// NewEventForwarder 创建事件转发器
func NewEventForwarder(hub *Hub, bus events.EventBus) *EventForwarder {
	return &EventForwarder{
		hub:    hub,
		bus:    bus,
		logger: log.NewModuleLogger("websocket", "forwarder"),
	}
}

// Start 订阅全部事件类型，重复调用无效果
func (f *EventForwarder) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribe != nil {
		return
	}
	f.unsubscribe = f.bus.SubscribeMultiple(events.AllTypes(), events.HandlerFunc(f.forward))
}

// Stop 取消订阅
func (f *EventForwarder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *EventForwarder) forward(event events.Event) error {
	err := f.hub.Broadcast(ChannelEvent, string(event.Type()), event)
	if errors.Is(err, ErrHubStopped) {
		// 关闭过程中的事件直接丢弃
		return nil
	}
	return err
}
