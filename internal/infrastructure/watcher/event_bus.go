// Package watcher 提供项目文件监听和事件分发功能
package watcher

import (
	"log/slog"
	"sync"

	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// DefaultQueueSize 每个订阅者的事件队列长度
const DefaultQueueSize = 256

// subscriber 一个订阅者独占一个队列和一个分发 goroutine，
// 同一订阅者收到的事件顺序与发布顺序一致（跨事件类型也一样）
type subscriber struct {
	id      uint64
	types   []events.EventType
	handler events.Handler
	queue   chan events.Event
	stopped bool
}

// eventBusImpl EventBus 的实现
// Publish 从不阻塞：队列满时丢弃该订阅者的这条事件并记录警告
type eventBusImpl struct {
	mu        sync.RWMutex
	byType    map[events.EventType][]*subscriber
	all       map[uint64]*subscriber
	nextID    uint64
	closed    bool
	queueSize int
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewEventBus 创建事件总线
func NewEventBus() events.EventBus {
	return NewEventBusWithQueue(DefaultQueueSize)
}

// NewEventBusWithQueue 创建指定队列长度的事件总线
func NewEventBusWithQueue(queueSize int) events.EventBus {
	if queueSize < 1 {
		queueSize = 1
	}
	return &eventBusImpl{
		byType:    make(map[events.EventType][]*subscriber),
		all:       make(map[uint64]*subscriber),
		queueSize: queueSize,
		logger:    log.NewModuleLogger("watcher", "event_bus"),
	}
}

// Subscribe 订阅一种事件
func (b *eventBusImpl) Subscribe(eventType events.EventType, handler events.Handler) func() {
	return b.SubscribeMultiple([]events.EventType{eventType}, handler)
}

// SubscribeMultiple 用同一个队列订阅多种事件，重复的类型只投递一次
// 总线关闭后订阅不生效
func (b *eventBusImpl) SubscribeMultiple(eventTypes []events.EventType, handler events.Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	b.nextID++
	sub := &subscriber{
		id:      b.nextID,
		handler: handler,
		queue:   make(chan events.Event, b.queueSize),
	}
	seen := make(map[events.EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		if seen[t] {
			continue
		}
		seen[t] = true
		sub.types = append(sub.types, t)
		b.byType[t] = append(b.byType[t], sub)
	}
	b.all[sub.id] = sub

	b.wg.Add(1)
	go b.run(sub)

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(sub) })
	}
}

// unsubscribe 移除订阅，已入队的事件仍会处理完
func (b *eventBusImpl) unsubscribe(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range sub.types {
		subs := b.byType[t]
		// 复制而不是原地删除
		next := make([]*subscriber, 0, len(subs))
		for _, s := range subs {
			if s != sub {
				next = append(next, s)
			}
		}
		b.byType[t] = next
	}
	delete(b.all, sub.id)
	b.stopLocked(sub)
}

func (b *eventBusImpl) stopLocked(sub *subscriber) {
	if !sub.stopped {
		sub.stopped = true
		close(sub.queue)
	}
}

// Publish 把事件放入每个匹配订阅者的队列
func (b *eventBusImpl) Publish(event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	subs := b.byType[event.Type()]
	if len(subs) == 0 {
		return
	}
	b.logger.Debug("Publishing event",
		"type", event.Type(),
		"subscribers", len(subs),
	)

	// 关闭队列只在写锁下进行，这里发送是安全的
	for _, sub := range subs {
		select {
		case sub.queue <- event:
		default:
			b.logger.Warn("Subscriber queue full, event dropped",
				"type", event.Type(),
				"subscriber", sub.id,
			)
		}
	}
}

func (b *eventBusImpl) run(sub *subscriber) {
	defer b.wg.Done()
	for event := range sub.queue {
		b.dispatch(sub.handler, event)
	}
}

// dispatch 处理器的错误和 panic 只记录日志
func (b *eventBusImpl) dispatch(handler events.Handler, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Handler panicked",
				"type", event.Type(),
				"panic", r,
			)
		}
	}()

	if err := handler.HandleEvent(event); err != nil {
		b.logger.Error("Handler returned error",
			"type", event.Type(),
			"error", err,
		)
	}
}

// Close 停止接收事件，等待所有队列处理完
// 不能在处理器内部调用
func (b *eventBusImpl) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, sub := range b.all {
		b.stopLocked(sub)
	}
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("Event bus closed")
}
