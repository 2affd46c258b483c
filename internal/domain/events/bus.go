package events

// Handler 事件订阅者
type Handler interface {
	// HandleEvent 返回的错误只记录日志，不重试
	HandleEvent(event Event) error
}

// HandlerFunc 把函数适配为 Handler
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// EventBus 进程内事件总线
// 每个订阅者按发布顺序串行收到事件，不同订阅者之间互不阻塞
type EventBus interface {
	// Subscribe 订阅一种事件，返回取消订阅的函数（可重复调用）
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 用同一个顺序队列订阅多种事件
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Publish 发布事件，不阻塞调用者
	Publish(event Event)

	// Close 停止接收事件并等待已入队的事件处理完
	Close()
}
