package snapshot

import (
	"sync"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/clock"
)

// SaveExpectation 关联“按下了保存快捷键”和“确实观察到文件写入”
// 同一时间最多一个未完成的期待，重新 Arm 会取消并替换旧的
type SaveExpectation struct {
	mu         sync.Mutex
	clock      clock.Clock
	timer      clock.Timer
	armed      bool
	generation uint64
	onMissed   func()
}

// NewSaveExpectation 创建保存期待
func NewSaveExpectation(clk clock.Clock) *SaveExpectation {
	return &SaveExpectation{clock: clk}
}

// OnMissed 设置超时未观察到写入时的回调
func (e *SaveExpectation) OnMissed(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMissed = fn
}

// Arm 开始等待文件写入，timeout 后仍未观察到则触发回调
func (e *SaveExpectation) Arm(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
	}
	e.generation++
	gen := e.generation
	e.armed = true
	e.timer = e.clock.AfterFunc(timeout, func() { e.expire(gen) })
}

// Observe 记录一次文件写入，返回之前是否处于等待状态
func (e *SaveExpectation) Observe() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	was := e.armed
	e.disarmLocked()
	return was
}

// Cancel 放弃当前等待，不触发回调
func (e *SaveExpectation) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarmLocked()
}

// Armed 是否正在等待
func (e *SaveExpectation) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed
}

func (e *SaveExpectation) disarmLocked() {
	e.armed = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// expire 定时器回调，generation 不一致说明已被替换
func (e *SaveExpectation) expire(gen uint64) {
	e.mu.Lock()
	if !e.armed || e.generation != gen {
		e.mu.Unlock()
		return
	}
	e.armed = false
	e.timer = nil
	cb := e.onMissed
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
}
