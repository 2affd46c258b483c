package session

import (
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
)

// Prompter 无法自动定位项目文件时请用户手动选择
// 返回 false 表示用户取消或当前无法交互
type Prompter interface {
	PromptForProject(fileName, defaultDir string) (string, bool)
}

// EventPrompter 只广播 session.resolution_required 事件，由界面调用 bind 完成选择
type EventPrompter struct {
	bus   events.EventBus
	clock clock.Clock
}

// NewEventPrompter 创建基于事件的提示器，事件时间取自 clk
func NewEventPrompter(bus events.EventBus, clk clock.Clock) *EventPrompter {
	return &EventPrompter{bus: bus, clock: clk}
}

// PromptForProject 广播事件后立即返回 false
func (p *EventPrompter) PromptForProject(fileName, defaultDir string) (string, bool) {
	p.bus.Publish(&events.SessionEvent{
		EventType: events.ResolutionRequired,
		FileName:  fileName,
		Detail:    defaultDir,
		EventTime: p.clock.Now(),
	})
	return "", false
}
