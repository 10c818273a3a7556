package common

import (
	"context"

	"go.uber.org/zap"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// ===========================
// EventDispatcher
// ===========================

// EventDispatcher 在事務提交後發布領域事件
//
// 資料已提交，發布失敗只記錄錯誤，不回傳給呼叫端。
// 零值與 nil 都可使用（不發布）。
type EventDispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewEventDispatcher 建立事件分派器
func NewEventDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{publisher: publisher, logger: logger}
}

// Dispatch 發布事件
func (d *EventDispatcher) Dispatch(ctx context.Context, events ...shared.DomainEvent) {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		types := make([]string, len(events))
		for i, e := range events {
			types[i] = e.EventType()
		}
		d.logger.Error("failed to publish domain events",
			zap.Strings("event_types", types),
			zap.Error(err),
		)
	}
}

// EventBuffer 收集單次事務嘗試中產生的事件
//
// 事務可能被重試，每次嘗試開始時呼叫 Reset。
type EventBuffer struct {
	events []shared.DomainEvent
}

// Reset 清空
func (b *EventBuffer) Reset() { b.events = nil }

// Add 加入事件（忽略 nil）
func (b *EventBuffer) Add(events ...shared.DomainEvent) {
	for _, e := range events {
		if e != nil {
			b.events = append(b.events, e)
		}
	}
}

// Events 返回已收集的事件
func (b *EventBuffer) Events() []shared.DomainEvent { return b.events }
