package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent 領域事件基礎介面
type DomainEvent interface {
	EventID() string       // 事件唯一標識
	EventType() string     // 事件類型，如 "inventory.pack_released"
	OccurredAt() time.Time // 發生時間
	AggregateID() string   // 聚合根 ID（亦作為訊息分區鍵）
}

// EventPublisher 事件發布器介面
// 介面定義在 Domain Layer（使用者），由 Infrastructure 實作（Kafka / 記憶體）
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBase 事件共用欄位，嵌入具體事件結構
//
// 欄位為 exported 以便 JSON 序列化後送往訊息佇列。
type EventBase struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	Aggregate  string    `json:"aggregate_id"`
	HappenedAt time.Time `json:"occurred_at"`
}

// NewEventBase 建立事件基礎欄位
func NewEventBase(eventType, aggregateID string, at time.Time) EventBase {
	return EventBase{
		ID:         uuid.New().String(),
		Type:       eventType,
		Aggregate:  aggregateID,
		HappenedAt: at,
	}
}

// EventID 實現 DomainEvent 介面
func (e EventBase) EventID() string { return e.ID }

// EventType 實現 DomainEvent 介面
func (e EventBase) EventType() string { return e.Type }

// OccurredAt 實現 DomainEvent 介面
func (e EventBase) OccurredAt() time.Time { return e.HappenedAt }

// AggregateID 實現 DomainEvent 介面
func (e EventBase) AggregateID() string { return e.Aggregate }
