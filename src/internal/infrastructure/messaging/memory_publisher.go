package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// InMemoryPublisher 未啟用 Kafka 時的發布器，保留已發布事件
type InMemoryPublisher struct {
	mu     sync.RWMutex
	logger *zap.Logger
	events []shared.DomainEvent
}

// NewInMemoryPublisher 建立記憶體發布器
func NewInMemoryPublisher(logger *zap.Logger) *InMemoryPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryPublisher{logger: logger}
}

// Publish 實作 shared.EventPublisher
func (p *InMemoryPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		p.logger.Debug("event published (in-memory)",
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_id", e.AggregateID()),
		)
	}
	p.events = append(p.events, events...)
	return nil
}

// Events 已發布事件的複本
func (p *InMemoryPublisher) Events() []shared.DomainEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Close 無資源需要釋放
func (p *InMemoryPublisher) Close() error { return nil }
