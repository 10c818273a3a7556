package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// ===========================
// 設定
// ===========================

// maxRetryDelay 單次重送等待上限
const maxRetryDelay = 5 * time.Second

// KafkaConfig Kafka 發布器設定
type KafkaConfig struct {
	Brokers        []string
	ClientID       string
	TopicInventory string // inventory.* 事件
	TopicSales     string // 交易、點數、EC 等其餘事件
	Retries        int
}

// PublishRecorder 記錄發布結果（由 observability.Metrics 實作）
type PublishRecorder interface {
	RecordEventPublish(topic string, success bool)
}

type nopPublishRecorder struct{}

func (nopPublishRecorder) RecordEventPublish(string, bool) {}

// Option 發布器選項
type Option func(*KafkaPublisher)

// WithRecorder 設定指標記錄器
func WithRecorder(r PublishRecorder) Option {
	return func(p *KafkaPublisher) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithRetryBaseDelay 設定重送退避基準
func WithRetryBaseDelay(d time.Duration) Option {
	return func(p *KafkaPublisher) { p.baseDelay = d }
}

// ===========================
// KafkaPublisher
// ===========================

// KafkaPublisher 以 sarama SyncProducer 實作 shared.EventPublisher
//
// 訊息：
// - Value: 事件 JSON
// - Key: AggregateID（同一聚合的事件進入同一分區）
// - Headers: event-type / event-id / timestamp
type KafkaPublisher struct {
	producer  sarama.SyncProducer
	cfg       KafkaConfig
	logger    *zap.Logger
	recorder  PublishRecorder
	attempts  int
	baseDelay time.Duration
}

// NewKafkaPublisher 連線 broker 並建立發布器
func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger, opts ...Option) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = cfg.Retries
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg, logger, opts...), nil
}

// NewKafkaPublisherWithProducer 以既有 producer 建立發布器
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, cfg KafkaConfig, logger *zap.Logger, opts ...Option) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}
	p := &KafkaPublisher{
		producer:  producer,
		cfg:       cfg,
		logger:    logger,
		recorder:  nopPublishRecorder{},
		attempts:  attempts,
		baseDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish 依序發布事件，遇到無法送出的事件即停止並返回錯誤
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		msg, err := p.buildMessage(event)
		if err != nil {
			return err
		}
		if err := p.send(ctx, msg, event); err != nil {
			p.recorder.RecordEventPublish(msg.Topic, false)
			return err
		}
		p.recorder.RecordEventPublish(msg.Topic, true)
	}
	return nil
}

// send 送出單一訊息，失敗時指數退避重送
func (p *KafkaPublisher) send(ctx context.Context, msg *sarama.ProducerMessage, event shared.DomainEvent) error {
	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		partition, offset, err := p.producer.SendMessage(msg)
		if err == nil {
			p.logger.Debug("event published to Kafka",
				zap.String("topic", msg.Topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
				zap.String("event_type", event.EventType()),
				zap.Int("attempt", attempt+1),
			)
			return nil
		}
		lastErr = err
		p.logger.Warn("failed to publish event to Kafka, retrying",
			zap.String("topic", msg.Topic),
			zap.String("event_type", event.EventType()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		if attempt < p.attempts-1 {
			delay := p.retryDelay(attempt)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("failed to publish %s after %d attempts: %w", event.EventType(), p.attempts, lastErr)
}

// buildMessage 事件轉為 Kafka 訊息
func (p *KafkaPublisher) buildMessage(event shared.DomainEvent) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicFor(event.EventType()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.EventType())},
			{Key: []byte("event-id"), Value: []byte(event.EventID())},
			{Key: []byte("timestamp"), Value: []byte(event.OccurredAt().UTC().Format(time.RFC3339))},
		},
	}
	if key := event.AggregateID(); key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	return msg, nil
}

// topicFor 依事件類型前綴決定 topic
func (p *KafkaPublisher) topicFor(eventType string) string {
	if strings.HasPrefix(eventType, "inventory.") {
		return p.cfg.TopicInventory
	}
	return p.cfg.TopicSales
}

// Close 關閉 producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// retryDelay baseDelay * 2^attempt，溢位或超過上限時為 maxRetryDelay
func (p *KafkaPublisher) retryDelay(attempt int) time.Duration {
	if p.baseDelay <= 0 {
		return 0
	}
	if attempt < 0 || attempt >= 63 {
		return maxRetryDelay
	}
	d := p.baseDelay << uint(attempt)
	if d>>uint(attempt) != p.baseDelay || d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}
