package messaging

import (
	"go.uber.org/zap"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// Publisher 可關閉的事件發布器
type Publisher interface {
	shared.EventPublisher
	Close() error
}

// NewPublisher 啟用時建立 Kafka 發布器，連線失敗則退回記憶體發布器
func NewPublisher(enabled bool, cfg KafkaConfig, logger *zap.Logger, opts ...Option) Publisher {
	if !enabled {
		logger.Info("Kafka disabled, using in-memory event publisher")
		return NewInMemoryPublisher(logger)
	}
	p, err := NewKafkaPublisher(cfg, logger, opts...)
	if err != nil {
		logger.Warn("failed to initialize Kafka publisher, using in-memory fallback",
			zap.Strings("brokers", cfg.Brokers),
			zap.Error(err),
		)
		return NewInMemoryPublisher(logger)
	}
	logger.Info("Kafka event publisher initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_inventory", cfg.TopicInventory),
		zap.String("topic_sales", cfg.TopicSales),
	)
	return p
}
