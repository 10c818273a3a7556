package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

var (
	_ shippingapp.MethodCache = (*RedisMethodCache)(nil)
	_ shippingapp.MethodCache = (*InMemoryMethodCache)(nil)
)

// RedisOptions Redis 連線設定
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewMethodCache 建立配送方式快取
//
// 未啟用 Redis 或 Ping 失敗時使用記憶體快取。
func NewMethodCache(enabled bool, opts RedisOptions, ttl time.Duration, logger *zap.Logger) shippingapp.MethodCache {
	if !enabled {
		logger.Info("Redis disabled, using in-memory shipping method cache")
		return NewInMemoryMethodCache(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		PoolSize:        10,
		MinIdleConns:    2,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, using in-memory shipping method cache",
			zap.String("addr", opts.Addr),
			zap.Error(err),
		)
		_ = client.Close()
		return NewInMemoryMethodCache(ttl)
	}

	logger.Info("Redis shipping method cache initialized",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
	)
	return NewRedisMethodCache(client, ttl, logger)
}

// ===========================
// RedisMethodCache
// ===========================

// RedisMethodCache 以 Redis 保存店舖的配送方式（JSON）
//
// Redis 錯誤只記錄，視為未命中。
type RedisMethodCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisMethodCache 建立 Redis 快取
func NewRedisMethodCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisMethodCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisMethodCache{client: client, ttl: ttl, logger: logger}
}

// Get 讀取快取
func (c *RedisMethodCache) Get(ctx context.Context, storeID store.StoreID) ([]*shipping.Method, bool) {
	data, err := c.client.Get(ctx, methodKey(storeID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("store_id", storeID.String()), zap.Error(err))
		}
		return nil, false
	}
	methods, err := decodeMethods(data)
	if err != nil {
		c.logger.Warn("discarding corrupted cache entry", zap.String("store_id", storeID.String()), zap.Error(err))
		c.Invalidate(ctx, storeID)
		return nil, false
	}
	return methods, true
}

// Set 寫入快取
func (c *RedisMethodCache) Set(ctx context.Context, storeID store.StoreID, methods []*shipping.Method) {
	data, err := encodeMethods(methods)
	if err != nil {
		c.logger.Warn("failed to encode shipping methods", zap.String("store_id", storeID.String()), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, methodKey(storeID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("store_id", storeID.String()), zap.Error(err))
	}
}

// Invalidate 刪除快取
func (c *RedisMethodCache) Invalidate(ctx context.Context, storeID store.StoreID) {
	if err := c.client.Del(ctx, methodKey(storeID)).Err(); err != nil {
		c.logger.Warn("redis delete failed", zap.String("store_id", storeID.String()), zap.Error(err))
	}
}

// Close 關閉連線
func (c *RedisMethodCache) Close() error {
	return c.client.Close()
}

// ===========================
// InMemoryMethodCache
// ===========================

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryMethodCache 單一程序內的快取
//
// 與 Redis 相同以 JSON 保存，讀取時重建聚合，呼叫端之間不共用實例。
type InMemoryMethodCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

// NewInMemoryMethodCache 建立記憶體快取
func NewInMemoryMethodCache(ttl time.Duration) *InMemoryMethodCache {
	return &InMemoryMethodCache{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Get 讀取快取（過期即刪除）
func (c *InMemoryMethodCache) Get(_ context.Context, storeID store.StoreID) ([]*shipping.Method, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := methodKey(storeID)
	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.data, key)
		return nil, false
	}
	methods, err := decodeMethods(entry.data)
	if err != nil {
		delete(c.data, key)
		return nil, false
	}
	return methods, true
}

// Set 寫入快取
func (c *InMemoryMethodCache) Set(_ context.Context, storeID store.StoreID, methods []*shipping.Method) {
	data, err := encodeMethods(methods)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[methodKey(storeID)] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate 刪除快取
func (c *InMemoryMethodCache) Invalidate(_ context.Context, storeID store.StoreID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, methodKey(storeID))
}
