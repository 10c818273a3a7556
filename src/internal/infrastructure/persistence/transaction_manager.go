package persistence

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager 實作
// ===========================

const (
	// DefaultMaxRetries 首次執行之外的最大重試次數
	DefaultMaxRetries = 3
	// DefaultRetryBaseDelay 第一次重試前的基本等待時間
	DefaultRetryBaseDelay = 50 * time.Millisecond
	// DefaultRetryMaxDelay 單次重試等待的上限（含抖動）
	DefaultRetryMaxDelay = 5 * time.Second
)

// RetryObserver 事務重試通知（指標用）
type RetryObserver interface {
	TransactionRetried(attempt int, err error)
}

// GORMTransactionManager 以 GORM 事務實作 shared.TransactionManager
//
// 保證：
// 1. fn 返回 nil 時提交，返回錯誤時回滾
// 2. fn panic 時回滾並重新 panic（由 gorm.DB.Transaction 處理）
// 3. 死結、序列化失敗、資料庫鎖定與樂觀鎖衝突時重新執行 fn，
//    等待 base * 2^attempt 加上最多 50% 的隨機抖動，且不超過 maxDelay
// 4. 其他錯誤原樣返回，不重試
type GORMTransactionManager struct {
	db         *gorm.DB
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
	observer   RetryObserver

	// sleep 可在測試中替換
	sleep func(ctx context.Context, d time.Duration) error
}

// TransactionManagerOption 設定選項
type TransactionManagerOption func(*GORMTransactionManager)

// WithMaxRetries 設定最大重試次數（負數視為 0）
func WithMaxRetries(n int) TransactionManagerOption {
	return func(m *GORMTransactionManager) {
		if n < 0 {
			n = 0
		}
		m.maxRetries = n
	}
}

// WithRetryBaseDelay 設定重試基本等待時間
func WithRetryBaseDelay(d time.Duration) TransactionManagerOption {
	return func(m *GORMTransactionManager) {
		if d > 0 {
			m.baseDelay = d
		}
	}
}

// WithRetryMaxDelay 設定單次重試等待上限
func WithRetryMaxDelay(d time.Duration) TransactionManagerOption {
	return func(m *GORMTransactionManager) {
		if d > 0 {
			m.maxDelay = d
		}
	}
}

// WithLogger 設定 logger（重試以 WARN 記錄）
func WithLogger(logger *zap.Logger) TransactionManagerOption {
	return func(m *GORMTransactionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRetryObserver 設定重試觀察者
func WithRetryObserver(o RetryObserver) TransactionManagerOption {
	return func(m *GORMTransactionManager) {
		m.observer = o
	}
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB, opts ...TransactionManagerOption) *GORMTransactionManager {
	m := &GORMTransactionManager{
		db:         db,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultRetryBaseDelay,
		maxDelay:   DefaultRetryMaxDelay,
		logger:     zap.NewNop(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InTransaction 在事務中執行 fn，必要時重試
//
// fn 可能被執行多次，呼叫端不得在 fn 外累積副作用。
// 重試用盡時返回最後一次錯誤（包裝嘗試次數，errors.Is 仍可判斷）。
func (m *GORMTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	attempts := m.maxRetries + 1
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		delay := m.backoff(attempt)
		m.logger.Warn("retrying transaction",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if m.observer != nil {
			m.observer.TransactionRetried(attempt+1, err)
		}
		if sleepErr := m.sleep(ctx, delay); sleepErr != nil {
			return fmt.Errorf("transaction retry aborted: %w", sleepErr)
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", attempts, err)
}

func (m *GORMTransactionManager) runOnce(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMTransactionContext(tx))
	})
}

// backoff base * 2^attempt + [0, 50%) 抖動，上限 maxDelay
//
// 位移溢位（或超過上限）時直接使用 maxDelay。
func (m *GORMTransactionManager) backoff(attempt int) time.Duration {
	delay := m.maxDelay
	if attempt >= 0 && attempt < 63 {
		if d := m.baseDelay << uint(attempt); d>>uint(attempt) == m.baseDelay && d < m.maxDelay {
			delay = d
		}
	}
	if half := int64(delay / 2); half > 0 {
		delay += time.Duration(rand.Int63n(half))
	}
	if delay > m.maxDelay {
		delay = m.maxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
