package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 驗證事務管理器的核心保證：
// 1. 錯誤時回滾，成功時提交
// 2. panic 時回滾並重新拋出
// 3. 多個操作在同一事務中原子完成
// 4. 可重試錯誤會重新執行整個事務

type recordingObserver struct {
	attempts []int
}

func (o *recordingObserver) TransactionRetried(attempt int, _ error) {
	o.attempts = append(o.attempts, attempt)
}

// newTestTxManager 替換 sleep，重試不實際等待
func newTestTxManager(t *testing.T, opts ...TransactionManagerOption) (*GORMTransactionManager, *[]time.Duration) {
	t.Helper()
	db := setupTestDB(t)
	m := NewGORMTransactionManager(db, opts...)
	var delays []time.Duration
	m.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return m, &delays
}

func newTestAccount(t *testing.T, storeID store.StoreID) *points.PointsAccount {
	t.Helper()
	account, err := points.NewPointsAccount(storeID, customer.NewCustomerID(), testNow)
	require.NoError(t, err)
	return account
}

func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewPointsAccountRepository(db)
	account := newTestAccount(t, store.NewStoreID())

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		require.NoError(t, repo.Save(tx, account), "Save should succeed within transaction")
		return errors.New("simulated error - trigger rollback")
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())

	_, err = repo.FindByID(nil, account.AccountID())
	assert.ErrorIs(t, err, points.ErrAccountNotFound, "account should not exist after rollback")
}

func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewPointsAccountRepository(db)
	account := newTestAccount(t, store.NewStoreID())

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		return repo.Save(tx, account)
	})

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByCustomer(nil, account.StoreID(), account.CustomerID())
	require.NoError(t, err, "account should exist after commit")
	assert.Equal(t, account.AccountID().String(), found.AccountID().String())
}

func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewPointsAccountRepository(db)
	account := newTestAccount(t, store.NewStoreID())

	// Act & Assert
	assert.Panics(t, func() {
		_ = txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
			require.NoError(t, repo.Save(tx, account))
			panic("simulated panic - should rollback")
		})
	}, "panic should be re-thrown")

	_, err := repo.FindByID(nil, account.AccountID())
	assert.ErrorIs(t, err, points.ErrAccountNotFound, "account should not exist after panic rollback")
}

func TestMultipleOperations_AtomicRollback(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewPointsAccountRepository(db)
	storeID := store.NewStoreID()
	account1 := newTestAccount(t, storeID)
	account2 := newTestAccount(t, storeID)

	// Act: 兩個 Save 都成功，後續操作失敗
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		if err := repo.Save(tx, account1); err != nil {
			return err
		}
		if err := repo.Save(tx, account2); err != nil {
			return err
		}
		return errors.New("second operation failed")
	})

	// Assert
	require.Error(t, err)
	_, err = repo.FindByID(nil, account1.AccountID())
	assert.ErrorIs(t, err, points.ErrAccountNotFound)
	_, err = repo.FindByID(nil, account2.AccountID())
	assert.ErrorIs(t, err, points.ErrAccountNotFound)
}

func TestInTransaction_RetryableErrors_RetriesUntilSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "樂觀鎖衝突", err: shared.ErrConcurrentModification.WithContext("table", "products")},
		{name: "資料庫鎖定", err: shared.ErrRepository.WithContext("database_error", "database is locked")},
		{name: "死結", err: errors.New("Error 1213: Deadlock found when trying to get lock")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			observer := &recordingObserver{}
			txManager, delays := newTestTxManager(t, WithRetryObserver(observer))
			calls := 0

			// Act: 前兩次失敗，第三次成功
			err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
				calls++
				if calls < 3 {
					return tt.err
				}
				return nil
			})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 3, calls)
			assert.Equal(t, []int{1, 2}, observer.attempts)
			require.Len(t, *delays, 2)
			assert.GreaterOrEqual(t, (*delays)[1], 2*DefaultRetryBaseDelay)
		})
	}
}

func TestBackoff_GrowsAndStaysWithinMaxDelay(t *testing.T) {
	tests := []struct {
		name    string
		opts    []TransactionManagerOption
		attempt int
		wantMin time.Duration
		wantMax time.Duration
	}{
		{name: "第一次重試", attempt: 0, wantMin: DefaultRetryBaseDelay, wantMax: DefaultRetryBaseDelay * 3 / 2},
		{name: "第三次重試", attempt: 2, wantMin: 4 * DefaultRetryBaseDelay, wantMax: 6 * DefaultRetryBaseDelay},
		{name: "超過上限", attempt: 10, wantMin: DefaultRetryMaxDelay, wantMax: DefaultRetryMaxDelay},
		{name: "位移溢位", attempt: 40, wantMin: DefaultRetryMaxDelay, wantMax: DefaultRetryMaxDelay},
		{name: "位移超過位元數", attempt: 100, wantMin: DefaultRetryMaxDelay, wantMax: DefaultRetryMaxDelay},
		{
			name:    "自訂上限",
			opts:    []TransactionManagerOption{WithRetryBaseDelay(time.Hour), WithRetryMaxDelay(2 * time.Second)},
			attempt: 5,
			wantMin: 2 * time.Second,
			wantMax: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			txManager := NewGORMTransactionManager(nil, tt.opts...)

			// Act：抖動為隨機值，多次取樣
			for i := 0; i < 20; i++ {
				delay := txManager.backoff(tt.attempt)

				// Assert
				assert.Positive(t, int64(delay))
				assert.GreaterOrEqual(t, delay, tt.wantMin)
				assert.LessOrEqual(t, delay, tt.wantMax)
			}
		})
	}
}

func TestInTransaction_ManyRetries_DelaysStayBounded(t *testing.T) {
	// Arrange
	txManager, delays := newTestTxManager(t, WithMaxRetries(70))
	calls := 0

	// Act：每次都回傳樂觀鎖衝突直到重試用盡
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		calls++
		return shared.ErrConcurrentModification
	})

	// Assert
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Equal(t, 71, calls)
	require.Len(t, *delays, 70)
	for i, d := range *delays {
		assert.Positive(t, int64(d), "retry %d", i+1)
		assert.LessOrEqual(t, d, DefaultRetryMaxDelay, "retry %d", i+1)
	}
}

func TestInTransaction_RetryCommitsOnlyLastAttempt(t *testing.T) {
	// Arrange
	txManager, _ := newTestTxManager(t)
	repo := NewPointsAccountRepository(txManager.db)
	storeID := store.NewStoreID()
	customerID := customer.NewCustomerID()
	calls := 0

	// Act: 每次嘗試都保存同一顧客的新帳戶，第一次回滾後重試
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		calls++
		account, err := points.NewPointsAccount(storeID, customerID, testNow)
		if err != nil {
			return err
		}
		if err := repo.Save(tx, account); err != nil {
			return err
		}
		if calls == 1 {
			return shared.ErrConcurrentModification
		}
		return nil
	})

	// Assert: 唯一約束沒有被第一次嘗試的殘留資料觸發
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	_, err = repo.FindByCustomer(nil, storeID, customerID)
	assert.NoError(t, err)
}

func TestInTransaction_NonRetryableError_ReturnsImmediately(t *testing.T) {
	// Arrange
	observer := &recordingObserver{}
	txManager, delays := newTestTxManager(t, WithRetryObserver(observer))
	calls := 0

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		calls++
		return points.ErrInsufficientPoints
	})

	// Assert: 原樣返回，不包裝
	assert.Equal(t, 1, calls)
	assert.Same(t, points.ErrInsufficientPoints, err)
	assert.Empty(t, observer.attempts)
	assert.Empty(t, *delays)
}

func TestInTransaction_RetriesExhausted_WrapsLastError(t *testing.T) {
	// Arrange
	txManager, delays := newTestTxManager(t, WithMaxRetries(2))
	calls := 0

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		calls++
		return shared.ErrConcurrentModification
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, *delays, 2)
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestInTransaction_ContextCanceledDuringBackoff_Aborts(t *testing.T) {
	// Arrange
	txManager, _ := newTestTxManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	txManager.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	calls := 0

	// Act
	err := txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		calls++
		return shared.ErrConcurrentModification
	})

	// Assert
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInTransaction_CanceledContext_DoesNotRun(t *testing.T) {
	// Arrange
	txManager, _ := newTestTxManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false

	// Act
	err := txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		called = true
		return nil
	})

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRepository_NilContext_AutoCommitMode(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewPointsAccountRepository(db)
	account := newTestAccount(t, store.NewStoreID())

	// Act: 不經過事務管理器，直接以 nil 寫入與讀取
	require.NoError(t, repo.Save(nil, account))
	found, err := repo.FindByID(nil, account.AccountID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, account.CustomerID().String(), found.CustomerID().String())
}
