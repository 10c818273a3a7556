package points

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// CreatePointsAccount Use Case
// ===========================

// CreatePointsAccountCommand 為既有顧客開設點數帳戶
//
// 通常由登錄顧客時一併開設；此指令用於補開（例如匯入的顧客資料）。
type CreatePointsAccountCommand struct {
	StoreID    string
	CustomerID string
}

// CreatePointsAccountResult 開設結果
type CreatePointsAccountResult struct {
	AccountID      string
	CustomerID     string
	InitialBalance int
	CreatedAt      time.Time
}

// CreatePointsAccountUseCase 開設點數帳戶 Use Case
//
// 並發安全：不做 check-then-insert，依賴 (store_id, customer_id) 唯一約束，
// 重複時返回 points.ErrAccountAlreadyExists。
type CreatePointsAccountUseCase struct {
	accountRepo  points.PointsAccountRepository
	customerRepo customer.CustomerRepository
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewCreatePointsAccountUseCase 創建 Use Case 實例
func NewCreatePointsAccountUseCase(
	accountRepo points.PointsAccountRepository,
	customerRepo customer.CustomerRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *CreatePointsAccountUseCase {
	return &CreatePointsAccountUseCase{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 執行開設
//
// 錯誤處理：
// - 顧客不存在或屬於其他店舖 → customer.ErrCustomerNotFound
// - 已有帳戶 → points.ErrAccountAlreadyExists
func (uc *CreatePointsAccountUseCase) Execute(ctx context.Context, cmd CreatePointsAccountCommand) (*CreatePointsAccountResult, error) {
	storeID, customerID, err := parseOwner(cmd.StoreID, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	var (
		result *CreatePointsAccountResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		if err := checkCustomer(tx, uc.customerRepo, storeID, customerID); err != nil {
			return err
		}

		account, err := points.NewPointsAccount(storeID, customerID, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.accountRepo.Save(tx, account); err != nil {
			if errors.Is(err, points.ErrAccountAlreadyExists) {
				return fmt.Errorf("customer already has an account: %w", err)
			}
			return fmt.Errorf("failed to save account: %w", err)
		}
		events.Add(account.PullEvents()...)

		result = &CreatePointsAccountResult{
			AccountID:      account.AccountID().String(),
			CustomerID:     customerID.String(),
			InitialBalance: 0,
			CreatedAt:      account.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}

func parseOwner(storeIDStr, customerIDStr string) (store.StoreID, customer.CustomerID, error) {
	storeID, err := store.StoreIDFromString(storeIDStr)
	if err != nil {
		return store.StoreID{}, customer.CustomerID{}, err
	}
	customerID, err := customer.CustomerIDFromString(customerIDStr)
	if err != nil {
		return store.StoreID{}, customer.CustomerID{}, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	return storeID, customerID, nil
}

func checkCustomer(tx shared.TransactionContext, repo customer.CustomerRepository, storeID store.StoreID, id customer.CustomerID) error {
	c, err := repo.FindByID(tx, id)
	if err != nil {
		return err
	}
	if !c.StoreID().Equals(storeID) {
		return customer.ErrCustomerNotFound.WithContext("customer_id", id.String(), "store_id", storeID.String())
	}
	return nil
}
