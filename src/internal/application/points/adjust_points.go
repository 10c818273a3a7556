package points

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// AdjustPointsCommand 店員手動調整點數
//
// Delta > 0 加點、Delta < 0 扣點；Reason 記錄於事件 SourceID。
type AdjustPointsCommand struct {
	StoreID    string
	CustomerID string
	Delta      int
	Reason     string
}

// AdjustPointsUseCase 手動調整點數 Use Case
type AdjustPointsUseCase struct {
	accountRepo points.PointsAccountRepository
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewAdjustPointsUseCase 創建 Use Case 實例
func NewAdjustPointsUseCase(
	accountRepo points.PointsAccountRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *AdjustPointsUseCase {
	return &AdjustPointsUseCase{
		accountRepo: accountRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 執行調整
//
// 扣點超過可用點數返回 points.ErrInsufficientPoints；Delta 為 0 返回 shared.ErrInvalidInput。
func (uc *AdjustPointsUseCase) Execute(ctx context.Context, cmd AdjustPointsCommand) (*GetPointsBalanceResult, error) {
	storeID, customerID, err := parseOwner(cmd.StoreID, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if cmd.Delta == 0 {
		return nil, shared.ErrInvalidInput.WithContext("delta", 0)
	}
	magnitude := cmd.Delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	amount, err := points.NewPointsAmount(magnitude)
	if err != nil {
		return nil, err
	}

	var (
		result *GetPointsBalanceResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		account, err := uc.accountRepo.FindByCustomer(tx, storeID, customerID)
		if err != nil {
			return err
		}
		if cmd.Delta > 0 {
			err = account.EarnPoints(amount, points.SourceManual, cmd.Reason, now)
		} else {
			err = account.DeductPoints(amount, points.SourceManual, cmd.Reason, now)
		}
		if err != nil {
			return err
		}
		if err := uc.accountRepo.Update(tx, account); err != nil {
			return err
		}
		events.Add(account.PullEvents()...)
		result = toBalance(account)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}
