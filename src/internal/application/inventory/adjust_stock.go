package inventory

import (
	"context"
	"strings"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// AdjustStockCommand 手動調整庫存指令（Delta 可為負）
type AdjustStockCommand struct {
	StoreID   string
	ProductID string
	Delta     int
	Reason    string
}

// AdjustStockResult 調整結果
type AdjustStockResult struct {
	ProductID    string
	StockNumber  int
	ConsumedCost int64
}

// AdjustStockUseCase 手動調整庫存（盤點差異、破損等）
type AdjustStockUseCase struct {
	productRepo inventory.ProductRepository
	historyRepo inventory.StockHistoryRepository
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewAdjustStockUseCase 創建 Use Case 實例
func NewAdjustStockUseCase(
	productRepo inventory.ProductRepository,
	historyRepo inventory.StockHistoryRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		productRepo: productRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 執行庫存調整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, cmd AdjustStockCommand) (*AdjustStockResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	productID, err := inventory.ProductIDFromString(cmd.ProductID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(cmd.Reason)

	var (
		result *AdjustStockResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		p, err := uc.productRepo.FindByID(tx, productID)
		if err != nil {
			return err
		}
		if !p.BelongsTo(storeID) {
			return inventory.ErrProductNotFound.WithContext("product_id", cmd.ProductID, "store_id", cmd.StoreID)
		}

		consumed, err := p.Adjust(cmd.Delta, now)
		if err != nil {
			return err
		}
		if err := uc.productRepo.Update(tx, p); err != nil {
			return err
		}
		history := inventory.RecordStockChange(p, inventory.SourceAdjustment, reason, cmd.Delta, now)
		if err := uc.historyRepo.Append(tx, history); err != nil {
			return err
		}

		result = &AdjustStockResult{
			ProductID:    p.ID().String(),
			StockNumber:  p.StockNumber(),
			ConsumedCost: consumed.Total,
		}
		events.Add(inventory.NewStockAdjustedEvent(p, cmd.Delta, reason, now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}
