package inventory

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Bundle Use Cases
// ===========================

// BundleCommand 組裝／拆解組合商品指令
type BundleCommand struct {
	StoreID  string
	BundleID string
	Count    int
}

// BundleResult 組裝／拆解結果
type BundleResult struct {
	OperationID string
	BundleID    string
	BundleStock int
	Cost        int64
	Components  []ComponentStock
}

// ComponentStock 構成品異動後庫存
type ComponentStock struct {
	ProductID   string
	StockNumber int
}

type bundleFunc func(store.StoreID, *inventory.Product, []*inventory.Product, int, time.Time) (*inventory.BundleOperation, error)

// BundleUseCase 組合商品組裝與拆解
type BundleUseCase struct {
	productRepo inventory.ProductRepository
	historyRepo inventory.StockHistoryRepository
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewBundleUseCase 創建 Use Case 實例
func NewBundleUseCase(
	productRepo inventory.ProductRepository,
	historyRepo inventory.StockHistoryRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *BundleUseCase {
	return &BundleUseCase{
		productRepo: productRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Assemble 以構成品組裝 Count 組
func (uc *BundleUseCase) Assemble(ctx context.Context, cmd BundleCommand) (*BundleResult, error) {
	return uc.run(ctx, cmd, inventory.AssembleBundle, true)
}

// Disassemble 拆解 Count 組，構成品回到庫存
func (uc *BundleUseCase) Disassemble(ctx context.Context, cmd BundleCommand) (*BundleResult, error) {
	return uc.run(ctx, cmd, inventory.DisassembleBundle, false)
}

func (uc *BundleUseCase) run(ctx context.Context, cmd BundleCommand, apply bundleFunc, assembled bool) (*BundleResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	bundleID, err := inventory.ProductIDFromString(cmd.BundleID)
	if err != nil {
		return nil, err
	}

	var (
		result *BundleResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		bundle, err := uc.productRepo.FindByID(tx, bundleID)
		if err != nil {
			return err
		}
		ids := make([]inventory.ProductID, 0, len(bundle.BundleComponents()))
		for _, c := range bundle.BundleComponents() {
			ids = append(ids, c.ProductID)
		}
		components, err := uc.productRepo.FindByIDs(tx, storeID, ids)
		if err != nil {
			return err
		}

		op, err := apply(storeID, bundle, components, cmd.Count, now)
		if err != nil {
			return err
		}

		if err := uc.productRepo.Update(tx, bundle); err != nil {
			return err
		}
		for _, p := range components {
			if err := uc.productRepo.Update(tx, p); err != nil {
				return err
			}
		}
		if err := uc.historyRepo.Append(tx, op.Histories...); err != nil {
			return err
		}

		result = &BundleResult{
			OperationID: op.OperationID,
			BundleID:    bundle.ID().String(),
			BundleStock: bundle.StockNumber(),
			Cost:        op.Cost,
		}
		for _, p := range components {
			result.Components = append(result.Components, ComponentStock{
				ProductID:   p.ID().String(),
				StockNumber: p.StockNumber(),
			})
		}
		events.Add(inventory.NewBundleChangedEvent(bundle, cmd.Count, op.Cost, assembled, now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}
