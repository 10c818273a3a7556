package inventory

import (
	"context"
	"fmt"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// ReleaseOriginalPack Use Case
// ===========================

// ContentInput 開封取得的商品與數量
type ContentInput struct {
	ProductID string
	Count     int
}

// ReleaseOriginalPackCommand 開封原封包裝指令
//
// 輸入：
// - StoreID: 店舖 ID
// - PackProductID: 原封包裝商品 ID
// - PackCount: 開封數量
// - Contents: 開封後實際取得的商品（不可重複、不可為包裝本身）
type ReleaseOriginalPackCommand struct {
	StoreID       string
	PackProductID string
	PackCount     int
	Contents      []ContentInput
}

// ReleasedContent 開封內容結果
type ReleasedContent struct {
	ProductID     string
	Count         int
	AllocatedCost int64
	StockNumber   int
}

// ReleaseOriginalPackResult 開封結果
type ReleaseOriginalPackResult struct {
	OpeningID      string
	PackProductID  string
	PackStock      int
	TotalCost      int64
	Contents       []ReleasedContent
	HistoryEntries int
}

// ReleaseOriginalPackUseCase 開封原封包裝 Use Case
//
// 職責：
// 1. 轉換輸入為 Value Object
// 2. 在事務中載入包裝與內容商品，呼叫 inventory.ReleaseOriginalPack
// 3. 更新商品（樂觀鎖）、寫入庫存變動紀錄與開封紀錄
// 4. 事務提交後發布 inventory.pack_released
//
// 事務可能因死結或版本衝突重試，每次嘗試都重新載入商品。
type ReleaseOriginalPackUseCase struct {
	productRepo inventory.ProductRepository
	openingRepo inventory.PackOpeningRepository
	historyRepo inventory.StockHistoryRepository
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	recorder    common.Recorder
	clock       shared.Clock
}

// NewReleaseOriginalPackUseCase 創建 Use Case 實例
func NewReleaseOriginalPackUseCase(
	productRepo inventory.ProductRepository,
	openingRepo inventory.PackOpeningRepository,
	historyRepo inventory.StockHistoryRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	recorder common.Recorder,
	clock shared.Clock,
) *ReleaseOriginalPackUseCase {
	return &ReleaseOriginalPackUseCase{
		productRepo: productRepo,
		openingRepo: openingRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		recorder:    common.RecorderOrNop(recorder),
		clock:       clock,
	}
}

// Execute 執行開封
//
// 錯誤處理：
// - ID 格式錯誤 → Invalid*ID
// - 商品不存在 → ErrProductNotFound
// - 非原封包裝、庫存不足、內容無效 → inventory 領域錯誤
// - 版本衝突重試仍失敗 → shared.ErrConcurrentModification
func (uc *ReleaseOriginalPackUseCase) Execute(ctx context.Context, cmd ReleaseOriginalPackCommand) (*ReleaseOriginalPackResult, error) {
	// 1. 驗證並轉換 ID
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	packID, err := inventory.ProductIDFromString(cmd.PackProductID)
	if err != nil {
		return nil, err
	}
	contentIDs := make([]inventory.ProductID, len(cmd.Contents))
	for i, c := range cmd.Contents {
		id, err := inventory.ProductIDFromString(c.ProductID)
		if err != nil {
			return nil, err
		}
		contentIDs[i] = id
	}

	// 2. 在事務中執行
	var (
		result *ReleaseOriginalPackResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		pack, err := uc.productRepo.FindByID(tx, packID)
		if err != nil {
			return err
		}
		found, err := uc.productRepo.FindByIDs(tx, storeID, contentIDs)
		if err != nil {
			return fmt.Errorf("failed to load pack contents: %w", err)
		}
		byID := make(map[inventory.ProductID]*inventory.Product, len(found))
		for _, p := range found {
			byID[p.ID()] = p
		}

		contents := make([]inventory.ObtainedContent, len(cmd.Contents))
		for i, c := range cmd.Contents {
			p, ok := byID[contentIDs[i]]
			if !ok {
				return inventory.ErrProductNotFound.WithContext("product_id", c.ProductID)
			}
			contents[i] = inventory.ObtainedContent{Product: p, Count: c.Count}
		}

		release, err := inventory.ReleaseOriginalPack(storeID, pack, cmd.PackCount, contents, now)
		if err != nil {
			return err
		}

		// 3. 持久化：包裝 → 內容商品 → 變動紀錄 → 開封紀錄
		if err := uc.productRepo.Update(tx, pack); err != nil {
			return err
		}
		for _, c := range contents {
			if err := uc.productRepo.Update(tx, c.Product); err != nil {
				return err
			}
		}
		if err := uc.historyRepo.Append(tx, release.Histories...); err != nil {
			return fmt.Errorf("failed to append stock histories: %w", err)
		}
		if err := uc.openingRepo.Save(tx, release.Opening); err != nil {
			return fmt.Errorf("failed to save pack opening: %w", err)
		}

		result = toReleaseResult(release, pack, contents)
		events.Add(inventory.NewPackReleasedEvent(release.Opening))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. 提交後發布事件
	uc.recorder.PackReleased(cmd.StoreID)
	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}

func toReleaseResult(release *inventory.PackRelease, pack *inventory.Product, contents []inventory.ObtainedContent) *ReleaseOriginalPackResult {
	opening := release.Opening
	result := &ReleaseOriginalPackResult{
		OpeningID:      opening.ID().String(),
		PackProductID:  pack.ID().String(),
		PackStock:      pack.StockNumber(),
		TotalCost:      opening.TotalCost(),
		HistoryEntries: len(release.Histories),
	}
	for i, c := range opening.Contents() {
		result.Contents = append(result.Contents, ReleasedContent{
			ProductID:     c.ProductID.String(),
			Count:         c.Count,
			AllocatedCost: c.AllocatedCost,
			StockNumber:   contents[i].Product.StockNumber(),
		})
	}
	return result
}
