package inventory

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// PackOpening 開封紀錄
// ===========================

// PackOpeningContent 開封得到的商品與分攤成本
type PackOpeningContent struct {
	ProductID     ProductID      `json:"product_id"`
	Count         int            `json:"count"`
	AllocatedCost int64          `json:"allocated_cost"`
	Lots          []WholesaleLot `json:"lots"`
}

// PackOpening 原封包裝開封紀錄（建立後不可變）
type PackOpening struct {
	id            PackOpeningID
	storeID       store.StoreID
	packProductID ProductID
	packCount     int
	totalCost     int64
	contents      []PackOpeningContent
	openedAt      time.Time
}

// ReconstructPackOpening 從持久化存儲重建開封紀錄
func ReconstructPackOpening(
	id PackOpeningID,
	storeID store.StoreID,
	packProductID ProductID,
	packCount int,
	totalCost int64,
	contents []PackOpeningContent,
	openedAt time.Time,
) (*PackOpening, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidPackOpeningID.WithContext("reason", "invalid pack opening ID in database")
	}
	return &PackOpening{
		id:            id,
		storeID:       storeID,
		packProductID: packProductID,
		packCount:     packCount,
		totalCost:     totalCost,
		contents:      append([]PackOpeningContent(nil), contents...),
		openedAt:      openedAt,
	}, nil
}

func (o *PackOpening) ID() PackOpeningID        { return o.id }
func (o *PackOpening) StoreID() store.StoreID   { return o.storeID }
func (o *PackOpening) PackProductID() ProductID { return o.packProductID }
func (o *PackOpening) PackCount() int           { return o.packCount }
func (o *PackOpening) TotalCost() int64         { return o.totalCost }
func (o *PackOpening) OpenedAt() time.Time      { return o.openedAt }

// Contents 開封內容
func (o *PackOpening) Contents() []PackOpeningContent {
	return append([]PackOpeningContent(nil), o.contents...)
}

// ===========================
// ReleaseOriginalPack 領域服務
// ===========================

// ObtainedContent 開封後實際取得的商品
type ObtainedContent struct {
	Product *Product
	Count   int
}

// PackRelease 開封結果
type PackRelease struct {
	Opening   *PackOpening
	Histories []StockHistory
}

// ReleaseOriginalPack 開封原封包裝，把包裝成本分攤到取得的商品
//
// 1. 扣除包裝庫存，依 FIFO 取得包裝的進貨成本
// 2. 依各內容商品 SellPrice*Count 分攤成本
// 3. 內容商品以分攤後的批次入庫
// 4. 產生庫存變動紀錄（pack_opening）
//
// 任何驗證失敗都不會修改商品狀態。
func ReleaseOriginalPack(
	storeID store.StoreID,
	pack *Product,
	packCount int,
	contents []ObtainedContent,
	now time.Time,
) (*PackRelease, error) {
	if err := validateRelease(storeID, pack, packCount, contents); err != nil {
		return nil, err
	}

	lines := make([]AllocationLine, len(contents))
	for i, c := range contents {
		lines[i] = AllocationLine{SellPrice: c.Product.SellPrice(), Count: c.Count}
	}

	cost, err := pack.Withdraw(packCount, now)
	if err != nil {
		return nil, err
	}

	allocations, err := AllocateCost(cost.Total, lines, now)
	if err != nil {
		return nil, err
	}

	opening := &PackOpening{
		id:            NewPackOpeningID(),
		storeID:       storeID,
		packProductID: pack.ID(),
		packCount:     packCount,
		totalCost:     cost.Total,
		contents:      make([]PackOpeningContent, 0, len(contents)),
		openedAt:      now,
	}
	sourceID := opening.id.String()

	histories := make([]StockHistory, 0, len(contents)+1)
	histories = append(histories, RecordStockChange(pack, SourcePackOpening, sourceID, -packCount, now))

	for i, c := range contents {
		if err := c.Product.Receive(c.Count, allocations[i].Lots, now); err != nil {
			return nil, err
		}
		opening.contents = append(opening.contents, PackOpeningContent{
			ProductID:     c.Product.ID(),
			Count:         c.Count,
			AllocatedCost: allocations[i].Amount,
			Lots:          allocations[i].Lots,
		})
		histories = append(histories, RecordStockChange(c.Product, SourcePackOpening, sourceID, c.Count, now))
	}

	return &PackRelease{Opening: opening, Histories: histories}, nil
}

func validateRelease(storeID store.StoreID, pack *Product, packCount int, contents []ObtainedContent) error {
	if pack == nil {
		return ErrProductNotFound
	}
	if !pack.BelongsTo(storeID) {
		return ErrProductNotFound.WithContext("product_id", pack.ID().String(), "store_id", storeID.String())
	}
	if !pack.IsOriginalPack() {
		return ErrNotOriginalPack.WithContext("product_id", pack.ID().String(), "kind", string(pack.Kind()))
	}
	if packCount <= 0 {
		return ErrInvalidQuantity.WithContext("pack_count", packCount)
	}
	if packCount > pack.StockNumber() {
		return ErrInsufficientStock.WithContext(
			"product_id", pack.ID().String(),
			"requested", packCount,
			"available", pack.StockNumber(),
		)
	}
	if len(contents) == 0 {
		return ErrInvalidPackContents.WithContext("reason", "contents are empty")
	}

	seen := make(map[ProductID]bool, len(contents))
	for _, c := range contents {
		if c.Product == nil {
			return ErrProductNotFound
		}
		id := c.Product.ID()
		if c.Count <= 0 {
			return ErrInvalidPackContents.WithContext("product_id", id.String(), "count", c.Count)
		}
		if id.Equals(pack.ID()) {
			return ErrInvalidPackContents.WithContext("reason", "pack cannot contain itself")
		}
		if !c.Product.BelongsTo(storeID) {
			return ErrProductNotFound.WithContext("product_id", id.String(), "store_id", storeID.String())
		}
		if c.Product.IsOriginalPack() {
			return ErrInvalidPackContents.WithContext("reason", "content cannot be an original pack", "product_id", id.String())
		}
		if seen[id] {
			return ErrInvalidPackContents.WithContext("reason", "duplicated content", "product_id", id.String())
		}
		seen[id] = true
	}
	return nil
}
