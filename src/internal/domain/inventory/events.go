package inventory

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// PackReleasedEvent 原封包裝已開封
type PackReleasedEvent struct {
	shared.EventBase
	StoreID       string                `json:"store_id"`
	PackProductID string                `json:"pack_product_id"`
	PackCount     int                   `json:"pack_count"`
	TotalCost     int64                 `json:"total_cost"`
	Contents      []PackReleasedContent `json:"contents"`
}

// PackReleasedContent 事件中的開封內容
type PackReleasedContent struct {
	ProductID     string `json:"product_id"`
	Count         int    `json:"count"`
	AllocatedCost int64  `json:"allocated_cost"`
}

// NewPackReleasedEvent 由開封紀錄建立事件
func NewPackReleasedEvent(o *PackOpening) *PackReleasedEvent {
	contents := make([]PackReleasedContent, 0, len(o.Contents()))
	for _, c := range o.Contents() {
		contents = append(contents, PackReleasedContent{
			ProductID:     c.ProductID.String(),
			Count:         c.Count,
			AllocatedCost: c.AllocatedCost,
		})
	}
	return &PackReleasedEvent{
		EventBase:     shared.NewEventBase("inventory.pack_released", o.ID().String(), o.OpenedAt()),
		StoreID:       o.StoreID().String(),
		PackProductID: o.PackProductID().String(),
		PackCount:     o.PackCount(),
		TotalCost:     o.TotalCost(),
		Contents:      contents,
	}
}

// BundleChangedEvent 組合商品組裝或拆解
type BundleChangedEvent struct {
	shared.EventBase
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Count     int    `json:"count"`
	Cost      int64  `json:"cost"`
	Assembled bool   `json:"assembled"`
}

// NewBundleChangedEvent 建立組合商品事件
func NewBundleChangedEvent(bundle *Product, count int, cost int64, assembled bool, at time.Time) *BundleChangedEvent {
	eventType := "inventory.bundle_disassembled"
	if assembled {
		eventType = "inventory.bundle_assembled"
	}
	return &BundleChangedEvent{
		EventBase: shared.NewEventBase(eventType, bundle.ID().String(), at),
		StoreID:   bundle.StoreID().String(),
		ProductID: bundle.ID().String(),
		Count:     count,
		Cost:      cost,
		Assembled: assembled,
	}
}

// StockAdjustedEvent 手動調整庫存
type StockAdjustedEvent struct {
	shared.EventBase
	StoreID     string `json:"store_id"`
	ProductID   string `json:"product_id"`
	Delta       int    `json:"delta"`
	ResultStock int    `json:"result_stock"`
	Reason      string `json:"reason"`
}

// NewStockAdjustedEvent 建立庫存調整事件
func NewStockAdjustedEvent(p *Product, delta int, reason string, at time.Time) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		EventBase:   shared.NewEventBase("inventory.stock_adjusted", p.ID().String(), at),
		StoreID:     p.StoreID().String(),
		ProductID:   p.ID().String(),
		Delta:       delta,
		ResultStock: p.StockNumber(),
		Reason:      reason,
	}
}
