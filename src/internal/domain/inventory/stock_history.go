package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// StockSourceKind 庫存變動來源
type StockSourceKind string

const (
	SourcePackOpening StockSourceKind = "pack_opening"
	SourceBundle      StockSourceKind = "bundle"
	SourceUnbundle    StockSourceKind = "unbundle"
	SourceSell        StockSourceKind = "sell"
	SourceBuy         StockSourceKind = "buy"
	SourceReservation StockSourceKind = "reservation"
	SourceEcOrder     StockSourceKind = "ec_order"
	SourceAdjustment  StockSourceKind = "adjustment"
)

// StockHistory 庫存變動紀錄（只追加）
type StockHistory struct {
	ID          string
	StoreID     store.StoreID
	ProductID   ProductID
	SourceKind  StockSourceKind
	SourceID    string
	Delta       int
	ResultStock int
	CreatedAt   time.Time
}

// RecordStockChange 依商品目前庫存建立變動紀錄（在庫存操作之後呼叫）
func RecordStockChange(p *Product, kind StockSourceKind, sourceID string, delta int, now time.Time) StockHistory {
	return StockHistory{
		ID:          uuid.New().String(),
		StoreID:     p.StoreID(),
		ProductID:   p.ID(),
		SourceKind:  kind,
		SourceID:    sourceID,
		Delta:       delta,
		ResultStock: p.StockNumber(),
		CreatedAt:   now,
	}
}
