package transaction

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
)

// ConsignedLine 委託商品的販賣明細（供委託結算記錄）
type ConsignedLine struct {
	ClientID    string
	ProductID   inventory.ProductID
	Quantity    int
	SalesAmount int64
}

// StockSettlement ApplyToStock 的結果
type StockSettlement struct {
	WholesaleCost int64
	Histories     []inventory.StockHistory
	Consigned     []ConsignedLine
}

// ApplyToStock 依交易明細異動庫存
//
// 販賣：依 FIFO 出庫並把成本寫回明細；買取：以明細金額入庫成為新進貨批次。
// 同一商品可出現在多筆明細，庫存需足夠所有明細合計，否則不做任何變更。
func ApplyToStock(t *Transaction, products []*inventory.Product, now time.Time) (*StockSettlement, error) {
	if t.status != StatusDraft {
		return nil, ErrNotDraft.WithContext("transaction_id", t.id.String(), "status", string(t.status))
	}

	byID := make(map[inventory.ProductID]*inventory.Product, len(products))
	for _, p := range products {
		if p != nil {
			byID[p.ID()] = p
		}
	}

	demand := make(map[inventory.ProductID]int, len(t.lines))
	for _, l := range t.lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, inventory.ErrProductNotFound.WithContext("product_id", l.ProductID.String())
		}
		if !p.BelongsTo(t.storeID) {
			return nil, inventory.ErrProductNotFound.WithContext("product_id", p.ID().String(), "store_id", t.storeID.String())
		}
		demand[l.ProductID] += l.Quantity
	}
	if t.kind == KindSell {
		for id, need := range demand {
			if stock := byID[id].StockNumber(); need > stock {
				return nil, inventory.ErrInsufficientStock.WithContext(
					"product_id", id.String(),
					"requested", need,
					"available", stock,
				)
			}
		}
	}

	settlement := &StockSettlement{}
	sourceID := t.id.String()
	for i := range t.lines {
		l := &t.lines[i]
		p := byID[l.ProductID]

		switch t.kind {
		case KindSell:
			consumed, err := p.Withdraw(l.Quantity, now)
			if err != nil {
				return nil, err
			}
			l.WholesaleCost = consumed.Total
			settlement.WholesaleCost += consumed.Total
			settlement.Histories = append(settlement.Histories,
				inventory.RecordStockChange(p, inventory.SourceSell, sourceID, -l.Quantity, now))
			if p.IsConsigned() {
				settlement.Consigned = append(settlement.Consigned, ConsignedLine{
					ClientID:    p.ConsignmentClientID(),
					ProductID:   p.ID(),
					Quantity:    l.Quantity,
					SalesAmount: l.Amount(),
				})
			}

		case KindBuy:
			lots := inventory.SplitIntoLots(l.Amount(), l.Quantity, now)
			if err := p.Receive(l.Quantity, lots, now); err != nil {
				return nil, err
			}
			settlement.Histories = append(settlement.Histories,
				inventory.RecordStockChange(p, inventory.SourceBuy, sourceID, l.Quantity, now))
		}
	}
	return settlement, nil
}

// ProductIDs 明細中不重複的商品 ID（依首次出現順序）
func (t *Transaction) ProductIDs() []inventory.ProductID {
	seen := make(map[inventory.ProductID]bool, len(t.lines))
	ids := make([]inventory.ProductID, 0, len(t.lines))
	for _, l := range t.lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}
