package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// BundleOperation 組裝或拆解的結果
type BundleOperation struct {
	OperationID string
	Cost        int64
	Histories   []StockHistory
}

// AssembleBundle 用構成品組裝 count 組組合商品
//
// 每個構成品扣除 Quantity*count，消耗的進貨成本合計成為組合商品的批次。
func AssembleBundle(storeID store.StoreID, bundle *Product, components []*Product, count int, now time.Time) (*BundleOperation, error) {
	ordered, err := resolveComponents(storeID, bundle, components, count)
	if err != nil {
		return nil, err
	}
	for i, c := range bundle.bundleComponents {
		need := c.Quantity * count
		if need > ordered[i].StockNumber() {
			return nil, ErrInsufficientStock.WithContext(
				"product_id", c.ProductID.String(),
				"requested", need,
				"available", ordered[i].StockNumber(),
			)
		}
	}

	op := &BundleOperation{OperationID: uuid.New().String()}
	for i, c := range bundle.bundleComponents {
		need := c.Quantity * count
		consumed, err := ordered[i].Withdraw(need, now)
		if err != nil {
			return nil, err
		}
		op.Cost += consumed.Total
		op.Histories = append(op.Histories, RecordStockChange(ordered[i], SourceBundle, op.OperationID, -need, now))
	}

	if err := bundle.Receive(count, SplitIntoLots(op.Cost, count, now), now); err != nil {
		return nil, err
	}
	op.Histories = append(op.Histories, RecordStockChange(bundle, SourceBundle, op.OperationID, count, now))
	return op, nil
}

// DisassembleBundle 拆解 count 組組合商品，成本依構成品售價比例退回
func DisassembleBundle(storeID store.StoreID, bundle *Product, components []*Product, count int, now time.Time) (*BundleOperation, error) {
	ordered, err := resolveComponents(storeID, bundle, components, count)
	if err != nil {
		return nil, err
	}
	if count > bundle.StockNumber() {
		return nil, ErrInsufficientStock.WithContext(
			"product_id", bundle.ID().String(),
			"requested", count,
			"available", bundle.StockNumber(),
		)
	}

	lines := make([]AllocationLine, len(ordered))
	for i, c := range bundle.bundleComponents {
		lines[i] = AllocationLine{SellPrice: ordered[i].SellPrice(), Count: c.Quantity * count}
	}

	op := &BundleOperation{OperationID: uuid.New().String()}
	consumed, err := bundle.Withdraw(count, now)
	if err != nil {
		return nil, err
	}
	op.Cost = consumed.Total
	op.Histories = append(op.Histories, RecordStockChange(bundle, SourceUnbundle, op.OperationID, -count, now))

	allocations, err := AllocateCost(consumed.Total, lines, now)
	if err != nil {
		return nil, err
	}
	for i := range ordered {
		if err := ordered[i].Receive(lines[i].Count, allocations[i].Lots, now); err != nil {
			return nil, err
		}
		op.Histories = append(op.Histories, RecordStockChange(ordered[i], SourceUnbundle, op.OperationID, lines[i].Count, now))
	}
	return op, nil
}

// resolveComponents 依組合商品設定的順序排列構成品
func resolveComponents(storeID store.StoreID, bundle *Product, components []*Product, count int) ([]*Product, error) {
	if bundle == nil {
		return nil, ErrProductNotFound
	}
	if !bundle.BelongsTo(storeID) {
		return nil, ErrProductNotFound.WithContext("product_id", bundle.ID().String(), "store_id", storeID.String())
	}
	if !bundle.IsBundle() {
		return nil, ErrNotBundle.WithContext("product_id", bundle.ID().String(), "kind", string(bundle.Kind()))
	}
	if count <= 0 {
		return nil, ErrInvalidQuantity.WithContext("count", count)
	}

	byID := make(map[ProductID]*Product, len(components))
	for _, p := range components {
		if p != nil {
			byID[p.ID()] = p
		}
	}
	ordered := make([]*Product, len(bundle.bundleComponents))
	for i, c := range bundle.bundleComponents {
		p, ok := byID[c.ProductID]
		if !ok {
			return nil, ErrProductNotFound.WithContext("product_id", c.ProductID.String())
		}
		if !p.BelongsTo(storeID) {
			return nil, ErrProductNotFound.WithContext("product_id", p.ID().String(), "store_id", storeID.String())
		}
		ordered[i] = p
	}
	return ordered, nil
}
