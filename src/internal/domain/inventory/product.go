package inventory

import (
	"strings"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 值對象
// ===========================

// ProductKind 商品種類
type ProductKind string

const (
	KindNormal       ProductKind = "normal"
	KindOriginalPack ProductKind = "original_pack"
	KindBundle       ProductKind = "bundle"
)

// IsValid 檢查是否為已知種類
func (k ProductKind) IsValid() bool {
	switch k {
	case KindNormal, KindOriginalPack, KindBundle:
		return true
	}
	return false
}

// WholesaleLot 進貨批次（FIFO 出庫）
type WholesaleLot struct {
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	ArrivedAt time.Time `json:"arrived_at"`
}

// Amount 批次總成本
func (l WholesaleLot) Amount() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// BundleComponent 組合商品的構成品
type BundleComponent struct {
	ProductID ProductID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ConsumedCost 出庫時消耗的進貨成本
type ConsumedCost struct {
	Total int64
	Lots  []WholesaleLot
}

// ===========================
// Product 聚合根
// ===========================

// Product 商品聚合根
//
// 不變條件：
// - stockNumber >= 0
// - 所有 wholesaleLots 的數量合計 <= stockNumber（超出批次的庫存以 BuyPrice 計價）
// - bundle 商品必須有構成品；其他種類不能有構成品
type Product struct {
	id                  ProductID
	storeID             store.StoreID
	name                string
	sellPrice           int64
	buyPrice            int64
	stockNumber         int
	weight              int
	kind                ProductKind
	ecEnabled           bool
	consignmentClientID string
	wholesaleLots       []WholesaleLot
	bundleComponents    []BundleComponent
	createdAt           time.Time
	updatedAt           time.Time
	version             int
}

// ProductSpec 建立商品的參數
type ProductSpec struct {
	Name                string
	SellPrice           int64
	BuyPrice            int64
	Weight              int
	Kind                ProductKind
	EcEnabled           bool
	ConsignmentClientID string
	BundleComponents    []BundleComponent
}

// NewProduct 建立新商品（初始庫存 0）
func NewProduct(storeID store.StoreID, spec ProductSpec, now time.Time) (*Product, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	id := NewProductID()
	if err := validateSpec(id, spec); err != nil {
		return nil, err
	}
	return &Product{
		id:                  id,
		storeID:             storeID,
		name:                strings.TrimSpace(spec.Name),
		sellPrice:           spec.SellPrice,
		buyPrice:            spec.BuyPrice,
		weight:              spec.Weight,
		kind:                spec.Kind,
		ecEnabled:           spec.EcEnabled,
		consignmentClientID: spec.ConsignmentClientID,
		bundleComponents:    append([]BundleComponent(nil), spec.BundleComponents...),
		createdAt:           now,
		updatedAt:           now,
		version:             1,
	}, nil
}

// ReconstructProduct 從持久化存儲重建商品
func ReconstructProduct(
	id ProductID,
	storeID store.StoreID,
	spec ProductSpec,
	stockNumber int,
	lots []WholesaleLot,
	createdAt, updatedAt time.Time,
	version int,
) (*Product, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidProductID.WithContext("reason", "invalid product ID in database")
	}
	if err := validateSpec(id, spec); err != nil {
		return nil, err
	}
	if stockNumber < 0 {
		return nil, ErrInvalidProduct.WithContext("product_id", id.String(), "stock_number", stockNumber)
	}
	if lotQuantity(lots) > stockNumber {
		return nil, ErrInvalidWholesaleLot.WithContext(
			"product_id", id.String(),
			"lot_quantity", lotQuantity(lots),
			"stock_number", stockNumber,
		)
	}
	return &Product{
		id:                  id,
		storeID:             storeID,
		name:                strings.TrimSpace(spec.Name),
		sellPrice:           spec.SellPrice,
		buyPrice:            spec.BuyPrice,
		stockNumber:         stockNumber,
		weight:              spec.Weight,
		kind:                spec.Kind,
		ecEnabled:           spec.EcEnabled,
		consignmentClientID: spec.ConsignmentClientID,
		wholesaleLots:       append([]WholesaleLot(nil), lots...),
		bundleComponents:    append([]BundleComponent(nil), spec.BundleComponents...),
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		version:             version,
	}, nil
}

func validateSpec(id ProductID, spec ProductSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return ErrInvalidProduct.WithContext("reason", "name is required")
	}
	if spec.SellPrice < 0 || spec.BuyPrice < 0 {
		return ErrInvalidProduct.WithContext("sell_price", spec.SellPrice, "buy_price", spec.BuyPrice)
	}
	if spec.Weight < 0 {
		return ErrInvalidProduct.WithContext("weight", spec.Weight)
	}
	if !spec.Kind.IsValid() {
		return ErrInvalidProduct.WithContext("kind", string(spec.Kind))
	}

	if spec.Kind != KindBundle {
		if len(spec.BundleComponents) > 0 {
			return ErrInvalidBundle.WithContext("reason", "only bundle products have components", "kind", string(spec.Kind))
		}
		return nil
	}
	if len(spec.BundleComponents) == 0 {
		return ErrInvalidBundle.WithContext("reason", "bundle requires components")
	}
	seen := make(map[ProductID]bool, len(spec.BundleComponents))
	for _, c := range spec.BundleComponents {
		if c.ProductID.IsEmpty() || c.ProductID.Equals(id) {
			return ErrInvalidBundle.WithContext("component_id", c.ProductID.String())
		}
		if c.Quantity <= 0 {
			return ErrInvalidBundle.WithContext("component_id", c.ProductID.String(), "quantity", c.Quantity)
		}
		if seen[c.ProductID] {
			return ErrInvalidBundle.WithContext("reason", "duplicated component", "component_id", c.ProductID.String())
		}
		seen[c.ProductID] = true
	}
	return nil
}

// ===========================
// 庫存操作
// ===========================

// Receive 入庫
//
// lots 可為空（成本未知，出庫時以 BuyPrice 計價）；
// 非空時批次數量合計必須等於 n。
func (p *Product) Receive(n int, lots []WholesaleLot, now time.Time) error {
	if n <= 0 {
		return ErrInvalidQuantity.WithContext("product_id", p.id.String(), "quantity", n)
	}
	if len(lots) > 0 {
		for _, l := range lots {
			if l.Quantity <= 0 || l.UnitPrice < 0 {
				return ErrInvalidWholesaleLot.WithContext("unit_price", l.UnitPrice, "quantity", l.Quantity)
			}
		}
		if lotQuantity(lots) != n {
			return ErrInvalidWholesaleLot.WithContext(
				"reason", "lot quantity must equal received quantity",
				"lot_quantity", lotQuantity(lots),
				"quantity", n,
			)
		}
		p.wholesaleLots = append(p.wholesaleLots, lots...)
	}
	p.stockNumber += n
	p.updatedAt = now
	return nil
}

// Withdraw 出庫，依 FIFO 消耗進貨批次並返回成本
//
// 超出已記錄批次的數量以 BuyPrice 計價。
func (p *Product) Withdraw(n int, now time.Time) (ConsumedCost, error) {
	if n <= 0 {
		return ConsumedCost{}, ErrInvalidQuantity.WithContext("product_id", p.id.String(), "quantity", n)
	}
	if n > p.stockNumber {
		return ConsumedCost{}, ErrInsufficientStock.WithContext(
			"product_id", p.id.String(),
			"requested", n,
			"available", p.stockNumber,
		)
	}

	cost := p.consumeLots(n)
	p.stockNumber -= n
	p.updatedAt = now
	return cost, nil
}

// Adjust 手動調整庫存（正數入庫、負數出庫）
func (p *Product) Adjust(delta int, now time.Time) (ConsumedCost, error) {
	switch {
	case delta > 0:
		return ConsumedCost{}, p.Receive(delta, nil, now)
	case delta < 0:
		return p.Withdraw(-delta, now)
	default:
		return ConsumedCost{}, ErrInvalidQuantity.WithContext("product_id", p.id.String(), "delta", 0)
	}
}

func (p *Product) consumeLots(n int) ConsumedCost {
	var consumed []WholesaleLot
	var total int64
	remaining := n

	for remaining > 0 && len(p.wholesaleLots) > 0 {
		head := p.wholesaleLots[0]
		take := head.Quantity
		if take > remaining {
			take = remaining
		}
		consumed = append(consumed, WholesaleLot{UnitPrice: head.UnitPrice, Quantity: take, ArrivedAt: head.ArrivedAt})
		total += head.UnitPrice * int64(take)
		remaining -= take

		if take == head.Quantity {
			p.wholesaleLots = p.wholesaleLots[1:]
		} else {
			p.wholesaleLots[0].Quantity -= take
		}
	}

	if remaining > 0 {
		consumed = append(consumed, WholesaleLot{UnitPrice: p.buyPrice, Quantity: remaining})
		total += p.buyPrice * int64(remaining)
	}

	if len(p.wholesaleLots) == 0 {
		p.wholesaleLots = nil
	}
	return ConsumedCost{Total: total, Lots: consumed}
}

// ChangeEcEnabled 切換 EC 上架狀態
func (p *Product) ChangeEcEnabled(enabled bool, now time.Time) {
	p.ecEnabled = enabled
	p.updatedAt = now
}

// AdvanceVersion 倉儲在更新成功後呼叫（樂觀鎖）
func (p *Product) AdvanceVersion() {
	p.version++
}

// ===========================
// 查詢方法
// ===========================

func (p *Product) ID() ProductID                   { return p.id }
func (p *Product) StoreID() store.StoreID          { return p.storeID }
func (p *Product) Name() string                    { return p.name }
func (p *Product) SellPrice() int64                { return p.sellPrice }
func (p *Product) BuyPrice() int64                 { return p.buyPrice }
func (p *Product) StockNumber() int                { return p.stockNumber }
func (p *Product) Weight() int                     { return p.weight }
func (p *Product) Kind() ProductKind               { return p.kind }
func (p *Product) IsEcEnabled() bool               { return p.ecEnabled }
func (p *Product) ConsignmentClientID() string     { return p.consignmentClientID }
func (p *Product) IsConsigned() bool               { return p.consignmentClientID != "" }
func (p *Product) CreatedAt() time.Time            { return p.createdAt }
func (p *Product) UpdatedAt() time.Time            { return p.updatedAt }
func (p *Product) Version() int                    { return p.version }
func (p *Product) IsOriginalPack() bool            { return p.kind == KindOriginalPack }
func (p *Product) IsBundle() bool                  { return p.kind == KindBundle }
func (p *Product) BelongsTo(id store.StoreID) bool { return p.storeID.Equals(id) }

// WholesaleLots 目前的進貨批次（FIFO 順序）
func (p *Product) WholesaleLots() []WholesaleLot {
	return append([]WholesaleLot(nil), p.wholesaleLots...)
}

// BundleComponents 組合商品的構成品
func (p *Product) BundleComponents() []BundleComponent {
	return append([]BundleComponent(nil), p.bundleComponents...)
}

// Spec 以建立參數形式返回商品設定
func (p *Product) Spec() ProductSpec {
	return ProductSpec{
		Name:                p.name,
		SellPrice:           p.sellPrice,
		BuyPrice:            p.buyPrice,
		Weight:              p.weight,
		Kind:                p.kind,
		EcEnabled:           p.ecEnabled,
		ConsignmentClientID: p.consignmentClientID,
		BundleComponents:    p.BundleComponents(),
	}
}

func lotQuantity(lots []WholesaleLot) int {
	total := 0
	for _, l := range lots {
		total += l.Quantity
	}
	return total
}
