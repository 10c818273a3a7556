package ec

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// CartLine 購物車明細
type CartLine struct {
	ProductID inventory.ProductID
	Quantity  int
}

// Quote 購物車依目前商品資料計算的重量與金額
type Quote struct {
	Weight int   // 公克
	Total  int64 // 日圓，不含運費
}

// ===========================
// Cart Aggregate Root
// ===========================

// Cart 購物車聚合根
//
// 只保存商品 ID 與數量；價格與重量在報價、結帳時以最新商品資料計算。
type Cart struct {
	id         CartID
	storeID    store.StoreID
	customerID customer.CustomerID
	lines      []CartLine

	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewCart 建立購物車（customerID 可為零值：訪客）
func NewCart(storeID store.StoreID, customerID customer.CustomerID, now time.Time) (*Cart, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	return &Cart{
		id:         NewCartID(),
		storeID:    storeID,
		customerID: customerID,
		createdAt:  now,
		updatedAt:  now,
		version:    1,
	}, nil
}

// ReconstructCart 從資料庫重建
func ReconstructCart(
	id CartID,
	storeID store.StoreID,
	customerID customer.CustomerID,
	lines []CartLine,
	createdAt, updatedAt time.Time,
	version int,
) (*Cart, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidCartID.WithContext("reason", "invalid cart ID in database")
	}
	return &Cart{
		id:         id,
		storeID:    storeID,
		customerID: customerID,
		lines:      append([]CartLine(nil), lines...),
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    version,
	}, nil
}

// AddItem 加入商品
//
// 業務規則：
// 1. 商品必須屬於同店舖且已在 EC 上架
// 2. 加入後購物車內該商品數量不能超過庫存
func (c *Cart) AddItem(product *inventory.Product, quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity.WithContext("quantity", quantity)
	}
	if product == nil {
		return inventory.ErrProductNotFound
	}
	if !product.BelongsTo(c.storeID) {
		return inventory.ErrProductNotFound.WithContext("product_id", product.ID().String(), "store_id", c.storeID.String())
	}
	if !product.IsEcEnabled() {
		return ErrProductNotOnSale.WithContext("product_id", product.ID().String())
	}

	idx := c.indexOf(product.ID())
	current := 0
	if idx >= 0 {
		current = c.lines[idx].Quantity
	}
	if current+quantity > product.StockNumber() {
		return inventory.ErrInsufficientStock.WithContext(
			"product_id", product.ID().String(),
			"requested", current+quantity,
			"available", product.StockNumber(),
		)
	}

	if idx >= 0 {
		c.lines[idx].Quantity += quantity
	} else {
		c.lines = append(c.lines, CartLine{ProductID: product.ID(), Quantity: quantity})
	}
	c.updatedAt = now
	return nil
}

// RemoveItem 移除商品（整行）
func (c *Cart) RemoveItem(productID inventory.ProductID, now time.Time) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotInCart.WithContext("product_id", productID.String())
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	c.updatedAt = now
	return nil
}

// Clear 清空購物車
func (c *Cart) Clear(now time.Time) {
	c.lines = nil
	c.updatedAt = now
}

// Quote 依商品資料計算重量與金額
//
// products 必須包含購物車內所有商品。
func (c *Cart) Quote(products []*inventory.Product) (Quote, error) {
	byID := indexProducts(products)
	var q Quote
	for _, l := range c.lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return Quote{}, inventory.ErrProductNotFound.WithContext("product_id", l.ProductID.String())
		}
		q.Weight += p.Weight() * l.Quantity
		q.Total += p.SellPrice() * int64(l.Quantity)
	}
	return q, nil
}

// Weight 購物車總重量（公克）
func (c *Cart) Weight(products []*inventory.Product) (int, error) {
	q, err := c.Quote(products)
	return q.Weight, err
}

// Total 購物車商品金額合計
func (c *Cart) Total(products []*inventory.Product) (int64, error) {
	q, err := c.Quote(products)
	return q.Total, err
}

// ProductIDs 購物車內商品 ID
func (c *Cart) ProductIDs() []inventory.ProductID {
	ids := make([]inventory.ProductID, len(c.lines))
	for i, l := range c.lines {
		ids[i] = l.ProductID
	}
	return ids
}

func (c *Cart) indexOf(id inventory.ProductID) int {
	for i, l := range c.lines {
		if l.ProductID.Equals(id) {
			return i
		}
	}
	return -1
}

func indexProducts(products []*inventory.Product) map[inventory.ProductID]*inventory.Product {
	byID := make(map[inventory.ProductID]*inventory.Product, len(products))
	for _, p := range products {
		if p != nil {
			byID[p.ID()] = p
		}
	}
	return byID
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (c *Cart) AdvanceVersion() {
	c.version++
}

// Lines 返回明細副本
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// BelongsTo 是否屬於指定店舖
func (c *Cart) BelongsTo(id store.StoreID) bool {
	return c.storeID.Equals(id)
}

func (c *Cart) ID() CartID                      { return c.id }
func (c *Cart) StoreID() store.StoreID          { return c.storeID }
func (c *Cart) CustomerID() customer.CustomerID { return c.customerID }
func (c *Cart) IsEmpty() bool                   { return len(c.lines) == 0 }
func (c *Cart) CreatedAt() time.Time            { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time            { return c.updatedAt }
func (c *Cart) Version() int                    { return c.version }
