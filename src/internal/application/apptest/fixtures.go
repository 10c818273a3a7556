package apptest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 測試資料建構
// ===========================

// NewStore 建立店舖（EC 開放、點數 100 円 = 1 點、週日公休、出貨 1 天）
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	setting, err := store.NewEcSetting(true, nil, nil, []time.Weekday{time.Sunday}, 1)
	require.NoError(t, err)
	s, err := store.NewStore("Card Shop", 100, setting, Now)
	require.NoError(t, err)
	return s
}

// NewStoreWithSetting 建立指定 EC 設定的店舖
func NewStoreWithSetting(t *testing.T, setting store.EcSetting) *store.Store {
	t.Helper()
	s, err := store.NewStore("Card Shop", 100, setting, Now)
	require.NoError(t, err)
	return s
}

// ProductOption 調整測試商品設定
type ProductOption func(*inventory.ProductSpec)

// Kind 指定商品種類
func Kind(k inventory.ProductKind) ProductOption {
	return func(s *inventory.ProductSpec) { s.Kind = k }
}

// Weight 指定重量（公克）
func Weight(g int) ProductOption {
	return func(s *inventory.ProductSpec) { s.Weight = g }
}

// OnEc EC 上架
func OnEc() ProductOption {
	return func(s *inventory.ProductSpec) { s.EcEnabled = true }
}

// Consigned 委託商品
func Consigned(clientID string) ProductOption {
	return func(s *inventory.ProductSpec) { s.ConsignmentClientID = clientID }
}

// Components 組合商品構成
func Components(components ...inventory.BundleComponent) ProductOption {
	return func(s *inventory.ProductSpec) {
		s.Kind = inventory.KindBundle
		s.BundleComponents = components
	}
}

// NewProduct 建立商品並以 unitCost 入庫 stock 個
func NewProduct(t *testing.T, storeID store.StoreID, name string, sellPrice int64, stock int, unitCost int64, opts ...ProductOption) *inventory.Product {
	t.Helper()
	spec := inventory.ProductSpec{
		Name:      name,
		SellPrice: sellPrice,
		BuyPrice:  unitCost,
		Kind:      inventory.KindNormal,
	}
	for _, opt := range opts {
		opt(&spec)
	}
	p, err := inventory.NewProduct(storeID, spec, Now)
	require.NoError(t, err)
	if stock > 0 {
		lots := []inventory.WholesaleLot{{UnitPrice: unitCost, Quantity: stock, ArrivedAt: Now}}
		require.NoError(t, p.Receive(stock, lots, Now))
	}
	return p
}

// NewCustomer 建立顧客
func NewCustomer(t *testing.T, storeID store.StoreID) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(storeID, "山田太郎", Now)
	require.NoError(t, err)
	return c
}
