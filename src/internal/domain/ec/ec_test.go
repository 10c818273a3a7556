package ec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

var now = time.Date(2025, 10, 6, 10, 0, 0, 0, time.UTC)

func ecProduct(t *testing.T, storeID store.StoreID, price int64, weight, stock int, onSale bool) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(storeID, inventory.ProductSpec{
		Name:      "スリーブ",
		SellPrice: price,
		BuyPrice:  price / 2,
		Weight:    weight,
		Kind:      inventory.KindNormal,
		EcEnabled: onSale,
	}, now)
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.Receive(stock, nil, now))
	}
	return p
}

func newCart(t *testing.T, storeID store.StoreID) *ec.Cart {
	t.Helper()
	c, err := ec.NewCart(storeID, customer.NewCustomerID(), now)
	require.NoError(t, err)
	return c
}

func tokyoAddress(t *testing.T) ec.Address {
	t.Helper()
	pref, err := shipping.PrefectureByName("東京都")
	require.NoError(t, err)
	return ec.Address{Name: "山田太郎", PostalCode: "1000001", Prefecture: pref, City: "千代田区", Line: "千代田1-1"}
}

func enabledSetting(t *testing.T) store.EcSetting {
	t.Helper()
	s, err := store.NewEcSetting(true, nil, nil, nil, 1)
	require.NoError(t, err)
	return s
}

// ===========================
// Cart
// ===========================

func TestCart_AddItem_MergesAndChecksStock(t *testing.T) {
	// Arrange
	storeID := store.NewStoreID()
	cart := newCart(t, storeID)
	p := ecProduct(t, storeID, 500, 30, 3, true)

	// Act
	require.NoError(t, cart.AddItem(p, 2, now))
	require.NoError(t, cart.AddItem(p, 1, now))
	err := cart.AddItem(p, 1, now)

	// Assert
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, []ec.CartLine{{ProductID: p.ID(), Quantity: 3}}, cart.Lines())
}

func TestCart_AddItem_Rules(t *testing.T) {
	storeID := store.NewStoreID()
	cart := newCart(t, storeID)

	assert.ErrorIs(t, cart.AddItem(ecProduct(t, storeID, 500, 30, 3, false), 1, now), ec.ErrProductNotOnSale)
	assert.ErrorIs(t, cart.AddItem(ecProduct(t, store.NewStoreID(), 500, 30, 3, true), 1, now), inventory.ErrProductNotFound)
	assert.ErrorIs(t, cart.AddItem(ecProduct(t, storeID, 500, 30, 3, true), 0, now), ec.ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestCart_QuoteAndRemove(t *testing.T) {
	// Arrange
	storeID := store.NewStoreID()
	cart := newCart(t, storeID)
	a := ecProduct(t, storeID, 500, 30, 5, true)
	b := ecProduct(t, storeID, 1200, 250, 5, true)
	require.NoError(t, cart.AddItem(a, 2, now))
	require.NoError(t, cart.AddItem(b, 1, now))

	// Act
	weight, err := cart.Weight([]*inventory.Product{a, b})
	require.NoError(t, err)
	total, err := cart.Total([]*inventory.Product{a, b})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 310, weight)
	assert.Equal(t, int64(2200), total)

	require.NoError(t, cart.RemoveItem(a.ID(), now))
	assert.ErrorIs(t, cart.RemoveItem(a.ID(), now), ec.ErrItemNotInCart)
	_, err = cart.Quote(nil)
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

// ===========================
// PlaceOrder
// ===========================

func TestPlaceOrder_DecreasesStockAndClearsCart(t *testing.T) {
	// Arrange
	storeID := store.NewStoreID()
	cart := newCart(t, storeID)
	p := ecProduct(t, storeID, 800, 20, 4, true)
	require.NoError(t, cart.AddItem(p, 3, now))
	candidate := shipping.Candidate{
		MethodID:    shipping.NewMethodID(),
		DisplayName: "ゆうパケット",
		Fee:         250,
		ShipDate:    now.AddDate(0, 0, 1),
	}

	// Act
	result, err := ec.PlaceOrder(enabledSetting(t), cart, []*inventory.Product{p}, candidate, tokyoAddress(t), now)

	// Assert
	require.NoError(t, err)
	order := result.Order
	assert.Equal(t, int64(2400), order.Subtotal)
	assert.Equal(t, int64(250), order.ShippingFee)
	assert.Equal(t, int64(2650), order.Total)
	assert.Equal(t, ec.OrderOrdered, order.Status)
	assert.Equal(t, candidate.ShipDate, order.ShipDate)
	assert.Equal(t, int64(400*3), order.Lines[0].WholesaleCost)

	assert.Equal(t, 1, p.StockNumber())
	assert.True(t, cart.IsEmpty())
	require.Len(t, result.Histories, 1)
	assert.Equal(t, inventory.SourceEcOrder, result.Histories[0].SourceKind)
	assert.Equal(t, "ec.order_placed", result.Event.EventType())
	assert.Equal(t, "東京都", result.Event.Prefecture)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	storeID := store.NewStoreID()
	p := ecProduct(t, storeID, 800, 20, 1, true)

	disabled, err := store.NewEcSetting(false, nil, nil, nil, 1)
	require.NoError(t, err)

	t.Run("EC 未開放", func(t *testing.T) {
		cart := newCart(t, storeID)
		require.NoError(t, cart.AddItem(p, 1, now))

		_, err := ec.PlaceOrder(disabled, cart, []*inventory.Product{p}, shipping.Candidate{}, tokyoAddress(t), now)
		assert.ErrorIs(t, err, ec.ErrEcDisabled)
	})

	t.Run("空購物車", func(t *testing.T) {
		_, err := ec.PlaceOrder(enabledSetting(t), newCart(t, storeID), nil, shipping.Candidate{}, tokyoAddress(t), now)
		assert.ErrorIs(t, err, ec.ErrEmptyCart)
	})

	t.Run("地址不完整", func(t *testing.T) {
		cart := newCart(t, storeID)
		require.NoError(t, cart.AddItem(p, 1, now))

		_, err := ec.PlaceOrder(enabledSetting(t), cart, []*inventory.Product{p}, shipping.Candidate{}, ec.Address{}, now)
		assert.ErrorIs(t, err, ec.ErrInvalidAddress)
	})

	t.Run("下單前庫存被賣掉", func(t *testing.T) {
		cart := newCart(t, storeID)
		require.NoError(t, cart.AddItem(p, 1, now))
		_, err := p.Withdraw(1, now)
		require.NoError(t, err)

		_, err = ec.PlaceOrder(enabledSetting(t), cart, []*inventory.Product{p}, shipping.Candidate{}, tokyoAddress(t), now)
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.False(t, cart.IsEmpty())
	})
}
