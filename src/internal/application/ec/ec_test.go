package ec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/apptest"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 測試環境
// ===========================

type ecFixture struct {
	store     *store.Store
	alice     *customer.Customer
	cardA     *inventory.Product // 1500 円、300g、庫存 3
	box       *inventory.Product // 800 円、900g、庫存 1
	offline   *inventory.Product // 未上架
	packet    *shipping.Method
	courier   *shipping.Method
	carts     *apptest.CartRepo
	orders    *apptest.OrderRepo
	histories *apptest.StockHistoryRepo
	accounts  *apptest.PointsRepo
	publisher *apptest.Publisher
	recorder  *apptest.Recorder
	cart      *CartUseCase
	checkout  *CheckoutUseCase
}

func newEcFixture(t *testing.T) *ecFixture {
	t.Helper()
	s := apptest.NewStore(t)
	f := &ecFixture{
		store:     s,
		alice:     apptest.NewCustomer(t, s.ID()),
		cardA:     apptest.NewProduct(t, s.ID(), "カードA", 1500, 3, 1000, apptest.Weight(300), apptest.OnEc()),
		box:       apptest.NewProduct(t, s.ID(), "BOX", 800, 1, 500, apptest.Weight(900), apptest.OnEc()),
		offline:   apptest.NewProduct(t, s.ID(), "店頭限定", 100, 5, 50),
		carts:     apptest.NewCartRepo(),
		orders:    &apptest.OrderRepo{},
		histories: &apptest.StockHistoryRepo{},
		accounts:  apptest.NewPointsRepo(),
		publisher: &apptest.Publisher{},
		recorder:  &apptest.Recorder{},
	}

	var err error
	f.packet, err = shipping.NewMethod(s.ID(), shipping.MethodSpec{
		DisplayName: "ゆうパケット",
		OrderNumber: 1,
		WeightBands: []shipping.WeightBand{
			{MaxWeight: 1000, Regions: []shipping.RegionFee{{Region: shipping.Nationwide, Fee: 250}}},
		},
	}, apptest.Now)
	require.NoError(t, err)
	f.courier, err = shipping.NewMethod(s.ID(), shipping.MethodSpec{
		DisplayName: "宅急便",
		OrderNumber: 2,
		Regions: []shipping.RegionFee{
			{Region: "東京都", Fee: 700},
			{Region: shipping.Nationwide, Fee: 1200},
		},
	}, apptest.Now)
	require.NoError(t, err)

	stores := apptest.NewStoreRepo(s)
	products := apptest.NewProductRepo(f.cardA, f.box, f.offline)
	service := shippingapp.NewCandidateService(apptest.NewMethodRepo(f.packet, f.courier), nil)

	f.cart = NewCartUseCase(stores, f.carts, products, apptest.NewCustomerRepo(f.alice), service, &apptest.TxManager{}, apptest.Clock())
	f.checkout = NewCheckoutUseCase(Repositories{
		Stores:    stores,
		Carts:     f.carts,
		Orders:    f.orders,
		Products:  products,
		Histories: f.histories,
		Points:    f.accounts,
	}, service, &apptest.TxManager{}, common.NewEventDispatcher(f.publisher, nil), f.recorder, apptest.Clock())
	return f
}

func (f *ecFixture) newCart(t *testing.T, c *customer.Customer) string {
	t.Helper()
	cmd := CreateCartCommand{StoreID: f.store.ID().String()}
	if c != nil {
		cmd.CustomerID = c.ID().String()
	}
	result, err := f.cart.Create(context.Background(), cmd)
	require.NoError(t, err)
	return result.CartID
}

func (f *ecFixture) add(cartID string, p *inventory.Product, qty int) (*CartResult, error) {
	return f.cart.AddItem(context.Background(), CartItemCommand{
		StoreID:   f.store.ID().String(),
		CartID:    cartID,
		ProductID: p.ID().String(),
		Quantity:  qty,
	})
}

func (f *ecFixture) checkoutCmd(cartID string, m *shipping.Method) CheckoutCommand {
	return CheckoutCommand{
		StoreID:  f.store.ID().String(),
		CartID:   cartID,
		MethodID: m.ID().String(),
		Address: AddressInput{
			Name:       "山田太郎",
			PostalCode: "100-0001",
			Prefecture: "東京都",
			City:       "千代田区",
			Line:       "千代田1-1",
		},
	}
}

// ===========================
// Cart
// ===========================

func TestCart_AddItemAndCandidates(t *testing.T) {
	// Arrange
	f := newEcFixture(t)
	cartID := f.newCart(t, f.alice)

	// Act
	first, err := f.add(cartID, f.cardA, 2)
	require.NoError(t, err)
	light, err := f.cart.ShippingCandidates(context.Background(), CartCandidatesQuery{
		StoreID: f.store.ID().String(), CartID: cartID, Prefecture: "東京都",
	})
	require.NoError(t, err)

	second, err := f.add(cartID, f.box, 1)
	require.NoError(t, err)
	heavy, err := f.cart.ShippingCandidates(context.Background(), CartCandidatesQuery{
		StoreID: f.store.ID().String(), CartID: cartID, Prefecture: "東京都",
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 600, first.Weight)
	assert.Equal(t, int64(3000), first.Total)
	assert.Equal(t, f.alice.ID().String(), first.CustomerID)

	require.Len(t, light.Candidates, 2)
	assert.Equal(t, "ゆうパケット", light.Candidates[0].DisplayName)
	assert.Equal(t, int64(250), light.Candidates[0].Fee)
	assert.Equal(t, int64(700), light.Candidates[1].Fee)

	assert.Equal(t, 1500, second.Weight)
	assert.Equal(t, int64(3800), second.Total)
	require.Len(t, second.Lines, 2)
	assert.Equal(t, "BOX", second.Lines[1].Name)

	require.Len(t, heavy.Candidates, 1, "1500g exceeds the packet weight band")
	assert.Equal(t, "宅急便", heavy.Candidates[0].DisplayName)
	assert.Equal(t, 1500, heavy.Cart.Weight)
}

func TestCart_AddItem_Errors(t *testing.T) {
	tests := []struct {
		name    string
		product func(f *ecFixture) string
		qty     int
		wantErr error
	}{
		{"not on ec", func(f *ecFixture) string { return f.offline.ID().String() }, 1, ec.ErrProductNotOnSale},
		{"beyond stock", func(f *ecFixture) string { return f.cardA.ID().String() }, 4, inventory.ErrInsufficientStock},
		{"zero quantity", func(f *ecFixture) string { return f.cardA.ID().String() }, 0, ec.ErrInvalidQuantity},
		{"unknown product", func(f *ecFixture) string { return inventory.NewProductID().String() }, 1, inventory.ErrProductNotFound},
		{"malformed product id", func(f *ecFixture) string { return "nope" }, 1, inventory.ErrInvalidProductID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEcFixture(t)
			cartID := f.newCart(t, nil)

			result, err := f.cart.AddItem(context.Background(), CartItemCommand{
				StoreID:   f.store.ID().String(),
				CartID:    cartID,
				ProductID: tt.product(f),
				Quantity:  tt.qty,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestCart_RemoveItem(t *testing.T) {
	// Arrange
	f := newEcFixture(t)
	cartID := f.newCart(t, nil)
	_, err := f.add(cartID, f.cardA, 1)
	require.NoError(t, err)
	cmd := CartItemCommand{StoreID: f.store.ID().String(), CartID: cartID, ProductID: f.cardA.ID().String()}

	// Act
	removed, err := f.cart.RemoveItem(context.Background(), cmd)
	require.NoError(t, err)
	_, again := f.cart.RemoveItem(context.Background(), cmd)

	// Assert
	assert.Empty(t, removed.Lines)
	assert.Zero(t, removed.Total)
	assert.ErrorIs(t, again, ec.ErrItemNotInCart)
}

func TestCart_OtherStoreIsNotFound(t *testing.T) {
	f := newEcFixture(t)
	cartID := f.newCart(t, nil)

	_, err := f.cart.Get(context.Background(), store.NewStoreID().String(), cartID)

	assert.ErrorIs(t, err, ec.ErrCartNotFound)
}

func TestCart_Create_Errors(t *testing.T) {
	t.Run("ec disabled", func(t *testing.T) {
		setting, err := store.NewEcSetting(false, nil, nil, nil, 1)
		require.NoError(t, err)
		s := apptest.NewStoreWithSetting(t, setting)
		uc := NewCartUseCase(apptest.NewStoreRepo(s), apptest.NewCartRepo(), apptest.NewProductRepo(),
			apptest.NewCustomerRepo(), nil, &apptest.TxManager{}, apptest.Clock())

		_, err = uc.Create(context.Background(), CreateCartCommand{StoreID: s.ID().String()})

		assert.ErrorIs(t, err, ec.ErrEcDisabled)
	})

	t.Run("customer of another store", func(t *testing.T) {
		f := newEcFixture(t)
		stranger := apptest.NewCustomer(t, store.NewStoreID())
		uc := NewCartUseCase(apptest.NewStoreRepo(f.store), f.carts, apptest.NewProductRepo(),
			apptest.NewCustomerRepo(stranger), nil, &apptest.TxManager{}, apptest.Clock())

		_, err := uc.Create(context.Background(), CreateCartCommand{
			StoreID:    f.store.ID().String(),
			CustomerID: stranger.ID().String(),
		})

		assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
		assert.Empty(t, f.carts.Items)
	})
}

// ===========================
// Checkout
// ===========================

func TestCheckout_PlacesOrder(t *testing.T) {
	// Arrange
	f := newEcFixture(t)
	cartID := f.newCart(t, f.alice)
	_, err := f.add(cartID, f.cardA, 2)
	require.NoError(t, err)

	// Act
	result, err := f.checkout.Execute(context.Background(), f.checkoutCmd(cartID, f.packet))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ordered", result.Status)
	assert.Equal(t, "ゆうパケット", result.ShippingName)
	assert.Equal(t, int64(3000), result.Subtotal)
	assert.Equal(t, int64(250), result.ShippingFee)
	assert.Equal(t, int64(3250), result.Total)
	assert.Equal(t, time.Saturday, result.ShipDate.Weekday())
	assert.Equal(t, 30, result.PointsEarned)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 2, result.Lines[0].Quantity)

	assert.Equal(t, 1, f.cardA.StockNumber())
	require.Len(t, f.histories.Items, 1)
	assert.Equal(t, inventory.SourceEcOrder, f.histories.Items[0].SourceKind)
	assert.Equal(t, result.OrderID, f.histories.Items[0].SourceID)
	assert.Equal(t, -2, f.histories.Items[0].Delta)

	require.Len(t, f.orders.Items, 1)
	for _, cart := range f.carts.Items {
		assert.True(t, cart.IsEmpty())
	}

	assert.Equal(t, []string{"points.account_created", "points.earned", "ec.order_placed"}, f.publisher.Types())
	assert.Equal(t, 1, f.recorder.EcOrdersPlaced)
}

func TestCheckout_GuestEarnsNoPoints(t *testing.T) {
	f := newEcFixture(t)
	cartID := f.newCart(t, nil)
	_, err := f.add(cartID, f.box, 1)
	require.NoError(t, err)

	result, err := f.checkout.Execute(context.Background(), f.checkoutCmd(cartID, f.courier))

	require.NoError(t, err)
	assert.Zero(t, result.PointsEarned)
	assert.Equal(t, int64(1500), result.Total)
	assert.Equal(t, 0, f.accounts.SaveCalls)
	assert.Equal(t, []string{"ec.order_placed"}, f.publisher.Types())
}

func TestCheckout_Errors(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(t *testing.T, f *ecFixture, cartID string)
		cmd     func(f *ecFixture, cartID string) CheckoutCommand
		wantErr error
	}{
		{
			name: "method no longer applicable",
			arrange: func(t *testing.T, f *ecFixture, cartID string) {
				_, err := f.add(cartID, f.cardA, 2)
				require.NoError(t, err)
				_, err = f.add(cartID, f.box, 1)
				require.NoError(t, err)
			},
			cmd:     func(f *ecFixture, cartID string) CheckoutCommand { return f.checkoutCmd(cartID, f.packet) },
			wantErr: shipping.ErrMethodNotApplicable,
		},
		{
			name: "stock sold in store meanwhile",
			arrange: func(t *testing.T, f *ecFixture, cartID string) {
				_, err := f.add(cartID, f.cardA, 3)
				require.NoError(t, err)
				_, err = f.cardA.Withdraw(1, apptest.Now)
				require.NoError(t, err)
			},
			cmd:     func(f *ecFixture, cartID string) CheckoutCommand { return f.checkoutCmd(cartID, f.courier) },
			wantErr: inventory.ErrInsufficientStock,
		},
		{
			name:    "empty cart",
			cmd:     func(f *ecFixture, cartID string) CheckoutCommand { return f.checkoutCmd(cartID, f.courier) },
			wantErr: ec.ErrEmptyCart,
		},
		{
			name: "incomplete address",
			arrange: func(t *testing.T, f *ecFixture, cartID string) {
				_, err := f.add(cartID, f.cardA, 1)
				require.NoError(t, err)
			},
			cmd: func(f *ecFixture, cartID string) CheckoutCommand {
				cmd := f.checkoutCmd(cartID, f.courier)
				cmd.Address.Name = ""
				return cmd
			},
			wantErr: ec.ErrInvalidAddress,
		},
		{
			name: "unknown prefecture",
			cmd: func(f *ecFixture, cartID string) CheckoutCommand {
				cmd := f.checkoutCmd(cartID, f.courier)
				cmd.Address.Prefecture = "ロンドン"
				return cmd
			},
			wantErr: shipping.ErrUnknownPrefecture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newEcFixture(t)
			cartID := f.newCart(t, f.alice)
			if tt.arrange != nil {
				tt.arrange(t, f, cartID)
			}
			stockBefore := f.cardA.StockNumber()

			// Act
			result, err := f.checkout.Execute(context.Background(), tt.cmd(f, cartID))

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, stockBefore, f.cardA.StockNumber())
			assert.Empty(t, f.orders.Items)
			assert.Empty(t, f.histories.Items)
			assert.Empty(t, f.publisher.Events)
			assert.Zero(t, f.recorder.EcOrdersPlaced)
		})
	}
}
