package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/apptest"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/transaction"
)

// ===========================
// 測試環境
// ===========================

// salesFixture 店舖（100 円 = 1 點）、商品 A（售價 1000、成本 400 × 5）、
// 委託商品 C（售價 500、委託手續費 20%）、開帳中收銀機（現金 10000）、顧客
type salesFixture struct {
	store     *store.Store
	productA  *inventory.Product
	productC  *inventory.Product
	client    *consignment.Client
	register  *register.Register
	customer  *customer.Customer
	repos     Repositories
	products  *apptest.ProductRepo
	histories *apptest.StockHistoryRepo
	txs       *apptest.TransactionRepo
	points    *apptest.PointsRepo
	registers *apptest.RegisterRepo
	sales     *apptest.SaleRepo
	publisher *apptest.Publisher
	recorder  *apptest.Recorder
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	s := apptest.NewStore(t)

	client, err := consignment.NewClient(s.ID(), "佐藤", 20, apptest.Now)
	require.NoError(t, err)

	reg, err := register.NewRegister(s.ID(), "レジ1", apptest.Now)
	require.NoError(t, err)
	_, err = reg.Settle(register.SettlementOpening, map[int64]int{10000: 1}, apptest.Now)
	require.NoError(t, err)

	f := &salesFixture{
		store:     s,
		productA:  apptest.NewProduct(t, s.ID(), "リザードン", 1000, 5, 400),
		productC:  apptest.NewProduct(t, s.ID(), "委託カード", 500, 2, 100, apptest.Consigned(client.ID().String())),
		client:    client,
		register:  reg,
		customer:  apptest.NewCustomer(t, s.ID()),
		histories: &apptest.StockHistoryRepo{},
		txs:       apptest.NewTransactionRepo(),
		points:    apptest.NewPointsRepo(),
		registers: apptest.NewRegisterRepo(reg),
		sales:     &apptest.SaleRepo{},
		publisher: &apptest.Publisher{},
		recorder:  &apptest.Recorder{},
	}
	f.products = apptest.NewProductRepo(f.productA, f.productC)
	f.repos = Repositories{
		Stores:       apptest.NewStoreRepo(s),
		Transactions: f.txs,
		Products:     f.products,
		Histories:    f.histories,
		Customers:    apptest.NewCustomerRepo(f.customer),
		Points:       f.points,
		Registers:    f.registers,
		Clients:      apptest.NewClientRepo(client),
		Sales:        f.sales,
	}
	return f
}

func (f *salesFixture) saveDraft(t *testing.T, cmd SaveDraftCommand) string {
	t.Helper()
	cmd.StoreID = f.store.ID().String()
	result, err := NewSaveDraftUseCase(f.repos, &apptest.TxManager{}, apptest.Clock()).Execute(context.Background(), cmd)
	require.NoError(t, err)
	return result.TransactionID
}

func (f *salesFixture) finalize(cmd FinalizeCommand) (*FinalizeResult, error) {
	if cmd.StoreID == "" {
		cmd.StoreID = f.store.ID().String()
	}
	dispatcher := common.NewEventDispatcher(f.publisher, nil)
	uc := NewFinalizeUseCase(f.repos, &apptest.TxManager{}, dispatcher, f.recorder, apptest.Clock())
	return uc.Execute(context.Background(), cmd)
}

func (f *salesFixture) line(p *inventory.Product, price int64, qty int) LineInput {
	return LineInput{ProductID: p.ID().String(), UnitPrice: price, Quantity: qty}
}

// ===========================
// Finalize
// ===========================

func TestFinalize_CashSellWithCustomer(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{
		Kind:       "sell",
		RegisterID: f.register.ID().String(),
		CustomerID: f.customer.ID().String(),
		Lines:      []LineInput{f.line(f.productA, 1000, 2)},
	})

	// Act
	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "cash", Received: 3000})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.Total)
	assert.Equal(t, int64(1000), result.Change)
	assert.Equal(t, int64(800), result.WholesaleCost)
	assert.Equal(t, 20, result.PointsEarned)
	require.NotNil(t, result.PointsAvailable)
	assert.Equal(t, 20, *result.PointsAvailable)
	require.NotNil(t, result.CashBalance)
	assert.Equal(t, int64(12000), *result.CashBalance)

	assert.Equal(t, 3, f.productA.StockNumber())
	require.Len(t, f.histories.Items, 1)
	assert.Equal(t, inventory.SourceSell, f.histories.Items[0].SourceKind)
	assert.Equal(t, -2, f.histories.Items[0].Delta)
	require.Len(t, f.registers.Movements, 1)
	assert.Equal(t, register.MovementSale, f.registers.Movements[0].Kind)
	assert.Equal(t, 1, f.points.SaveCalls, "points account is opened on first sale")

	txID, _ := transaction.TransactionIDFromString(id)
	assert.Equal(t, transaction.StatusCompleted, f.txs.Items[txID].Status())
	assert.Equal(t, []string{"transaction.completed", "points.account_created", "points.earned"}, f.publisher.Types())
	assert.Equal(t, 1, f.recorder.Finalized["sell"])
}

func TestFinalize_UsesPoints(t *testing.T) {
	// Arrange：既有帳戶 50 點，使用 30 點
	f := newSalesFixture(t)
	account, err := points.NewPointsAccount(f.store.ID(), f.customer.ID(), apptest.Now)
	require.NoError(t, err)
	fifty, _ := points.NewPointsAmount(50)
	require.NoError(t, account.EarnPoints(fifty, points.SourceManual, "seed", apptest.Now))
	account.PullEvents()
	require.NoError(t, f.points.Save(nil, account))

	id := f.saveDraft(t, SaveDraftCommand{
		Kind:       "sell",
		CustomerID: f.customer.ID().String(),
		Lines:      []LineInput{f.line(f.productA, 1000, 2)},
		PointsUsed: 30,
	})

	// Act
	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "card"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1970), result.Total)
	assert.Equal(t, int64(1970), result.Received)
	assert.Equal(t, 19, result.PointsEarned)
	assert.Equal(t, 39, *result.PointsAvailable)
	assert.Nil(t, result.CashBalance, "card payments do not move register cash")
	assert.Empty(t, f.registers.Movements)
	assert.Equal(t, []string{"transaction.completed", "points.deducted", "points.earned"}, f.publisher.Types())
}

func TestFinalize_CashBuy(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{
		Kind:       "buy",
		RegisterID: f.register.ID().String(),
		CustomerID: f.customer.ID().String(),
		Lines:      []LineInput{f.line(f.productA, 300, 3)},
	})

	// Act
	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "cash"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(900), result.Total)
	assert.Equal(t, 0, result.PointsEarned, "buy transactions earn no points")
	assert.Nil(t, result.PointsAvailable)
	assert.Equal(t, int64(9100), *result.CashBalance)
	assert.Equal(t, 8, f.productA.StockNumber())
	require.Len(t, f.registers.Movements, 1)
	assert.Equal(t, register.MovementPurchase, f.registers.Movements[0].Kind)
	assert.Equal(t, int64(-900), f.registers.Movements[0].Amount)
	assert.Equal(t, inventory.SourceBuy, f.histories.Items[0].SourceKind)
	assert.Equal(t, 0, f.points.SaveCalls)
	assert.Equal(t, 1, f.recorder.Finalized["buy"])
}

func TestFinalize_RecordsConsignmentSale(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{
		Kind:  "sell",
		Lines: []LineInput{f.line(f.productC, 500, 1), f.line(f.productA, 1000, 1)},
	})

	// Act
	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "other"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConsignedSales)
	require.Len(t, f.sales.Items, 1)
	sale := f.sales.Items[0]
	assert.True(t, sale.ClientID.Equals(f.client.ID()))
	assert.Equal(t, int64(500), sale.SalesAmount)
	assert.Equal(t, int64(100), sale.Commission)
	assert.Equal(t, int64(400), sale.Payout)
	assert.Equal(t, id, sale.TransactionID)
	assert.Len(t, f.histories.Items, 2)
}

func TestFinalize_InsufficientStockChangesNothing(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{
		Kind:  "sell",
		Lines: []LineInput{f.line(f.productA, 1000, 3), f.line(f.productA, 1000, 3)},
	})

	// Act
	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "cash", Received: 10000})

	// Assert
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Nil(t, result)
	assert.Equal(t, 5, f.productA.StockNumber())
	assert.Empty(t, f.histories.Items)
	assert.Empty(t, f.publisher.Events)
	assert.Zero(t, f.recorder.Finalized["sell"])
}

func TestFinalize_InvalidPointRate(t *testing.T) {
	tests := []struct {
		name     string
		customer bool
		wantErr  error
	}{
		{name: "顧客販賣需要換算率", customer: true, wantErr: points.ErrInvalidConversionRate},
		{name: "非會員販賣不計點數", customer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange：店舖資料的換算率為 0（未經 NewStore 驗證）
			f := newSalesFixture(t)
			cmd := SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			if tt.customer {
				cmd.CustomerID = f.customer.ID().String()
			}
			id := f.saveDraft(t, cmd)
			stores := apptest.NewStoreRepo()
			stores.Items[f.store.ID()] = &store.Store{}
			f.repos.Stores = stores

			// Act
			result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "card"})

			// Assert
			txID, _ := transaction.TransactionIDFromString(id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				assert.Equal(t, transaction.StatusDraft, f.txs.Items[txID].Status())
				assert.Empty(t, f.publisher.Events)
				assert.Zero(t, f.recorder.Finalized["sell"])
				return
			}
			require.NoError(t, err)
			assert.Zero(t, result.PointsEarned)
			assert.Equal(t, transaction.StatusCompleted, f.txs.Items[txID].Status())
		})
	}
}

func TestFinalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(t *testing.T, f *salesFixture) FinalizeCommand
		wantErr error
	}{
		{
			name: "cash received below total",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})
				return FinalizeCommand{TransactionID: id, PaymentMethod: "cash", Received: 999}
			},
			wantErr: transaction.ErrInsufficientPayment,
		},
		{
			name: "unknown payment method",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})
				return FinalizeCommand{TransactionID: id, PaymentMethod: "bitcoin"}
			},
			wantErr: transaction.ErrInvalidPayment,
		},
		{
			name: "points exceed balance",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				id := f.saveDraft(t, SaveDraftCommand{
					Kind:       "sell",
					CustomerID: f.customer.ID().String(),
					Lines:      []LineInput{f.line(f.productA, 1000, 1)},
					PointsUsed: 10,
				})
				return FinalizeCommand{TransactionID: id, PaymentMethod: "card"}
			},
			wantErr: points.ErrInsufficientPoints,
		},
		{
			name: "register closed",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				_, err := f.register.Settle(register.SettlementClosing, map[int64]int{10000: 1}, apptest.Now)
				require.NoError(t, err)
				id := f.saveDraft(t, SaveDraftCommand{
					Kind:       "sell",
					RegisterID: f.register.ID().String(),
					Lines:      []LineInput{f.line(f.productA, 1000, 1)},
				})
				return FinalizeCommand{TransactionID: id, PaymentMethod: "cash", Received: 1000}
			},
			wantErr: register.ErrRegisterClosed,
		},
		{
			name: "buy pays more cash than the register holds",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				id := f.saveDraft(t, SaveDraftCommand{
					Kind:       "buy",
					RegisterID: f.register.ID().String(),
					Lines:      []LineInput{f.line(f.productA, 20000, 1)},
				})
				return FinalizeCommand{TransactionID: id, PaymentMethod: "cash"}
			},
			wantErr: register.ErrInsufficientCash,
		},
		{
			name: "other store",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})
				return FinalizeCommand{StoreID: store.NewStoreID().String(), TransactionID: id, PaymentMethod: "card"}
			},
			wantErr: transaction.ErrTransactionNotFound,
		},
		{
			name: "unknown transaction",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				return FinalizeCommand{TransactionID: transaction.NewTransactionID().String(), PaymentMethod: "card"}
			},
			wantErr: transaction.ErrTransactionNotFound,
		},
		{
			name: "malformed transaction id",
			arrange: func(t *testing.T, f *salesFixture) FinalizeCommand {
				return FinalizeCommand{TransactionID: "nope", PaymentMethod: "card"}
			},
			wantErr: transaction.ErrInvalidTransactionID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSalesFixture(t)
			cmd := tt.arrange(t, f)

			result, err := f.finalize(cmd)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Empty(t, f.publisher.Events)
		})
	}
}

func TestFinalize_TwiceRejected(t *testing.T) {
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})
	_, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "card"})
	require.NoError(t, err)

	_, err = f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "card"})

	assert.ErrorIs(t, err, transaction.ErrNotDraft)
	assert.Equal(t, 4, f.productA.StockNumber())
}

func TestFinalize_PublishFailureStillCompletes(t *testing.T) {
	f := newSalesFixture(t)
	f.publisher.Err = errors.New("broker down")
	id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})

	result, err := f.finalize(FinalizeCommand{TransactionID: id, PaymentMethod: "card"})

	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.Total)
}

// ===========================
// SaveDraft / Cancel
// ===========================

func TestSaveDraft_CreateThenReplace(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	uc := NewSaveDraftUseCase(f.repos, &apptest.TxManager{}, apptest.Clock())
	id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})

	// Act
	result, err := uc.Execute(context.Background(), SaveDraftCommand{
		StoreID:       f.store.ID().String(),
		TransactionID: id,
		Lines: []LineInput{
			f.line(f.productA, 1000, 2),
			{ProductID: f.productC.ID().String(), UnitPrice: 500, Quantity: 1, Discount: 100},
		},
		Discount: 200,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, id, result.TransactionID)
	assert.Equal(t, "draft", result.Status)
	assert.Equal(t, int64(2400), result.Subtotal)
	assert.Equal(t, int64(2200), result.Total)
	assert.Equal(t, 2, result.LineCount)
	assert.Len(t, f.txs.Items, 1)
}

func TestSaveDraft_Errors(t *testing.T) {
	otherStore := apptest.NewStore(t)
	otherRegister, err := register.NewRegister(otherStore.ID(), "他店レジ", apptest.Now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cmd     func(f *salesFixture) SaveDraftCommand
		wantErr error
	}{
		{
			name: "no lines",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "sell"}
			},
			wantErr: transaction.ErrEmptyLines,
		},
		{
			name: "unknown kind",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "rent", Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			},
			wantErr: transaction.ErrInvalidKind,
		},
		{
			name: "line discount above amount",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "sell", Lines: []LineInput{{ProductID: f.productA.ID().String(), UnitPrice: 100, Quantity: 1, Discount: 101}}}
			},
			wantErr: transaction.ErrInvalidDiscount,
		},
		{
			name: "points on buy",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "buy", CustomerID: f.customer.ID().String(), PointsUsed: 1, Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			},
			wantErr: transaction.ErrInvalidDiscount,
		},
		{
			name: "points without customer",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "sell", PointsUsed: 1, Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			},
			wantErr: transaction.ErrCustomerRequired,
		},
		{
			name: "register of another store",
			cmd: func(f *salesFixture) SaveDraftCommand {
				require.NoError(t, f.registers.Save(nil, otherRegister))
				return SaveDraftCommand{Kind: "sell", RegisterID: otherRegister.ID().String(), Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			},
			wantErr: register.ErrRegisterNotFound,
		},
		{
			name: "unknown customer",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "sell", CustomerID: customer.NewCustomerID().String(), Lines: []LineInput{f.line(f.productA, 1000, 1)}}
			},
			wantErr: customer.ErrCustomerNotFound,
		},
		{
			name: "malformed product id",
			cmd: func(f *salesFixture) SaveDraftCommand {
				return SaveDraftCommand{Kind: "sell", Lines: []LineInput{{ProductID: "x", UnitPrice: 1, Quantity: 1}}}
			},
			wantErr: inventory.ErrInvalidProductID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSalesFixture(t)
			cmd := tt.cmd(f)
			cmd.StoreID = f.store.ID().String()

			result, err := NewSaveDraftUseCase(f.repos, &apptest.TxManager{}, apptest.Clock()).Execute(context.Background(), cmd)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Empty(t, f.txs.Items)
		})
	}
}

func TestSaveDraft_KindCannotChange(t *testing.T) {
	f := newSalesFixture(t)
	id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})

	_, err := NewSaveDraftUseCase(f.repos, &apptest.TxManager{}, apptest.Clock()).Execute(context.Background(), SaveDraftCommand{
		StoreID:       f.store.ID().String(),
		TransactionID: id,
		Kind:          "buy",
		Lines:         []LineInput{f.line(f.productA, 1000, 1)},
	})

	assert.ErrorIs(t, err, transaction.ErrInvalidKind)
}

func TestCancel(t *testing.T) {
	// Arrange
	f := newSalesFixture(t)
	uc := NewCancelUseCase(f.txs, &apptest.TxManager{}, apptest.Clock())
	id := f.saveDraft(t, SaveDraftCommand{Kind: "sell", Lines: []LineInput{f.line(f.productA, 1000, 1)}})
	cmd := CancelCommand{StoreID: f.store.ID().String(), TransactionID: id}

	// Act
	first, err1 := uc.Execute(context.Background(), cmd)
	_, err2 := uc.Execute(context.Background(), cmd)

	// Assert
	require.NoError(t, err1)
	assert.Equal(t, "canceled", first.Status)
	assert.ErrorIs(t, err2, transaction.ErrNotDraft)
	assert.Equal(t, 5, f.productA.StockNumber())
}
