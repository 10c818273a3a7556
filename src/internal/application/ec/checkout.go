package ec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Checkout Use Case
// ===========================

// AddressInput 收件資訊
type AddressInput struct {
	Name       string
	PostalCode string
	Prefecture string
	City       string
	Line       string
	Phone      string
}

// CheckoutCommand 結帳指令
type CheckoutCommand struct {
	StoreID  string
	CartID   string
	MethodID string
	Address  AddressInput
}

// OrderLineDTO 訂單明細
type OrderLineDTO struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
}

// CheckoutResult 訂單
type CheckoutResult struct {
	OrderID      string
	Status       string
	Lines        []OrderLineDTO
	ShippingName string
	Subtotal     int64
	ShippingFee  int64
	Total        int64
	ShipDate     time.Time
	PointsEarned int
}

// Repositories 結帳所需倉儲
type Repositories struct {
	Stores    store.StoreRepository
	Carts     ec.CartRepository
	Orders    ec.OrderRepository
	Products  inventory.ProductRepository
	Histories inventory.StockHistoryRepository
	Points    points.PointsAccountRepository
}

// CheckoutUseCase EC 結帳
//
// 在單一事務內：以當下購物車重新計算運費候選並確認所選方式仍可用、
// 扣除庫存（ec_order 紀錄）、建立訂單、清空購物車。
// 有顧客的購物車依商品金額（不含運費）累積點數。
// 事務因樂觀鎖衝突重試時整個流程重新執行。
type CheckoutUseCase struct {
	repos      Repositories
	candidates *shippingapp.CandidateService
	calculator *points.PointsCalculationService
	txManager  shared.TransactionManager
	dispatcher *common.EventDispatcher
	recorder   common.Recorder
	clock      shared.Clock
}

// NewCheckoutUseCase 創建 Use Case 實例
func NewCheckoutUseCase(
	repos Repositories,
	candidates *shippingapp.CandidateService,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	recorder common.Recorder,
	clock shared.Clock,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		repos:      repos,
		candidates: candidates,
		calculator: points.NewPointsCalculationService(),
		txManager:  txManager,
		dispatcher: dispatcher,
		recorder:   common.RecorderOrNop(recorder),
		clock:      clock,
	}
}

// Execute 執行結帳
//
// 錯誤處理：
// - 所選方式已不適用（重量、地區、刪除）→ shipping.ErrMethodNotApplicable
// - 庫存不足 → inventory.ErrInsufficientStock（不做任何變更）
// - 店舖未開放 EC → ec.ErrEcDisabled
func (uc *CheckoutUseCase) Execute(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	storeID, cartID, err := parseCart(cmd.StoreID, cmd.CartID)
	if err != nil {
		return nil, err
	}
	methodID, err := shipping.MethodIDFromString(cmd.MethodID)
	if err != nil {
		return nil, err
	}
	pref, err := shipping.PrefectureByName(cmd.Address.Prefecture)
	if err != nil {
		return nil, err
	}
	address := ec.Address{
		Name:       cmd.Address.Name,
		PostalCode: cmd.Address.PostalCode,
		Prefecture: pref,
		City:       cmd.Address.City,
		Line:       cmd.Address.Line,
		Phone:      cmd.Address.Phone,
	}

	var (
		result *CheckoutResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		st, err := uc.repos.Stores.FindByID(tx, storeID)
		if err != nil {
			return err
		}
		cart, err := loadCart(tx, uc.repos.Carts, storeID, cartID)
		if err != nil {
			return err
		}
		products, err := uc.repos.Products.FindByIDs(tx, storeID, cart.ProductIDs())
		if err != nil {
			return err
		}
		quote, err := cart.Quote(products)
		if err != nil {
			return err
		}

		// 1. 以最新重量與金額重新驗證配送方式
		candidates, err := uc.candidates.Candidates(ctx, tx, st, shipping.CandidateInput{
			Weight:     quote.Weight,
			TotalPrice: quote.Total,
			Prefecture: pref,
		}, now)
		if err != nil {
			return err
		}
		candidate, err := shipping.FindCandidate(candidates, methodID)
		if err != nil {
			return err
		}

		// 2. 下單（扣庫存、清空購物車）
		checkout, err := ec.PlaceOrder(st.EcSetting(), cart, products, candidate, address, now)
		if err != nil {
			return err
		}

		// 3. 點數
		earned, err := uc.earnPoints(tx, st, checkout.Order, now, &events)
		if err != nil {
			return err
		}

		// 4. 保存
		for _, p := range products {
			if err := uc.repos.Products.Update(tx, p); err != nil {
				return err
			}
		}
		if err := uc.repos.Histories.Append(tx, checkout.Histories...); err != nil {
			return fmt.Errorf("failed to append stock histories: %w", err)
		}
		if err := uc.repos.Orders.Save(tx, checkout.Order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := uc.repos.Carts.Update(tx, cart); err != nil {
			return err
		}

		events.Add(checkout.Event)
		result = toCheckoutResult(checkout.Order, earned)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.EcOrderPlaced(storeID.String())
	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}

// earnPoints 有顧客時依商品金額累積點數（帳戶不存在則開設）
func (uc *CheckoutUseCase) earnPoints(tx shared.TransactionContext, st *store.Store, order *ec.Order, now time.Time, events *common.EventBuffer) (int, error) {
	if order.CustomerID.IsEmpty() || uc.repos.Points == nil {
		return 0, nil
	}
	rate, err := points.NewConversionRate(st.PointConversionRate())
	if err != nil {
		return 0, err
	}
	amount := uc.calculator.CalculateFromAmount(order.Subtotal, rate)

	account, err := uc.repos.Points.FindByCustomer(tx, order.StoreID, order.CustomerID)
	isNew := false
	if errors.Is(err, points.ErrAccountNotFound) {
		account, err = points.NewPointsAccount(order.StoreID, order.CustomerID, now)
		isNew = true
	}
	if err != nil {
		return 0, err
	}

	if err := account.EarnPoints(amount, points.SourceEcOrder, order.ID.String(), now); err != nil {
		return 0, err
	}
	if isNew {
		err = uc.repos.Points.Save(tx, account)
	} else {
		err = uc.repos.Points.Update(tx, account)
	}
	if err != nil {
		return 0, err
	}
	events.Add(account.PullEvents()...)
	return amount.Value(), nil
}

func toCheckoutResult(o *ec.Order, pointsEarned int) *CheckoutResult {
	lines := make([]OrderLineDTO, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineDTO{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	return &CheckoutResult{
		OrderID:      o.ID.String(),
		Status:       string(o.Status),
		Lines:        lines,
		ShippingName: o.ShippingName,
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		Total:        o.Total,
		ShipDate:     o.ShipDate,
		PointsEarned: pointsEarned,
	}
}
