package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/transaction"
)

// FinalizeCommand 結帳指令
type FinalizeCommand struct {
	StoreID       string
	TransactionID string
	PaymentMethod string
	Received      int64
}

// FinalizeResult 結帳結果
//
// CashBalance 只有現金交易且指定收銀機時才有值。
type FinalizeResult struct {
	TransactionID   string
	Kind            string
	Total           int64
	Received        int64
	Change          int64
	WholesaleCost   int64
	PointsUsed      int
	PointsEarned    int
	PointsAvailable *int
	CashBalance     *int64
	ConsignedSales  int
}

// FinalizeUseCase 交易結帳
//
// 在單一事務中：
// 1. 依明細異動庫存（販賣 FIFO 出庫、買取入庫）並寫入庫存變動紀錄
// 2. 販賣且指定顧客：扣除使用點數、依店舖換算率發放點數（帳戶不存在時自動開設）
// 3. 委託商品記錄委託販賣
// 4. 現金交易且指定收銀機：販賣入金、買取出金
// 5. 交易狀態改為 completed
//
// 事務提交後發布 transaction.completed 與點數事件。
type FinalizeUseCase struct {
	repos      Repositories
	calculator *points.PointsCalculationService
	txManager  shared.TransactionManager
	dispatcher *common.EventDispatcher
	recorder   common.Recorder
	clock      shared.Clock
}

// NewFinalizeUseCase 創建 Use Case 實例
func NewFinalizeUseCase(
	repos Repositories,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	recorder common.Recorder,
	clock shared.Clock,
) *FinalizeUseCase {
	return &FinalizeUseCase{
		repos:      repos,
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
// - 非草稿 → ErrNotDraft
// - 庫存不足 → inventory.ErrInsufficientStock（不做任何變更）
// - 點數不足 → points.ErrInsufficientPoints
// - 現金收款不足 → ErrInsufficientPayment
// - 收銀機未開帳或現金不足 → register 領域錯誤
func (uc *FinalizeUseCase) Execute(ctx context.Context, cmd FinalizeCommand) (*FinalizeResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	txID, err := transaction.TransactionIDFromString(cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	payment := transaction.Payment{
		Method:   transaction.PaymentMethod(cmd.PaymentMethod),
		Received: cmd.Received,
	}

	var (
		result *FinalizeResult
		kind   transaction.Kind
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		events.Reset()
		now := uc.clock.Now()

		t, err := uc.repos.Transactions.FindByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.BelongsTo(storeID) {
			return transaction.ErrTransactionNotFound.WithContext("transaction_id", txID.String(), "store_id", storeID.String())
		}
		st, err := uc.repos.Stores.FindByID(tx, storeID)
		if err != nil {
			return err
		}

		// 1. 庫存
		products, err := uc.repos.Products.FindByIDs(tx, storeID, t.ProductIDs())
		if err != nil {
			return fmt.Errorf("failed to load transaction products: %w", err)
		}
		settlement, err := transaction.ApplyToStock(t, products, now)
		if err != nil {
			return err
		}

		// 2. 點數
		account, isNewAccount, err := uc.loadAccount(tx, t, now)
		if err != nil {
			return err
		}
		earned, err := uc.pointsToEarn(t, st)
		if err != nil {
			return err
		}
		if account != nil && t.PointsUsed() > 0 {
			used, err := points.NewPointsAmount(t.PointsUsed())
			if err != nil {
				return err
			}
			if err := account.DeductPoints(used, points.SourceTransaction, t.ID().String(), now); err != nil {
				return err
			}
		}

		if err := t.Complete(payment, earned.Value(), now); err != nil {
			return err
		}
		if account != nil {
			if err := account.EarnPoints(earned, points.SourceTransaction, t.ID().String(), now); err != nil {
				return err
			}
		}

		// 3. 委託販賣
		sales, err := uc.recordConsignedSales(tx, storeID, t, settlement.Consigned, now)
		if err != nil {
			return err
		}

		// 4. 收銀機
		cashBalance, err := uc.moveCash(tx, storeID, t, now)
		if err != nil {
			return err
		}

		// 5. 持久化
		for _, p := range products {
			if err := uc.repos.Products.Update(tx, p); err != nil {
				return err
			}
		}
		if err := uc.repos.Histories.Append(tx, settlement.Histories...); err != nil {
			return fmt.Errorf("failed to append stock histories: %w", err)
		}
		if len(sales) > 0 {
			if err := uc.repos.Sales.Append(tx, sales...); err != nil {
				return fmt.Errorf("failed to append consignment sales: %w", err)
			}
		}
		if account != nil {
			if isNewAccount {
				err = uc.repos.Points.Save(tx, account)
			} else {
				err = uc.repos.Points.Update(tx, account)
			}
			if err != nil {
				return err
			}
		}
		if err := uc.repos.Transactions.Update(tx, t); err != nil {
			return err
		}

		result = &FinalizeResult{
			TransactionID:  t.ID().String(),
			Kind:           string(t.Kind()),
			Total:          t.Total(),
			Received:       t.Received(),
			Change:         t.Change(),
			WholesaleCost:  t.WholesaleCost(),
			PointsUsed:     t.PointsUsed(),
			PointsEarned:   t.PointsEarned(),
			CashBalance:    cashBalance,
			ConsignedSales: len(sales),
		}
		if account != nil {
			available := account.AvailablePoints().Value()
			result.PointsAvailable = &available
		}
		kind = t.Kind()

		events.Add(t.PullEvents()...)
		if account != nil {
			events.Add(account.PullEvents()...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.TransactionFinalized(string(kind))
	uc.dispatcher.Dispatch(ctx, events.Events()...)
	return result, nil
}

// loadAccount 販賣且指定顧客時載入點數帳戶，不存在則開設
func (uc *FinalizeUseCase) loadAccount(tx shared.TransactionContext, t *transaction.Transaction, now time.Time) (*points.PointsAccount, bool, error) {
	if t.Kind() != transaction.KindSell || !t.HasCustomer() {
		return nil, false, nil
	}
	account, err := uc.repos.Points.FindByCustomer(tx, t.StoreID(), t.CustomerID())
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, points.ErrAccountNotFound) {
		return nil, false, err
	}
	account, err = points.NewPointsAccount(t.StoreID(), t.CustomerID(), now)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

// pointsToEarn 販賣且指定顧客時依實收金額計算點數
func (uc *FinalizeUseCase) pointsToEarn(t *transaction.Transaction, st *store.Store) (points.PointsAmount, error) {
	if t.Kind() != transaction.KindSell || !t.HasCustomer() {
		return points.PointsAmount{}, nil
	}
	rate, err := points.NewConversionRate(st.PointConversionRate())
	if err != nil {
		return points.PointsAmount{}, err
	}
	return uc.calculator.CalculateFromAmount(t.Total(), rate), nil
}

func (uc *FinalizeUseCase) recordConsignedSales(
	tx shared.TransactionContext,
	storeID store.StoreID,
	t *transaction.Transaction,
	lines []transaction.ConsignedLine,
	now time.Time,
) ([]consignment.Sale, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	clients := make(map[consignment.ClientID]*consignment.Client)
	sales := make([]consignment.Sale, 0, len(lines))
	for _, l := range lines {
		clientID, err := consignment.ClientIDFromString(l.ClientID)
		if err != nil {
			return nil, err
		}
		client, ok := clients[clientID]
		if !ok {
			if client, err = uc.repos.Clients.FindByID(tx, clientID); err != nil {
				return nil, err
			}
			if !client.StoreID().Equals(storeID) {
				return nil, consignment.ErrClientNotFound.WithContext("client_id", clientID.String(), "store_id", storeID.String())
			}
			clients[clientID] = client
		}
		sale, err := client.RecordSale(l.ProductID, t.ID().String(), l.Quantity, l.SalesAmount, now)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// moveCash 現金交易記錄收銀機入出金，返回異動後餘額
func (uc *FinalizeUseCase) moveCash(tx shared.TransactionContext, storeID store.StoreID, t *transaction.Transaction, now time.Time) (*int64, error) {
	if t.RegisterID().IsEmpty() || t.PaymentMethod() != transaction.PaymentCash {
		return nil, nil
	}
	reg, err := uc.repos.Registers.FindByID(tx, t.RegisterID())
	if err != nil {
		return nil, err
	}
	if !reg.BelongsTo(storeID) {
		return nil, register.ErrRegisterNotFound.WithContext("register_id", reg.ID().String(), "store_id", storeID.String())
	}

	var movement register.CashMovement
	switch t.Kind() {
	case transaction.KindSell:
		movement, err = reg.RecordSale(t.Total(), t.ID().String(), now)
	case transaction.KindBuy:
		movement, err = reg.RecordPurchase(t.Total(), t.ID().String(), now)
	}
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Registers.AppendMovements(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to append cash movement: %w", err)
	}
	if err := uc.repos.Registers.Update(tx, reg); err != nil {
		return nil, err
	}
	balance := reg.CashBalance()
	return &balance, nil
}
