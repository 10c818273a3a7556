package transaction

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/transaction"
)

// Repositories 交易 Use Case 共用的倉儲
type Repositories struct {
	Stores       store.StoreRepository
	Transactions transaction.TransactionRepository
	Products     inventory.ProductRepository
	Histories    inventory.StockHistoryRepository
	Customers    customer.CustomerRepository
	Points       points.PointsAccountRepository
	Registers    register.RegisterRepository
	Clients      consignment.ClientRepository
	Sales        consignment.SaleRepository
}

// ===========================
// SaveDraft
// ===========================

// LineInput 交易明細輸入
type LineInput struct {
	ProductID string
	UnitPrice int64
	Quantity  int
	Discount  int64
}

// SaveDraftCommand 保存草稿指令
//
// TransactionID 為空時建立新草稿，否則覆寫既有草稿。
type SaveDraftCommand struct {
	StoreID       string
	TransactionID string
	Kind          string
	RegisterID    string
	CustomerID    string
	Lines         []LineInput
	Discount      int64
	PointsUsed    int
}

// DraftResult 草稿內容
type DraftResult struct {
	TransactionID string
	Kind          string
	Status        string
	Subtotal      int64
	Total         int64
	LineCount     int
}

// SaveDraftUseCase 建立或覆寫交易草稿
type SaveDraftUseCase struct {
	repos     Repositories
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewSaveDraftUseCase 創建 Use Case 實例
func NewSaveDraftUseCase(repos Repositories, txManager shared.TransactionManager, clock shared.Clock) *SaveDraftUseCase {
	return &SaveDraftUseCase{repos: repos, txManager: txManager, clock: clock}
}

// Execute 保存草稿
//
// 收銀機與顧客必須屬於同一店舖；明細商品在結帳時才檢查庫存。
func (uc *SaveDraftUseCase) Execute(ctx context.Context, cmd SaveDraftCommand) (*DraftResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	in, err := toDraftInput(cmd)
	if err != nil {
		return nil, err
	}
	var txID transaction.TransactionID
	if cmd.TransactionID != "" {
		if txID, err = transaction.TransactionIDFromString(cmd.TransactionID); err != nil {
			return nil, err
		}
	}

	var result *DraftResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		now := uc.clock.Now()
		if err := uc.checkReferences(tx, storeID, in); err != nil {
			return err
		}

		if txID.IsEmpty() {
			t, err := transaction.NewDraft(storeID, transaction.Kind(cmd.Kind), in, now)
			if err != nil {
				return err
			}
			if err := uc.repos.Transactions.Save(tx, t); err != nil {
				return err
			}
			result = toDraftResult(t)
			return nil
		}

		t, err := uc.repos.Transactions.FindByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.BelongsTo(storeID) {
			return transaction.ErrTransactionNotFound.WithContext("transaction_id", txID.String(), "store_id", storeID.String())
		}
		if cmd.Kind != "" && transaction.Kind(cmd.Kind) != t.Kind() {
			return transaction.ErrInvalidKind.WithContext("reason", "kind cannot change", "kind", cmd.Kind)
		}
		if err := t.ReplaceDraft(in, now); err != nil {
			return err
		}
		if err := uc.repos.Transactions.Update(tx, t); err != nil {
			return err
		}
		result = toDraftResult(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *SaveDraftUseCase) checkReferences(tx shared.TransactionContext, storeID store.StoreID, in transaction.DraftInput) error {
	if !in.RegisterID.IsEmpty() {
		reg, err := uc.repos.Registers.FindByID(tx, in.RegisterID)
		if err != nil {
			return err
		}
		if !reg.BelongsTo(storeID) {
			return register.ErrRegisterNotFound.WithContext("register_id", in.RegisterID.String(), "store_id", storeID.String())
		}
	}
	if !in.CustomerID.IsEmpty() {
		c, err := uc.repos.Customers.FindByID(tx, in.CustomerID)
		if err != nil {
			return err
		}
		if !c.StoreID().Equals(storeID) {
			return customer.ErrCustomerNotFound.WithContext("customer_id", in.CustomerID.String(), "store_id", storeID.String())
		}
	}
	return nil
}

func toDraftInput(cmd SaveDraftCommand) (transaction.DraftInput, error) {
	in := transaction.DraftInput{
		Discount:   cmd.Discount,
		PointsUsed: cmd.PointsUsed,
		Lines:      make([]transaction.Line, len(cmd.Lines)),
	}
	if cmd.RegisterID != "" {
		id, err := register.RegisterIDFromString(cmd.RegisterID)
		if err != nil {
			return in, err
		}
		in.RegisterID = id
	}
	if cmd.CustomerID != "" {
		id, err := customer.CustomerIDFromString(cmd.CustomerID)
		if err != nil {
			return in, err
		}
		in.CustomerID = id
	}
	for i, l := range cmd.Lines {
		id, err := inventory.ProductIDFromString(l.ProductID)
		if err != nil {
			return in, err
		}
		in.Lines[i] = transaction.Line{
			ProductID: id,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Discount:  l.Discount,
		}
	}
	return in, nil
}

func toDraftResult(t *transaction.Transaction) *DraftResult {
	return &DraftResult{
		TransactionID: t.ID().String(),
		Kind:          string(t.Kind()),
		Status:        string(t.Status()),
		Subtotal:      t.Subtotal(),
		Total:         t.Total(),
		LineCount:     len(t.Lines()),
	}
}

// ===========================
// Cancel
// ===========================

// CancelCommand 取消草稿指令
type CancelCommand struct {
	StoreID       string
	TransactionID string
}

// CancelUseCase 取消交易草稿
type CancelUseCase struct {
	transactions transaction.TransactionRepository
	txManager    shared.TransactionManager
	clock        shared.Clock
}

// NewCancelUseCase 創建 Use Case 實例
func NewCancelUseCase(transactions transaction.TransactionRepository, txManager shared.TransactionManager, clock shared.Clock) *CancelUseCase {
	return &CancelUseCase{transactions: transactions, txManager: txManager, clock: clock}
}

// Execute 取消草稿（已完成或已取消返回 ErrNotDraft）
func (uc *CancelUseCase) Execute(ctx context.Context, cmd CancelCommand) (*DraftResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	txID, err := transaction.TransactionIDFromString(cmd.TransactionID)
	if err != nil {
		return nil, err
	}

	var result *DraftResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		t, err := uc.transactions.FindByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.BelongsTo(storeID) {
			return transaction.ErrTransactionNotFound.WithContext("transaction_id", txID.String(), "store_id", storeID.String())
		}
		if err := t.Cancel(uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.transactions.Update(tx, t); err != nil {
			return err
		}
		result = toDraftResult(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
