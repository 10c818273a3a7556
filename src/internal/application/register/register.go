package register

import (
	"context"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// RegisterResult 收銀機狀態
type RegisterResult struct {
	RegisterID  string
	Name        string
	Status      string
	CashBalance int64
}

func toResult(r *register.Register) RegisterResult {
	return RegisterResult{
		RegisterID:  r.ID().String(),
		Name:        r.Name(),
		Status:      string(r.Status()),
		CashBalance: r.CashBalance(),
	}
}

// ===========================
// CreateRegister
// ===========================

// CreateRegisterCommand 建立收銀機指令
type CreateRegisterCommand struct {
	StoreID string
	Name    string
}

// CreateRegisterUseCase 建立收銀機（關帳、現金 0）
type CreateRegisterUseCase struct {
	storeRepo    store.StoreRepository
	registerRepo register.RegisterRepository
	txManager    shared.TransactionManager
	clock        shared.Clock
}

// NewCreateRegisterUseCase 創建 Use Case 實例
func NewCreateRegisterUseCase(
	storeRepo store.StoreRepository,
	registerRepo register.RegisterRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *CreateRegisterUseCase {
	return &CreateRegisterUseCase{storeRepo: storeRepo, registerRepo: registerRepo, txManager: txManager, clock: clock}
}

// Execute 建立收銀機
func (uc *CreateRegisterUseCase) Execute(ctx context.Context, cmd CreateRegisterCommand) (*RegisterResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}

	var result RegisterResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if _, err := uc.storeRepo.FindByID(tx, storeID); err != nil {
			return err
		}
		r, err := register.NewRegister(storeID, cmd.Name, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.registerRepo.Save(tx, r); err != nil {
			return err
		}
		result = toResult(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ===========================
// Settle
// ===========================

// SettleCommand 點算指令
//
// Denominations 為面額（日圓）→ 張數／枚數。
type SettleCommand struct {
	StoreID       string
	RegisterID    string
	Kind          string
	Denominations map[int64]int
}

// SettleResult 點算結果
type SettleResult struct {
	SettlementID string
	Register     RegisterResult
	Counted      int64
	Expected     int64
	Difference   int64
	Adjusted     bool
}

// SettleUseCase 開帳／中間點算／關帳
//
// 差額不為 0 時以 adjustment 現金異動修正帳面金額。
type SettleUseCase struct {
	registerRepo register.RegisterRepository
	txManager    shared.TransactionManager
	clock        shared.Clock
}

// NewSettleUseCase 創建 Use Case 實例
func NewSettleUseCase(registerRepo register.RegisterRepository, txManager shared.TransactionManager, clock shared.Clock) *SettleUseCase {
	return &SettleUseCase{registerRepo: registerRepo, txManager: txManager, clock: clock}
}

// Execute 執行點算
func (uc *SettleUseCase) Execute(ctx context.Context, cmd SettleCommand) (*SettleResult, error) {
	storeID, registerID, err := parseIDs(cmd.StoreID, cmd.RegisterID)
	if err != nil {
		return nil, err
	}

	var result *SettleResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := loadRegister(tx, uc.registerRepo, storeID, registerID)
		if err != nil {
			return err
		}
		settled, err := r.Settle(register.SettlementKind(cmd.Kind), cmd.Denominations, uc.clock.Now())
		if err != nil {
			return err
		}

		if err := uc.registerRepo.SaveSettlement(tx, settled.Settlement); err != nil {
			return fmt.Errorf("failed to save settlement: %w", err)
		}
		if settled.Adjustment != nil {
			if err := uc.registerRepo.AppendMovements(tx, *settled.Adjustment); err != nil {
				return fmt.Errorf("failed to append adjustment: %w", err)
			}
		}
		if err := uc.registerRepo.Update(tx, r); err != nil {
			return err
		}

		result = &SettleResult{
			SettlementID: settled.Settlement.ID,
			Register:     toResult(r),
			Counted:      settled.Settlement.Counted,
			Expected:     settled.Settlement.Expected,
			Difference:   settled.Settlement.Difference,
			Adjusted:     settled.Adjustment != nil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ===========================
// Deposit / Withdraw
// ===========================

// CashCommand 手動入出金指令
type CashCommand struct {
	StoreID    string
	RegisterID string
	Amount     int64
	Reason     string
}

// CashResult 入出金結果
type CashResult struct {
	MovementID string
	Amount     int64
	Register   RegisterResult
}

// CashUseCase 手動入金／出金
type CashUseCase struct {
	registerRepo register.RegisterRepository
	txManager    shared.TransactionManager
	clock        shared.Clock
}

// NewCashUseCase 創建 Use Case 實例
func NewCashUseCase(registerRepo register.RegisterRepository, txManager shared.TransactionManager, clock shared.Clock) *CashUseCase {
	return &CashUseCase{registerRepo: registerRepo, txManager: txManager, clock: clock}
}

// Deposit 入金
func (uc *CashUseCase) Deposit(ctx context.Context, cmd CashCommand) (*CashResult, error) {
	return uc.run(ctx, cmd, (*register.Register).Deposit)
}

// Withdraw 出金（不能超過現金餘額）
func (uc *CashUseCase) Withdraw(ctx context.Context, cmd CashCommand) (*CashResult, error) {
	return uc.run(ctx, cmd, (*register.Register).Withdraw)
}

type moveFunc func(r *register.Register, amount int64, reason string, now time.Time) (register.CashMovement, error)

func (uc *CashUseCase) run(ctx context.Context, cmd CashCommand, move moveFunc) (*CashResult, error) {
	storeID, registerID, err := parseIDs(cmd.StoreID, cmd.RegisterID)
	if err != nil {
		return nil, err
	}

	var result *CashResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := loadRegister(tx, uc.registerRepo, storeID, registerID)
		if err != nil {
			return err
		}
		m, err := move(r, cmd.Amount, cmd.Reason, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.registerRepo.AppendMovements(tx, m); err != nil {
			return fmt.Errorf("failed to append cash movement: %w", err)
		}
		if err := uc.registerRepo.Update(tx, r); err != nil {
			return err
		}
		result = &CashResult{MovementID: m.ID, Amount: m.Amount, Register: toResult(r)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ===========================
// Movements
// ===========================

// MovementsQuery 現金異動查詢（[From, To)）
type MovementsQuery struct {
	StoreID    string
	RegisterID string
	From       time.Time
	To         time.Time
}

// MovementDTO 現金異動
type MovementDTO struct {
	ID           string
	Kind         string
	Amount       int64
	SourceID     string
	Reason       string
	BalanceAfter int64
	CreatedAt    time.Time
}

// ListMovementsUseCase 查詢現金異動
type ListMovementsUseCase struct {
	registerRepo register.RegisterRepository
}

// NewListMovementsUseCase 創建 Use Case 實例
func NewListMovementsUseCase(registerRepo register.RegisterRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{registerRepo: registerRepo}
}

// Execute 查詢（唯讀，不開事務）
func (uc *ListMovementsUseCase) Execute(ctx context.Context, q MovementsQuery) ([]MovementDTO, error) {
	storeID, registerID, err := parseIDs(q.StoreID, q.RegisterID)
	if err != nil {
		return nil, err
	}
	if !q.From.Before(q.To) {
		return nil, shared.ErrInvalidInput.WithContext("from", q.From, "to", q.To)
	}
	if _, err := loadRegister(nil, uc.registerRepo, storeID, registerID); err != nil {
		return nil, err
	}
	movements, err := uc.registerRepo.FindMovements(nil, registerID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	out := make([]MovementDTO, len(movements))
	for i, m := range movements {
		out[i] = MovementDTO{
			ID:           m.ID,
			Kind:         string(m.Kind),
			Amount:       m.Amount,
			SourceID:     m.SourceID,
			Reason:       m.Reason,
			BalanceAfter: m.BalanceAfter,
			CreatedAt:    m.CreatedAt,
		}
	}
	return out, nil
}

func parseIDs(storeIDStr, registerIDStr string) (store.StoreID, register.RegisterID, error) {
	storeID, err := store.StoreIDFromString(storeIDStr)
	if err != nil {
		return store.StoreID{}, register.RegisterID{}, err
	}
	registerID, err := register.RegisterIDFromString(registerIDStr)
	if err != nil {
		return store.StoreID{}, register.RegisterID{}, err
	}
	return storeID, registerID, nil
}

func loadRegister(tx shared.TransactionContext, repo register.RegisterRepository, storeID store.StoreID, id register.RegisterID) (*register.Register, error) {
	r, err := repo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if !r.BelongsTo(storeID) {
		return nil, register.ErrRegisterNotFound.WithContext("register_id", id.String(), "store_id", storeID.String())
	}
	return r, nil
}
