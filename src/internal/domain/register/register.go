package register

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// Status 收銀機狀態
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// MovementKind 現金異動種類
type MovementKind string

const (
	MovementSale       MovementKind = "sale"
	MovementPurchase   MovementKind = "purchase"
	MovementDeposit    MovementKind = "deposit"
	MovementWithdrawal MovementKind = "withdrawal"
	MovementAdjustment MovementKind = "adjustment"
)

// CashMovement 現金異動紀錄
//
// Amount 帶正負號：入金為正、出金為負。
type CashMovement struct {
	ID           string
	RegisterID   RegisterID
	Kind         MovementKind
	Amount       int64
	SourceID     string
	Reason       string
	BalanceAfter int64
	CreatedAt    time.Time
}

// ===========================
// Register Aggregate Root
// ===========================

// Register 收銀機聚合根
//
// 不變量：
// 1. 現金餘額不為負
// 2. 只有開帳中的收銀機可以收付現金
// 3. 開帳只能在關帳狀態進行，中間點算與關帳只能在開帳狀態進行
type Register struct {
	id          RegisterID
	storeID     store.StoreID
	name        string
	cashBalance int64
	status      Status

	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewRegister 建立收銀機（初始為關帳、現金 0）
func NewRegister(storeID store.StoreID, name string, now time.Time) (*Register, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRegisterName
	}
	return &Register{
		id:        NewRegisterID(),
		storeID:   storeID,
		name:      name,
		status:    StatusClosed,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructRegister 從資料庫重建
func ReconstructRegister(
	id RegisterID,
	storeID store.StoreID,
	name string,
	cashBalance int64,
	status Status,
	createdAt, updatedAt time.Time,
	version int,
) (*Register, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidRegisterID.WithContext("reason", "invalid register ID in database")
	}
	if status != StatusOpen && status != StatusClosed {
		return nil, ErrInvalidRegisterStatus.WithContext("status", string(status))
	}
	if cashBalance < 0 {
		return nil, ErrInsufficientCash.WithContext("balance", cashBalance)
	}
	return &Register{
		id:          id,
		storeID:     storeID,
		name:        name,
		cashBalance: cashBalance,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}, nil
}

// ===========================
// 現金收付
// ===========================

// RecordSale 記錄銷售現金入帳
func (r *Register) RecordSale(amount int64, sourceID string, now time.Time) (CashMovement, error) {
	return r.move(MovementSale, amount, sourceID, "", now)
}

// RecordPurchase 記錄買取現金支出
func (r *Register) RecordPurchase(amount int64, sourceID string, now time.Time) (CashMovement, error) {
	return r.move(MovementPurchase, -amount, sourceID, "", now)
}

// Deposit 手動入金
func (r *Register) Deposit(amount int64, reason string, now time.Time) (CashMovement, error) {
	if amount <= 0 {
		return CashMovement{}, ErrInvalidCashAmount.WithContext("amount", amount)
	}
	return r.move(MovementDeposit, amount, "", reason, now)
}

// Withdraw 手動出金，不能超過現金餘額
func (r *Register) Withdraw(amount int64, reason string, now time.Time) (CashMovement, error) {
	if amount <= 0 {
		return CashMovement{}, ErrInvalidCashAmount.WithContext("amount", amount)
	}
	return r.move(MovementWithdrawal, -amount, "", reason, now)
}

func (r *Register) move(kind MovementKind, delta int64, sourceID, reason string, now time.Time) (CashMovement, error) {
	if r.status != StatusOpen {
		return CashMovement{}, ErrRegisterClosed.WithContext("register_id", r.id.String())
	}
	if r.cashBalance+delta < 0 {
		return CashMovement{}, ErrInsufficientCash.WithContext(
			"balance", r.cashBalance,
			"requested", -delta,
		)
	}

	r.cashBalance += delta
	r.updatedAt = now
	return CashMovement{
		ID:           uuid.New().String(),
		RegisterID:   r.id,
		Kind:         kind,
		Amount:       delta,
		SourceID:     sourceID,
		Reason:       reason,
		BalanceAfter: r.cashBalance,
		CreatedAt:    now,
	}, nil
}

// ===========================
// 點算（精算）
// ===========================

// SettlementKind 點算種類
type SettlementKind string

const (
	SettlementOpening SettlementKind = "opening"
	SettlementMiddle  SettlementKind = "middle"
	SettlementClosing SettlementKind = "closing"
)

// Denominations 日圓紙鈔與硬幣面額，由大到小
var Denominations = []int64{10000, 5000, 2000, 1000, 500, 100, 50, 10, 5, 1}

// Settlement 點算結果
type Settlement struct {
	ID            string
	RegisterID    RegisterID
	Kind          SettlementKind
	Denominations map[int64]int
	Counted       int64
	Expected      int64
	Difference    int64
	CreatedAt     time.Time
}

// SettlementResult Settle 的輸出：點算紀錄與差額調整（差額為 0 時 Adjustment 為 nil）
type SettlementResult struct {
	Settlement Settlement
	Adjustment *CashMovement
}

// CountCash 依面額計算現金總額
func CountCash(denominations map[int64]int) (int64, error) {
	var total int64
	for yen, count := range denominations {
		if !isDenomination(yen) || count < 0 {
			return 0, ErrInvalidDenomination.WithContext("yen", yen, "count", count)
		}
		total += yen * int64(count)
	}
	return total, nil
}

// Settle 點算收銀機現金
//
// 差額 = 點算金額 − 帳面金額；帳面金額改為點算金額，差額不為 0 時產生 adjustment 異動。
// 開帳後狀態為 open，關帳後為 closed。
func (r *Register) Settle(kind SettlementKind, denominations map[int64]int, now time.Time) (*SettlementResult, error) {
	switch kind {
	case SettlementOpening:
		if r.status != StatusClosed {
			return nil, ErrInvalidRegisterStatus.WithContext("status", string(r.status), "settlement", string(kind))
		}
	case SettlementMiddle, SettlementClosing:
		if r.status != StatusOpen {
			return nil, ErrInvalidRegisterStatus.WithContext("status", string(r.status), "settlement", string(kind))
		}
	default:
		return nil, ErrInvalidSettlementKind.WithContext("kind", string(kind))
	}

	counted, err := CountCash(denominations)
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{
		Settlement: Settlement{
			ID:            uuid.New().String(),
			RegisterID:    r.id,
			Kind:          kind,
			Denominations: copyDenominations(denominations),
			Counted:       counted,
			Expected:      r.cashBalance,
			Difference:    counted - r.cashBalance,
			CreatedAt:     now,
		},
	}

	if diff := result.Settlement.Difference; diff != 0 {
		r.cashBalance = counted
		result.Adjustment = &CashMovement{
			ID:           uuid.New().String(),
			RegisterID:   r.id,
			Kind:         MovementAdjustment,
			Amount:       diff,
			SourceID:     result.Settlement.ID,
			Reason:       string(kind),
			BalanceAfter: counted,
			CreatedAt:    now,
		}
	}

	switch kind {
	case SettlementOpening:
		r.status = StatusOpen
	case SettlementClosing:
		r.status = StatusClosed
	}
	r.updatedAt = now
	return result, nil
}

func isDenomination(yen int64) bool {
	for _, d := range Denominations {
		if d == yen {
			return true
		}
	}
	return false
}

func copyDenominations(in map[int64]int) map[int64]int {
	out := make(map[int64]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (r *Register) AdvanceVersion() {
	r.version++
}

// BelongsTo 是否屬於指定店舖
func (r *Register) BelongsTo(id store.StoreID) bool {
	return r.storeID.Equals(id)
}

func (r *Register) ID() RegisterID         { return r.id }
func (r *Register) StoreID() store.StoreID { return r.storeID }
func (r *Register) Name() string           { return r.name }
func (r *Register) CashBalance() int64     { return r.cashBalance }
func (r *Register) Status() Status         { return r.status }
func (r *Register) IsOpen() bool           { return r.status == StatusOpen }
func (r *Register) CreatedAt() time.Time   { return r.createdAt }
func (r *Register) UpdatedAt() time.Time   { return r.updatedAt }
func (r *Register) Version() int           { return r.version }
