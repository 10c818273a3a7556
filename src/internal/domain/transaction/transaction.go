package transaction

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// Kind 交易種類
type Kind string

const (
	KindSell Kind = "sell" // 販賣
	KindBuy  Kind = "buy"  // 買取
)

// Status 交易狀態
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// PaymentMethod 付款方式
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

// IsValid 檢查付款方式
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentOther
}

// Line 交易明細
//
// WholesaleCost 在販賣完成時由 FIFO 出庫成本填入。
type Line struct {
	ProductID     inventory.ProductID
	UnitPrice     int64
	Quantity      int
	Discount      int64
	WholesaleCost int64
}

// Amount 明細金額（單價 × 數量 − 明細折扣）
func (l Line) Amount() int64 {
	return l.UnitPrice*int64(l.Quantity) - l.Discount
}

func (l Line) validate() error {
	if l.ProductID.IsEmpty() || l.Quantity <= 0 || l.UnitPrice < 0 || l.Discount < 0 {
		return ErrInvalidLine.WithContext(
			"product_id", l.ProductID.String(),
			"quantity", l.Quantity,
			"unit_price", l.UnitPrice,
			"discount", l.Discount,
		)
	}
	if l.Discount > l.UnitPrice*int64(l.Quantity) {
		return ErrInvalidDiscount.WithContext("product_id", l.ProductID.String(), "discount", l.Discount)
	}
	return nil
}

// DraftInput 草稿內容（建立與覆寫共用）
type DraftInput struct {
	RegisterID register.RegisterID
	CustomerID customer.CustomerID // 可為零值（非會員）
	Lines      []Line
	Discount   int64
	PointsUsed int
}

// Payment 結帳付款
type Payment struct {
	Method   PaymentMethod
	Received int64
}

// ===========================
// Transaction Aggregate Root
// ===========================

// Transaction 販賣／買取交易聚合根
//
// 狀態機：draft → completed | canceled。只有草稿可以覆寫或取消。
// 金額：
//   - 販賣 Total = Σ明細金額 − 整筆折扣 − 使用點數（1 點 = 1 円）
//   - 買取 Total = Σ明細金額 − 整筆折扣（不可使用點數）
type Transaction struct {
	id            TransactionID
	storeID       store.StoreID
	registerID    register.RegisterID
	kind          Kind
	status        Status
	customerID    customer.CustomerID
	lines         []Line
	discount      int64
	pointsUsed    int
	paymentMethod PaymentMethod
	received      int64
	change        int64
	pointsEarned  int
	finishedAt    *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int

	events []shared.DomainEvent
}

// NewDraft 建立交易草稿
func NewDraft(storeID store.StoreID, kind Kind, in DraftInput, now time.Time) (*Transaction, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	if kind != KindSell && kind != KindBuy {
		return nil, ErrInvalidKind.WithContext("kind", string(kind))
	}

	t := &Transaction{
		id:        NewTransactionID(),
		storeID:   storeID,
		kind:      kind,
		status:    StatusDraft,
		createdAt: now,
		version:   1,
	}
	if err := t.apply(in, now); err != nil {
		return nil, err
	}
	return t, nil
}

// Snapshot 持久化狀態（僅供倉儲重建使用）
type Snapshot struct {
	ID            TransactionID
	StoreID       store.StoreID
	RegisterID    register.RegisterID
	Kind          Kind
	Status        Status
	CustomerID    customer.CustomerID
	Lines         []Line
	Discount      int64
	PointsUsed    int
	PaymentMethod PaymentMethod
	Received      int64
	Change        int64
	PointsEarned  int
	FinishedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
}

// ReconstructTransaction 從資料庫重建交易
func ReconstructTransaction(s Snapshot) (*Transaction, error) {
	if s.ID.IsEmpty() {
		return nil, ErrInvalidTransactionID.WithContext("reason", "invalid transaction ID in database")
	}
	if s.Kind != KindSell && s.Kind != KindBuy {
		return nil, ErrInvalidKind.WithContext("kind", string(s.Kind))
	}
	switch s.Status {
	case StatusDraft, StatusCompleted, StatusCanceled:
	default:
		return nil, ErrNotDraft.WithContext("status", string(s.Status))
	}

	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return &Transaction{
		id:            s.ID,
		storeID:       s.StoreID,
		registerID:    s.RegisterID,
		kind:          s.Kind,
		status:        s.Status,
		customerID:    s.CustomerID,
		lines:         lines,
		discount:      s.Discount,
		pointsUsed:    s.PointsUsed,
		paymentMethod: s.PaymentMethod,
		received:      s.Received,
		change:        s.Change,
		pointsEarned:  s.PointsEarned,
		finishedAt:    s.FinishedAt,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		version:       s.Version,
	}, nil
}

// ReplaceDraft 覆寫草稿內容（保留 ID）
func (t *Transaction) ReplaceDraft(in DraftInput, now time.Time) error {
	if t.status != StatusDraft {
		return ErrNotDraft.WithContext("transaction_id", t.id.String(), "status", string(t.status))
	}
	return t.apply(in, now)
}

func (t *Transaction) apply(in DraftInput, now time.Time) error {
	if len(in.Lines) == 0 {
		return ErrEmptyLines
	}
	var subtotal int64
	for _, l := range in.Lines {
		if err := l.validate(); err != nil {
			return err
		}
		subtotal += l.Amount()
	}
	if in.Discount < 0 || in.PointsUsed < 0 {
		return ErrInvalidDiscount.WithContext("discount", in.Discount, "points_used", in.PointsUsed)
	}
	if in.PointsUsed > 0 {
		if t.kind == KindBuy {
			return ErrInvalidDiscount.WithContext("reason", "points cannot be used on buy transactions")
		}
		if in.CustomerID.IsEmpty() {
			return ErrCustomerRequired
		}
	}
	if subtotal-in.Discount-int64(in.PointsUsed) < 0 {
		return ErrInvalidDiscount.WithContext(
			"subtotal", subtotal,
			"discount", in.Discount,
			"points_used", in.PointsUsed,
		)
	}

	lines := make([]Line, len(in.Lines))
	copy(lines, in.Lines)
	for i := range lines {
		lines[i].WholesaleCost = 0
	}

	t.registerID = in.RegisterID
	t.customerID = in.CustomerID
	t.lines = lines
	t.discount = in.Discount
	t.pointsUsed = in.PointsUsed
	t.updatedAt = now
	return nil
}

// Complete 完成交易
//
// 呼叫端須先以 ApplyToStock 處理庫存（填入明細成本），再計算獲得點數。
// 現金販賣要求 Received >= Total，找零 = Received − Total；
// 其他付款方式視為剛好收款。買取的 Received 為支付給顧客的金額。
func (t *Transaction) Complete(payment Payment, pointsEarned int, now time.Time) error {
	if t.status != StatusDraft {
		return ErrNotDraft.WithContext("transaction_id", t.id.String(), "status", string(t.status))
	}
	if !payment.Method.IsValid() {
		return ErrInvalidPayment.WithContext("method", string(payment.Method))
	}
	if pointsEarned < 0 {
		return ErrInvalidPayment.WithContext("points_earned", pointsEarned)
	}

	total := t.Total()
	received := total
	if t.kind == KindSell && payment.Method == PaymentCash {
		if payment.Received < total {
			return ErrInsufficientPayment.WithContext("total", total, "received", payment.Received)
		}
		received = payment.Received
	}

	t.paymentMethod = payment.Method
	t.received = received
	t.change = received - total
	t.pointsEarned = pointsEarned
	t.status = StatusCompleted
	t.finishedAt = &now
	t.updatedAt = now
	t.addEvent(NewTransactionCompletedEvent(t))
	return nil
}

// Cancel 取消草稿
func (t *Transaction) Cancel(now time.Time) error {
	if t.status != StatusDraft {
		return ErrNotDraft.WithContext("transaction_id", t.id.String(), "status", string(t.status))
	}
	t.status = StatusCanceled
	t.updatedAt = now
	return nil
}

// Subtotal 明細金額合計
func (t *Transaction) Subtotal() int64 {
	var subtotal int64
	for _, l := range t.lines {
		subtotal += l.Amount()
	}
	return subtotal
}

// Total 應收（販賣）或應付（買取）金額
func (t *Transaction) Total() int64 {
	return t.Subtotal() - t.discount - int64(t.pointsUsed)
}

// WholesaleCost 販賣明細的進貨成本合計
func (t *Transaction) WholesaleCost() int64 {
	var cost int64
	for _, l := range t.lines {
		cost += l.WholesaleCost
	}
	return cost
}

// Lines 返回明細副本
func (t *Transaction) Lines() []Line {
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

// BelongsTo 是否屬於指定店舖
func (t *Transaction) BelongsTo(id store.StoreID) bool {
	return t.storeID.Equals(id)
}

// HasCustomer 是否指定顧客
func (t *Transaction) HasCustomer() bool {
	return !t.customerID.IsEmpty()
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (t *Transaction) AdvanceVersion() {
	t.version++
}

func (t *Transaction) addEvent(e shared.DomainEvent) {
	t.events = append(t.events, e)
}

// PullEvents 取出待發布事件
func (t *Transaction) PullEvents() []shared.DomainEvent {
	events := t.events
	t.events = nil
	return events
}

func (t *Transaction) ID() TransactionID               { return t.id }
func (t *Transaction) StoreID() store.StoreID          { return t.storeID }
func (t *Transaction) RegisterID() register.RegisterID { return t.registerID }
func (t *Transaction) Kind() Kind                      { return t.kind }
func (t *Transaction) Status() Status                  { return t.status }
func (t *Transaction) CustomerID() customer.CustomerID { return t.customerID }
func (t *Transaction) Discount() int64                 { return t.discount }
func (t *Transaction) PointsUsed() int                 { return t.pointsUsed }
func (t *Transaction) PaymentMethod() PaymentMethod    { return t.paymentMethod }
func (t *Transaction) Received() int64                 { return t.received }
func (t *Transaction) Change() int64                   { return t.change }
func (t *Transaction) PointsEarned() int               { return t.pointsEarned }
func (t *Transaction) FinishedAt() *time.Time          { return t.finishedAt }
func (t *Transaction) CreatedAt() time.Time            { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time            { return t.updatedAt }
func (t *Transaction) Version() int                    { return t.version }
