package reservation

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// Status 予約狀態
type Status string

const (
	StatusOpen   Status = "open"   // 受付中
	StatusClosed Status = "closed" // 截止
)

// ReceptionStatus 受付狀態
type ReceptionStatus string

const (
	ReceptionReserved ReceptionStatus = "reserved"
	ReceptionCanceled ReceptionStatus = "canceled"
	ReceptionReceived ReceptionStatus = "received"
)

// Reception 顧客的予約受付
type Reception struct {
	ID         ReceptionID
	CustomerID customer.CustomerID
	Count      int
	Status     ReceptionStatus
	CreatedAt  time.Time
	ReceivedAt *time.Time
}

// Terms 予約條件
//
// LimitCount / LimitPerCustomer 為 0 表示不限。
// Deposit 為每件前金，RemainingPrice 為每件取貨時應付餘款。
type Terms struct {
	LimitCount       int
	LimitPerCustomer int
	Deposit          int64
	RemainingPrice   int64
}

func (t Terms) validate() error {
	if t.LimitCount < 0 || t.LimitPerCustomer < 0 || t.Deposit < 0 || t.RemainingPrice < 0 {
		return ErrInvalidReservation.WithContext(
			"limit_count", t.LimitCount,
			"limit_per_customer", t.LimitPerCustomer,
			"deposit", t.Deposit,
			"remaining_price", t.RemainingPrice,
		)
	}
	if t.LimitCount > 0 && t.LimitPerCustomer > t.LimitCount {
		return ErrInvalidReservation.WithContext("reason", "per-customer limit exceeds total limit")
	}
	return nil
}

// ===========================
// Reservation Aggregate Root
// ===========================

// Reservation 予約商品聚合根（包含所有受付）
//
// 不變量：
// 1. 有效受付（reserved + received）數量合計 <= LimitCount
// 2. 同一顧客的有效受付合計 <= LimitPerCustomer
// 3. 只有受付中的予約可以新增受付；取消與取貨在截止後仍可進行
type Reservation struct {
	id         ReservationID
	storeID    store.StoreID
	productID  inventory.ProductID
	terms      Terms
	status     Status
	receptions []Reception

	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewReservation 建立予約
func NewReservation(storeID store.StoreID, productID inventory.ProductID, terms Terms, now time.Time) (*Reservation, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	if productID.IsEmpty() {
		return nil, inventory.ErrInvalidProductID
	}
	if err := terms.validate(); err != nil {
		return nil, err
	}
	return &Reservation{
		id:        NewReservationID(),
		storeID:   storeID,
		productID: productID,
		terms:     terms,
		status:    StatusOpen,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructReservation 從資料庫重建
func ReconstructReservation(
	id ReservationID,
	storeID store.StoreID,
	productID inventory.ProductID,
	terms Terms,
	status Status,
	receptions []Reception,
	createdAt, updatedAt time.Time,
	version int,
) (*Reservation, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidReservationID.WithContext("reason", "invalid reservation ID in database")
	}
	if status != StatusOpen && status != StatusClosed {
		return nil, ErrInvalidReservation.WithContext("status", string(status))
	}
	return &Reservation{
		id:         id,
		storeID:    storeID,
		productID:  productID,
		terms:      terms,
		status:     status,
		receptions: append([]Reception(nil), receptions...),
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    version,
	}, nil
}

// Reserve 受付顧客予約
func (r *Reservation) Reserve(customerID customer.CustomerID, count int, now time.Time) (Reception, error) {
	if r.status != StatusOpen {
		return Reception{}, ErrReservationClosed.WithContext("reservation_id", r.id.String())
	}
	if customerID.IsEmpty() {
		return Reception{}, customer.ErrInvalidCustomerID
	}
	if count <= 0 {
		return Reception{}, ErrInvalidReservation.WithContext("count", count)
	}
	if limit := r.terms.LimitCount; limit > 0 && r.ReservedCount()+count > limit {
		return Reception{}, ErrLimitExceeded.WithContext(
			"limit", limit,
			"reserved", r.ReservedCount(),
			"requested", count,
		)
	}
	if limit := r.terms.LimitPerCustomer; limit > 0 && r.customerCount(customerID)+count > limit {
		return Reception{}, ErrLimitExceeded.WithContext(
			"limit_per_customer", limit,
			"customer_reserved", r.customerCount(customerID),
			"requested", count,
		)
	}

	reception := Reception{
		ID:         NewReceptionID(),
		CustomerID: customerID,
		Count:      count,
		Status:     ReceptionReserved,
		CreatedAt:  now,
	}
	r.receptions = append(r.receptions, reception)
	r.updatedAt = now
	return reception, nil
}

// CancelReception 取消受付（已取貨不可取消）
func (r *Reservation) CancelReception(id ReceptionID, now time.Time) error {
	rec, err := r.reception(id)
	if err != nil {
		return err
	}
	if rec.Status != ReceptionReserved {
		return ErrInvalidReceptionState.WithContext("reception_id", id.String(), "status", string(rec.Status))
	}
	rec.Status = ReceptionCanceled
	r.updatedAt = now
	return nil
}

// Receive 顧客取貨：扣除商品庫存並返回庫存變動紀錄
func (r *Reservation) Receive(id ReceptionID, product *inventory.Product, now time.Time) (Reception, inventory.StockHistory, error) {
	rec, err := r.reception(id)
	if err != nil {
		return Reception{}, inventory.StockHistory{}, err
	}
	if rec.Status != ReceptionReserved {
		return Reception{}, inventory.StockHistory{}, ErrInvalidReceptionState.WithContext(
			"reception_id", id.String(),
			"status", string(rec.Status),
		)
	}
	if product == nil || !product.ID().Equals(r.productID) || !product.BelongsTo(r.storeID) {
		return Reception{}, inventory.StockHistory{}, ErrProductMismatch.WithContext("reservation_id", r.id.String())
	}

	if _, err := product.Withdraw(rec.Count, now); err != nil {
		return Reception{}, inventory.StockHistory{}, err
	}
	rec.Status = ReceptionReceived
	rec.ReceivedAt = &now
	r.updatedAt = now
	history := inventory.RecordStockChange(product, inventory.SourceReservation, rec.ID.String(), -rec.Count, now)
	return *rec, history, nil
}

// Close 截止受付
func (r *Reservation) Close(now time.Time) {
	r.status = StatusClosed
	r.updatedAt = now
}

// ReservedCount 有效受付數量合計
func (r *Reservation) ReservedCount() int {
	total := 0
	for _, rec := range r.receptions {
		if rec.Status != ReceptionCanceled {
			total += rec.Count
		}
	}
	return total
}

func (r *Reservation) customerCount(customerID customer.CustomerID) int {
	total := 0
	for _, rec := range r.receptions {
		if rec.Status != ReceptionCanceled && rec.CustomerID.Equals(customerID) {
			total += rec.Count
		}
	}
	return total
}

func (r *Reservation) reception(id ReceptionID) (*Reception, error) {
	for i := range r.receptions {
		if r.receptions[i].ID.Equals(id) {
			return &r.receptions[i], nil
		}
	}
	return nil, ErrReceptionNotFound.WithContext("reception_id", id.String())
}

// Receptions 返回受付副本
func (r *Reservation) Receptions() []Reception {
	return append([]Reception(nil), r.receptions...)
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (r *Reservation) AdvanceVersion() {
	r.version++
}

// BelongsTo 是否屬於指定店舖
func (r *Reservation) BelongsTo(id store.StoreID) bool {
	return r.storeID.Equals(id)
}

func (r *Reservation) ID() ReservationID              { return r.id }
func (r *Reservation) StoreID() store.StoreID         { return r.storeID }
func (r *Reservation) ProductID() inventory.ProductID { return r.productID }
func (r *Reservation) Terms() Terms                   { return r.terms }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }
func (r *Reservation) Version() int                   { return r.version }
