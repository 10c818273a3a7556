package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/reservation"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Commands / Results
// ===========================

// CreateReservationCommand 建立予約指令
type CreateReservationCommand struct {
	StoreID          string
	ProductID        string
	LimitCount       int
	LimitPerCustomer int
	Deposit          int64
	RemainingPrice   int64
}

// ReserveCommand 受付指令
type ReserveCommand struct {
	StoreID       string
	ReservationID string
	CustomerID    string
	Count         int
}

// ReceptionCommand 取消受付／取貨指令
type ReceptionCommand struct {
	StoreID       string
	ReservationID string
	ReceptionID   string
}

// ReservationResult 予約狀態
type ReservationResult struct {
	ReservationID string
	ProductID     string
	Status        string
	ReservedCount int
	LimitCount    int
}

// ReceptionResult 受付狀態
type ReceptionResult struct {
	ReservationID string
	ReceptionID   string
	CustomerID    string
	Count         int
	Status        string
	DepositTotal  int64
	RemainingDue  int64
	ProductStock  *int
	ReceivedAt    *time.Time
}

// ===========================
// ReservationUseCase
// ===========================

// ReservationUseCase 予約與受付操作
//
// 取貨時扣除商品庫存並寫入 reservation 來源的庫存變動紀錄。
type ReservationUseCase struct {
	reservationRepo reservation.ReservationRepository
	productRepo     inventory.ProductRepository
	historyRepo     inventory.StockHistoryRepository
	customerRepo    customer.CustomerRepository
	txManager       shared.TransactionManager
	clock           shared.Clock
}

// NewReservationUseCase 創建 Use Case 實例
func NewReservationUseCase(
	reservationRepo reservation.ReservationRepository,
	productRepo inventory.ProductRepository,
	historyRepo inventory.StockHistoryRepository,
	customerRepo customer.CustomerRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *ReservationUseCase {
	return &ReservationUseCase{
		reservationRepo: reservationRepo,
		productRepo:     productRepo,
		historyRepo:     historyRepo,
		customerRepo:    customerRepo,
		txManager:       txManager,
		clock:           clock,
	}
}

// Create 建立予約（商品必須屬於同店舖）
func (uc *ReservationUseCase) Create(ctx context.Context, cmd CreateReservationCommand) (*ReservationResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}
	productID, err := inventory.ProductIDFromString(cmd.ProductID)
	if err != nil {
		return nil, err
	}
	terms := reservation.Terms{
		LimitCount:       cmd.LimitCount,
		LimitPerCustomer: cmd.LimitPerCustomer,
		Deposit:          cmd.Deposit,
		RemainingPrice:   cmd.RemainingPrice,
	}

	var result *ReservationResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		p, err := uc.productRepo.FindByID(tx, productID)
		if err != nil {
			return err
		}
		if !p.BelongsTo(storeID) {
			return inventory.ErrProductNotFound.WithContext("product_id", productID.String(), "store_id", storeID.String())
		}
		r, err := reservation.NewReservation(storeID, productID, terms, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.reservationRepo.Save(tx, r); err != nil {
			return err
		}
		result = toReservationResult(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reserve 受付顧客予約
func (uc *ReservationUseCase) Reserve(ctx context.Context, cmd ReserveCommand) (*ReceptionResult, error) {
	storeID, reservationID, err := parseReservation(cmd.StoreID, cmd.ReservationID)
	if err != nil {
		return nil, err
	}
	customerID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	var result *ReceptionResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := uc.load(tx, storeID, reservationID)
		if err != nil {
			return err
		}
		c, err := uc.customerRepo.FindByID(tx, customerID)
		if err != nil {
			return err
		}
		if !c.StoreID().Equals(storeID) {
			return customer.ErrCustomerNotFound.WithContext("customer_id", customerID.String(), "store_id", storeID.String())
		}
		rec, err := r.Reserve(customerID, cmd.Count, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.reservationRepo.Update(tx, r); err != nil {
			return err
		}
		result = toReceptionResult(r, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelReception 取消受付
func (uc *ReservationUseCase) CancelReception(ctx context.Context, cmd ReceptionCommand) (*ReceptionResult, error) {
	storeID, reservationID, err := parseReservation(cmd.StoreID, cmd.ReservationID)
	if err != nil {
		return nil, err
	}
	receptionID, err := reservation.ReceptionIDFromString(cmd.ReceptionID)
	if err != nil {
		return nil, err
	}

	var result *ReceptionResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := uc.load(tx, storeID, reservationID)
		if err != nil {
			return err
		}
		if err := r.CancelReception(receptionID, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.reservationRepo.Update(tx, r); err != nil {
			return err
		}
		result = toReceptionResult(r, findReception(r, receptionID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Receive 顧客取貨
//
// 商品庫存不足返回 inventory.ErrInsufficientStock，受付維持 reserved。
func (uc *ReservationUseCase) Receive(ctx context.Context, cmd ReceptionCommand) (*ReceptionResult, error) {
	storeID, reservationID, err := parseReservation(cmd.StoreID, cmd.ReservationID)
	if err != nil {
		return nil, err
	}
	receptionID, err := reservation.ReceptionIDFromString(cmd.ReceptionID)
	if err != nil {
		return nil, err
	}

	var result *ReceptionResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		now := uc.clock.Now()
		r, err := uc.load(tx, storeID, reservationID)
		if err != nil {
			return err
		}
		p, err := uc.productRepo.FindByID(tx, r.ProductID())
		if err != nil {
			return err
		}
		rec, history, err := r.Receive(receptionID, p, now)
		if err != nil {
			return err
		}

		if err := uc.productRepo.Update(tx, p); err != nil {
			return err
		}
		if err := uc.historyRepo.Append(tx, history); err != nil {
			return fmt.Errorf("failed to append stock history: %w", err)
		}
		if err := uc.reservationRepo.Update(tx, r); err != nil {
			return err
		}

		result = toReceptionResult(r, rec)
		stock := p.StockNumber()
		result.ProductStock = &stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close 截止受付（既有受付仍可取消或取貨）
func (uc *ReservationUseCase) Close(ctx context.Context, storeIDStr, reservationIDStr string) (*ReservationResult, error) {
	storeID, reservationID, err := parseReservation(storeIDStr, reservationIDStr)
	if err != nil {
		return nil, err
	}

	var result *ReservationResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := uc.load(tx, storeID, reservationID)
		if err != nil {
			return err
		}
		r.Close(uc.clock.Now())
		if err := uc.reservationRepo.Update(tx, r); err != nil {
			return err
		}
		result = toReservationResult(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ReservationUseCase) load(tx shared.TransactionContext, storeID store.StoreID, id reservation.ReservationID) (*reservation.Reservation, error) {
	r, err := uc.reservationRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if !r.BelongsTo(storeID) {
		return nil, reservation.ErrReservationNotFound.WithContext("reservation_id", id.String(), "store_id", storeID.String())
	}
	return r, nil
}

func parseReservation(storeIDStr, reservationIDStr string) (store.StoreID, reservation.ReservationID, error) {
	storeID, err := store.StoreIDFromString(storeIDStr)
	if err != nil {
		return store.StoreID{}, reservation.ReservationID{}, err
	}
	id, err := reservation.ReservationIDFromString(reservationIDStr)
	if err != nil {
		return store.StoreID{}, reservation.ReservationID{}, err
	}
	return storeID, id, nil
}

func findReception(r *reservation.Reservation, id reservation.ReceptionID) reservation.Reception {
	for _, rec := range r.Receptions() {
		if rec.ID.Equals(id) {
			return rec
		}
	}
	return reservation.Reception{}
}

func toReservationResult(r *reservation.Reservation) *ReservationResult {
	return &ReservationResult{
		ReservationID: r.ID().String(),
		ProductID:     r.ProductID().String(),
		Status:        string(r.Status()),
		ReservedCount: r.ReservedCount(),
		LimitCount:    r.Terms().LimitCount,
	}
}

func toReceptionResult(r *reservation.Reservation, rec reservation.Reception) *ReceptionResult {
	terms := r.Terms()
	return &ReceptionResult{
		ReservationID: r.ID().String(),
		ReceptionID:   rec.ID.String(),
		CustomerID:    rec.CustomerID.String(),
		Count:         rec.Count,
		Status:        string(rec.Status),
		DepositTotal:  terms.Deposit * int64(rec.Count),
		RemainingDue:  terms.RemainingPrice * int64(rec.Count),
		ReceivedAt:    rec.ReceivedAt,
	}
}
