package reservation

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ReservationRepository 予約倉儲介面（受付隨聚合一起讀寫）
type ReservationRepository interface {
	Save(tx shared.TransactionContext, r *Reservation) error
	Update(tx shared.TransactionContext, r *Reservation) error

	// FindByID 找不到返回 ErrReservationNotFound
	FindByID(tx shared.TransactionContext, id ReservationID) (*Reservation, error)
}
