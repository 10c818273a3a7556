package reservation

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ReservationMarker 予約 ID 標記類型
type ReservationMarker struct{}

// ReservationID 予約（預購商品）ID
type ReservationID = shared.EntityID[ReservationMarker]

// NewReservationID 生成新的予約 ID
func NewReservationID() ReservationID {
	return shared.NewEntityID[ReservationMarker]()
}

// ReservationIDFromString 從字串解析予約 ID
func ReservationIDFromString(s string) (ReservationID, error) {
	return shared.EntityIDFromString[ReservationMarker](s, ErrInvalidReservationID)
}

// ReceptionMarker 受付 ID 標記類型
type ReceptionMarker struct{}

// ReceptionID 顧客受付 ID
type ReceptionID = shared.EntityID[ReceptionMarker]

// NewReceptionID 生成新的受付 ID
func NewReceptionID() ReceptionID {
	return shared.NewEntityID[ReceptionMarker]()
}

// ReceptionIDFromString 從字串解析受付 ID
func ReceptionIDFromString(s string) (ReceptionID, error) {
	return shared.EntityIDFromString[ReceptionMarker](s, ErrInvalidReceptionID)
}
