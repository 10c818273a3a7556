package reservation

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidReservationID  shared.ErrorCode = "RESERVATION_ID_INVALID"
	ErrCodeInvalidReceptionID    shared.ErrorCode = "RESERVATION_RECEPTION_ID_INVALID"
	ErrCodeReservationNotFound   shared.ErrorCode = "RESERVATION_NOT_FOUND"
	ErrCodeReceptionNotFound     shared.ErrorCode = "RESERVATION_RECEPTION_NOT_FOUND"
	ErrCodeInvalidReservation    shared.ErrorCode = "RESERVATION_INVALID"
	ErrCodeReservationClosed     shared.ErrorCode = "RESERVATION_CLOSED"
	ErrCodeLimitExceeded         shared.ErrorCode = "RESERVATION_LIMIT_EXCEEDED"
	ErrCodeInvalidReceptionState shared.ErrorCode = "RESERVATION_RECEPTION_STATE_INVALID"
	ErrCodeProductMismatch       shared.ErrorCode = "RESERVATION_PRODUCT_MISMATCH"
)

var (
	ErrInvalidReservationID  = shared.NewDomainError(ErrCodeInvalidReservationID, shared.KindValidation, "無效的予約 ID")
	ErrInvalidReceptionID    = shared.NewDomainError(ErrCodeInvalidReceptionID, shared.KindValidation, "無效的受付 ID")
	ErrReservationNotFound   = shared.NewDomainError(ErrCodeReservationNotFound, shared.KindNotFound, "予約不存在")
	ErrReceptionNotFound     = shared.NewDomainError(ErrCodeReceptionNotFound, shared.KindNotFound, "受付不存在")
	ErrInvalidReservation    = shared.NewDomainError(ErrCodeInvalidReservation, shared.KindValidation, "無效的予約設定")
	ErrReservationClosed     = shared.NewDomainError(ErrCodeReservationClosed, shared.KindBusinessRule, "予約已截止")
	ErrLimitExceeded         = shared.NewDomainError(ErrCodeLimitExceeded, shared.KindBusinessRule, "超過予約上限")
	ErrInvalidReceptionState = shared.NewDomainError(ErrCodeInvalidReceptionState, shared.KindBusinessRule, "受付狀態不允許此操作")
	ErrProductMismatch       = shared.NewDomainError(ErrCodeProductMismatch, shared.KindValidation, "商品與予約不符")
)
