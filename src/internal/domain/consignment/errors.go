package consignment

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidClientID       shared.ErrorCode = "CONSIGNMENT_CLIENT_ID_INVALID"
	ErrCodeClientNotFound        shared.ErrorCode = "CONSIGNMENT_CLIENT_NOT_FOUND"
	ErrCodeInvalidClient         shared.ErrorCode = "CONSIGNMENT_CLIENT_INVALID"
	ErrCodeInvalidCommissionRate shared.ErrorCode = "CONSIGNMENT_COMMISSION_RATE_INVALID"
	ErrCodeInvalidSale           shared.ErrorCode = "CONSIGNMENT_SALE_INVALID"
	ErrCodeInvalidPeriod         shared.ErrorCode = "CONSIGNMENT_PERIOD_INVALID"
)

var (
	ErrInvalidClientID       = shared.NewDomainError(ErrCodeInvalidClientID, shared.KindValidation, "無效的委託者 ID")
	ErrClientNotFound        = shared.NewDomainError(ErrCodeClientNotFound, shared.KindNotFound, "委託者不存在")
	ErrInvalidClient         = shared.NewDomainError(ErrCodeInvalidClient, shared.KindValidation, "無效的委託者資料")
	ErrInvalidCommissionRate = shared.NewDomainError(ErrCodeInvalidCommissionRate, shared.KindValidation, "手續費率必須在 0-100 之間")
	ErrInvalidSale           = shared.NewDomainError(ErrCodeInvalidSale, shared.KindValidation, "無效的委託販賣紀錄")
	ErrInvalidPeriod         = shared.NewDomainError(ErrCodeInvalidPeriod, shared.KindValidation, "結算期間無效")
)
