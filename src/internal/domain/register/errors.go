package register

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidRegisterID     shared.ErrorCode = "REGISTER_ID_INVALID"
	ErrCodeRegisterNotFound      shared.ErrorCode = "REGISTER_NOT_FOUND"
	ErrCodeInvalidRegisterStatus shared.ErrorCode = "REGISTER_STATUS_INVALID"
	ErrCodeRegisterClosed        shared.ErrorCode = "REGISTER_CLOSED"
	ErrCodeInsufficientCash      shared.ErrorCode = "REGISTER_CASH_INSUFFICIENT"
	ErrCodeInvalidCashAmount     shared.ErrorCode = "REGISTER_CASH_AMOUNT_INVALID"
	ErrCodeInvalidDenomination   shared.ErrorCode = "REGISTER_DENOMINATION_INVALID"
	ErrCodeInvalidSettlementKind shared.ErrorCode = "REGISTER_SETTLEMENT_KIND_INVALID"
	ErrCodeInvalidRegisterName   shared.ErrorCode = "REGISTER_NAME_INVALID"
)

var (
	ErrInvalidRegisterID     = shared.NewDomainError(ErrCodeInvalidRegisterID, shared.KindValidation, "無效的收銀機 ID")
	ErrRegisterNotFound      = shared.NewDomainError(ErrCodeRegisterNotFound, shared.KindNotFound, "收銀機不存在")
	ErrInvalidRegisterStatus = shared.NewDomainError(ErrCodeInvalidRegisterStatus, shared.KindBusinessRule, "收銀機狀態不允許此操作")
	ErrRegisterClosed        = shared.NewDomainError(ErrCodeRegisterClosed, shared.KindBusinessRule, "收銀機尚未開帳")
	ErrInsufficientCash      = shared.NewDomainError(ErrCodeInsufficientCash, shared.KindBusinessRule, "收銀機現金不足")
	ErrInvalidCashAmount     = shared.NewDomainError(ErrCodeInvalidCashAmount, shared.KindValidation, "金額必須大於 0")
	ErrInvalidDenomination   = shared.NewDomainError(ErrCodeInvalidDenomination, shared.KindValidation, "無效的幣別或張數")
	ErrInvalidSettlementKind = shared.NewDomainError(ErrCodeInvalidSettlementKind, shared.KindValidation, "無效的點算種類")
	ErrInvalidRegisterName   = shared.NewDomainError(ErrCodeInvalidRegisterName, shared.KindValidation, "收銀機名稱不能為空")
)
