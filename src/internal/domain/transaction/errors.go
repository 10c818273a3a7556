package transaction

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidTransactionID shared.ErrorCode = "TRANSACTION_ID_INVALID"
	ErrCodeTransactionNotFound  shared.ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidKind          shared.ErrorCode = "TRANSACTION_KIND_INVALID"
	ErrCodeInvalidLine          shared.ErrorCode = "TRANSACTION_LINE_INVALID"
	ErrCodeEmptyLines           shared.ErrorCode = "TRANSACTION_LINES_EMPTY"
	ErrCodeInvalidDiscount      shared.ErrorCode = "TRANSACTION_DISCOUNT_INVALID"
	ErrCodeNotDraft             shared.ErrorCode = "TRANSACTION_NOT_DRAFT"
	ErrCodeInvalidPayment       shared.ErrorCode = "TRANSACTION_PAYMENT_INVALID"
	ErrCodeInsufficientPayment  shared.ErrorCode = "TRANSACTION_PAYMENT_INSUFFICIENT"
	ErrCodeCustomerRequired     shared.ErrorCode = "TRANSACTION_CUSTOMER_REQUIRED"
)

var (
	ErrInvalidTransactionID = shared.NewDomainError(ErrCodeInvalidTransactionID, shared.KindValidation, "無效的交易 ID")
	ErrTransactionNotFound  = shared.NewDomainError(ErrCodeTransactionNotFound, shared.KindNotFound, "交易不存在")
	ErrInvalidKind          = shared.NewDomainError(ErrCodeInvalidKind, shared.KindValidation, "交易種類必須為 sell 或 buy")
	ErrInvalidLine          = shared.NewDomainError(ErrCodeInvalidLine, shared.KindValidation, "無效的交易明細")
	ErrEmptyLines           = shared.NewDomainError(ErrCodeEmptyLines, shared.KindValidation, "交易至少需要一筆明細")
	ErrInvalidDiscount      = shared.NewDomainError(ErrCodeInvalidDiscount, shared.KindValidation, "折扣或點數使用超過金額")
	ErrNotDraft             = shared.NewDomainError(ErrCodeNotDraft, shared.KindBusinessRule, "只有草稿交易可以變更")
	ErrInvalidPayment       = shared.NewDomainError(ErrCodeInvalidPayment, shared.KindValidation, "無效的付款方式")
	ErrInsufficientPayment  = shared.NewDomainError(ErrCodeInsufficientPayment, shared.KindBusinessRule, "收款金額不足")
	ErrCustomerRequired     = shared.NewDomainError(ErrCodeCustomerRequired, shared.KindBusinessRule, "使用點數需要指定顧客")
)
