package points

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	// 點數數量相關
	ErrCodeNegativePointsAmount shared.ErrorCode = "POINTS_NEGATIVE"
	ErrCodeInsufficientPoints   shared.ErrorCode = "POINTS_INSUFFICIENT"
	ErrCodePointsOverflow       shared.ErrorCode = "POINTS_OVERFLOW"

	// 換算率相關
	ErrCodeInvalidConversionRate shared.ErrorCode = "CONVERSION_RATE_INVALID"

	// 帳戶相關
	ErrCodeInvalidAccountID     shared.ErrorCode = "ACCOUNT_ID_INVALID"
	ErrCodeInvalidCustomerID    shared.ErrorCode = "ACCOUNT_CUSTOMER_ID_INVALID"
	ErrCodeAccountNotFound      shared.ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountAlreadyExists shared.ErrorCode = "ACCOUNT_ALREADY_EXISTS"
	ErrCodeCorruptedAccount     shared.ErrorCode = "ACCOUNT_CORRUPTED"
)

// ===========================
// 預定義錯誤
// ===========================

// 點數數量相關錯誤
var (
	ErrNegativePointsAmount = shared.NewDomainError(ErrCodeNegativePointsAmount, shared.KindValidation, "點數不能為負數")
	ErrInsufficientPoints   = shared.NewDomainError(ErrCodeInsufficientPoints, shared.KindBusinessRule, "點數餘額不足")
	ErrPointsOverflow       = shared.NewDomainError(ErrCodePointsOverflow, shared.KindBusinessRule, "點數超過上限")
)

// 換算率相關錯誤
var (
	ErrInvalidConversionRate = shared.NewDomainError(ErrCodeInvalidConversionRate, shared.KindValidation, "換算率必須在 1-10000 之間")
)

// 帳戶相關錯誤
var (
	ErrInvalidAccountID     = shared.NewDomainError(ErrCodeInvalidAccountID, shared.KindValidation, "無效的帳戶 ID")
	ErrInvalidCustomerID    = shared.NewDomainError(ErrCodeInvalidCustomerID, shared.KindValidation, "帳戶必須綁定顧客")
	ErrAccountNotFound      = shared.NewDomainError(ErrCodeAccountNotFound, shared.KindNotFound, "點數帳戶不存在")
	ErrAccountAlreadyExists = shared.NewDomainError(ErrCodeAccountAlreadyExists, shared.KindConflict, "點數帳戶已存在")

	// ErrCorruptedAccount 資料庫中的帳戶資料違反不變條件
	ErrCorruptedAccount = shared.NewDomainError(ErrCodeCorruptedAccount, shared.KindInternal, "點數帳戶資料損壞")
)
