package customer

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ===========================
// Customer Domain 錯誤定義
// ===========================

const (
	ErrCodeInvalidPhoneNumberFormat shared.ErrorCode = "INVALID_PHONE_NUMBER_FORMAT"
	ErrCodePhoneNumberAlreadyBound  shared.ErrorCode = "PHONE_NUMBER_ALREADY_BOUND"
	ErrCodeCustomerNotFound         shared.ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeInvalidCustomerID        shared.ErrorCode = "INVALID_CUSTOMER_ID"
	ErrCodeInvalidDisplayName       shared.ErrorCode = "INVALID_DISPLAY_NAME"
	ErrCodePhoneAlreadyBound        shared.ErrorCode = "PHONE_ALREADY_BOUND"
)

var (
	// ErrInvalidPhoneNumberFormat 電話號碼格式無效
	//
	// 觸發條件：
	// - 去除連字號後不是 10 或 11 位數字
	// - 不是以 "0" 開頭
	ErrInvalidPhoneNumberFormat = shared.NewDomainError(
		ErrCodeInvalidPhoneNumberFormat, shared.KindValidation,
		"電話號碼格式無效（必須是以 0 開頭的 10-11 位數字）",
	)

	// ErrPhoneNumberAlreadyBound 電話號碼已被同店舖其他顧客使用
	ErrPhoneNumberAlreadyBound = shared.NewDomainError(
		ErrCodePhoneNumberAlreadyBound, shared.KindConflict,
		"電話號碼已被其他顧客登錄",
	)

	// ErrCustomerNotFound 顧客不存在
	ErrCustomerNotFound = shared.NewDomainError(ErrCodeCustomerNotFound, shared.KindNotFound, "顧客不存在")

	// ErrInvalidCustomerID 顧客 ID 無效
	ErrInvalidCustomerID = shared.NewDomainError(ErrCodeInvalidCustomerID, shared.KindValidation, "顧客 ID 格式無效")

	// ErrInvalidDisplayName 顯示名稱為空
	ErrInvalidDisplayName = shared.NewDomainError(ErrCodeInvalidDisplayName, shared.KindValidation, "顯示名稱不能為空")

	// ErrPhoneAlreadyBound 嘗試修改已綁定的電話號碼（需管理員介入）
	ErrPhoneAlreadyBound = shared.NewDomainError(
		ErrCodePhoneAlreadyBound, shared.KindBusinessRule,
		"電話號碼已綁定，無法修改（需管理員介入）",
	)
)
