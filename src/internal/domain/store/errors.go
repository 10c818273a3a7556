package store

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidStoreID     shared.ErrorCode = "STORE_ID_INVALID"
	ErrCodeStoreNotFound      shared.ErrorCode = "STORE_NOT_FOUND"
	ErrCodeInvalidEcSetting   shared.ErrorCode = "EC_SETTING_INVALID"
	ErrCodeInvalidPointRate   shared.ErrorCode = "POINT_RATE_INVALID"
	ErrCodeInvalidStoreName   shared.ErrorCode = "STORE_NAME_INVALID"
	ErrCodeStoreAlreadyExists shared.ErrorCode = "STORE_ALREADY_EXISTS"
)

var (
	ErrInvalidStoreID     = shared.NewDomainError(ErrCodeInvalidStoreID, shared.KindValidation, "無效的店舖 ID")
	ErrStoreNotFound      = shared.NewDomainError(ErrCodeStoreNotFound, shared.KindNotFound, "店舖不存在")
	ErrInvalidEcSetting   = shared.NewDomainError(ErrCodeInvalidEcSetting, shared.KindValidation, "無效的 EC 設定")
	ErrInvalidPointRate   = shared.NewDomainError(ErrCodeInvalidPointRate, shared.KindValidation, "點數換算率必須在 1-10000 之間")
	ErrInvalidStoreName   = shared.NewDomainError(ErrCodeInvalidStoreName, shared.KindValidation, "店舖名稱不能為空")
	ErrStoreAlreadyExists = shared.NewDomainError(ErrCodeStoreAlreadyExists, shared.KindConflict, "店舖已存在")
)
