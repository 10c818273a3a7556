package shipping

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidMethodID       shared.ErrorCode = "SHIPPING_METHOD_ID_INVALID"
	ErrCodeMethodNotFound        shared.ErrorCode = "SHIPPING_METHOD_NOT_FOUND"
	ErrCodeInvalidMethod         shared.ErrorCode = "SHIPPING_METHOD_INVALID"
	ErrCodeUnknownPrefecture     shared.ErrorCode = "PREFECTURE_UNKNOWN"
	ErrCodeUnknownRegion         shared.ErrorCode = "SHIPPING_REGION_UNKNOWN"
	ErrCodeInvalidCandidateInput shared.ErrorCode = "SHIPPING_INPUT_INVALID"
	ErrCodeLeadTimeUnresolvable  shared.ErrorCode = "SHIPPING_LEAD_TIME_UNRESOLVABLE"
	ErrCodeMethodNotApplicable   shared.ErrorCode = "SHIPPING_METHOD_NOT_APPLICABLE"
)

var (
	ErrInvalidMethodID       = shared.NewDomainError(ErrCodeInvalidMethodID, shared.KindValidation, "無效的配送方式 ID")
	ErrMethodNotFound        = shared.NewDomainError(ErrCodeMethodNotFound, shared.KindNotFound, "配送方式不存在")
	ErrInvalidMethod         = shared.NewDomainError(ErrCodeInvalidMethod, shared.KindValidation, "無效的配送方式設定")
	ErrUnknownPrefecture     = shared.NewDomainError(ErrCodeUnknownPrefecture, shared.KindValidation, "未知的都道府縣")
	ErrUnknownRegion         = shared.NewDomainError(ErrCodeUnknownRegion, shared.KindValidation, "未知的配送地區")
	ErrInvalidCandidateInput = shared.NewDomainError(ErrCodeInvalidCandidateInput, shared.KindValidation, "無效的運費計算條件")
	ErrLeadTimeUnresolvable  = shared.NewDomainError(ErrCodeLeadTimeUnresolvable, shared.KindBusinessRule, "無法決定出貨日")
	ErrMethodNotApplicable   = shared.NewDomainError(ErrCodeMethodNotApplicable, shared.KindBusinessRule, "此配送方式不適用於該重量或地區")
)
