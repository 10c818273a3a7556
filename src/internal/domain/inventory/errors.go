package inventory

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidProductID     shared.ErrorCode = "PRODUCT_ID_INVALID"
	ErrCodeInvalidPackOpeningID shared.ErrorCode = "PACK_OPENING_ID_INVALID"
	ErrCodeProductNotFound      shared.ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodePackOpeningNotFound  shared.ErrorCode = "PACK_OPENING_NOT_FOUND"
	ErrCodeInvalidProduct       shared.ErrorCode = "PRODUCT_INVALID"
	ErrCodeInvalidQuantity      shared.ErrorCode = "QUANTITY_INVALID"
	ErrCodeInsufficientStock    shared.ErrorCode = "STOCK_INSUFFICIENT"
	ErrCodeInvalidWholesaleLot  shared.ErrorCode = "WHOLESALE_LOT_INVALID"
	ErrCodeNotOriginalPack      shared.ErrorCode = "PRODUCT_NOT_ORIGINAL_PACK"
	ErrCodeInvalidPackContents  shared.ErrorCode = "PACK_CONTENTS_INVALID"
	ErrCodeNotBundle            shared.ErrorCode = "PRODUCT_NOT_BUNDLE"
	ErrCodeInvalidBundle        shared.ErrorCode = "BUNDLE_INVALID"
	ErrCodeInvalidAllocation    shared.ErrorCode = "COST_ALLOCATION_INVALID"
)

var (
	ErrInvalidProductID     = shared.NewDomainError(ErrCodeInvalidProductID, shared.KindValidation, "無效的商品 ID")
	ErrInvalidPackOpeningID = shared.NewDomainError(ErrCodeInvalidPackOpeningID, shared.KindValidation, "無效的開封紀錄 ID")
	ErrProductNotFound      = shared.NewDomainError(ErrCodeProductNotFound, shared.KindNotFound, "商品不存在")
	ErrPackOpeningNotFound  = shared.NewDomainError(ErrCodePackOpeningNotFound, shared.KindNotFound, "開封紀錄不存在")
	ErrInvalidProduct       = shared.NewDomainError(ErrCodeInvalidProduct, shared.KindValidation, "無效的商品資料")
	ErrInvalidQuantity      = shared.NewDomainError(ErrCodeInvalidQuantity, shared.KindValidation, "數量必須大於 0")
	ErrInsufficientStock    = shared.NewDomainError(ErrCodeInsufficientStock, shared.KindBusinessRule, "庫存不足")
	ErrInvalidWholesaleLot  = shared.NewDomainError(ErrCodeInvalidWholesaleLot, shared.KindValidation, "無效的進貨批次")

	// ErrNotOriginalPack 只有原封包裝商品可以開封
	ErrNotOriginalPack = shared.NewDomainError(ErrCodeNotOriginalPack, shared.KindBusinessRule, "商品不是原封包裝")

	// ErrInvalidPackContents 開封內容不合法（空、重複、包含包裝本身等）
	ErrInvalidPackContents = shared.NewDomainError(ErrCodeInvalidPackContents, shared.KindValidation, "無效的開封內容")

	ErrNotBundle         = shared.NewDomainError(ErrCodeNotBundle, shared.KindBusinessRule, "商品不是組合商品")
	ErrInvalidBundle     = shared.NewDomainError(ErrCodeInvalidBundle, shared.KindValidation, "無效的組合商品設定")
	ErrInvalidAllocation = shared.NewDomainError(ErrCodeInvalidAllocation, shared.KindValidation, "無效的成本分攤條件")
)
