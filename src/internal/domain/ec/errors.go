package ec

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

const (
	ErrCodeInvalidCartID    shared.ErrorCode = "EC_CART_ID_INVALID"
	ErrCodeInvalidOrderID   shared.ErrorCode = "EC_ORDER_ID_INVALID"
	ErrCodeCartNotFound     shared.ErrorCode = "EC_CART_NOT_FOUND"
	ErrCodeOrderNotFound    shared.ErrorCode = "EC_ORDER_NOT_FOUND"
	ErrCodeEcDisabled       shared.ErrorCode = "EC_DISABLED"
	ErrCodeProductNotOnSale shared.ErrorCode = "EC_PRODUCT_NOT_ON_SALE"
	ErrCodeInvalidQuantity  shared.ErrorCode = "EC_QUANTITY_INVALID"
	ErrCodeItemNotInCart    shared.ErrorCode = "EC_ITEM_NOT_IN_CART"
	ErrCodeEmptyCart        shared.ErrorCode = "EC_CART_EMPTY"
	ErrCodeInvalidAddress   shared.ErrorCode = "EC_ADDRESS_INVALID"
)

var (
	ErrInvalidCartID    = shared.NewDomainError(ErrCodeInvalidCartID, shared.KindValidation, "無效的購物車 ID")
	ErrInvalidOrderID   = shared.NewDomainError(ErrCodeInvalidOrderID, shared.KindValidation, "無效的訂單 ID")
	ErrCartNotFound     = shared.NewDomainError(ErrCodeCartNotFound, shared.KindNotFound, "購物車不存在")
	ErrOrderNotFound    = shared.NewDomainError(ErrCodeOrderNotFound, shared.KindNotFound, "訂單不存在")
	ErrEcDisabled       = shared.NewDomainError(ErrCodeEcDisabled, shared.KindBusinessRule, "店舖未開放 EC")
	ErrProductNotOnSale = shared.NewDomainError(ErrCodeProductNotOnSale, shared.KindBusinessRule, "商品未在 EC 上架")
	ErrInvalidQuantity  = shared.NewDomainError(ErrCodeInvalidQuantity, shared.KindValidation, "數量必須大於 0")
	ErrItemNotInCart    = shared.NewDomainError(ErrCodeItemNotInCart, shared.KindNotFound, "購物車內沒有此商品")
	ErrEmptyCart        = shared.NewDomainError(ErrCodeEmptyCart, shared.KindBusinessRule, "購物車是空的")
	ErrInvalidAddress   = shared.NewDomainError(ErrCodeInvalidAddress, shared.KindValidation, "收件地址不完整")
)
