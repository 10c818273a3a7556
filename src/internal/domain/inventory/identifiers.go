package inventory

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ProductMarker 是 ProductID 的標記類型
type ProductMarker struct{}

// ProductID 商品 ID
type ProductID = shared.EntityID[ProductMarker]

// NewProductID 生成新的商品 ID
func NewProductID() ProductID {
	return shared.NewEntityID[ProductMarker]()
}

// ProductIDFromString 從字串解析商品 ID
func ProductIDFromString(s string) (ProductID, error) {
	return shared.EntityIDFromString[ProductMarker](s, ErrInvalidProductID)
}

// PackOpeningMarker 是 PackOpeningID 的標記類型
type PackOpeningMarker struct{}

// PackOpeningID 開封紀錄 ID
type PackOpeningID = shared.EntityID[PackOpeningMarker]

// NewPackOpeningID 生成新的開封紀錄 ID
func NewPackOpeningID() PackOpeningID {
	return shared.NewEntityID[PackOpeningMarker]()
}

// PackOpeningIDFromString 從字串解析開封紀錄 ID
func PackOpeningIDFromString(s string) (PackOpeningID, error) {
	return shared.EntityIDFromString[PackOpeningMarker](s, ErrInvalidPackOpeningID)
}
