package store

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// StoreMarker 是 StoreID 的標記類型
type StoreMarker struct{}

// StoreID 店舖唯一標識符
type StoreID = shared.EntityID[StoreMarker]

// NewStoreID 生成新的店舖 ID
func NewStoreID() StoreID {
	return shared.NewEntityID[StoreMarker]()
}

// StoreIDFromString 從字串解析店舖 ID
func StoreIDFromString(s string) (StoreID, error) {
	return shared.EntityIDFromString[StoreMarker](s, ErrInvalidStoreID)
}
