package shipping

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// MethodMarker 是 MethodID 的標記類型
type MethodMarker struct{}

// MethodID 配送方式 ID
type MethodID = shared.EntityID[MethodMarker]

// NewMethodID 生成新的配送方式 ID
func NewMethodID() MethodID {
	return shared.NewEntityID[MethodMarker]()
}

// MethodIDFromString 從字串解析配送方式 ID
func MethodIDFromString(s string) (MethodID, error) {
	return shared.EntityIDFromString[MethodMarker](s, ErrInvalidMethodID)
}
