package register

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// RegisterMarker 收銀機 ID 標記類型
type RegisterMarker struct{}

// RegisterID 收銀機 ID
type RegisterID = shared.EntityID[RegisterMarker]

// NewRegisterID 生成新的收銀機 ID
func NewRegisterID() RegisterID {
	return shared.NewEntityID[RegisterMarker]()
}

// RegisterIDFromString 從字串解析收銀機 ID
func RegisterIDFromString(s string) (RegisterID, error) {
	return shared.EntityIDFromString[RegisterMarker](s, ErrInvalidRegisterID)
}
