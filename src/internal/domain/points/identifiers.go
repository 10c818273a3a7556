package points

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// AccountMarker 是 AccountID 的標記類型
type AccountMarker struct{}

// AccountID 點數帳戶的唯一標識符
//
// 顧客 ID 直接使用 customer.CustomerID，帳戶以（店舖, 顧客）為唯一鍵。
type AccountID = shared.EntityID[AccountMarker]

// NewAccountID 生成新的點數帳戶 ID（UUID v4）
func NewAccountID() AccountID {
	return shared.NewEntityID[AccountMarker]()
}

// AccountIDFromString 從字串解析點數帳戶 ID
//
// 錯誤：格式無效時返回 ErrInvalidAccountID
func AccountIDFromString(s string) (AccountID, error) {
	return shared.EntityIDFromString[AccountMarker](s, ErrInvalidAccountID)
}
