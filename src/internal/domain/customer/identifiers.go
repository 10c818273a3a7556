package customer

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// CustomerMarker 顧客 ID 標記類型
type CustomerMarker struct{}

// CustomerID 顧客 ID 值對象（基於泛型 EntityID）
//
// 使用範例：
//
//	customerID := NewCustomerID()
//	customerID, err := CustomerIDFromString(str)
type CustomerID = shared.EntityID[CustomerMarker]

// NewCustomerID 生成新的顧客 ID
func NewCustomerID() CustomerID {
	return shared.NewEntityID[CustomerMarker]()
}

// CustomerIDFromString 從字串解析顧客 ID
//
// 錯誤：格式無效時返回 ErrInvalidCustomerID
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidCustomerID)
}
