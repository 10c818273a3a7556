package ec

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// CartMarker 購物車 ID 標記類型
type CartMarker struct{}

// CartID 購物車 ID
type CartID = shared.EntityID[CartMarker]

// NewCartID 生成新的購物車 ID
func NewCartID() CartID {
	return shared.NewEntityID[CartMarker]()
}

// CartIDFromString 從字串解析購物車 ID
func CartIDFromString(s string) (CartID, error) {
	return shared.EntityIDFromString[CartMarker](s, ErrInvalidCartID)
}

// OrderMarker EC 訂單 ID 標記類型
type OrderMarker struct{}

// OrderID EC 訂單 ID
type OrderID = shared.EntityID[OrderMarker]

// NewOrderID 生成新的訂單 ID
func NewOrderID() OrderID {
	return shared.NewEntityID[OrderMarker]()
}

// OrderIDFromString 從字串解析訂單 ID
func OrderIDFromString(s string) (OrderID, error) {
	return shared.EntityIDFromString[OrderMarker](s, ErrInvalidOrderID)
}
