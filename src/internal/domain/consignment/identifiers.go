package consignment

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// ClientMarker 委託者 ID 標記類型
type ClientMarker struct{}

// ClientID 委託者 ID
//
// inventory.Product 以字串保存委託者 ID，需要時以 ClientIDFromString 轉換。
type ClientID = shared.EntityID[ClientMarker]

// NewClientID 生成新的委託者 ID
func NewClientID() ClientID {
	return shared.NewEntityID[ClientMarker]()
}

// ClientIDFromString 從字串解析委託者 ID
func ClientIDFromString(s string) (ClientID, error) {
	return shared.EntityIDFromString[ClientMarker](s, ErrInvalidClientID)
}
