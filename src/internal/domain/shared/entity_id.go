package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 泛型參數 T 是標記類型（marker type），只用於編譯期區分：
// EntityID[ProductMarker] 與 EntityID[StoreMarker] 不能互相賦值或比較。
//
// 使用範例：
//
//	type ProductMarker struct{}
//	type ProductID = shared.EntityID[ProductMarker]
//
//	id := shared.NewEntityID[ProductMarker]()
//	id, err := shared.EntityIDFromString[ProductMarker](s, ErrInvalidProductID)
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 解析失敗時返回 errTemplate；若 errTemplate 支援 WithContext，
// 會附加 input 與 parse_error 兩個上下文欄位。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) *DomainError
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", err.Error(),
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// MustEntityID 解析已知有效的 ID（僅用於測試與資料庫重建後的內部轉換）
func MustEntityID[T any](s string) EntityID[T] {
	return EntityID[T]{value: uuid.MustParse(s)}
}

// String 轉換為字串表示（小寫 UUID）
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個 EntityID 是否相等
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為空 ID（零值）
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
