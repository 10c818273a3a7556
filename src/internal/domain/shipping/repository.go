package shipping

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// MethodRepository 配送方式倉儲介面
type MethodRepository interface {
	Save(tx shared.TransactionContext, m *Method) error
	Update(tx shared.TransactionContext, m *Method) error

	// FindByID 找不到返回 ErrMethodNotFound
	FindByID(tx shared.TransactionContext, id MethodID) (*Method, error)

	// FindActiveByStore 返回店舖未刪除的配送方式（依 OrderNumber 排序）
	FindActiveByStore(tx shared.TransactionContext, storeID store.StoreID) ([]*Method, error)
}
