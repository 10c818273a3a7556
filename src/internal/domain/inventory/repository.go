package inventory

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ProductRepository 商品倉儲介面
//
// Update 以 version 做樂觀鎖；版本不符返回 shared.ErrConcurrentModification
// （事務管理器會整個重試）。
type ProductRepository interface {
	Save(tx shared.TransactionContext, p *Product) error
	Update(tx shared.TransactionContext, p *Product) error

	// FindByID 找不到返回 ErrProductNotFound
	FindByID(tx shared.TransactionContext, id ProductID) (*Product, error)

	// FindByIDs 返回店舖內存在的商品（缺少的 ID 不會報錯，由呼叫端比對）
	FindByIDs(tx shared.TransactionContext, storeID store.StoreID, ids []ProductID) ([]*Product, error)
}

// PackOpeningRepository 開封紀錄倉儲介面
type PackOpeningRepository interface {
	Save(tx shared.TransactionContext, o *PackOpening) error
	FindByID(tx shared.TransactionContext, id PackOpeningID) (*PackOpening, error)
}

// StockHistoryRepository 庫存變動紀錄倉儲介面
type StockHistoryRepository interface {
	Append(tx shared.TransactionContext, histories ...StockHistory) error
	FindByProduct(tx shared.TransactionContext, productID ProductID) ([]StockHistory, error)
}
