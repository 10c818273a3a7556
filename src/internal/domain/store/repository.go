package store

import "github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"

// StoreRepository 店舖倉儲介面
type StoreRepository interface {
	// Save 保存新店舖
	Save(tx shared.TransactionContext, s *Store) error

	// FindByID 查詢店舖，找不到返回 ErrStoreNotFound
	FindByID(tx shared.TransactionContext, id StoreID) (*Store, error)

	// Update 更新店舖設定
	Update(tx shared.TransactionContext, s *Store) error
}
