package transaction

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// TransactionRepository 交易倉儲介面
type TransactionRepository interface {
	Save(tx shared.TransactionContext, t *Transaction) error

	// Update 以 version 做樂觀鎖，明細整批替換
	Update(tx shared.TransactionContext, t *Transaction) error

	// FindByID 找不到返回 ErrTransactionNotFound
	FindByID(tx shared.TransactionContext, id TransactionID) (*Transaction, error)
}
