package points

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// PointsAccountRepository 點數帳戶倉儲介面
//
// 事務使用範例：
//
//	txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
//	    account, _ := repo.FindByCustomer(tx, storeID, customerID)
//	    account.EarnPoints(amount, points.SourceTransaction, txID, now)
//	    return repo.Update(tx, account)
//	})
type PointsAccountRepository interface {
	// Save 保存新的點數帳戶
	// 錯誤：ErrAccountAlreadyExists（同店舖同顧客已有帳戶）
	Save(tx shared.TransactionContext, account *PointsAccount) error

	// Update 更新點數帳戶（樂觀鎖，版本不符返回 shared.ErrConcurrentModification）
	Update(tx shared.TransactionContext, account *PointsAccount) error

	// FindByID 根據帳戶 ID 查找，找不到返回 ErrAccountNotFound
	FindByID(tx shared.TransactionContext, accountID AccountID) (*PointsAccount, error)

	// FindByCustomer 根據店舖與顧客查找，找不到返回 ErrAccountNotFound
	FindByCustomer(tx shared.TransactionContext, storeID store.StoreID, customerID customer.CustomerID) (*PointsAccount, error)
}
