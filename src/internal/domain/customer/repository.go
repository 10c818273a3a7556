package customer

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// CustomerRepository Interface
// ===========================

// CustomerRepository 顧客倉儲接口
//
// 事務管理策略：
//
// Write Operations - tx 必須 non-nil：
//   - Save(): 新增顧客
//   - Update(): 更新顧客（樂觀鎖）
//
// Read Operations - tx 可為 nil：
//   - FindByID(): 找不到返回 ErrCustomerNotFound
//   - ExistsByPhoneNumber(): 同店舖內的重複檢查（只執行 COUNT）
//
// 使用場景範例：
//
//	txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
//	    exists, _ := repo.ExistsByPhoneNumber(tx, storeID, phone)
//	    if exists {
//	        return ErrPhoneNumberAlreadyBound
//	    }
//	    return repo.Save(tx, customer)
//	})
type CustomerRepository interface {
	Save(tx shared.TransactionContext, c *Customer) error
	Update(tx shared.TransactionContext, c *Customer) error
	FindByID(tx shared.TransactionContext, id CustomerID) (*Customer, error)
	ExistsByPhoneNumber(tx shared.TransactionContext, storeID store.StoreID, phoneNumber PhoneNumber) (bool, error)
}
