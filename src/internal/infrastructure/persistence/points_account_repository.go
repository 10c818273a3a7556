package persistence

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM PointsAccountRepository 實作
// ===========================

// GORMPointsAccountRepository GORM 實作的點數帳戶倉儲
//
// 職責：
// - 調用 Mapper (accountToDomain, accountToGORM) 進行轉換
// - 執行 GORM 操作並映射錯誤到 Domain 錯誤
// - 不包含業務邏輯（業務邏輯在 Domain Layer）
type GORMPointsAccountRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewPointsAccountRepository 創建 GORM Repository 實例
func NewPointsAccountRepository(db *gorm.DB) points.PointsAccountRepository {
	return &GORMPointsAccountRepository{
		db: db,
		errs: errorSet{
			notFound:      points.ErrAccountNotFound,
			alreadyExists: points.ErrAccountAlreadyExists,
		},
	}
}

// ===========================
// Repository 方法實作
// ===========================

// Save 保存新的點數帳戶
//
// 前置條件：同店舖同顧客沒有帳戶
// 錯誤：ErrAccountAlreadyExists（唯一約束違反）
func (r *GORMPointsAccountRepository) Save(tx shared.TransactionContext, account *points.PointsAccount) error {
	result := dbFrom(tx, r.db).Create(accountToGORM(account))
	return r.errs.mapError(result.Error)
}

// FindByID 根據帳戶 ID 查找點數帳戶
func (r *GORMPointsAccountRepository) FindByID(tx shared.TransactionContext, accountID points.AccountID) (*points.PointsAccount, error) {
	var model PointsAccountModel
	result := dbFrom(tx, r.db).First(&model, "id = ?", accountID.String())
	if result.Error != nil {
		return nil, r.errs.mapError(result.Error)
	}
	return accountToDomain(&model)
}

// FindByCustomer 根據店舖與顧客查找點數帳戶
//
// 業務規則：一位顧客在一間店舖只有一個帳戶（唯一索引）
func (r *GORMPointsAccountRepository) FindByCustomer(tx shared.TransactionContext, storeID store.StoreID, customerID customer.CustomerID) (*points.PointsAccount, error) {
	var model PointsAccountModel
	result := dbFrom(tx, r.db).
		Where("store_id = ? AND customer_id = ?", storeID.String(), customerID.String()).
		First(&model)
	if result.Error != nil {
		return nil, r.errs.mapError(result.Error)
	}
	return accountToDomain(&model)
}

// Update 更新點數帳戶
//
// 以 version 做樂觀鎖：
// - 記錄不存在 → ErrAccountNotFound
// - 版本不符（其他事務已更新）→ shared.ErrConcurrentModification
//
// 成功後帳戶的版本號前進，同一事務內可以再次更新。
func (r *GORMPointsAccountRepository) Update(tx shared.TransactionContext, account *points.PointsAccount) error {
	model := accountToGORM(account)
	model.Version = account.Version() + 1

	if err := updateVersioned(dbFrom(tx, r.db), model, model.ID, account.Version(), r.errs); err != nil {
		return err
	}
	account.AdvanceVersion()
	return nil
}
