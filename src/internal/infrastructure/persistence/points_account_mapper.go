package persistence

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Domain ↔ GORM Model 轉換函數
// ===========================

// accountToDomain 將 GORM Model 轉換為 Domain 聚合根
//
// 使用 ReconstructPointsAccount 重建（執行完整驗證，不發布事件）。
// 資料庫數據違反業務規則時返回錯誤而非 panic。
func accountToDomain(model *PointsAccountModel) (*points.PointsAccount, error) {
	accountID, err := points.AccountIDFromString(model.ID)
	if err != nil {
		return nil, points.ErrInvalidAccountID.WithContext(
			"id", model.ID,
			"reason", "invalid UUID format in database",
		)
	}

	storeID, err := store.StoreIDFromString(model.StoreID)
	if err != nil {
		return nil, err
	}

	customerID, err := customer.CustomerIDFromString(model.CustomerID)
	if err != nil {
		return nil, points.ErrInvalidCustomerID.WithContext(
			"id", model.CustomerID,
			"reason", "invalid UUID format in database",
		)
	}

	return points.ReconstructPointsAccount(
		accountID,
		storeID,
		customerID,
		model.EarnedPoints,
		model.UsedPoints,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}

// accountToGORM 將 Domain 聚合根轉換為 GORM Model
//
// 不處理事件：事件由 Application Layer 在提交後發布。
func accountToGORM(account *points.PointsAccount) *PointsAccountModel {
	return &PointsAccountModel{
		ID:           account.AccountID().String(),
		StoreID:      account.StoreID().String(),
		CustomerID:   account.CustomerID().String(),
		EarnedPoints: account.EarnedPoints().Value(),
		UsedPoints:   account.UsedPoints().Value(),
		CreatedAt:    account.CreatedAt(),
		UpdatedAt:    account.UpdatedAt(),
		Version:      account.Version(),
	}
}
