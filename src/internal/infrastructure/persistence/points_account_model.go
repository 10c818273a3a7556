package persistence

import (
	"time"
)

// ===========================
// GORM Model 定義
// ===========================

// PointsAccountModel GORM 點數帳戶模型
//
// 每位顧客在每間店舖一個帳戶：(store_id, customer_id) 唯一。
type PointsAccountModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	StoreID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_points_store_customer"`
	CustomerID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_points_store_customer"`
	EarnedPoints int       `gorm:"not null;default:0"`
	UsedPoints   int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
	Version      int       `gorm:"not null;default:1"`
}

// TableName 指定表名
func (PointsAccountModel) TableName() string {
	return "points_accounts"
}
