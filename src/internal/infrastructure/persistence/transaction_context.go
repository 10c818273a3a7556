package persistence

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文
//
// 實作 shared.TransactionContext 標記介面，*gorm.DB 只在 Infrastructure Layer 內可見。
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取事務中的 GORM DB（不在 shared.TransactionContext 介面中）
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}

// dbFrom 從 TransactionContext 取出事務 DB
//
// tx 為 nil 或不是 GORM 事務上下文時使用 fallback（auto-commit 模式，只用於讀取）。
func dbFrom(tx shared.TransactionContext, fallback *gorm.DB) *gorm.DB {
	if gormCtx, ok := tx.(*gormTransactionContext); ok && gormCtx != nil {
		return gormCtx.GetDB()
	}
	return fallback
}
