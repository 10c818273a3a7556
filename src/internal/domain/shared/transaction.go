package shared

import "context"

// TransactionContext 事務上下文介面
//
// 行為約定：
// - tx != nil: 在調用者的事務中執行（事務傳播）
// - tx == nil: auto-commit 模式（僅適用於獨立讀操作）
//
// Repository 方法約束：
// - Save / Update / Delete 必須在事務中（tx 為 non-nil）
// - FindXxx 可傳入 nil
//
// 範例：
//
//	txManager.InTransaction(ctx, func(tx TransactionContext) error {
//	    product, _ := repo.FindByID(tx, productID)
//	    product.DecreaseStock(1)
//	    return repo.Update(tx, product)
//	})
//
// 這是標記介面，具體封裝（GORM）由 Infrastructure Layer 實作。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// 實作需保證：fn 返回錯誤時回滾；fn panic 時回滾並重新 panic。
// 實作可以在死結、序列化失敗、樂觀鎖衝突時重新執行 fn，
// 因此 fn 必須可重入：不得在 fn 外累積副作用。
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}
