package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// 測試輔助函數
// ===========================

// testNow 固定的測試時間（UTC，避免時區差異影響比較）
var testNow = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

// setupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// 每個測試獨立一個 DB；限制單一連線，否則不同連線會看到不同的 in-memory DB。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// createTestStore 保存一間 EC 開放中的店舖
func createTestStore(t *testing.T, db *gorm.DB) *store.Store {
	t.Helper()

	setting, err := store.NewEcSetting(true, nil, nil, []time.Weekday{time.Sunday}, 1)
	require.NoError(t, err)
	s, err := store.NewStore("テスト店舗", 100, setting, testNow)
	require.NoError(t, err)
	require.NoError(t, NewStoreRepository(db).Save(nil, s))
	return s
}

// createTestCustomer 保存一位顧客
func createTestCustomer(t *testing.T, db *gorm.DB, storeID store.StoreID) *customer.Customer {
	t.Helper()

	c, err := customer.NewCustomer(storeID, "山田太郎", testNow)
	require.NoError(t, err)
	require.NoError(t, NewCustomerRepository(db).Save(nil, c))
	return c
}

// createTestProduct 保存一個一般商品，stock > 0 時以單一批次入庫
func createTestProduct(t *testing.T, db *gorm.DB, storeID store.StoreID, name string, stock int) *inventory.Product {
	t.Helper()

	p, err := inventory.NewProduct(storeID, inventory.ProductSpec{
		Name:      name,
		SellPrice: 500,
		BuyPrice:  200,
		Weight:    50,
		Kind:      inventory.KindNormal,
		EcEnabled: true,
	}, testNow)
	require.NoError(t, err)
	if stock > 0 {
		lots := []inventory.WholesaleLot{{UnitPrice: 180, Quantity: stock, ArrivedAt: testNow}}
		require.NoError(t, p.Receive(stock, lots, testNow))
	}
	require.NoError(t, NewProductRepository(db).Save(nil, p))
	return p
}
