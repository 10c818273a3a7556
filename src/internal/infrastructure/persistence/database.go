package persistence

import (
	"fmt"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// 連線與遷移
// ===========================

// OpenSQLite 開啟 SQLite 資料庫並執行遷移
//
// path 為 ":memory:" 時限制為單一連線（每個連線各自擁有獨立的 in-memory DB）。
func OpenSQLite(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// SQLite 同一時間只允許一個寫入者
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate 建立／更新所有資料表
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&StoreModel{},
		&ProductModel{},
		&PackOpeningModel{},
		&StockHistoryModel{},
		&ShippingMethodModel{},
		&CustomerModel{},
		&PointsAccountModel{},
		&RegisterModel{},
		&CashMovementModel{},
		&SettlementModel{},
		&TransactionModel{},
		&TransactionLineModel{},
		&ReservationModel{},
		&ReceptionModel{},
		&ConsignmentClientModel{},
		&ConsignmentSaleModel{},
		&CartModel{},
		&OrderModel{},
		&OrderLineModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ===========================
// 樂觀鎖更新
// ===========================

type tabler interface {
	TableName() string
}

// updateVersioned 以 version 做樂觀鎖覆寫整列
//
// model 的 Version 必須已設為 current+1。
// 沒有更新任何列時：記錄不存在返回 notFound，否則返回 shared.ErrConcurrentModification。
func updateVersioned(db *gorm.DB, model tabler, id string, current int, errs errorSet) error {
	result := db.Model(model).
		Select("*").
		Omit("CreatedAt").
		Where("id = ? AND version = ?", id, current).
		Updates(model)
	if result.Error != nil {
		return errs.mapError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Table(model.TableName()).Where("id = ?", id).Count(&count).Error; err != nil {
		return errs.mapError(err)
	}
	if count == 0 {
		return errs.notFound.WithContext("id", id)
	}
	return shared.ErrConcurrentModification.WithContext(
		"table", model.TableName(),
		"id", id,
		"expected_version", current,
	)
}
