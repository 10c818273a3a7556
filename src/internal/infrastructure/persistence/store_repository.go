package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM Model
// ===========================

// StoreModel 店舖資料表（EC 設定攤平為欄位）
type StoreModel struct {
	ID                    string    `gorm:"type:varchar(36);primaryKey"`
	Name                  string    `gorm:"type:varchar(255);not null"`
	PointConversionRate   int       `gorm:"not null"`
	EcEnabled             bool      `gorm:"not null"`
	FreeShippingThreshold *int64    `gorm:"column:free_shipping_threshold"`
	SameDayLimitHour      *int      `gorm:"column:same_day_limit_hour"`
	ClosedWeekdays        []int     `gorm:"serializer:json"`
	ShippingDays          int       `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (StoreModel) TableName() string {
	return "stores"
}

// ===========================
// Mapper
// ===========================

func storeToDomain(m *StoreModel) (*store.Store, error) {
	id, err := store.StoreIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	weekdays := make([]time.Weekday, len(m.ClosedWeekdays))
	for i, d := range m.ClosedWeekdays {
		weekdays[i] = time.Weekday(d)
	}
	setting, err := store.NewEcSetting(m.EcEnabled, m.FreeShippingThreshold, m.SameDayLimitHour, weekdays, m.ShippingDays)
	if err != nil {
		return nil, err
	}
	return store.ReconstructStore(id, m.Name, m.PointConversionRate, setting, m.CreatedAt, m.UpdatedAt)
}

func storeToGORM(s *store.Store) *StoreModel {
	setting := s.EcSetting()
	weekdays := make([]int, 0, len(setting.ClosedWeekdays()))
	for _, d := range setting.ClosedWeekdays() {
		weekdays = append(weekdays, int(d))
	}
	return &StoreModel{
		ID:                    s.ID().String(),
		Name:                  s.Name(),
		PointConversionRate:   s.PointConversionRate(),
		EcEnabled:             setting.Enabled(),
		FreeShippingThreshold: setting.FreeShippingThreshold(),
		SameDayLimitHour:      setting.SameDayLimitHour(),
		ClosedWeekdays:        weekdays,
		ShippingDays:          setting.ShippingDays(),
		CreatedAt:             s.CreatedAt(),
		UpdatedAt:             s.UpdatedAt(),
	}
}

// ===========================
// GORMStoreRepository
// ===========================

// GORMStoreRepository 店舖倉儲
type GORMStoreRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewStoreRepository 創建店舖倉儲
func NewStoreRepository(db *gorm.DB) store.StoreRepository {
	return &GORMStoreRepository{
		db:   db,
		errs: errorSet{notFound: store.ErrStoreNotFound, alreadyExists: store.ErrStoreAlreadyExists},
	}
}

// Save 保存新店舖
func (r *GORMStoreRepository) Save(tx shared.TransactionContext, s *store.Store) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(storeToGORM(s)).Error)
}

// FindByID 查詢店舖
func (r *GORMStoreRepository) FindByID(tx shared.TransactionContext, id store.StoreID) (*store.Store, error) {
	var model StoreModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return storeToDomain(&model)
}

// Update 覆寫店舖設定（店舖沒有版本號，最後寫入者勝出）
func (r *GORMStoreRepository) Update(tx shared.TransactionContext, s *store.Store) error {
	model := storeToGORM(s)
	result := dbFrom(tx, r.db).Model(model).Select("*").Omit("CreatedAt").Updates(model)
	if result.Error != nil {
		return r.errs.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrStoreNotFound.WithContext("store_id", s.ID().String())
	}
	return nil
}
