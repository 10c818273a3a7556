package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ShippingMethodModel 配送方式資料表（運費表以 JSON 保存）
type ShippingMethodModel struct {
	ID              string      `gorm:"type:varchar(36);primaryKey"`
	StoreID         string      `gorm:"type:varchar(36);index;not null"`
	DisplayName     string      `gorm:"type:varchar(255);not null"`
	OrderNumber     int         `gorm:"not null"`
	EnabledTracking bool        `gorm:"not null"`
	Regions         []regionRow `gorm:"serializer:json"`
	WeightBands     []bandRow   `gorm:"serializer:json"`
	Deleted         bool        `gorm:"not null;index"`
	CreatedAt       time.Time   `gorm:"not null"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (ShippingMethodModel) TableName() string {
	return "shipping_methods"
}

type regionRow struct {
	Region string `json:"region"`
	Fee    int64  `json:"fee"`
}

type bandRow struct {
	MaxWeight int         `json:"max_weight"`
	Regions   []regionRow `json:"regions"`
}

func toRegionRows(in []shipping.RegionFee) []regionRow {
	out := make([]regionRow, len(in))
	for i, r := range in {
		out[i] = regionRow{Region: r.Region, Fee: r.Fee}
	}
	return out
}

func fromRegionRows(in []regionRow) []shipping.RegionFee {
	out := make([]shipping.RegionFee, len(in))
	for i, r := range in {
		out[i] = shipping.RegionFee{Region: r.Region, Fee: r.Fee}
	}
	return out
}

func methodToDomain(m *ShippingMethodModel) (*shipping.Method, error) {
	id, err := shipping.MethodIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	bands := make([]shipping.WeightBand, len(m.WeightBands))
	for i, b := range m.WeightBands {
		bands[i] = shipping.WeightBand{MaxWeight: b.MaxWeight, Regions: fromRegionRows(b.Regions)}
	}
	spec := shipping.MethodSpec{
		DisplayName:     m.DisplayName,
		OrderNumber:     m.OrderNumber,
		EnabledTracking: m.EnabledTracking,
		Regions:         fromRegionRows(m.Regions),
		WeightBands:     bands,
	}
	return shipping.ReconstructMethod(id, storeID, spec, m.Deleted, m.CreatedAt, m.UpdatedAt)
}

func methodToGORM(m *shipping.Method) *ShippingMethodModel {
	bands := make([]bandRow, 0, len(m.WeightBands()))
	for _, b := range m.WeightBands() {
		bands = append(bands, bandRow{MaxWeight: b.MaxWeight, Regions: toRegionRows(b.Regions)})
	}
	return &ShippingMethodModel{
		ID:              m.ID().String(),
		StoreID:         m.StoreID().String(),
		DisplayName:     m.DisplayName(),
		OrderNumber:     m.OrderNumber(),
		EnabledTracking: m.EnabledTracking(),
		Regions:         toRegionRows(m.Regions()),
		WeightBands:     bands,
		Deleted:         m.IsDeleted(),
		CreatedAt:       m.CreatedAt(),
		UpdatedAt:       m.UpdatedAt(),
	}
}

// ===========================
// GORMMethodRepository
// ===========================

// GORMMethodRepository 配送方式倉儲
type GORMMethodRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewMethodRepository 創建配送方式倉儲
func NewMethodRepository(db *gorm.DB) shipping.MethodRepository {
	return &GORMMethodRepository{db: db, errs: errorSet{notFound: shipping.ErrMethodNotFound}}
}

// Save 保存新配送方式
func (r *GORMMethodRepository) Save(tx shared.TransactionContext, m *shipping.Method) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(methodToGORM(m)).Error)
}

// Update 覆寫配送方式（含邏輯刪除）
func (r *GORMMethodRepository) Update(tx shared.TransactionContext, m *shipping.Method) error {
	model := methodToGORM(m)
	result := dbFrom(tx, r.db).Model(model).Select("*").Omit("CreatedAt").Updates(model)
	if result.Error != nil {
		return r.errs.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shipping.ErrMethodNotFound.WithContext("method_id", m.ID().String())
	}
	return nil
}

// FindByID 根據 ID 查找（包含已刪除）
func (r *GORMMethodRepository) FindByID(tx shared.TransactionContext, id shipping.MethodID) (*shipping.Method, error) {
	var model ShippingMethodModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return methodToDomain(&model)
}

// FindActiveByStore 返回店舖未刪除的配送方式
func (r *GORMMethodRepository) FindActiveByStore(tx shared.TransactionContext, storeID store.StoreID) ([]*shipping.Method, error) {
	var models []ShippingMethodModel
	err := dbFrom(tx, r.db).
		Where("store_id = ? AND deleted = ?", storeID.String(), false).
		Order("order_number, id").
		Find(&models).Error
	if err != nil {
		return nil, r.errs.mapError(err)
	}

	methods := make([]*shipping.Method, 0, len(models))
	for i := range models {
		m, err := methodToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
