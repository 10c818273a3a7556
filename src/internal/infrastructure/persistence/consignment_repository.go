package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ConsignmentClientModel 委託者資料表
type ConsignmentClientModel struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	StoreID        string    `gorm:"type:varchar(36);index;not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	CommissionRate int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (ConsignmentClientModel) TableName() string {
	return "consignment_clients"
}

// ConsignmentSaleModel 委託販賣紀錄資料表（只追加，sold_at 以 UTC 保存）
type ConsignmentSaleModel struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"`
	ClientID      string    `gorm:"type:varchar(36);index:idx_sale_client_time;not null"`
	StoreID       string    `gorm:"type:varchar(36);not null"`
	ProductID     string    `gorm:"type:varchar(36);not null"`
	TransactionID string    `gorm:"type:varchar(36);index"`
	Quantity      int       `gorm:"not null"`
	SalesAmount   int64     `gorm:"not null"`
	Commission    int64     `gorm:"not null"`
	Payout        int64     `gorm:"not null"`
	SoldAt        time.Time `gorm:"not null;index:idx_sale_client_time"`
}

// TableName 指定表名
func (ConsignmentSaleModel) TableName() string {
	return "consignment_sales"
}

// ===========================
// GORMClientRepository
// ===========================

// GORMClientRepository 委託者倉儲
type GORMClientRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewClientRepository 創建委託者倉儲
func NewClientRepository(db *gorm.DB) consignment.ClientRepository {
	return &GORMClientRepository{db: db, errs: errorSet{notFound: consignment.ErrClientNotFound}}
}

// Save 保存新委託者
func (r *GORMClientRepository) Save(tx shared.TransactionContext, c *consignment.Client) error {
	model := &ConsignmentClientModel{
		ID:             c.ID().String(),
		StoreID:        c.StoreID().String(),
		Name:           c.Name(),
		CommissionRate: c.CommissionRate(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
	return r.errs.mapError(dbFrom(tx, r.db).Create(model).Error)
}

// FindByID 根據 ID 查找委託者
func (r *GORMClientRepository) FindByID(tx shared.TransactionContext, id consignment.ClientID) (*consignment.Client, error) {
	var m ConsignmentClientModel
	if err := dbFrom(tx, r.db).First(&m, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	return consignment.ReconstructClient(id, storeID, m.Name, m.CommissionRate, m.CreatedAt, m.UpdatedAt)
}

// ===========================
// GORMSaleRepository
// ===========================

// GORMSaleRepository 委託販賣紀錄倉儲
type GORMSaleRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewSaleRepository 創建委託販賣紀錄倉儲
func NewSaleRepository(db *gorm.DB) consignment.SaleRepository {
	return &GORMSaleRepository{db: db}
}

// Append 追加販賣紀錄
func (r *GORMSaleRepository) Append(tx shared.TransactionContext, sales ...consignment.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	models := make([]ConsignmentSaleModel, len(sales))
	for i, s := range sales {
		models[i] = ConsignmentSaleModel{
			ID:            s.ID,
			ClientID:      s.ClientID.String(),
			StoreID:       s.StoreID.String(),
			ProductID:     s.ProductID.String(),
			TransactionID: s.TransactionID,
			Quantity:      s.Quantity,
			SalesAmount:   s.SalesAmount,
			Commission:    s.Commission,
			Payout:        s.Payout,
			SoldAt:        s.SoldAt.UTC(),
		}
	}
	return r.errs.mapError(dbFrom(tx, r.db).Create(&models).Error)
}

// FindByClient 查詢 [from, to) 區間的販賣紀錄
func (r *GORMSaleRepository) FindByClient(tx shared.TransactionContext, clientID consignment.ClientID, from, to time.Time) ([]consignment.Sale, error) {
	var models []ConsignmentSaleModel
	err := dbFrom(tx, r.db).
		Where("client_id = ? AND sold_at >= ? AND sold_at < ?", clientID.String(), from.UTC(), to.UTC()).
		Order("sold_at, rowid").
		Find(&models).Error
	if err != nil {
		return nil, r.errs.mapError(err)
	}

	sales := make([]consignment.Sale, 0, len(models))
	for _, m := range models {
		storeID, err := store.StoreIDFromString(m.StoreID)
		if err != nil {
			return nil, err
		}
		productID, err := inventory.ProductIDFromString(m.ProductID)
		if err != nil {
			return nil, err
		}
		sales = append(sales, consignment.Sale{
			ID:            m.ID,
			ClientID:      clientID,
			StoreID:       storeID,
			ProductID:     productID,
			TransactionID: m.TransactionID,
			Quantity:      m.Quantity,
			SalesAmount:   m.SalesAmount,
			Commission:    m.Commission,
			Payout:        m.Payout,
			SoldAt:        m.SoldAt,
		})
	}
	return sales, nil
}
