package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM Models
// ===========================

// ProductModel 商品資料表
//
// 進貨批次與構成品以 JSON 欄位保存（永遠隨商品整列讀寫）。
type ProductModel struct {
	ID                  string                   `gorm:"type:varchar(36);primaryKey"`
	StoreID             string                   `gorm:"type:varchar(36);index;not null"`
	Name                string                   `gorm:"type:varchar(255);not null"`
	SellPrice           int64                    `gorm:"not null"`
	BuyPrice            int64                    `gorm:"not null"`
	StockNumber         int                      `gorm:"not null"`
	Weight              int                      `gorm:"not null"`
	Kind                string                   `gorm:"type:varchar(20);not null"`
	EcEnabled           bool                     `gorm:"not null"`
	ConsignmentClientID string                   `gorm:"type:varchar(36)"`
	WholesaleLots       []inventory.WholesaleLot `gorm:"serializer:json"`
	BundleComponents    []componentRow           `gorm:"serializer:json"`
	CreatedAt           time.Time                `gorm:"not null"`
	UpdatedAt           time.Time                `gorm:"not null;autoUpdateTime:false"`
	Version             int                      `gorm:"not null;default:1"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

type componentRow struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PackOpeningModel 開封紀錄資料表
type PackOpeningModel struct {
	ID            string       `gorm:"type:varchar(36);primaryKey"`
	StoreID       string       `gorm:"type:varchar(36);index;not null"`
	PackProductID string       `gorm:"type:varchar(36);index;not null"`
	PackCount     int          `gorm:"not null"`
	TotalCost     int64        `gorm:"not null"`
	Contents      []contentRow `gorm:"serializer:json"`
	OpenedAt      time.Time    `gorm:"not null"`
}

// TableName 指定表名
func (PackOpeningModel) TableName() string {
	return "pack_openings"
}

type contentRow struct {
	ProductID     string                   `json:"product_id"`
	Count         int                      `json:"count"`
	AllocatedCost int64                    `json:"allocated_cost"`
	Lots          []inventory.WholesaleLot `json:"lots"`
}

// StockHistoryModel 庫存變動紀錄資料表（只追加）
type StockHistoryModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	StoreID     string    `gorm:"type:varchar(36);index;not null"`
	ProductID   string    `gorm:"type:varchar(36);index;not null"`
	SourceKind  string    `gorm:"type:varchar(20);not null"`
	SourceID    string    `gorm:"type:varchar(64)"`
	Delta       int       `gorm:"not null"`
	ResultStock int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (StockHistoryModel) TableName() string {
	return "stock_histories"
}

// ===========================
// Mappers
// ===========================

func productToDomain(m *ProductModel) (*inventory.Product, error) {
	id, err := inventory.ProductIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	components := make([]inventory.BundleComponent, len(m.BundleComponents))
	for i, c := range m.BundleComponents {
		componentID, err := inventory.ProductIDFromString(c.ProductID)
		if err != nil {
			return nil, err
		}
		components[i] = inventory.BundleComponent{ProductID: componentID, Quantity: c.Quantity}
	}

	spec := inventory.ProductSpec{
		Name:                m.Name,
		SellPrice:           m.SellPrice,
		BuyPrice:            m.BuyPrice,
		Weight:              m.Weight,
		Kind:                inventory.ProductKind(m.Kind),
		EcEnabled:           m.EcEnabled,
		ConsignmentClientID: m.ConsignmentClientID,
		BundleComponents:    components,
	}
	return inventory.ReconstructProduct(id, storeID, spec, m.StockNumber, m.WholesaleLots, m.CreatedAt, m.UpdatedAt, m.Version)
}

func productToGORM(p *inventory.Product) *ProductModel {
	components := make([]componentRow, 0, len(p.BundleComponents()))
	for _, c := range p.BundleComponents() {
		components = append(components, componentRow{ProductID: c.ProductID.String(), Quantity: c.Quantity})
	}
	return &ProductModel{
		ID:                  p.ID().String(),
		StoreID:             p.StoreID().String(),
		Name:                p.Name(),
		SellPrice:           p.SellPrice(),
		BuyPrice:            p.BuyPrice(),
		StockNumber:         p.StockNumber(),
		Weight:              p.Weight(),
		Kind:                string(p.Kind()),
		EcEnabled:           p.IsEcEnabled(),
		ConsignmentClientID: p.ConsignmentClientID(),
		WholesaleLots:       p.WholesaleLots(),
		BundleComponents:    components,
		CreatedAt:           p.CreatedAt(),
		UpdatedAt:           p.UpdatedAt(),
		Version:             p.Version(),
	}
}

func packOpeningToDomain(m *PackOpeningModel) (*inventory.PackOpening, error) {
	id, err := inventory.PackOpeningIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	packID, err := inventory.ProductIDFromString(m.PackProductID)
	if err != nil {
		return nil, err
	}
	contents := make([]inventory.PackOpeningContent, len(m.Contents))
	for i, c := range m.Contents {
		productID, err := inventory.ProductIDFromString(c.ProductID)
		if err != nil {
			return nil, err
		}
		contents[i] = inventory.PackOpeningContent{
			ProductID:     productID,
			Count:         c.Count,
			AllocatedCost: c.AllocatedCost,
			Lots:          c.Lots,
		}
	}
	return inventory.ReconstructPackOpening(id, storeID, packID, m.PackCount, m.TotalCost, contents, m.OpenedAt)
}

func packOpeningToGORM(o *inventory.PackOpening) *PackOpeningModel {
	contents := make([]contentRow, 0, len(o.Contents()))
	for _, c := range o.Contents() {
		contents = append(contents, contentRow{
			ProductID:     c.ProductID.String(),
			Count:         c.Count,
			AllocatedCost: c.AllocatedCost,
			Lots:          c.Lots,
		})
	}
	return &PackOpeningModel{
		ID:            o.ID().String(),
		StoreID:       o.StoreID().String(),
		PackProductID: o.PackProductID().String(),
		PackCount:     o.PackCount(),
		TotalCost:     o.TotalCost(),
		Contents:      contents,
		OpenedAt:      o.OpenedAt(),
	}
}

// ===========================
// GORMProductRepository
// ===========================

// GORMProductRepository 商品倉儲（以 version 做樂觀鎖）
type GORMProductRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewProductRepository 創建商品倉儲
func NewProductRepository(db *gorm.DB) inventory.ProductRepository {
	return &GORMProductRepository{db: db, errs: errorSet{notFound: inventory.ErrProductNotFound}}
}

// Save 保存新商品
func (r *GORMProductRepository) Save(tx shared.TransactionContext, p *inventory.Product) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(productToGORM(p)).Error)
}

// Update 更新商品
//
// 資料庫中的 version 與 p.Version() 不符時返回 shared.ErrConcurrentModification；
// 成功後 p 的版本號前進。
func (r *GORMProductRepository) Update(tx shared.TransactionContext, p *inventory.Product) error {
	model := productToGORM(p)
	model.Version = p.Version() + 1
	if err := updateVersioned(dbFrom(tx, r.db), model, model.ID, p.Version(), r.errs); err != nil {
		return err
	}
	p.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找商品
func (r *GORMProductRepository) FindByID(tx shared.TransactionContext, id inventory.ProductID) (*inventory.Product, error) {
	var model ProductModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return productToDomain(&model)
}

// FindByIDs 批次查詢店舖內的商品
func (r *GORMProductRepository) FindByIDs(tx shared.TransactionContext, storeID store.StoreID, ids []inventory.ProductID) ([]*inventory.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	var models []ProductModel
	err := dbFrom(tx, r.db).
		Where("store_id = ? AND id IN ?", storeID.String(), keys).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, r.errs.mapError(err)
	}

	products := make([]*inventory.Product, 0, len(models))
	for i := range models {
		p, err := productToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ===========================
// GORMPackOpeningRepository
// ===========================

// GORMPackOpeningRepository 開封紀錄倉儲
type GORMPackOpeningRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewPackOpeningRepository 創建開封紀錄倉儲
func NewPackOpeningRepository(db *gorm.DB) inventory.PackOpeningRepository {
	return &GORMPackOpeningRepository{db: db, errs: errorSet{notFound: inventory.ErrPackOpeningNotFound}}
}

// Save 保存開封紀錄
func (r *GORMPackOpeningRepository) Save(tx shared.TransactionContext, o *inventory.PackOpening) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(packOpeningToGORM(o)).Error)
}

// FindByID 根據 ID 查找開封紀錄
func (r *GORMPackOpeningRepository) FindByID(tx shared.TransactionContext, id inventory.PackOpeningID) (*inventory.PackOpening, error) {
	var model PackOpeningModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return packOpeningToDomain(&model)
}

// ===========================
// GORMStockHistoryRepository
// ===========================

// GORMStockHistoryRepository 庫存變動紀錄倉儲
type GORMStockHistoryRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewStockHistoryRepository 創建庫存變動紀錄倉儲
func NewStockHistoryRepository(db *gorm.DB) inventory.StockHistoryRepository {
	return &GORMStockHistoryRepository{db: db}
}

// Append 追加紀錄
func (r *GORMStockHistoryRepository) Append(tx shared.TransactionContext, histories ...inventory.StockHistory) error {
	if len(histories) == 0 {
		return nil
	}
	models := make([]StockHistoryModel, len(histories))
	for i, h := range histories {
		models[i] = StockHistoryModel{
			ID:          h.ID,
			StoreID:     h.StoreID.String(),
			ProductID:   h.ProductID.String(),
			SourceKind:  string(h.SourceKind),
			SourceID:    h.SourceID,
			Delta:       h.Delta,
			ResultStock: h.ResultStock,
			CreatedAt:   h.CreatedAt,
		}
	}
	return r.errs.mapError(dbFrom(tx, r.db).Create(&models).Error)
}

// FindByProduct 依時間順序返回商品的變動紀錄（同一時間依 SQLite rowid 寫入順序）
func (r *GORMStockHistoryRepository) FindByProduct(tx shared.TransactionContext, productID inventory.ProductID) ([]inventory.StockHistory, error) {
	var models []StockHistoryModel
	err := dbFrom(tx, r.db).
		Where("product_id = ?", productID.String()).
		Order("created_at, rowid").
		Find(&models).Error
	if err != nil {
		return nil, r.errs.mapError(err)
	}

	histories := make([]inventory.StockHistory, 0, len(models))
	for _, m := range models {
		storeID, err := store.StoreIDFromString(m.StoreID)
		if err != nil {
			return nil, err
		}
		histories = append(histories, inventory.StockHistory{
			ID:          m.ID,
			StoreID:     storeID,
			ProductID:   productID,
			SourceKind:  inventory.StockSourceKind(m.SourceKind),
			SourceID:    m.SourceID,
			Delta:       m.Delta,
			ResultStock: m.ResultStock,
			CreatedAt:   m.CreatedAt,
		})
	}
	return histories, nil
}
