package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/ec"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM Models
// ===========================

// CartModel 購物車資料表
type CartModel struct {
	ID         string        `gorm:"type:varchar(36);primaryKey"`
	StoreID    string        `gorm:"type:varchar(36);index;not null"`
	CustomerID *string       `gorm:"type:varchar(36);index"`
	Lines      []cartLineRow `gorm:"serializer:json"`
	CreatedAt  time.Time     `gorm:"not null"`
	UpdatedAt  time.Time     `gorm:"not null;autoUpdateTime:false"`
	Version    int           `gorm:"not null;default:1"`
}

type cartLineRow struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// TableName 指定表名
func (CartModel) TableName() string {
	return "carts"
}

// OrderModel EC 訂單資料表（收件地址攤平，縣市以代碼保存）
type OrderModel struct {
	ID               string    `gorm:"type:varchar(36);primaryKey"`
	StoreID          string    `gorm:"type:varchar(36);index;not null"`
	CustomerID       *string   `gorm:"type:varchar(36);index"`
	ShippingMethodID string    `gorm:"type:varchar(36);not null"`
	ShippingName     string    `gorm:"type:varchar(255)"`
	AddressName      string    `gorm:"type:varchar(255);not null"`
	PostalCode       string    `gorm:"type:varchar(16)"`
	PrefectureCode   int       `gorm:"not null"`
	City             string    `gorm:"type:varchar(255);not null"`
	AddressLine      string    `gorm:"type:varchar(255);not null"`
	Phone            string    `gorm:"type:varchar(32)"`
	Subtotal         int64     `gorm:"not null"`
	ShippingFee      int64     `gorm:"not null"`
	Total            int64     `gorm:"not null"`
	ShipDate         time.Time `gorm:"not null"`
	Status           string    `gorm:"type:varchar(10);not null"`
	OrderedAt        time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "ec_orders"
}

// OrderLineModel EC 訂單明細資料表
type OrderLineModel struct {
	OrderID       string `gorm:"type:varchar(36);primaryKey"`
	Position      int    `gorm:"primaryKey;autoIncrement:false"`
	ProductID     string `gorm:"type:varchar(36);not null"`
	Name          string `gorm:"type:varchar(255);not null"`
	UnitPrice     int64  `gorm:"not null"`
	Quantity      int    `gorm:"not null"`
	WholesaleCost int64  `gorm:"not null"`
}

// TableName 指定表名
func (OrderLineModel) TableName() string {
	return "ec_order_lines"
}

// ===========================
// Mapper
// ===========================

func cartToDomain(m *CartModel) (*ec.Cart, error) {
	id, err := ec.CartIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	customerID, err := parseNullableCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}
	lines := make([]ec.CartLine, len(m.Lines))
	for i, l := range m.Lines {
		productID, err := inventory.ProductIDFromString(l.ProductID)
		if err != nil {
			return nil, err
		}
		lines[i] = ec.CartLine{ProductID: productID, Quantity: l.Quantity}
	}
	return ec.ReconstructCart(id, storeID, customerID, lines, m.CreatedAt, m.UpdatedAt, m.Version)
}

func cartToGORM(c *ec.Cart) *CartModel {
	lines := make([]cartLineRow, len(c.Lines()))
	for i, l := range c.Lines() {
		lines[i] = cartLineRow{ProductID: l.ProductID.String(), Quantity: l.Quantity}
	}
	return &CartModel{
		ID:         c.ID().String(),
		StoreID:    c.StoreID().String(),
		CustomerID: nullableCustomerID(c.CustomerID()),
		Lines:      lines,
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
		Version:    c.Version(),
	}
}

func orderToGORM(o *ec.Order) (*OrderModel, []OrderLineModel) {
	model := &OrderModel{
		ID:               o.ID.String(),
		StoreID:          o.StoreID.String(),
		CustomerID:       nullableCustomerID(o.CustomerID),
		ShippingMethodID: o.ShippingMethodID.String(),
		ShippingName:     o.ShippingName,
		AddressName:      o.Address.Name,
		PostalCode:       o.Address.PostalCode,
		PrefectureCode:   o.Address.Prefecture.Code(),
		City:             o.Address.City,
		AddressLine:      o.Address.Line,
		Phone:            o.Address.Phone,
		Subtotal:         o.Subtotal,
		ShippingFee:      o.ShippingFee,
		Total:            o.Total,
		ShipDate:         o.ShipDate,
		Status:           string(o.Status),
		OrderedAt:        o.OrderedAt,
	}
	lines := make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineModel{
			OrderID:       model.ID,
			Position:      i,
			ProductID:     l.ProductID.String(),
			Name:          l.Name,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			WholesaleCost: l.WholesaleCost,
		}
	}
	return model, lines
}

func orderToDomain(m *OrderModel, lineModels []OrderLineModel) (*ec.Order, error) {
	id, err := ec.OrderIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	customerID, err := parseNullableCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}
	methodID, err := shipping.MethodIDFromString(m.ShippingMethodID)
	if err != nil {
		return nil, err
	}
	prefecture, err := shipping.PrefectureByCode(m.PrefectureCode)
	if err != nil {
		return nil, err
	}

	order := &ec.Order{
		ID:               id,
		StoreID:          storeID,
		CustomerID:       customerID,
		ShippingMethodID: methodID,
		ShippingName:     m.ShippingName,
		Address: ec.Address{
			Name:       m.AddressName,
			PostalCode: m.PostalCode,
			Prefecture: prefecture,
			City:       m.City,
			Line:       m.AddressLine,
			Phone:      m.Phone,
		},
		Subtotal:    m.Subtotal,
		ShippingFee: m.ShippingFee,
		Total:       m.Total,
		ShipDate:    m.ShipDate,
		Status:      ec.OrderStatus(m.Status),
		OrderedAt:   m.OrderedAt,
		Lines:       make([]ec.OrderLine, len(lineModels)),
	}
	for i, l := range lineModels {
		productID, err := inventory.ProductIDFromString(l.ProductID)
		if err != nil {
			return nil, err
		}
		order.Lines[i] = ec.OrderLine{
			ProductID:     productID,
			Name:          l.Name,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			WholesaleCost: l.WholesaleCost,
		}
	}
	return order, nil
}

// ===========================
// GORMCartRepository
// ===========================

// GORMCartRepository 購物車倉儲
type GORMCartRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewCartRepository 創建購物車倉儲
func NewCartRepository(db *gorm.DB) ec.CartRepository {
	return &GORMCartRepository{db: db, errs: errorSet{notFound: ec.ErrCartNotFound}}
}

// Save 保存新購物車
func (r *GORMCartRepository) Save(tx shared.TransactionContext, c *ec.Cart) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(cartToGORM(c)).Error)
}

// Update 更新購物車（樂觀鎖）
func (r *GORMCartRepository) Update(tx shared.TransactionContext, c *ec.Cart) error {
	model := cartToGORM(c)
	model.Version = c.Version() + 1
	if err := updateVersioned(dbFrom(tx, r.db), model, model.ID, c.Version(), r.errs); err != nil {
		return err
	}
	c.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找購物車
func (r *GORMCartRepository) FindByID(tx shared.TransactionContext, id ec.CartID) (*ec.Cart, error) {
	var model CartModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return cartToDomain(&model)
}

// ===========================
// GORMOrderRepository
// ===========================

// GORMOrderRepository EC 訂單倉儲
type GORMOrderRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewOrderRepository 創建訂單倉儲
func NewOrderRepository(db *gorm.DB) ec.OrderRepository {
	return &GORMOrderRepository{db: db, errs: errorSet{notFound: ec.ErrOrderNotFound}}
}

// Save 保存訂單與明細
func (r *GORMOrderRepository) Save(tx shared.TransactionContext, o *ec.Order) error {
	db := dbFrom(tx, r.db)
	model, lines := orderToGORM(o)
	if err := db.Create(model).Error; err != nil {
		return r.errs.mapError(err)
	}
	if len(lines) == 0 {
		return nil
	}
	return r.errs.mapError(db.Create(&lines).Error)
}

// FindByID 根據 ID 查找訂單
func (r *GORMOrderRepository) FindByID(tx shared.TransactionContext, id ec.OrderID) (*ec.Order, error) {
	db := dbFrom(tx, r.db)

	var model OrderModel
	if err := db.First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	var lines []OrderLineModel
	if err := db.Where("order_id = ?", model.ID).Order("position").Find(&lines).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return orderToDomain(&model, lines)
}
