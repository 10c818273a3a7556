package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/register"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/transaction"
	"gorm.io/gorm"
)

// ===========================
// GORM Models
// ===========================

// TransactionModel 交易資料表
type TransactionModel struct {
	ID            string     `gorm:"type:varchar(36);primaryKey"`
	StoreID       string     `gorm:"type:varchar(36);index;not null"`
	RegisterID    *string    `gorm:"type:varchar(36)"`
	Kind          string     `gorm:"type:varchar(10);not null"`
	Status        string     `gorm:"type:varchar(10);not null;index"`
	CustomerID    *string    `gorm:"type:varchar(36);index"`
	Discount      int64      `gorm:"not null"`
	PointsUsed    int        `gorm:"not null"`
	PaymentMethod string     `gorm:"type:varchar(10)"`
	Received      int64      `gorm:"not null"`
	Change        int64      `gorm:"not null"`
	PointsEarned  int        `gorm:"not null"`
	FinishedAt    *time.Time
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime:false"`
	Version       int        `gorm:"not null;default:1"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionLineModel 交易明細資料表
//
// 明細隨交易整批替換，Position 保持輸入順序。
type TransactionLineModel struct {
	TransactionID string `gorm:"type:varchar(36);primaryKey"`
	Position      int    `gorm:"primaryKey;autoIncrement:false"`
	ProductID     string `gorm:"type:varchar(36);not null"`
	UnitPrice     int64  `gorm:"not null"`
	Quantity      int    `gorm:"not null"`
	Discount      int64  `gorm:"not null"`
	WholesaleCost int64  `gorm:"not null"`
}

// TableName 指定表名
func (TransactionLineModel) TableName() string {
	return "transaction_lines"
}

// ===========================
// Mapper
// ===========================

func transactionToDomain(m *TransactionModel, lineModels []TransactionLineModel) (*transaction.Transaction, error) {
	id, err := transaction.TransactionIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}
	var registerID register.RegisterID
	if m.RegisterID != nil && *m.RegisterID != "" {
		if registerID, err = register.RegisterIDFromString(*m.RegisterID); err != nil {
			return nil, err
		}
	}
	customerID, err := parseNullableCustomerID(m.CustomerID)
	if err != nil {
		return nil, err
	}

	lines := make([]transaction.Line, len(lineModels))
	for i, l := range lineModels {
		productID, err := inventory.ProductIDFromString(l.ProductID)
		if err != nil {
			return nil, err
		}
		lines[i] = transaction.Line{
			ProductID:     productID,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Discount:      l.Discount,
			WholesaleCost: l.WholesaleCost,
		}
	}

	return transaction.ReconstructTransaction(transaction.Snapshot{
		ID:            id,
		StoreID:       storeID,
		RegisterID:    registerID,
		Kind:          transaction.Kind(m.Kind),
		Status:        transaction.Status(m.Status),
		CustomerID:    customerID,
		Lines:         lines,
		Discount:      m.Discount,
		PointsUsed:    m.PointsUsed,
		PaymentMethod: transaction.PaymentMethod(m.PaymentMethod),
		Received:      m.Received,
		Change:        m.Change,
		PointsEarned:  m.PointsEarned,
		FinishedAt:    m.FinishedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Version:       m.Version,
	})
}

func transactionToGORM(t *transaction.Transaction) (*TransactionModel, []TransactionLineModel) {
	var registerID *string
	if !t.RegisterID().IsEmpty() {
		s := t.RegisterID().String()
		registerID = &s
	}
	model := &TransactionModel{
		ID:            t.ID().String(),
		StoreID:       t.StoreID().String(),
		RegisterID:    registerID,
		Kind:          string(t.Kind()),
		Status:        string(t.Status()),
		CustomerID:    nullableCustomerID(t.CustomerID()),
		Discount:      t.Discount(),
		PointsUsed:    t.PointsUsed(),
		PaymentMethod: string(t.PaymentMethod()),
		Received:      t.Received(),
		Change:        t.Change(),
		PointsEarned:  t.PointsEarned(),
		FinishedAt:    t.FinishedAt(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
		Version:       t.Version(),
	}

	lines := make([]TransactionLineModel, 0, len(t.Lines()))
	for i, l := range t.Lines() {
		lines = append(lines, TransactionLineModel{
			TransactionID: model.ID,
			Position:      i,
			ProductID:     l.ProductID.String(),
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Discount:      l.Discount,
			WholesaleCost: l.WholesaleCost,
		})
	}
	return model, lines
}

// ===========================
// GORMTransactionRepository
// ===========================

// GORMTransactionRepository 交易倉儲
type GORMTransactionRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewTransactionRepository 創建交易倉儲
func NewTransactionRepository(db *gorm.DB) transaction.TransactionRepository {
	return &GORMTransactionRepository{db: db, errs: errorSet{notFound: transaction.ErrTransactionNotFound}}
}

// Save 保存新交易（含明細）
func (r *GORMTransactionRepository) Save(tx shared.TransactionContext, t *transaction.Transaction) error {
	db := dbFrom(tx, r.db)
	model, lines := transactionToGORM(t)
	if err := db.Create(model).Error; err != nil {
		return r.errs.mapError(err)
	}
	return r.saveLines(db, lines)
}

// Update 以 version 做樂觀鎖，明細整批替換
func (r *GORMTransactionRepository) Update(tx shared.TransactionContext, t *transaction.Transaction) error {
	db := dbFrom(tx, r.db)
	model, lines := transactionToGORM(t)
	model.Version = t.Version() + 1
	if err := updateVersioned(db, model, model.ID, t.Version(), r.errs); err != nil {
		return err
	}

	if err := db.Where("transaction_id = ?", model.ID).Delete(&TransactionLineModel{}).Error; err != nil {
		return r.errs.mapError(err)
	}
	if err := r.saveLines(db, lines); err != nil {
		return err
	}
	t.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找交易（含明細）
func (r *GORMTransactionRepository) FindByID(tx shared.TransactionContext, id transaction.TransactionID) (*transaction.Transaction, error) {
	db := dbFrom(tx, r.db)

	var model TransactionModel
	if err := db.First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	var lines []TransactionLineModel
	if err := db.Where("transaction_id = ?", model.ID).Order("position").Find(&lines).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return transactionToDomain(&model, lines)
}

func (r *GORMTransactionRepository) saveLines(db *gorm.DB, lines []TransactionLineModel) error {
	if len(lines) == 0 {
		return nil
	}
	return r.errs.mapError(db.Create(&lines).Error)
}
