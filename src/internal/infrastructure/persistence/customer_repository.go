package persistence

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
	"gorm.io/gorm"
)

// ===========================
// GORM Model
// ===========================

// CustomerModel 顧客資料表
//
// 資料庫約束：
// - (store_id, phone_number) 唯一；phone_number 可為 NULL（未綁定）
type CustomerModel struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	StoreID     string    `gorm:"column:store_id;type:varchar(36);not null;uniqueIndex:idx_customer_store_phone"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255);not null"`
	PhoneNumber *string   `gorm:"column:phone_number;type:varchar(11);uniqueIndex:idx_customer_store_phone"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Version     int       `gorm:"column:version;not null;default:1"`
}

// TableName 指定資料表名稱
func (CustomerModel) TableName() string {
	return "customers"
}

// ===========================
// Mapper
// ===========================

// customerToDomain PhoneNumber 為 NULL 時維持零值（未綁定）
func customerToDomain(m *CustomerModel) (*customer.Customer, error) {
	id, err := customer.CustomerIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := store.StoreIDFromString(m.StoreID)
	if err != nil {
		return nil, err
	}

	var phone customer.PhoneNumber
	if m.PhoneNumber != nil {
		if phone, err = customer.NewPhoneNumber(*m.PhoneNumber); err != nil {
			return nil, err
		}
	}

	return customer.ReconstructCustomer(id, storeID, m.DisplayName, phone, m.CreatedAt, m.UpdatedAt, m.Version)
}

func customerToGORM(c *customer.Customer) *CustomerModel {
	var phone *string
	if c.HasPhoneNumber() {
		s := c.PhoneNumber().String()
		phone = &s
	}
	return &CustomerModel{
		ID:          c.ID().String(),
		StoreID:     c.StoreID().String(),
		DisplayName: c.DisplayName(),
		PhoneNumber: phone,
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
		Version:     c.Version(),
	}
}

// nullableCustomerID 零值顧客 ID（訪客、非會員）保存為 NULL
func nullableCustomerID(id customer.CustomerID) *string {
	if id.IsEmpty() {
		return nil
	}
	s := id.String()
	return &s
}

func parseNullableCustomerID(s *string) (customer.CustomerID, error) {
	if s == nil || *s == "" {
		return customer.CustomerID{}, nil
	}
	return customer.CustomerIDFromString(*s)
}

// ===========================
// GORMCustomerRepository
// ===========================

// GORMCustomerRepository 顧客倉儲
type GORMCustomerRepository struct {
	db   *gorm.DB
	errs errorSet
}

// NewCustomerRepository 創建顧客倉儲
func NewCustomerRepository(db *gorm.DB) customer.CustomerRepository {
	return &GORMCustomerRepository{
		db: db,
		errs: errorSet{
			notFound:      customer.ErrCustomerNotFound,
			alreadyExists: customer.ErrPhoneNumberAlreadyBound,
		},
	}
}

// Save 保存新顧客（同店舖電話號碼重複返回 ErrPhoneNumberAlreadyBound）
func (r *GORMCustomerRepository) Save(tx shared.TransactionContext, c *customer.Customer) error {
	return r.errs.mapError(dbFrom(tx, r.db).Create(customerToGORM(c)).Error)
}

// Update 更新顧客（樂觀鎖）
func (r *GORMCustomerRepository) Update(tx shared.TransactionContext, c *customer.Customer) error {
	model := customerToGORM(c)
	model.Version = c.Version() + 1
	if err := updateVersioned(dbFrom(tx, r.db), model, model.ID, c.Version(), r.errs); err != nil {
		return err
	}
	c.AdvanceVersion()
	return nil
}

// FindByID 根據 ID 查找顧客
func (r *GORMCustomerRepository) FindByID(tx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	var model CustomerModel
	if err := dbFrom(tx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, r.errs.mapError(err)
	}
	return customerToDomain(&model)
}

// ExistsByPhoneNumber 檢查店舖內電話號碼是否已綁定（COUNT 查詢，不載入顧客）
func (r *GORMCustomerRepository) ExistsByPhoneNumber(tx shared.TransactionContext, storeID store.StoreID, phoneNumber customer.PhoneNumber) (bool, error) {
	var count int64
	err := dbFrom(tx, r.db).
		Model(&CustomerModel{}).
		Where("store_id = ? AND phone_number = ?", storeID.String(), phoneNumber.String()).
		Count(&count).Error
	if err != nil {
		return false, r.errs.mapError(err)
	}
	return count > 0, nil
}
