package customer

import (
	"strings"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Customer Aggregate Root
// ===========================

// Customer 顧客聚合根
//
// 聚合邊界：
// - 顧客基本信息（ID, StoreID, DisplayName）
// - 電話號碼（同店舖唯一，由倉儲檢查）
//
// 不變量（Invariants）：
// 1. 顧客必須屬於一個店舖
// 2. 顧客必須有顯示名稱
// 3. 電話號碼綁定後不可變更（需管理員介入）
// 4. CreatedAt 不可變更
//
// 使用範例：
//
//	c, err := NewCustomer(storeID, "山田太郎", now)
//	c.BindPhoneNumber(phoneNumber, now)
type Customer struct {
	id          CustomerID
	storeID     store.StoreID
	displayName string
	phoneNumber PhoneNumber

	createdAt time.Time
	updatedAt time.Time
	version   int // 樂觀鎖版本號
}

// NewCustomer 創建新顧客（Checked Constructor）
//
// 業務規則：
// 1. DisplayName 去除前後空白後不能為空
// 2. 初始狀態：未綁定電話號碼
func NewCustomer(storeID store.StoreID, displayName string, now time.Time) (*Customer, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}

	return &Customer{
		id:          NewCustomerID(),
		storeID:     storeID,
		displayName: displayName,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
	}, nil
}

// ReconstructCustomer 重建顧客聚合（用於從資料庫載入）
func ReconstructCustomer(
	id CustomerID,
	storeID store.StoreID,
	displayName string,
	phoneNumber PhoneNumber,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Customer, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidCustomerID.WithContext("reason", "invalid customer ID in database")
	}
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}

	return &Customer{
		id:          id,
		storeID:     storeID,
		displayName: displayName,
		phoneNumber: phoneNumber,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}, nil
}

// ===========================
// Customer Aggregate Behavior Methods
// ===========================

// BindPhoneNumber 綁定電話號碼
//
// 業務規則：
// 1. 已綁定時不允許修改
// 2. 同店舖唯一性由 Application Layer 透過倉儲檢查
func (c *Customer) BindPhoneNumber(phoneNumber PhoneNumber, now time.Time) error {
	if !c.phoneNumber.IsZero() {
		return ErrPhoneAlreadyBound.WithContext(
			"current_phone", c.phoneNumber.String(),
			"new_phone", phoneNumber.String(),
		)
	}

	c.phoneNumber = phoneNumber
	c.updatedAt = now
	return nil
}

// Rename 變更顯示名稱
func (c *Customer) Rename(displayName string, now time.Time) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ErrInvalidDisplayName
	}
	c.displayName = displayName
	c.updatedAt = now
	return nil
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (c *Customer) AdvanceVersion() {
	c.version++
}

// ===========================
// Customer Aggregate Getters
// ===========================

// ID 返回顧客 ID
func (c *Customer) ID() CustomerID {
	return c.id
}

// StoreID 返回所屬店舖
func (c *Customer) StoreID() store.StoreID {
	return c.storeID
}

// DisplayName 返回顯示名稱
func (c *Customer) DisplayName() string {
	return c.displayName
}

// PhoneNumber 返回電話號碼
func (c *Customer) PhoneNumber() PhoneNumber {
	return c.phoneNumber
}

// HasPhoneNumber 檢查是否已綁定電話號碼
func (c *Customer) HasPhoneNumber() bool {
	return !c.phoneNumber.IsZero()
}

// CreatedAt 返回創建時間
func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt 返回更新時間
func (c *Customer) UpdatedAt() time.Time {
	return c.updatedAt
}

// Version 返回版本號（用於樂觀鎖）
func (c *Customer) Version() int {
	return c.version
}
