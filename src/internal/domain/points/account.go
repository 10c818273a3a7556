package points

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// PointsAccount 聚合根
// ===========================

// PointsAccount 點數帳戶聚合根
//
// 每位顧客在每間店舖各有一個帳戶。
//
// 業務不變條件：
// - EarnedPoints >= 0（累積獲得的點數總數）
// - UsedPoints >= 0（累積使用的點數總數）
// - UsedPoints <= EarnedPoints
// - AvailablePoints = EarnedPoints - UsedPoints（派生值，不存儲）
type PointsAccount struct {
	accountID  AccountID
	storeID    store.StoreID
	customerID customer.CustomerID

	earnedPoints PointsAmount
	usedPoints   PointsAmount

	createdAt time.Time
	updatedAt time.Time
	version   int

	// 待發布的領域事件
	events []shared.DomainEvent
}

// NewPointsAccount 開設新的點數帳戶
//
// 業務規則：
// - 新帳戶初始點數為 0
// - 發布 points.account_created 事件
func NewPointsAccount(storeID store.StoreID, customerID customer.CustomerID, now time.Time) (*PointsAccount, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	if customerID.IsEmpty() {
		return nil, ErrInvalidCustomerID.WithContext("reason", "customerID cannot be empty")
	}

	account := &PointsAccount{
		accountID:    NewAccountID(),
		storeID:      storeID,
		customerID:   customerID,
		earnedPoints: newPointsAmountUnchecked(0),
		usedPoints:   newPointsAmountUnchecked(0),
		createdAt:    now,
		updatedAt:    now,
		version:      1,
	}
	account.addEvent(NewPointsAccountCreatedEvent(account, now))

	return account, nil
}

// ReconstructPointsAccount 從持久化存儲重建聚合根
//
// 即使是從資料庫重建也驗證不變條件，不發布事件。
func ReconstructPointsAccount(
	accountID AccountID,
	storeID store.StoreID,
	customerID customer.CustomerID,
	earnedPoints int,
	usedPoints int,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*PointsAccount, error) {
	if accountID.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext("reason", "invalid account ID in database")
	}
	if customerID.IsEmpty() {
		return nil, ErrInvalidCustomerID.WithContext("reason", "invalid customer ID in database")
	}

	earned, err := NewPointsAmount(earnedPoints)
	if err != nil {
		return nil, ErrCorruptedAccount.WithContext("earned_points", earnedPoints)
	}
	used, err := NewPointsAmount(usedPoints)
	if err != nil {
		return nil, ErrCorruptedAccount.WithContext("used_points", usedPoints)
	}
	if used.GreaterThan(earned) {
		return nil, ErrCorruptedAccount.WithContext(
			"used_points", usedPoints,
			"earned_points", earnedPoints,
		)
	}

	return &PointsAccount{
		accountID:    accountID,
		storeID:      storeID,
		customerID:   customerID,
		earnedPoints: earned,
		usedPoints:   used,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		version:      version,
	}, nil
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// EarnPoints 獲得點數
//
// 零點也接受（小額交易），但不發布事件。
func (a *PointsAccount) EarnPoints(amount PointsAmount, source PointsSource, sourceID string, now time.Time) error {
	if amount.IsZero() {
		return nil
	}

	earned, err := a.earnedPoints.Add(amount)
	if err != nil {
		return err
	}

	a.earnedPoints = earned
	a.updatedAt = now
	a.addEvent(NewPointsEarnedEvent(a, amount, source, sourceID, now))
	return nil
}

// DeductPoints 使用點數
//
// 可用點數不足返回 ErrInsufficientPoints，狀態不變。
func (a *PointsAccount) DeductPoints(amount PointsAmount, source PointsSource, sourceID string, now time.Time) error {
	if amount.IsZero() {
		return nil
	}

	available := a.AvailablePoints()
	if amount.GreaterThan(available) {
		return ErrInsufficientPoints.WithContext(
			"requested", amount.Value(),
			"available", available.Value(),
			"source_id", sourceID,
		)
	}

	used, err := a.usedPoints.Add(amount)
	if err != nil {
		return err
	}

	a.usedPoints = used
	a.updatedAt = now
	a.addEvent(NewPointsDeductedEvent(a, amount, source, sourceID, now))
	return nil
}

// AdvanceVersion 倉儲在更新成功後呼叫
func (a *PointsAccount) AdvanceVersion() {
	a.version++
}

// ===========================
// 事件管理
// ===========================

func (a *PointsAccount) addEvent(event shared.DomainEvent) {
	a.events = append(a.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表
func (a *PointsAccount) PullEvents() []shared.DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// ===========================
// 查詢方法（Getters）
// ===========================

// AvailablePoints 可用點數（派生值）
func (a *PointsAccount) AvailablePoints() PointsAmount {
	// usedPoints <= earnedPoints 由命令方法保證
	available, _ := a.earnedPoints.Subtract(a.usedPoints)
	return available
}

func (a *PointsAccount) AccountID() AccountID            { return a.accountID }
func (a *PointsAccount) StoreID() store.StoreID          { return a.storeID }
func (a *PointsAccount) CustomerID() customer.CustomerID { return a.customerID }
func (a *PointsAccount) EarnedPoints() PointsAmount      { return a.earnedPoints }
func (a *PointsAccount) UsedPoints() PointsAmount        { return a.usedPoints }
func (a *PointsAccount) CreatedAt() time.Time            { return a.createdAt }
func (a *PointsAccount) UpdatedAt() time.Time            { return a.updatedAt }
func (a *PointsAccount) Version() int                    { return a.version }
