package points

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// ===========================
// PointsAccount 領域事件
// ===========================

// PointsAccountCreatedEvent 點數帳戶開設
type PointsAccountCreatedEvent struct {
	shared.EventBase
	StoreID    string `json:"store_id"`
	CustomerID string `json:"customer_id"`
}

// NewPointsAccountCreatedEvent 建立帳戶開設事件
func NewPointsAccountCreatedEvent(a *PointsAccount, at time.Time) *PointsAccountCreatedEvent {
	return &PointsAccountCreatedEvent{
		EventBase:  shared.NewEventBase("points.account_created", a.accountID.String(), at),
		StoreID:    a.storeID.String(),
		CustomerID: a.customerID.String(),
	}
}

// PointsEarnedEvent 點數已獲得
type PointsEarnedEvent struct {
	shared.EventBase
	CustomerID string       `json:"customer_id"`
	Amount     int          `json:"amount"`
	Source     PointsSource `json:"source"`
	SourceID   string       `json:"source_id"`
	Available  int          `json:"available"`
}

// NewPointsEarnedEvent 建立點數獲得事件（在狀態變更後呼叫）
func NewPointsEarnedEvent(a *PointsAccount, amount PointsAmount, source PointsSource, sourceID string, at time.Time) *PointsEarnedEvent {
	return &PointsEarnedEvent{
		EventBase:  shared.NewEventBase("points.earned", a.accountID.String(), at),
		CustomerID: a.customerID.String(),
		Amount:     amount.Value(),
		Source:     source,
		SourceID:   sourceID,
		Available:  a.AvailablePoints().Value(),
	}
}

// PointsDeductedEvent 點數已使用
type PointsDeductedEvent struct {
	shared.EventBase
	CustomerID string       `json:"customer_id"`
	Amount     int          `json:"amount"`
	Source     PointsSource `json:"source"`
	SourceID   string       `json:"source_id"`
	Available  int          `json:"available"`
}

// NewPointsDeductedEvent 建立點數使用事件（在狀態變更後呼叫）
func NewPointsDeductedEvent(a *PointsAccount, amount PointsAmount, source PointsSource, sourceID string, at time.Time) *PointsDeductedEvent {
	return &PointsDeductedEvent{
		EventBase:  shared.NewEventBase("points.deducted", a.accountID.String(), at),
		CustomerID: a.customerID.String(),
		Amount:     amount.Value(),
		Source:     source,
		SourceID:   sourceID,
		Available:  a.AvailablePoints().Value(),
	}
}
