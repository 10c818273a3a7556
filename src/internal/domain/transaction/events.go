package transaction

import (
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// TransactionCompletedEvent 交易完成
type TransactionCompletedEvent struct {
	shared.EventBase
	StoreID       string        `json:"store_id"`
	RegisterID    string        `json:"register_id,omitempty"`
	Kind          Kind          `json:"kind"`
	CustomerID    string        `json:"customer_id,omitempty"`
	Total         int64         `json:"total"`
	WholesaleCost int64         `json:"wholesale_cost"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PointsUsed    int           `json:"points_used"`
	PointsEarned  int           `json:"points_earned"`
	LineCount     int           `json:"line_count"`
}

// NewTransactionCompletedEvent 在 Complete 狀態變更後建立
func NewTransactionCompletedEvent(t *Transaction) *TransactionCompletedEvent {
	e := &TransactionCompletedEvent{
		EventBase:     shared.NewEventBase("transaction.completed", t.id.String(), t.updatedAt),
		StoreID:       t.storeID.String(),
		Kind:          t.kind,
		Total:         t.Total(),
		WholesaleCost: t.WholesaleCost(),
		PaymentMethod: t.paymentMethod,
		PointsUsed:    t.pointsUsed,
		PointsEarned:  t.pointsEarned,
		LineCount:     len(t.lines),
	}
	if !t.registerID.IsEmpty() {
		e.RegisterID = t.registerID.String()
	}
	if !t.customerID.IsEmpty() {
		e.CustomerID = t.customerID.String()
	}
	return e
}
