package consignment

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// Sale 委託販賣紀錄（只追加）
type Sale struct {
	ID            string
	ClientID      ClientID
	StoreID       store.StoreID
	ProductID     inventory.ProductID
	TransactionID string
	Quantity      int
	SalesAmount   int64
	Commission    int64
	Payout        int64
	SoldAt        time.Time
}

// PayoutSummary 委託者在期間 [From, To) 的結算
type PayoutSummary struct {
	ClientID        ClientID
	From            time.Time
	To              time.Time
	SaleCount       int
	Quantity        int
	SalesTotal      int64
	CommissionTotal int64
	PayoutTotal     int64
}

// Summarize 彙總期間內屬於 clientID 的販賣紀錄
func Summarize(clientID ClientID, from, to time.Time, sales []Sale) (PayoutSummary, error) {
	if !from.Before(to) {
		return PayoutSummary{}, ErrInvalidPeriod.WithContext("from", from, "to", to)
	}
	summary := PayoutSummary{ClientID: clientID, From: from, To: to}
	for _, s := range sales {
		if !s.ClientID.Equals(clientID) || s.SoldAt.Before(from) || !s.SoldAt.Before(to) {
			continue
		}
		summary.SaleCount++
		summary.Quantity += s.Quantity
		summary.SalesTotal += s.SalesAmount
		summary.CommissionTotal += s.Commission
		summary.PayoutTotal += s.Payout
	}
	return summary, nil
}
