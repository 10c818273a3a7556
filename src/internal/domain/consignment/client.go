package consignment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// Client 委託者
//
// CommissionRate 為百分比（0-100），店舖從每筆販賣額抽取的手續費率。
type Client struct {
	id             ClientID
	storeID        store.StoreID
	name           string
	commissionRate int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewClient 建立委託者
func NewClient(storeID store.StoreID, name string, commissionRate int, now time.Time) (*Client, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidClient.WithContext("reason", "name is required")
	}
	if commissionRate < 0 || commissionRate > 100 {
		return nil, ErrInvalidCommissionRate.WithContext("rate", commissionRate)
	}
	return &Client{
		id:             NewClientID(),
		storeID:        storeID,
		name:           name,
		commissionRate: commissionRate,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructClient 從資料庫重建
func ReconstructClient(id ClientID, storeID store.StoreID, name string, commissionRate int, createdAt, updatedAt time.Time) (*Client, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidClientID.WithContext("reason", "invalid client ID in database")
	}
	if commissionRate < 0 || commissionRate > 100 {
		return nil, ErrInvalidCommissionRate.WithContext("rate", commissionRate)
	}
	return &Client{
		id:             id,
		storeID:        storeID,
		name:           name,
		commissionRate: commissionRate,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// Commission 手續費 = floor(販賣額 × 費率 / 100)
func (c *Client) Commission(salesAmount int64) int64 {
	if salesAmount <= 0 {
		return 0
	}
	return decimal.NewFromInt(salesAmount).
		Mul(decimal.NewFromInt(int64(c.commissionRate))).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}

// RecordSale 建立委託販賣紀錄
func (c *Client) RecordSale(productID inventory.ProductID, transactionID string, quantity int, salesAmount int64, now time.Time) (Sale, error) {
	if quantity <= 0 || salesAmount < 0 {
		return Sale{}, ErrInvalidSale.WithContext("quantity", quantity, "sales_amount", salesAmount)
	}
	commission := c.Commission(salesAmount)
	return Sale{
		ID:            uuid.New().String(),
		ClientID:      c.id,
		StoreID:       c.storeID,
		ProductID:     productID,
		TransactionID: transactionID,
		Quantity:      quantity,
		SalesAmount:   salesAmount,
		Commission:    commission,
		Payout:        salesAmount - commission,
		SoldAt:        now,
	}, nil
}

func (c *Client) ID() ClientID           { return c.id }
func (c *Client) StoreID() store.StoreID { return c.storeID }
func (c *Client) Name() string           { return c.name }
func (c *Client) CommissionRate() int    { return c.commissionRate }
func (c *Client) CreatedAt() time.Time   { return c.createdAt }
func (c *Client) UpdatedAt() time.Time   { return c.updatedAt }
