package consignment

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// ClientRepository 委託者倉儲介面
type ClientRepository interface {
	Save(tx shared.TransactionContext, c *Client) error

	// FindByID 找不到返回 ErrClientNotFound
	FindByID(tx shared.TransactionContext, id ClientID) (*Client, error)
}

// SaleRepository 委託販賣紀錄倉儲介面
type SaleRepository interface {
	Append(tx shared.TransactionContext, sales ...Sale) error

	// FindByClient 查詢 [from, to) 區間的販賣紀錄
	FindByClient(tx shared.TransactionContext, clientID ClientID, from, to time.Time) ([]Sale, error)
}
