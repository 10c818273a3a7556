package consignment

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// CreateClient
// ===========================

// CreateClientCommand 登錄委託者
type CreateClientCommand struct {
	StoreID        string
	Name           string
	CommissionRate int // 百分比 0-100
}

// ClientResult 委託者
type ClientResult struct {
	ClientID       string
	Name           string
	CommissionRate int
}

// CreateClientUseCase 登錄委託者 Use Case
type CreateClientUseCase struct {
	storeRepo  store.StoreRepository
	clientRepo consignment.ClientRepository
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewCreateClientUseCase 創建 Use Case 實例
func NewCreateClientUseCase(
	storeRepo store.StoreRepository,
	clientRepo consignment.ClientRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *CreateClientUseCase {
	return &CreateClientUseCase{storeRepo: storeRepo, clientRepo: clientRepo, txManager: txManager, clock: clock}
}

// Execute 執行登錄
func (uc *CreateClientUseCase) Execute(ctx context.Context, cmd CreateClientCommand) (*ClientResult, error) {
	storeID, err := store.StoreIDFromString(cmd.StoreID)
	if err != nil {
		return nil, err
	}

	var result *ClientResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if _, err := uc.storeRepo.FindByID(tx, storeID); err != nil {
			return err
		}
		c, err := consignment.NewClient(storeID, cmd.Name, cmd.CommissionRate, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := uc.clientRepo.Save(tx, c); err != nil {
			return err
		}
		result = &ClientResult{ClientID: c.ID().String(), Name: c.Name(), CommissionRate: c.CommissionRate()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ===========================
// Payout
// ===========================

// PayoutQuery 委託者結算查詢（[From, To)）
type PayoutQuery struct {
	StoreID  string
	ClientID string
	From     time.Time
	To       time.Time
}

// PayoutResult 結算金額
type PayoutResult struct {
	ClientID        string
	ClientName      string
	CommissionRate  int
	From            time.Time
	To              time.Time
	SaleCount       int
	Quantity        int
	SalesTotal      int64
	CommissionTotal int64
	PayoutTotal     int64
}

// PayoutUseCase 委託者結算 Use Case（唯讀）
type PayoutUseCase struct {
	clientRepo consignment.ClientRepository
	saleRepo   consignment.SaleRepository
}

// NewPayoutUseCase 創建 Use Case 實例
func NewPayoutUseCase(clientRepo consignment.ClientRepository, saleRepo consignment.SaleRepository) *PayoutUseCase {
	return &PayoutUseCase{clientRepo: clientRepo, saleRepo: saleRepo}
}

// Execute 彙總期間內的委託販賣
//
// 委託者屬於其他店舖時返回 consignment.ErrClientNotFound。
func (uc *PayoutUseCase) Execute(ctx context.Context, q PayoutQuery) (*PayoutResult, error) {
	storeID, err := store.StoreIDFromString(q.StoreID)
	if err != nil {
		return nil, err
	}
	clientID, err := consignment.ClientIDFromString(q.ClientID)
	if err != nil {
		return nil, err
	}
	if !q.From.Before(q.To) {
		return nil, consignment.ErrInvalidPeriod.WithContext("from", q.From, "to", q.To)
	}

	client, err := uc.clientRepo.FindByID(nil, clientID)
	if err != nil {
		return nil, err
	}
	if !client.StoreID().Equals(storeID) {
		return nil, consignment.ErrClientNotFound.WithContext("client_id", clientID.String(), "store_id", storeID.String())
	}
	sales, err := uc.saleRepo.FindByClient(nil, clientID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	summary, err := consignment.Summarize(clientID, q.From, q.To, sales)
	if err != nil {
		return nil, err
	}

	return &PayoutResult{
		ClientID:        clientID.String(),
		ClientName:      client.Name(),
		CommissionRate:  client.CommissionRate(),
		From:            summary.From,
		To:              summary.To,
		SaleCount:       summary.SaleCount,
		Quantity:        summary.Quantity,
		SalesTotal:      summary.SalesTotal,
		CommissionTotal: summary.CommissionTotal,
		PayoutTotal:     summary.PayoutTotal,
	}, nil
}
