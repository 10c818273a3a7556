package consignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/apptest"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/consignment"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/inventory"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

func TestCreateClient(t *testing.T) {
	s := apptest.NewStore(t)

	tests := []struct {
		name    string
		cmd     CreateClientCommand
		wantErr error
	}{
		{name: "valid", cmd: CreateClientCommand{StoreID: s.ID().String(), Name: "カード屋A", CommissionRate: 15}},
		{name: "rate above 100", cmd: CreateClientCommand{StoreID: s.ID().String(), Name: "A", CommissionRate: 101}, wantErr: consignment.ErrInvalidCommissionRate},
		{name: "empty name", cmd: CreateClientCommand{StoreID: s.ID().String(), Name: " ", CommissionRate: 10}, wantErr: consignment.ErrInvalidClient},
		{name: "unknown store", cmd: CreateClientCommand{StoreID: store.NewStoreID().String(), Name: "A"}, wantErr: store.ErrStoreNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			clients := apptest.NewClientRepo()
			uc := NewCreateClientUseCase(apptest.NewStoreRepo(s), clients, &apptest.TxManager{}, apptest.Clock())

			// Act
			result, err := uc.Execute(context.Background(), tt.cmd)

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				assert.Empty(t, clients.Items)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "カード屋A", result.Name)
			assert.Equal(t, 15, result.CommissionRate)
			assert.Len(t, clients.Items, 1)
		})
	}
}

func TestPayout_SummarizesPeriod(t *testing.T) {
	// Arrange
	s := apptest.NewStore(t)
	client, err := consignment.NewClient(s.ID(), "カード屋A", 15, apptest.Now)
	require.NoError(t, err)
	other, err := consignment.NewClient(s.ID(), "カード屋B", 10, apptest.Now)
	require.NoError(t, err)

	sales := &apptest.SaleRepo{}
	productID := inventory.NewProductID()
	record := func(c *consignment.Client, qty int, amount int64, at time.Time) {
		sale, err := c.RecordSale(productID, "tx", qty, amount, at)
		require.NoError(t, err)
		require.NoError(t, sales.Append(nil, sale))
	}
	record(client, 1, 999, apptest.Now)                    // 手續費 149
	record(client, 2, 2000, apptest.Now.Add(24*time.Hour)) // 手續費 300
	record(client, 1, 500, apptest.Now.Add(-48*time.Hour)) // 期間外
	record(other, 1, 1000, apptest.Now)                    // 其他委託者

	uc := NewPayoutUseCase(apptest.NewClientRepo(client, other), sales)

	// Act
	result, err := uc.Execute(context.Background(), PayoutQuery{
		StoreID:  s.ID().String(),
		ClientID: client.ID().String(),
		From:     apptest.Now.Add(-time.Hour),
		To:       apptest.Now.Add(48 * time.Hour),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.SaleCount)
	assert.Equal(t, 3, result.Quantity)
	assert.Equal(t, int64(2999), result.SalesTotal)
	assert.Equal(t, int64(449), result.CommissionTotal)
	assert.Equal(t, int64(2550), result.PayoutTotal)
	assert.Equal(t, "カード屋A", result.ClientName)
}

func TestPayout_Errors(t *testing.T) {
	s := apptest.NewStore(t)
	client, err := consignment.NewClient(s.ID(), "カード屋A", 15, apptest.Now)
	require.NoError(t, err)
	uc := NewPayoutUseCase(apptest.NewClientRepo(client), &apptest.SaleRepo{})

	tests := []struct {
		name    string
		query   PayoutQuery
		wantErr error
	}{
		{
			name:    "empty period",
			query:   PayoutQuery{StoreID: s.ID().String(), ClientID: client.ID().String(), From: apptest.Now, To: apptest.Now},
			wantErr: consignment.ErrInvalidPeriod,
		},
		{
			name:    "unknown client",
			query:   PayoutQuery{StoreID: s.ID().String(), ClientID: consignment.NewClientID().String(), From: apptest.Now, To: apptest.Now.Add(time.Hour)},
			wantErr: consignment.ErrClientNotFound,
		},
		{
			name:    "client of another store",
			query:   PayoutQuery{StoreID: store.NewStoreID().String(), ClientID: client.ID().String(), From: apptest.Now, To: apptest.Now.Add(time.Hour)},
			wantErr: consignment.ErrClientNotFound,
		},
		{
			name:    "malformed client id",
			query:   PayoutQuery{StoreID: s.ID().String(), ClientID: "x", From: apptest.Now, To: apptest.Now.Add(time.Hour)},
			wantErr: consignment.ErrInvalidClientID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), tt.query)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}
