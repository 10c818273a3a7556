package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/customer"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// Model 轉換測試
// ===========================

func validAccountModel() *PointsAccountModel {
	return &PointsAccountModel{
		ID:           points.NewAccountID().String(),
		StoreID:      store.NewStoreID().String(),
		CustomerID:   customer.NewCustomerID().String(),
		EarnedPoints: 100,
		UsedPoints:   30,
		CreatedAt:    testNow,
		UpdatedAt:    testNow.Add(time.Hour),
		Version:      4,
	}
}

func TestAccountToDomain_ValidModel_Success(t *testing.T) {
	// Arrange
	model := validAccountModel()

	// Act
	account, err := accountToDomain(model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.ID, account.AccountID().String())
	assert.Equal(t, model.StoreID, account.StoreID().String())
	assert.Equal(t, model.CustomerID, account.CustomerID().String())
	assert.Equal(t, 100, account.EarnedPoints().Value())
	assert.Equal(t, 30, account.UsedPoints().Value())
	assert.Equal(t, 70, account.AvailablePoints().Value())
	assert.Equal(t, 4, account.Version())
	assert.True(t, testNow.Equal(account.CreatedAt()))
	assert.Empty(t, account.PullEvents(), "reconstruction must not publish events")
}

func TestAccountToDomain_InvalidModel_ReturnsError(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *PointsAccountModel)
		wantErr error
	}{
		{
			name:    "負數累積點數",
			mutate:  func(m *PointsAccountModel) { m.EarnedPoints = -100 },
			wantErr: points.ErrCorruptedAccount,
		},
		{
			name:    "負數使用點數",
			mutate:  func(m *PointsAccountModel) { m.UsedPoints = -1 },
			wantErr: points.ErrCorruptedAccount,
		},
		{
			name:    "使用點數超過累積點數",
			mutate:  func(m *PointsAccountModel) { m.UsedPoints = 101 },
			wantErr: points.ErrCorruptedAccount,
		},
		{
			name:    "無效的帳戶 ID",
			mutate:  func(m *PointsAccountModel) { m.ID = "not-a-uuid" },
			wantErr: points.ErrInvalidAccountID,
		},
		{
			name:    "無效的顧客 ID",
			mutate:  func(m *PointsAccountModel) { m.CustomerID = "broken" },
			wantErr: points.ErrInvalidCustomerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			model := validAccountModel()
			tt.mutate(model)

			// Act
			account, err := accountToDomain(model)

			// Assert
			assert.Nil(t, account)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountToGORM_RoundTrip_PreservesState(t *testing.T) {
	// Arrange
	account, err := points.NewPointsAccount(store.NewStoreID(), customer.NewCustomerID(), testNow)
	require.NoError(t, err)
	amount, err := points.NewPointsAmount(25)
	require.NoError(t, err)
	require.NoError(t, account.EarnPoints(amount, points.SourceTransaction, "tx-1", testNow))

	// Act
	model := accountToGORM(account)
	restored, err := accountToDomain(model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 25, model.EarnedPoints)
	assert.Equal(t, 0, model.UsedPoints)
	assert.Equal(t, 1, model.Version)
	assert.Equal(t, account.AccountID().String(), restored.AccountID().String())
	assert.Equal(t, 25, restored.AvailablePoints().Value())
}
