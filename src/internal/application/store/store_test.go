package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/apptest"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

func TestStoreUseCase_Create(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateStoreCommand
		wantErr error
	}{
		{
			name: "valid",
			cmd: CreateStoreCommand{
				Name:                "カードショップ",
				PointConversionRate: 200,
				EcSetting:           EcSettingInput{Enabled: true, ClosedWeekdays: []int{0, 3}, ShippingDays: 2},
			},
		},
		{
			name:    "empty name",
			cmd:     CreateStoreCommand{Name: " ", PointConversionRate: 100},
			wantErr: store.ErrInvalidStoreName,
		},
		{
			name:    "rate out of range",
			cmd:     CreateStoreCommand{Name: "A", PointConversionRate: 0},
			wantErr: store.ErrInvalidPointRate,
		},
		{
			name:    "all days closed",
			cmd:     CreateStoreCommand{Name: "A", PointConversionRate: 100, EcSetting: EcSettingInput{ClosedWeekdays: []int{0, 1, 2, 3, 4, 5, 6}}},
			wantErr: store.ErrInvalidEcSetting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			repo := apptest.NewStoreRepo()
			uc := NewStoreUseCase(repo, &apptest.TxManager{}, apptest.Clock())

			// Act
			result, err := uc.Create(context.Background(), tt.cmd)

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.Items)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "カードショップ", result.Name)
			assert.Equal(t, 200, result.PointConversionRate)
			assert.True(t, result.EcEnabled)
			assert.Equal(t, 2, result.ShippingDays)
			assert.Len(t, repo.Items, 1)
		})
	}
}

func TestStoreUseCase_UpdateEcSetting(t *testing.T) {
	// Arrange
	s := apptest.NewStore(t)
	uc := NewStoreUseCase(apptest.NewStoreRepo(s), &apptest.TxManager{}, apptest.Clock())
	threshold := int64(5000)

	// Act
	result, err := uc.UpdateEcSetting(context.Background(), UpdateEcSettingCommand{
		StoreID:   s.ID().String(),
		EcSetting: EcSettingInput{Enabled: false, FreeShippingThreshold: &threshold, ShippingDays: 3},
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.EcEnabled)
	assert.Equal(t, 3, result.ShippingDays)
	assert.True(t, s.EcSetting().QualifiesForFreeShipping(5000))

	_, err = uc.UpdateEcSetting(context.Background(), UpdateEcSettingCommand{StoreID: store.NewStoreID().String()})
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}

func TestStoreUseCase_UpdateEcSetting_RejectsUnreachableLeadTime(t *testing.T) {
	// Arrange: 只有星期三營業，30 個營業日無法在推算範圍內出貨
	s := apptest.NewStore(t)
	before := s.EcSetting()
	uc := NewStoreUseCase(apptest.NewStoreRepo(s), &apptest.TxManager{}, apptest.Clock())

	// Act
	_, err := uc.UpdateEcSetting(context.Background(), UpdateEcSettingCommand{
		StoreID:   s.ID().String(),
		EcSetting: EcSettingInput{Enabled: true, ClosedWeekdays: []int{0, 1, 2, 4, 5, 6}, ShippingDays: 30},
	})

	// Assert
	assert.ErrorIs(t, err, store.ErrInvalidEcSetting)
	assert.Equal(t, before.ShippingDays(), s.EcSetting().ShippingDays())
	assert.Equal(t, before.ClosedWeekdays(), s.EcSetting().ClosedWeekdays())
}
