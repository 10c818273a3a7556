package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

func TestNewEcSetting_Validation(t *testing.T) {
	negative := int64(-1)
	badHour := 24
	okHour := 12

	tests := []struct {
		name      string
		threshold *int64
		hour      *int
		closed    []time.Weekday
		days      int
		wantErr   bool
	}{
		{"全部未設定", nil, nil, nil, 0, false},
		{"一般設定", nil, &okHour, []time.Weekday{time.Sunday}, 2, false},
		{"負數免運門檻", &negative, nil, nil, 1, true},
		{"截止時刻超出範圍", nil, &badHour, nil, 1, true},
		{"出貨天數為負", nil, nil, nil, -1, true},
		{"出貨天數超過上限", nil, nil, nil, store.MaxShippingDays + 1, true},
		{"重複公休日", nil, nil, []time.Weekday{time.Monday, time.Monday}, 1, true},
		{"無效星期", nil, nil, []time.Weekday{time.Weekday(7)}, 1, true},
		{"七天全部公休", nil, nil, []time.Weekday{0, 1, 2, 3, 4, 5, 6}, 1, true},
		{"週休六日且 14 營業日", nil, nil, []time.Weekday{0, 1, 2, 4, 5, 6}, 14, false},
		{"週休六日且 15 營業日超過推算範圍", nil, nil, []time.Weekday{0, 1, 2, 4, 5, 6}, 15, true},
		{"週休六日且 30 營業日", nil, nil, []time.Weekday{0, 1, 2, 4, 5, 6}, store.MaxShippingDays, true},
		{"週休五日且 28 營業日", nil, nil, []time.Weekday{0, 1, 2, 4, 5}, 28, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.NewEcSetting(true, tt.threshold, tt.hour, tt.closed, tt.days)

			if tt.wantErr {
				assert.ErrorIs(t, err, store.ErrInvalidEcSetting)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEcSetting_DefensiveCopies(t *testing.T) {
	threshold := int64(5000)
	closed := []time.Weekday{time.Sunday}
	s, err := store.NewEcSetting(true, &threshold, nil, closed, 1)
	require.NoError(t, err)

	threshold = 0
	closed[0] = time.Monday

	assert.Equal(t, int64(5000), *s.FreeShippingThreshold())
	assert.Equal(t, []time.Weekday{time.Sunday}, s.ClosedWeekdays())
}

func TestEcSetting_QualifiesForFreeShipping(t *testing.T) {
	threshold := int64(5000)
	withThreshold, _ := store.NewEcSetting(true, &threshold, nil, nil, 1)
	without, _ := store.NewEcSetting(true, nil, nil, nil, 1)

	assert.True(t, withThreshold.QualifiesForFreeShipping(5000))
	assert.False(t, withThreshold.QualifiesForFreeShipping(4999))
	assert.False(t, without.QualifiesForFreeShipping(1_000_000))
}

func TestEcSetting_IsClosedOn(t *testing.T) {
	s, _ := store.NewEcSetting(true, nil, nil, []time.Weekday{time.Wednesday}, 1)

	assert.True(t, s.IsClosedOn(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsClosedOn(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)))
}

func TestNewStore(t *testing.T) {
	setting, _ := store.NewEcSetting(false, nil, nil, nil, 0)
	now := time.Now()

	s, err := store.NewStore("  秋葉原店 ", 100, setting, now)
	require.NoError(t, err)
	assert.Equal(t, "秋葉原店", s.Name())
	assert.Equal(t, 100, s.PointConversionRate())
	assert.False(t, s.ID().IsEmpty())

	_, err = store.NewStore("", 100, setting, now)
	assert.ErrorIs(t, err, store.ErrInvalidStoreName)

	_, err = store.NewStore("店", 0, setting, now)
	assert.ErrorIs(t, err, store.ErrInvalidPointRate)
}

func TestStore_ChangeEcSetting(t *testing.T) {
	initial, _ := store.NewEcSetting(false, nil, nil, nil, 0)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := store.NewStore("店", 100, initial, created)
	next, _ := store.NewEcSetting(true, nil, nil, nil, 3)
	later := created.Add(time.Hour)

	s.ChangeEcSetting(next, later)

	assert.True(t, s.EcSetting().Enabled())
	assert.Equal(t, 3, s.EcSetting().ShippingDays())
	assert.Equal(t, later, s.UpdatedAt())
	assert.Equal(t, created, s.CreatedAt())
}
