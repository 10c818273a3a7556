package points_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/points"
)

func TestPointsCalculationService_CalculateFromAmount(t *testing.T) {
	tests := []struct {
		name           string
		conversionRate int
		amount         int64
		expectedPoints int
	}{
		{"標準 100 円 = 1 點", 100, 350, 3},
		{"促銷 50 円 = 1 點", 50, 125, 2},
		{"未滿一點", 100, 99, 0},
		{"剛好整除", 100, 500, 5},
		{"零金額", 100, 0, 0},
		{"負數金額", 100, -500, 0},
		{"1 円 = 1 點", 1, 5, 5},
		{"高換算率", 1000, 2500, 2},
		{"上限截斷", 1, points.MaxPoints + 10, points.MaxPoints},
	}

	service := points.NewPointsCalculationService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			rate, err := points.NewConversionRate(tt.conversionRate)
			require.NoError(t, err)

			// Act
			result := service.CalculateFromAmount(tt.amount, rate)

			// Assert
			assert.Equal(t, tt.expectedPoints, result.Value())
		})
	}
}

func TestNewConversionRate_OutOfRange_ReturnsError(t *testing.T) {
	for _, v := range []int{0, -1, 10001} {
		_, err := points.NewConversionRate(v)
		assert.ErrorIs(t, err, points.ErrInvalidConversionRate, "rate=%d", v)
	}
}
