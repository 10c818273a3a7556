package points

import (
	"github.com/shopspring/decimal"
)

// ===========================
// PointsCalculationService 領域服務
// ===========================

// PointsCalculationService 點數計算領域服務
//
// 協調 ConversionRate 與金額 → PointsAmount，無狀態，可在多個 goroutine 共用。
type PointsCalculationService struct{}

// NewPointsCalculationService 建構函數
func NewPointsCalculationService() *PointsCalculationService {
	return &PointsCalculationService{}
}

// CalculateFromAmount 依消費金額（日圓）與換算率計算點數
//
// 業務規則：
// - 點數 = floor(金額 / 換算率)
// - 負數金額（如退貨後淨額）返回 0 點
// - 超過 MaxPoints 以上限截斷
func (s *PointsCalculationService) CalculateFromAmount(amount int64, rate ConversionRate) PointsAmount {
	if amount <= 0 || rate.Value() <= 0 {
		return newPointsAmountUnchecked(0)
	}

	pointsValue := decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(int64(rate.Value()))).
		Floor().
		IntPart()
	if pointsValue > MaxPoints {
		pointsValue = MaxPoints
	}
	return newPointsAmountUnchecked(int(pointsValue))
}
