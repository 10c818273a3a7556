package points

// MaxPoints 單一帳戶累積點數上限
const MaxPoints = 1_000_000_000

// ===========================
// PointsAmount
// ===========================

// PointsAmount 點數數量值對象
// 不可變、自我驗證
type PointsAmount struct {
	value int
}

// NewPointsAmount 建構函數（checked 版本）
//
// 建構約束：點數必須 >= 0
func NewPointsAmount(value int) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, ErrNegativePointsAmount.WithContext("value", value)
	}
	return PointsAmount{value: value}, nil
}

// newPointsAmountUnchecked 內部建構函數，呼叫端保證 value >= 0
func newPointsAmountUnchecked(value int) PointsAmount {
	return PointsAmount{value: value}
}

// Value 獲取點數
func (p PointsAmount) Value() int {
	return p.value
}

// IsZero 是否為 0 點
func (p PointsAmount) IsZero() bool {
	return p.value == 0
}

// Add 相加，超過 MaxPoints 返回 ErrPointsOverflow
func (p PointsAmount) Add(other PointsAmount) (PointsAmount, error) {
	if other.value > MaxPoints-p.value {
		return PointsAmount{}, ErrPointsOverflow.WithContext(
			"current", p.value,
			"add", other.value,
			"max", MaxPoints,
		)
	}
	return newPointsAmountUnchecked(p.value + other.value), nil
}

// Subtract 相減，不能扣除超過當前數量的點數
func (p PointsAmount) Subtract(other PointsAmount) (PointsAmount, error) {
	if p.value < other.value {
		return PointsAmount{}, ErrInsufficientPoints.WithContext(
			"requested", other.value,
			"available", p.value,
		)
	}
	return newPointsAmountUnchecked(p.value - other.value), nil
}

// Equals 比較兩個 PointsAmount 是否相等
func (p PointsAmount) Equals(other PointsAmount) bool {
	return p.value == other.value
}

// GreaterThan 判斷是否大於另一個 PointsAmount
func (p PointsAmount) GreaterThan(other PointsAmount) bool {
	return p.value > other.value
}

// LessThan 判斷是否小於另一個 PointsAmount
func (p PointsAmount) LessThan(other PointsAmount) bool {
	return p.value < other.value
}

// ===========================
// ConversionRate
// ===========================

// ConversionRate 換算率：每 rate 日圓累積 1 點
//
// 取值範圍與店舖設定相同（1-10000）。
type ConversionRate struct {
	value int
}

// NewConversionRate 建構換算率
func NewConversionRate(value int) (ConversionRate, error) {
	if value < 1 || value > 10000 {
		return ConversionRate{}, ErrInvalidConversionRate.WithContext("value", value)
	}
	return ConversionRate{value: value}, nil
}

// Value 獲取換算率
func (r ConversionRate) Value() int {
	return r.value
}

// ===========================
// PointsSource
// ===========================

// PointsSource 點數變動來源
type PointsSource string

const (
	// SourceTransaction 銷售交易
	SourceTransaction PointsSource = "transaction"
	// SourceEcOrder EC 訂單
	SourceEcOrder PointsSource = "ec_order"
	// SourceManual 店員手動調整
	SourceManual PointsSource = "manual"
)

// IsValid 檢查來源是否為已知值
func (s PointsSource) IsValid() bool {
	switch s {
	case SourceTransaction, SourceEcOrder, SourceManual:
		return true
	}
	return false
}
