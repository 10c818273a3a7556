package store

import (
	"strings"
	"time"
)

// ===========================
// EcSetting 值對象
// ===========================

// MaxShippingDays 出貨準備天數上限
const MaxShippingDays = 30

// LeadTimeHorizonDays 出貨日推算的日曆天數上限
const LeadTimeHorizonDays = 100

// EcSetting 店舖的 EC 設定
//
// 不變條件：
// - FreeShippingThreshold 為 nil 表示不提供免運；非 nil 時 >= 0
// - SameDayLimitHour 為 nil 表示不提供當日出貨；非 nil 時在 0..23
// - ClosedWeekdays 不重複，且不能七天全部公休（否則出貨日永遠無法決定）
// - ShippingDays 在 0..MaxShippingDays
// - 不論從星期幾起算，max(ShippingDays, 1) 個營業日都落在 LeadTimeHorizonDays 天內
type EcSetting struct {
	enabled               bool
	freeShippingThreshold *int64
	sameDayLimitHour      *int
	closedWeekdays        []time.Weekday
	shippingDays          int
}

// NewEcSetting 建立 EC 設定（checked）
func NewEcSetting(
	enabled bool,
	freeShippingThreshold *int64,
	sameDayLimitHour *int,
	closedWeekdays []time.Weekday,
	shippingDays int,
) (EcSetting, error) {
	if freeShippingThreshold != nil && *freeShippingThreshold < 0 {
		return EcSetting{}, ErrInvalidEcSetting.WithContext("free_shipping_threshold", *freeShippingThreshold)
	}
	if sameDayLimitHour != nil && (*sameDayLimitHour < 0 || *sameDayLimitHour > 23) {
		return EcSetting{}, ErrInvalidEcSetting.WithContext("same_day_limit_hour", *sameDayLimitHour)
	}
	if shippingDays < 0 || shippingDays > MaxShippingDays {
		return EcSetting{}, ErrInvalidEcSetting.WithContext("shipping_days", shippingDays)
	}

	seen := make(map[time.Weekday]bool, len(closedWeekdays))
	for _, d := range closedWeekdays {
		if d < time.Sunday || d > time.Saturday {
			return EcSetting{}, ErrInvalidEcSetting.WithContext("closed_weekday", int(d))
		}
		if seen[d] {
			return EcSetting{}, ErrInvalidEcSetting.WithContext("duplicated_closed_weekday", d.String())
		}
		seen[d] = true
	}
	if len(seen) == 7 {
		return EcSetting{}, ErrInvalidEcSetting.WithContext("reason", "all weekdays are closed")
	}
	if span := worstLeadTimeSpan(seen, shippingDays); span > LeadTimeHorizonDays {
		return EcSetting{}, ErrInvalidEcSetting.WithContext(
			"reason", "shipping days do not fit in the lead time horizon",
			"shipping_days", shippingDays,
			"closed_weekdays", len(seen),
		)
	}

	days := make([]time.Weekday, len(closedWeekdays))
	copy(days, closedWeekdays)

	return EcSetting{
		enabled:               enabled,
		freeShippingThreshold: copyInt64(freeShippingThreshold),
		sameDayLimitHour:      copyInt(sameDayLimitHour),
		closedWeekdays:        days,
		shippingDays:          shippingDays,
	}, nil
}

// worstLeadTimeSpan 從最不利的星期起算，湊滿營業日所需的日曆天數
func worstLeadTimeSpan(closed map[time.Weekday]bool, shippingDays int) int {
	need := shippingDays
	if need < 1 {
		need = 1
	}
	worst := 0
	for start := time.Sunday; start <= time.Saturday; start++ {
		remaining, span := need, 0
		for remaining > 0 {
			span++
			if !closed[(start+time.Weekday(span))%7] {
				remaining--
			}
		}
		if span > worst {
			worst = span
		}
	}
	return worst
}

// Enabled 是否開放 EC
func (s EcSetting) Enabled() bool { return s.enabled }

// FreeShippingThreshold 免運門檻（nil 表示不提供）
func (s EcSetting) FreeShippingThreshold() *int64 { return copyInt64(s.freeShippingThreshold) }

// SameDayLimitHour 當日出貨截止時刻（nil 表示不提供）
func (s EcSetting) SameDayLimitHour() *int { return copyInt(s.sameDayLimitHour) }

// ShippingDays 出貨所需營業日
func (s EcSetting) ShippingDays() int { return s.shippingDays }

// ClosedWeekdays 公休日
func (s EcSetting) ClosedWeekdays() []time.Weekday {
	days := make([]time.Weekday, len(s.closedWeekdays))
	copy(days, s.closedWeekdays)
	return days
}

// IsClosedOn 判斷指定日期是否為公休日
func (s EcSetting) IsClosedOn(t time.Time) bool {
	for _, d := range s.closedWeekdays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// QualifiesForFreeShipping 合計金額是否達到免運門檻
func (s EcSetting) QualifiesForFreeShipping(totalPrice int64) bool {
	return s.freeShippingThreshold != nil && totalPrice >= *s.freeShippingThreshold
}

// ===========================
// Store 聚合根
// ===========================

// Store 店舖聚合根
//
// PointConversionRate：消費多少日圓累積 1 點
type Store struct {
	id                  StoreID
	name                string
	pointConversionRate int
	ecSetting           EcSetting
	createdAt           time.Time
	updatedAt           time.Time
}

// NewStore 建立新店舖
func NewStore(name string, pointConversionRate int, ecSetting EcSetting, now time.Time) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidStoreName
	}
	if err := validatePointRate(pointConversionRate); err != nil {
		return nil, err
	}
	return &Store{
		id:                  NewStoreID(),
		name:                name,
		pointConversionRate: pointConversionRate,
		ecSetting:           ecSetting,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// ReconstructStore 從持久化存儲重建店舖
func ReconstructStore(
	id StoreID,
	name string,
	pointConversionRate int,
	ecSetting EcSetting,
	createdAt, updatedAt time.Time,
) (*Store, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidStoreID.WithContext("reason", "invalid store ID in database")
	}
	if err := validatePointRate(pointConversionRate); err != nil {
		return nil, err
	}
	return &Store{
		id:                  id,
		name:                name,
		pointConversionRate: pointConversionRate,
		ecSetting:           ecSetting,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

func (s *Store) ID() StoreID              { return s.id }
func (s *Store) Name() string             { return s.name }
func (s *Store) PointConversionRate() int { return s.pointConversionRate }
func (s *Store) EcSetting() EcSetting     { return s.ecSetting }
func (s *Store) CreatedAt() time.Time     { return s.createdAt }
func (s *Store) UpdatedAt() time.Time     { return s.updatedAt }

// ChangeEcSetting 更新 EC 設定
func (s *Store) ChangeEcSetting(setting EcSetting, now time.Time) {
	s.ecSetting = setting
	s.updatedAt = now
}

func validatePointRate(rate int) error {
	if rate < 1 || rate > 10000 {
		return ErrInvalidPointRate.WithContext("rate", rate)
	}
	return nil
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
