package shipping

import (
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// maxLeadTimeIterations 逐日推算出貨日的上限
const maxLeadTimeIterations = store.LeadTimeHorizonDays

// LeadTime 出貨日推算結果
type LeadTime struct {
	// Days 從今天起算的日曆天數（0 表示當日出貨）
	Days int
	// ShipDate 出貨日（當地時間 00:00）
	ShipDate time.Time
}

// ComputeLeadTime 推算出貨日
//
// 規則：
// 1. 設定了當日出貨截止時刻、今天不是公休日、且 now 早於截止時刻 → 當日出貨
// 2. 否則從明天開始逐日往後，跳過公休日，每遇到營業日扣 1，
//    需要扣的營業日數為 max(ShippingDays, 1)
// 3. 最多推算 maxLeadTimeIterations 天，超過返回 ErrLeadTimeUnresolvable
func ComputeLeadTime(setting store.EcSetting, now time.Time) (LeadTime, error) {
	today := truncateToDay(now)

	if cutoff := setting.SameDayLimitHour(); cutoff != nil {
		if !setting.IsClosedOn(today) && now.Hour() < *cutoff {
			return LeadTime{Days: 0, ShipDate: today}, nil
		}
	}

	remaining := setting.ShippingDays()
	if remaining < 1 {
		remaining = 1
	}

	day := today
	for i := 1; i <= maxLeadTimeIterations; i++ {
		day = day.AddDate(0, 0, 1)
		if setting.IsClosedOn(day) {
			continue
		}
		remaining--
		if remaining == 0 {
			return LeadTime{Days: i, ShipDate: day}, nil
		}
	}

	return LeadTime{}, ErrLeadTimeUnresolvable.WithContext(
		"shipping_days", setting.ShippingDays(),
		"closed_weekdays", len(setting.ClosedWeekdays()),
	)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
