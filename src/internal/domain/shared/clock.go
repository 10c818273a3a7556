package shared

import "time"

// Clock 時間來源
//
// 出貨日計算、交易完成時間等依賴「現在」的邏輯都透過 Clock 取得時間，
// 測試時注入 FixedClock。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間
type SystemClock struct {
	Location *time.Location
}

// Now 實現 Clock 介面
func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// FixedClock 固定時間（測試用）
type FixedClock struct {
	At time.Time
}

// Now 實現 Clock 介面
func (c FixedClock) Now() time.Time {
	return c.At
}
