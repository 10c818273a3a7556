package shipping

import (
	"sort"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 運費候選計算
// ===========================

// CandidateInput 運費計算條件
type CandidateInput struct {
	Weight     int   // 公克
	TotalPrice int64 // 商品合計（日圓）
	Prefecture Prefecture
}

// Candidate 可選的配送方式與運費
type Candidate struct {
	MethodID        MethodID
	DisplayName     string
	OrderNumber     int
	Fee             int64
	ShippingDays    int
	ShipDate        time.Time
	EnabledTracking bool
}

// CalculateCandidates 計算所有可用的配送方式候選
//
// 1. 已刪除或不適用（超出重量區間、沒有對應地區）的配送方式會被略過
// 2. 合計金額達到免運門檻，或適用運費表的「全国一律」為 0 → 運費 0
// 3. 結果依 OrderNumber 升冪，相同時依運費升冪，再依 ID 排序
//
// 沒有任何可用方式時返回空切片（不是錯誤）。
func CalculateCandidates(
	methods []*Method,
	input CandidateInput,
	setting store.EcSetting,
	now time.Time,
) ([]Candidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	lead, err := ComputeLeadTime(setting, now)
	if err != nil {
		return nil, err
	}

	freeByThreshold := setting.QualifiesForFreeShipping(input.TotalPrice)

	candidates := make([]Candidate, 0, len(methods))
	for _, m := range methods {
		if m == nil || m.IsDeleted() {
			continue
		}
		fee, freeByNationwide, ok := m.FeeFor(input.Weight, input.Prefecture)
		if !ok {
			continue
		}
		if freeByThreshold || freeByNationwide {
			fee = 0
		}
		candidates = append(candidates, Candidate{
			MethodID:        m.ID(),
			DisplayName:     m.DisplayName(),
			OrderNumber:     m.OrderNumber(),
			Fee:             fee,
			ShippingDays:    lead.Days,
			ShipDate:        lead.ShipDate,
			EnabledTracking: m.EnabledTracking(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		if a.Fee != b.Fee {
			return a.Fee < b.Fee
		}
		return a.MethodID.String() < b.MethodID.String()
	})

	return candidates, nil
}

// FindCandidate 從候選中找出指定配送方式（結帳時重新驗證用）
func FindCandidate(candidates []Candidate, id MethodID) (Candidate, error) {
	for _, c := range candidates {
		if c.MethodID.Equals(id) {
			return c, nil
		}
	}
	return Candidate{}, ErrMethodNotApplicable.WithContext("method_id", id.String())
}

func validateInput(input CandidateInput) error {
	if input.Weight < 0 {
		return ErrInvalidCandidateInput.WithContext("weight", input.Weight)
	}
	if input.TotalPrice < 0 {
		return ErrInvalidCandidateInput.WithContext("total_price", input.TotalPrice)
	}
	if input.Prefecture.IsZero() {
		return ErrUnknownPrefecture.WithContext("reason", "prefecture is required")
	}
	return nil
}
