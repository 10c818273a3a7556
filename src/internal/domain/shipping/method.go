package shipping

import (
	"sort"
	"strings"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// ===========================
// 運費表值對象
// ===========================

// RegionFee 地區運費
//
// Region 可以是都道府縣正式名稱、地區群組名稱或「全国一律」。
type RegionFee struct {
	Region string
	Fee    int64
}

// WeightBand 重量區間運費（weight <= MaxWeight 即落入此區間，單位：公克）
type WeightBand struct {
	MaxWeight int
	Regions   []RegionFee
}

// ===========================
// Method 聚合根
// ===========================

// Method 店舖設定的配送方式
//
// 運費表二選一：
// - 固定地區運費（regions）
// - 重量區間運費（weightBands，每個區間再依地區分）
//
// weightBands 永遠以 MaxWeight 升冪保存。
type Method struct {
	id              MethodID
	storeID         store.StoreID
	displayName     string
	orderNumber     int
	enabledTracking bool
	regions         []RegionFee
	weightBands     []WeightBand
	deleted         bool
	createdAt       time.Time
	updatedAt       time.Time
}

// MethodSpec 建立或更新配送方式的參數
type MethodSpec struct {
	DisplayName     string
	OrderNumber     int
	EnabledTracking bool
	Regions         []RegionFee
	WeightBands     []WeightBand
}

// NewMethod 建立配送方式
func NewMethod(storeID store.StoreID, spec MethodSpec, now time.Time) (*Method, error) {
	if storeID.IsEmpty() {
		return nil, store.ErrInvalidStoreID
	}
	m := &Method{
		id:        NewMethodID(),
		storeID:   storeID,
		createdAt: now,
	}
	if err := m.apply(spec, now); err != nil {
		return nil, err
	}
	return m, nil
}

// ReconstructMethod 從持久化存儲重建（仍執行完整驗證）
func ReconstructMethod(
	id MethodID,
	storeID store.StoreID,
	spec MethodSpec,
	deleted bool,
	createdAt, updatedAt time.Time,
) (*Method, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidMethodID.WithContext("reason", "invalid shipping method ID in database")
	}
	m := &Method{
		id:        id,
		storeID:   storeID,
		deleted:   deleted,
		createdAt: createdAt,
	}
	if err := m.apply(spec, updatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// Update 以新設定覆寫
func (m *Method) Update(spec MethodSpec, now time.Time) error {
	return m.apply(spec, now)
}

// Delete 邏輯刪除
func (m *Method) Delete(now time.Time) {
	m.deleted = true
	m.updatedAt = now
}

func (m *Method) apply(spec MethodSpec, now time.Time) error {
	name := strings.TrimSpace(spec.DisplayName)
	if name == "" {
		return ErrInvalidMethod.WithContext("reason", "display name is required")
	}

	hasRegions := len(spec.Regions) > 0
	hasBands := len(spec.WeightBands) > 0
	if hasRegions == hasBands {
		return ErrInvalidMethod.WithContext(
			"reason", "exactly one of regions or weight bands must be set",
			"regions", len(spec.Regions),
			"weight_bands", len(spec.WeightBands),
		)
	}

	var regions []RegionFee
	var bands []WeightBand
	if hasRegions {
		r, err := validateRegionFees(spec.Regions)
		if err != nil {
			return err
		}
		regions = r
	} else {
		b, err := validateWeightBands(spec.WeightBands)
		if err != nil {
			return err
		}
		bands = b
	}

	m.displayName = name
	m.orderNumber = spec.OrderNumber
	m.enabledTracking = spec.EnabledTracking
	m.regions = regions
	m.weightBands = bands
	m.updatedAt = now
	return nil
}

func validateRegionFees(in []RegionFee) ([]RegionFee, error) {
	seen := make(map[string]bool, len(in))
	out := make([]RegionFee, 0, len(in))
	for _, r := range in {
		region := strings.TrimSpace(r.Region)
		if !IsKnownRegion(region) {
			return nil, ErrUnknownRegion.WithContext("region", r.Region)
		}
		if seen[region] {
			return nil, ErrInvalidMethod.WithContext("reason", "duplicated region", "region", region)
		}
		if r.Fee < 0 {
			return nil, ErrInvalidMethod.WithContext("reason", "negative fee", "region", region, "fee", r.Fee)
		}
		seen[region] = true
		out = append(out, RegionFee{Region: region, Fee: r.Fee})
	}
	return out, nil
}

func validateWeightBands(in []WeightBand) ([]WeightBand, error) {
	out := make([]WeightBand, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, b := range in {
		if b.MaxWeight <= 0 {
			return nil, ErrInvalidMethod.WithContext("reason", "weight band must be positive", "max_weight", b.MaxWeight)
		}
		if seen[b.MaxWeight] {
			return nil, ErrInvalidMethod.WithContext("reason", "duplicated weight band", "max_weight", b.MaxWeight)
		}
		if len(b.Regions) == 0 {
			return nil, ErrInvalidMethod.WithContext("reason", "weight band has no regions", "max_weight", b.MaxWeight)
		}
		regions, err := validateRegionFees(b.Regions)
		if err != nil {
			return nil, err
		}
		seen[b.MaxWeight] = true
		out = append(out, WeightBand{MaxWeight: b.MaxWeight, Regions: regions})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaxWeight < out[j].MaxWeight })
	return out, nil
}

// ===========================
// 查詢方法
// ===========================

func (m *Method) ID() MethodID              { return m.id }
func (m *Method) StoreID() store.StoreID    { return m.storeID }
func (m *Method) DisplayName() string       { return m.displayName }
func (m *Method) OrderNumber() int          { return m.orderNumber }
func (m *Method) EnabledTracking() bool     { return m.enabledTracking }
func (m *Method) IsDeleted() bool           { return m.deleted }
func (m *Method) IsWeightBased() bool       { return len(m.weightBands) > 0 }
func (m *Method) CreatedAt() time.Time      { return m.createdAt }
func (m *Method) UpdatedAt() time.Time      { return m.updatedAt }
func (m *Method) Regions() []RegionFee      { return cloneRegions(m.regions) }
func (m *Method) WeightBands() []WeightBand { return cloneBands(m.weightBands) }

// Spec 以建立參數形式返回目前設定（持久化與 DTO 使用）
func (m *Method) Spec() MethodSpec {
	return MethodSpec{
		DisplayName:     m.displayName,
		OrderNumber:     m.orderNumber,
		EnabledTracking: m.enabledTracking,
		Regions:         m.Regions(),
		WeightBands:     m.WeightBands(),
	}
}

// FeeFor 計算寄送到指定都道府縣的運費
//
// 返回 applicable=false 表示此方式不適用（重量超出所有區間或沒有可對應的地區）。
// freeByNationwide=true 表示適用的運費表中「全国一律」為 0 圓。
func (m *Method) FeeFor(weight int, pref Prefecture) (fee int64, freeByNationwide bool, applicable bool) {
	regions := m.regions
	if m.IsWeightBased() {
		band, ok := FindWeightBand(m.weightBands, weight)
		if !ok {
			return 0, false, false
		}
		regions = band.Regions
	}

	fee, ok := ResolveRegionFee(regions, pref)
	if !ok {
		return 0, false, false
	}
	return fee, hasFreeNationwide(regions), true
}

// FindWeightBand 找出重量所屬的區間
//
// bands 必須以 MaxWeight 升冪排列；第一個 weight <= MaxWeight 的區間勝出。
func FindWeightBand(bands []WeightBand, weight int) (WeightBand, bool) {
	for _, b := range bands {
		if weight <= b.MaxWeight {
			return b, true
		}
	}
	return WeightBand{}, false
}

// ResolveRegionFee 依都道府縣解析地區運費
//
// 比對順序：都道府縣名稱 → 所屬地區群組 → 全国一律。
func ResolveRegionFee(regions []RegionFee, pref Prefecture) (int64, bool) {
	var groupFee, nationwideFee *int64
	for i := range regions {
		r := regions[i]
		switch r.Region {
		case pref.Name():
			return r.Fee, true
		case pref.Region():
			if groupFee == nil {
				groupFee = &regions[i].Fee
			}
		case Nationwide:
			if nationwideFee == nil {
				nationwideFee = &regions[i].Fee
			}
		}
	}
	if groupFee != nil {
		return *groupFee, true
	}
	if nationwideFee != nil {
		return *nationwideFee, true
	}
	return 0, false
}

func hasFreeNationwide(regions []RegionFee) bool {
	for _, r := range regions {
		if r.Region == Nationwide && r.Fee == 0 {
			return true
		}
	}
	return false
}

func cloneRegions(in []RegionFee) []RegionFee {
	if in == nil {
		return nil
	}
	out := make([]RegionFee, len(in))
	copy(out, in)
	return out
}

func cloneBands(in []WeightBand) []WeightBand {
	if in == nil {
		return nil
	}
	out := make([]WeightBand, len(in))
	for i, b := range in {
		out[i] = WeightBand{MaxWeight: b.MaxWeight, Regions: cloneRegions(b.Regions)}
	}
	return out
}
