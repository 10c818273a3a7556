package shipping

import "strings"

// ===========================
// 都道府縣與配送地區
// ===========================

// Nationwide 全國一律運費的地區名稱
const Nationwide = "全国一律"

// 配送地區（地區群組）
const (
	RegionHokkaido = "北海道"
	RegionTohoku   = "東北"
	RegionKanto    = "関東"
	RegionShinetsu = "信越"
	RegionHokuriku = "北陸"
	RegionTokai    = "東海"
	RegionKinki    = "近畿"
	RegionChugoku  = "中国"
	RegionShikoku  = "四国"
	RegionKyushu   = "九州"
	RegionOkinawa  = "沖縄"
)

// Prefecture 都道府縣（JIS X 0401 代碼 1..47）
type Prefecture struct {
	code   int
	name   string
	region string
}

// Code JIS 代碼
func (p Prefecture) Code() int { return p.code }

// Name 都道府縣名稱，如「東京都」
func (p Prefecture) Name() string { return p.name }

// Region 所屬配送地區，如「関東」
func (p Prefecture) Region() string { return p.region }

// IsZero 是否為零值
func (p Prefecture) IsZero() bool { return p.code == 0 }

var prefectures = []Prefecture{
	{1, "北海道", RegionHokkaido},
	{2, "青森県", RegionTohoku},
	{3, "岩手県", RegionTohoku},
	{4, "宮城県", RegionTohoku},
	{5, "秋田県", RegionTohoku},
	{6, "山形県", RegionTohoku},
	{7, "福島県", RegionTohoku},
	{8, "茨城県", RegionKanto},
	{9, "栃木県", RegionKanto},
	{10, "群馬県", RegionKanto},
	{11, "埼玉県", RegionKanto},
	{12, "千葉県", RegionKanto},
	{13, "東京都", RegionKanto},
	{14, "神奈川県", RegionKanto},
	{15, "新潟県", RegionShinetsu},
	{16, "富山県", RegionHokuriku},
	{17, "石川県", RegionHokuriku},
	{18, "福井県", RegionHokuriku},
	{19, "山梨県", RegionKanto},
	{20, "長野県", RegionShinetsu},
	{21, "岐阜県", RegionTokai},
	{22, "静岡県", RegionTokai},
	{23, "愛知県", RegionTokai},
	{24, "三重県", RegionTokai},
	{25, "滋賀県", RegionKinki},
	{26, "京都府", RegionKinki},
	{27, "大阪府", RegionKinki},
	{28, "兵庫県", RegionKinki},
	{29, "奈良県", RegionKinki},
	{30, "和歌山県", RegionKinki},
	{31, "鳥取県", RegionChugoku},
	{32, "島根県", RegionChugoku},
	{33, "岡山県", RegionChugoku},
	{34, "広島県", RegionChugoku},
	{35, "山口県", RegionChugoku},
	{36, "徳島県", RegionShikoku},
	{37, "香川県", RegionShikoku},
	{38, "愛媛県", RegionShikoku},
	{39, "高知県", RegionShikoku},
	{40, "福岡県", RegionKyushu},
	{41, "佐賀県", RegionKyushu},
	{42, "長崎県", RegionKyushu},
	{43, "熊本県", RegionKyushu},
	{44, "大分県", RegionKyushu},
	{45, "宮崎県", RegionKyushu},
	{46, "鹿児島県", RegionKyushu},
	{47, "沖縄県", RegionOkinawa},
}

var regionGroups = map[string]bool{
	RegionHokkaido: true,
	RegionTohoku:   true,
	RegionKanto:    true,
	RegionShinetsu: true,
	RegionHokuriku: true,
	RegionTokai:    true,
	RegionKinki:    true,
	RegionChugoku:  true,
	RegionShikoku:  true,
	RegionKyushu:   true,
	RegionOkinawa:  true,
}

// Prefectures 返回全部都道府縣（依 JIS 代碼排序）
func Prefectures() []Prefecture {
	out := make([]Prefecture, len(prefectures))
	copy(out, prefectures)
	return out
}

// PrefectureByCode 依 JIS 代碼查詢
func PrefectureByCode(code int) (Prefecture, error) {
	if code < 1 || code > len(prefectures) {
		return Prefecture{}, ErrUnknownPrefecture.WithContext("code", code)
	}
	return prefectures[code-1], nil
}

// PrefectureByName 依名稱查詢
//
// 接受正式名稱（「東京都」）與省略「都/府/県」的寫法（「東京」）。
// 北海道沒有後綴，兩種寫法相同。
func PrefectureByName(name string) (Prefecture, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Prefecture{}, ErrUnknownPrefecture.WithContext("name", name)
	}
	for _, p := range prefectures {
		if p.name == name || trimPrefectureSuffix(p.name) == name {
			return p, nil
		}
	}
	return Prefecture{}, ErrUnknownPrefecture.WithContext("name", name)
}

// IsKnownRegion 判斷名稱是否可作為運費表的地區鍵
// （全国一律、地區群組、或都道府縣正式名稱）
func IsKnownRegion(region string) bool {
	if region == Nationwide || regionGroups[region] {
		return true
	}
	for _, p := range prefectures {
		if p.name == region {
			return true
		}
	}
	return false
}

func trimPrefectureSuffix(name string) string {
	if name == "北海道" {
		return name
	}
	for _, suffix := range []string{"都", "府", "県"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
