package customer

import (
	"regexp"
	"strings"
)

// ===========================
// PhoneNumber Value Object
// ===========================

// PhoneNumber 電話號碼值對象
//
// 業務規則：
// 1. 日本國內電話號碼，以 "0" 開頭
// 2. 10 位（市話、050）或 11 位（090/080/070 手機）
// 3. 輸入可包含連字號，保存時去除
//
// 使用範例：
//
//	phoneNumber, err := NewPhoneNumber("090-1234-5678")
//	fmt.Println(phoneNumber.String()) // "09012345678"
type PhoneNumber struct {
	value string
}

var domesticPattern = regexp.MustCompile(`^0[0-9]{9,10}$`)

// NewPhoneNumber 創建電話號碼值對象（Checked Constructor）
//
// 錯誤範例：
// - "012345678" (9位) → ErrInvalidPhoneNumberFormat
// - "9012345678" (不是 0 開頭) → ErrInvalidPhoneNumberFormat
// - "090-1234-567a" (包含非數字) → ErrInvalidPhoneNumberFormat
func NewPhoneNumber(value string) (PhoneNumber, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), "-", "")
	if !domesticPattern.MatchString(normalized) {
		return PhoneNumber{}, ErrInvalidPhoneNumberFormat.WithContext(
			"phone", value,
			"reason", "must be 10-11 digits starting with 0",
		)
	}
	return PhoneNumber{value: normalized}, nil
}

// String 返回正規化後的號碼（不含連字號）
func (p PhoneNumber) String() string {
	return p.value
}

// Equals 值相等比較
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.value == other.value
}

// IsZero 是否未設定
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}
