package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ===========================
// DomainError 結構
// ===========================

// ErrorCode 錯誤代碼類型（HTTP 層依此映射狀態碼）
type ErrorCode string

// ErrorKind 錯誤分類
type ErrorKind int

const (
	// KindInternal 內部錯誤（倉儲、序列化等）
	KindInternal ErrorKind = iota
	// KindValidation 輸入格式錯誤
	KindValidation
	// KindNotFound 資源不存在
	KindNotFound
	// KindConflict 唯一約束衝突或並發修改
	KindConflict
	// KindBusinessRule 業務規則違反（庫存不足、狀態不允許等）
	KindBusinessRule
)

// DomainError 領域錯誤
//
// 1. Code 用於 errors.Is 判斷與 HTTP 狀態碼映射
// 2. Context 攜帶除錯資訊
// 3. 不可變：WithContext 返回新實例
type DomainError struct {
	Code    ErrorCode
	Kind    ErrorKind
	Message string
	Context map[string]interface{}
}

// NewDomainError 建立預定義錯誤
func NewDomainError(code ErrorCode, kind ErrorKind, message string) *DomainError {
	return &DomainError{Code: code, Kind: kind, Message: message}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %s)", e.Code, e.Message, formatContext(e.Context))
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) *DomainError {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Kind:    e.Kind,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 接口（以 Code 判斷）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// formatContext 以 key 排序輸出，確保錯誤訊息穩定
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// ===========================
// 跨聚合共用錯誤
// ===========================

const (
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
	ErrCodeRepository             ErrorCode = "REPOSITORY_ERROR"
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
)

var (
	// ErrConcurrentModification 樂觀鎖版本不符（事務管理器會重試）
	ErrConcurrentModification = NewDomainError(ErrCodeConcurrentModification, KindConflict, "資料已被其他操作修改")

	// ErrRepository 倉儲操作失敗（通用）
	ErrRepository = NewDomainError(ErrCodeRepository, KindInternal, "倉儲操作失敗")

	// ErrInvalidInput 輸入格式錯誤（通用）
	ErrInvalidInput = NewDomainError(ErrCodeInvalidInput, KindValidation, "輸入格式錯誤")
)
