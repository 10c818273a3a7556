package persistence

import (
	"errors"
	"strings"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM 錯誤 → Domain 錯誤
// ===========================

// errorSet 各聚合的錯誤對應
//
// alreadyExists 為 nil 時，唯一約束違反視為一般倉儲錯誤。
type errorSet struct {
	notFound      *shared.DomainError
	alreadyExists *shared.DomainError
}

// mapError 映射 GORM 錯誤到 Domain 錯誤
//
// 映射規則：
// - gorm.ErrRecordNotFound      → notFound
// - gorm.ErrDuplicatedKey       → alreadyExists
// - Unique constraint violation → alreadyExists
// - 其他錯誤                     → shared.ErrRepository
//
// 唯一約束以錯誤訊息判斷（SQLite / PostgreSQL / MySQL 英文訊息）。
func (s errorSet) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && s.notFound != nil {
		return s.notFound
	}
	if isUniqueViolation(err) && s.alreadyExists != nil {
		return s.alreadyExists.WithContext("database_error", err.Error())
	}
	return shared.ErrRepository.WithContext("database_error", err.Error())
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return containsAny(err.Error(),
		"UNIQUE constraint failed", // SQLite
		"duplicate key value",      // PostgreSQL
		"Duplicate entry",          // MySQL
	)
}

// ===========================
// 可重試錯誤
// ===========================

// retryableMessages 死結、序列化失敗與鎖等待的驅動錯誤訊息
var retryableMessages = []string{
	"deadlock",
	"sqlstate 40p01", // PostgreSQL deadlock_detected
	"sqlstate 40001", // serialization_failure
	"error 1213",     // MySQL ER_LOCK_DEADLOCK
	"could not serialize",
	"database is locked",
	"database table is locked",
}

// isRetryable 判斷錯誤是否值得重新執行整個事務
//
// 樂觀鎖衝突（shared.ErrConcurrentModification）也重試。
// 其他 DomainError 只有 ErrRepository 會檢查驅動訊息。
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrConcurrentModification) {
		return true
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && !errors.Is(domainErr, shared.ErrRepository) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range retryableMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
