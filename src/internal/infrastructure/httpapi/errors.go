package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// ErrorResponse 錯誤回應
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeInternal       = "INTERNAL_ERROR"
	codeTimeout        = "REQUEST_TIMEOUT"
)

// statusForKind 領域錯誤分類 → HTTP 狀態碼
func statusForKind(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindBusinessRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError 將錯誤轉為 JSON 回應
//
// 內部錯誤不回傳 Context，只寫入日誌。
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		status int
		body   ErrorResponse
		bindEr *bindError
		domErr *shared.DomainError
	)

	switch {
	case errors.As(err, &bindEr):
		status = http.StatusBadRequest
		body = ErrorResponse{Error: codeInvalidRequest, Message: bindEr.message}
		if len(bindEr.fields) > 0 {
			body.Details = make(map[string]interface{}, len(bindEr.fields))
			for k, v := range bindEr.fields {
				body.Details[k] = v
			}
		}
	case errors.As(err, &domErr):
		status = statusForKind(domErr.Kind)
		body = ErrorResponse{Error: string(domErr.Code), Message: domErr.Message}
		if status != http.StatusInternalServerError {
			body.Details = domErr.Context
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
		body = ErrorResponse{Error: codeTimeout, Message: "request canceled or timed out"}
	default:
		status = http.StatusInternalServerError
		body = ErrorResponse{Error: codeInternal, Message: "internal server error"}
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("request_id", RequestID(c)),
			zap.Int("status", status),
			zap.String("code", body.Error),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}
