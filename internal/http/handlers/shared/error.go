package shared

import (
	"errors"
	"net/http"

	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondServiceError 将服务层错误映射为 HTTP 状态与提示语。
func RespondServiceError(c *gin.Context, err error) {
	status, msg := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		RequestLog(c).Errorw("handler_error", "status", status, "error", err)
	}
	response.Error(c, status, msg)
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTokenMissing):
		return http.StatusUnauthorized, "No token provided"
	case errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "Expired token"
	case errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden, "Account disabled"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrVerifyCodeInvalid):
		return http.StatusUnauthorized, "Invalid verification code"
	case errors.Is(err, service.ErrVerifyCodeExpired):
		return http.StatusUnauthorized, "Verification code expired"
	case errors.Is(err, service.ErrVerifyCodeTooFrequent):
		return http.StatusTooManyRequests, "Please wait before requesting another code"
	case errors.Is(err, service.ErrVerificationNotPending):
		return http.StatusBadRequest, "No pending verification"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, service.ErrNameTaken):
		return http.StatusConflict, "Name already taken"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "Email already taken"
	case errors.Is(err, service.ErrCodeTaken):
		return http.StatusConflict, "Code already taken"
	case errors.Is(err, service.ErrRoleInUse):
		return http.StatusConflict, "Role is still assigned to users"
	case errors.Is(err, service.ErrBuiltinRole):
		return http.StatusForbidden, "Built-in role cannot be deleted"
	case errors.Is(err, service.ErrSelfDeletion):
		return http.StatusForbidden, "Cannot delete your own account"
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, "Invalid status"
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict, "Insufficient stock"
	case errors.Is(err, service.ErrFlashSaleSoldOut):
		return http.StatusConflict, "Flash sale sold out"
	case errors.Is(err, service.ErrVoucherNotFound):
		return http.StatusNotFound, "Voucher not found"
	case errors.Is(err, service.ErrVoucherInactive):
		return http.StatusBadRequest, "Voucher is not active"
	case errors.Is(err, service.ErrVoucherExhausted):
		return http.StatusConflict, "Voucher usage limit reached"
	case errors.Is(err, service.ErrVoucherMinAmount):
		return http.StatusBadRequest, "Order amount below voucher minimum"
	case errors.Is(err, service.ErrVoucherNotApplicable):
		return http.StatusBadRequest, "Voucher not applicable to these items"
	case errors.Is(err, service.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, service.ErrUploadInvalidType):
		return http.StatusBadRequest, "File type not allowed"
	case errors.Is(err, service.ErrEmailServiceDisabled), errors.Is(err, service.ErrEmailServiceNotConfigured):
		return http.StatusServiceUnavailable, "Email service unavailable"
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "Invalid email address"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	}
	return http.StatusInternalServerError, "Internal server error"
}
