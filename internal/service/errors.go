package service

import "errors"

// 服务层哨兵错误，由 handler 层映射为对外错误响应
var (
	ErrTokenMissing = errors.New("no token provided")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("expired token")

	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrVerifyCodeInvalid      = errors.New("verification code invalid")
	ErrVerifyCodeExpired      = errors.New("verification code expired")
	ErrVerifyCodeTooFrequent  = errors.New("verification code requested too frequently")
	ErrVerificationNotPending = errors.New("no verification pending")

	ErrNotFound          = errors.New("record not found")
	ErrNameTaken         = errors.New("name already taken")
	ErrEmailTaken        = errors.New("email already taken")
	ErrCodeTaken         = errors.New("code already taken")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRoleInUse         = errors.New("role still has users")
	ErrBuiltinRole       = errors.New("builtin role cannot be removed")
	ErrSelfDeletion      = errors.New("cannot delete current account")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrVoucherNotFound      = errors.New("voucher not found")
	ErrVoucherNotApplicable = errors.New("voucher not applicable to order items")
	ErrVoucherInactive      = errors.New("voucher not active")
	ErrVoucherExhausted     = errors.New("voucher usage limit reached")
	ErrVoucherMinAmount     = errors.New("order amount below voucher minimum")
	ErrFlashSaleSoldOut     = errors.New("flash sale sold out")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailSendFailed           = errors.New("email send failed")

	ErrUploadTooLarge    = errors.New("upload exceeds size limit")
	ErrUploadInvalidType = errors.New("upload type not allowed")
)
