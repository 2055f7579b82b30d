package admin

import (
	"strings"

	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type verifyRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Code       string `json:"code" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type resendRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 账号登录，邮箱或用户名均可
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		response.BadRequest(c, "Invalid input")
		return
	}

	result, err := h.AuthService.Login(identifier, req.Password, req.RememberMe)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if result.RequiresVerification {
		// 只回传基础身份，权限信息等验证通过后再给
		response.SuccessWithMsg(c, "Verification code sent", gin.H{
			"requires_verification": true,
			"user": gin.H{
				"id":        result.User.ID,
				"name":      result.User.Name,
				"email":     result.User.Email,
				"is_active": result.User.IsActive,
			},
		})
		return
	}
	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}

// VerifySuperAdmin 超级管理员验证码校验，换取令牌
func (h *Handler) VerifySuperAdmin(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	result, err := h.AuthService.VerifySuperAdmin(req.Identifier, req.Code, req.RememberMe)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}

// ResendSuperAdminCode 重发超级管理员验证码
func (h *Handler) ResendSuperAdminCode(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	if err := h.AuthService.ResendSuperAdminCode(req.Identifier); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Verification code sent", nil)
}

// Register 注册新账号，初始为未激活
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	user, err := h.AuthService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, user)
}

// Logout 注销当前令牌
func (h *Handler) Logout(c *gin.Context) {
	token := handlershared.TokenFromRequest(c)
	if token == "" {
		response.Unauthorized(c, "No token provided")
		return
	}
	if err := h.AuthService.Logout(token); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Logged out", nil)
}

// Me 当前会话信息
func (h *Handler) Me(c *gin.Context) {
	auth, ok := handlershared.AuthFromContext(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"user":        auth.User,
		"permissions": auth.Permissions,
	})
}

// AuthStatus 令牌有效性探测
func (h *Handler) AuthStatus(c *gin.Context) {
	auth, ok := handlershared.AuthFromContext(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"authenticated": true,
		"user_id":       auth.User.ID,
	})
}
