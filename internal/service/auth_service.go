package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash 账号不存在时仍执行一次 bcrypt 比较，避免时间侧信道暴露账号是否存在
var dummyPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("tokoline-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// AuthService 认证服务
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	tokenRepo    repository.ApiTokenRepository
	codeRepo     repository.LoginVerifyCodeRepository
	emailService *EmailService
	queueClient  *queue.Client
}

// NewAuthService 创建认证服务实例
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenRepo repository.ApiTokenRepository,
	codeRepo repository.LoginVerifyCodeRepository,
	emailService *EmailService,
	queueClient *queue.Client,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		codeRepo:     codeRepo,
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// AuthContext 令牌校验通过后的会话上下文
type AuthContext struct {
	User        *models.User
	Permissions []string
}

// HasPermission 判断会话是否具备某权限
func (c *AuthContext) HasPermission(perm string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// IsSuperAdmin 判断会话是否为超级管理员
func (c *AuthContext) IsSuperAdmin() bool {
	return c != nil && c.User != nil && c.User.RoleID != nil && *c.User.RoleID == constants.RoleIDSuperAdmin
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Authenticate 根据令牌解析会话。
// 过期令牌在此处惰性删除；角色缺失按空权限集处理。
func (s *AuthService) Authenticate(token string) (*AuthContext, error) {
	record, err := s.tokenRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrTokenInvalid
	}
	now := time.Now()
	if record.Expired(now) {
		if err := s.tokenRepo.Delete(record.ID); err != nil {
			logger.Warnw("expired_token_cleanup_failed", "token_id", record.ID, "error", err)
		}
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByIDWithRole(record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	perms := []string{}
	if user.Role != nil && len(user.Role.Permissions) > 0 {
		perms = append(perms, user.Role.Permissions...)
	}
	return &AuthContext{User: user, Permissions: perms}, nil
}

// LoginResult 登录结果。
// 超级管理员登录时 Token 为空且 RequiresVerification 为 true，
// 其余账号直接签发令牌；未激活账号同样发令牌，后续请求由令牌校验拦截。
type LoginResult struct {
	User                 *models.User
	Token                string
	ExpiresAt            *time.Time
	RequiresVerification bool
}

// Login 后台用户登录，登录标识支持邮箱或用户名
func (s *AuthService) Login(identifier, password string, rememberMe bool) (*LoginResult, error) {
	user, err := s.userRepo.GetByLoginIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 保持与正常路径相同的耗时
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.RoleID != nil && *user.RoleID == constants.RoleIDSuperAdmin {
		if err := s.issueSuperAdminCode(user); err != nil {
			return nil, err
		}
		return &LoginResult{User: user, RequiresVerification: true}, nil
	}

	token, expiresAt, err := s.issueToken(user, rememberMe)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: &expiresAt}, nil
}

// VerifySuperAdmin 校验超级管理员验证码并签发令牌。
// 验证码一次性使用，无论成功与否都不允许重试同一条记录之外的旧码。
func (s *AuthService) VerifySuperAdmin(identifier, code string, rememberMe bool) (*LoginResult, error) {
	user, err := s.userRepo.GetByLoginIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RoleID == nil || *user.RoleID != constants.RoleIDSuperAdmin {
		return nil, ErrVerifyCodeInvalid
	}
	// 发码到验证之间账号可能被停用，签发令牌前再查一次
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	record, err := s.codeRepo.GetLatestByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrVerificationNotPending
	}
	if time.Now().After(record.ExpiresAt) {
		_ = s.codeRepo.DeleteByUserID(user.ID)
		return nil, ErrVerifyCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(strings.TrimSpace(code))) != 1 {
		return nil, ErrVerifyCodeInvalid
	}
	if err := s.codeRepo.DeleteByUserID(user.ID); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issueToken(user, rememberMe)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: &expiresAt}, nil
}

// ResendSuperAdminCode 重发超级管理员验证码，受最小间隔限制
func (s *AuthService) ResendSuperAdminCode(identifier string) error {
	user, err := s.userRepo.GetByLoginIdentifier(identifier)
	if err != nil {
		return err
	}
	if user == nil || user.RoleID == nil || *user.RoleID != constants.RoleIDSuperAdmin {
		return ErrVerificationNotPending
	}

	latest, err := s.codeRepo.GetLatestByUserID(user.ID)
	if err != nil {
		return err
	}
	if latest == nil {
		return ErrVerificationNotPending
	}
	interval := time.Duration(s.cfg.Auth.SuperAdmin.ResendIntervalSeconds) * time.Second
	if interval > 0 && time.Since(latest.SentAt) < interval {
		return ErrVerifyCodeTooFrequent
	}
	return s.issueSuperAdminCode(user)
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register 注册后台用户，新账号默认未激活，等待管理员启用
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	if existing, err := s.userRepo.GetByLoginIdentifier(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.userRepo.GetByLoginIdentifier(name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrNameTaken
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     false,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout 注销当前令牌
func (s *AuthService) Logout(token string) error {
	return s.tokenRepo.DeleteByToken(token)
}

// issueToken 签发不透明令牌并更新最后登录时间
func (s *AuthService) issueToken(user *models.User, rememberMe bool) (string, time.Time, error) {
	hours := s.cfg.Auth.TokenExpireHours
	if rememberMe {
		hours = s.cfg.Auth.RememberMeExpireHours
	}
	if hours <= 0 {
		hours = 24
	}
	expiresAt := time.Now().Add(time.Duration(hours) * time.Hour)

	token, err := generateOpaqueToken()
	if err != nil {
		return "", time.Time{}, err
	}
	record := &models.ApiToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warnw("update_last_login_failed", "user_id", user.ID, "error", err)
	}
	return token, expiresAt, nil
}

// issueSuperAdminCode 生成验证码并发送到固定运营邮箱
func (s *AuthService) issueSuperAdminCode(user *models.User) error {
	length := s.cfg.Auth.SuperAdmin.CodeLength
	if length <= 0 {
		length = 6
	}
	code, err := generateNumericCode(length)
	if err != nil {
		return err
	}

	expireMinutes := s.cfg.Auth.SuperAdmin.CodeExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 10
	}
	now := time.Now()
	record := &models.LoginVerifyCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: now.Add(time.Duration(expireMinutes) * time.Minute),
		SentAt:    now,
	}
	if err := s.codeRepo.Replace(record); err != nil {
		return err
	}

	operatorEmail := strings.TrimSpace(s.cfg.Auth.SuperAdmin.OperatorEmail)
	if operatorEmail == "" {
		operatorEmail = user.Email
	}

	if s.queueClient.Enabled() {
		err = s.queueClient.EnqueueSuperAdminCodeEmail(queue.SuperAdminCodePayload{
			UserID: user.ID,
			Email:  operatorEmail,
			Code:   code,
		})
		if err == nil {
			return nil
		}
		logger.Warnw("enqueue_superadmin_code_failed", "user_id", user.ID, "error", err)
	}

	// 队列不可用时同步发送兜底
	if err := s.emailService.SendSuperAdminCode(operatorEmail, user.Name, code, expireMinutes); err != nil {
		// 邮件服务未配置时验证码仍落库，开发环境可直接查库取码
		if errors.Is(err, ErrEmailServiceDisabled) || errors.Is(err, ErrEmailServiceNotConfigured) {
			logger.Warnw("superadmin_code_email_skipped", "user_id", user.ID, "error", err)
			return nil
		}
		logger.Errorw("send_superadmin_code_failed", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// generateOpaqueToken 生成 64 位十六进制随机令牌
func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// generateNumericCode 生成指定位数的数字验证码
func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String(), nil
}
