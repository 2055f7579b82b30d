package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.ApiToken{}, &models.LoginVerifyCode{}); err != nil {
		t.Fatalf("migrate auth models failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Auth.TokenExpireHours = 24
	cfg.Auth.RememberMeExpireHours = 168
	cfg.Auth.SuperAdmin.CodeExpireMinutes = 10
	cfg.Auth.SuperAdmin.CodeLength = 6
	cfg.Auth.SuperAdmin.ResendIntervalSeconds = 60
	cfg.Auth.SuperAdmin.OperatorEmail = "ops@example.com"

	queueClient, _ := queue.NewClient(nil)
	svc := NewAuthService(
		cfg,
		repository.NewUserRepository(db),
		repository.NewApiTokenRepository(db),
		repository.NewLoginVerifyCodeRepository(db),
		NewEmailService(&config.EmailConfig{Enabled: false}),
		queueClient,
	)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, password string, roleID *uint, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		IsActive:     active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestUser(t, db, "budi", "budi@example.com", "secret123", nil, true)

	if _, err := svc.Login("budi@example.com", "wrong", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginByEmailOrNameCaseInsensitive(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestUser(t, db, "Budi", "budi@example.com", "secret123", nil, true)

	for _, ident := range []string{"budi@example.com", "BUDI@Example.COM", "budi", "BUDI"} {
		result, err := svc.Login(ident, "secret123", false)
		if err != nil {
			t.Fatalf("login with %q failed: %v", ident, err)
		}
		if result.Token == "" {
			t.Fatalf("login with %q returned empty token", ident)
		}
		if result.RequiresVerification {
			t.Fatalf("login with %q unexpectedly requires verification", ident)
		}
	}
}

func TestLoginInactiveAccountStillGetsToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestUser(t, db, "sari", "sari@example.com", "secret123", nil, false)

	result, err := svc.Login("sari", "secret123", false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("inactive account should still receive a token")
	}
	if result.User.IsActive {
		t.Fatal("user should be reported inactive")
	}

	// 令牌存在但账号未启用，后续请求被拦截
	if _, err := svc.Authenticate(result.Token); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("authenticate err = %v, want ErrAccountDisabled", err)
	}
}

func TestLoginRememberMeExtendsExpiry(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestUser(t, db, "adi", "adi@example.com", "secret123", nil, true)

	short, err := svc.Login("adi", "secret123", false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	long, err := svc.Login("adi", "secret123", true)
	if err != nil {
		t.Fatalf("remember-me login failed: %v", err)
	}

	if short.ExpiresAt == nil || long.ExpiresAt == nil {
		t.Fatal("expiry missing")
	}
	if d := short.ExpiresAt.Sub(time.Now()); d > 25*time.Hour {
		t.Fatalf("normal session expiry too long: %v", d)
	}
	if d := long.ExpiresAt.Sub(time.Now()); d < 160*time.Hour {
		t.Fatalf("remember-me session expiry too short: %v", d)
	}
}

func TestSuperAdminLoginRequiresVerification(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	roleID := constants.RoleIDSuperAdmin
	createTestUser(t, db, "root", "root@example.com", "secret123", &roleID, true)

	result, err := svc.Login("root", "secret123", false)
	if err != nil {
		t.Fatalf("super admin login failed: %v", err)
	}
	if !result.RequiresVerification {
		t.Fatal("super admin login must require verification")
	}
	if result.Token != "" {
		t.Fatal("no token may be issued before verification")
	}

	var code models.LoginVerifyCode
	if err := db.Where("user_id = ?", result.User.ID).First(&code).Error; err != nil {
		t.Fatalf("verification code not stored: %v", err)
	}
	if len(code.Code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code.Code))
	}

	verified, err := svc.VerifySuperAdmin("root", code.Code, false)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.Token == "" {
		t.Fatal("verification should issue a token")
	}

	// 验证码一次性使用
	if _, err := svc.VerifySuperAdmin("root", code.Code, false); !errors.Is(err, ErrVerificationNotPending) {
		t.Fatalf("reuse err = %v, want ErrVerificationNotPending", err)
	}
}

func TestVerifySuperAdminRejectsWrongAndExpiredCodes(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	roleID := constants.RoleIDSuperAdmin
	user := createTestUser(t, db, "root", "root@example.com", "secret123", &roleID, true)

	if _, err := svc.Login("root", "secret123", false); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.VerifySuperAdmin("root", "000000", false); !errors.Is(err, ErrVerifyCodeInvalid) {
		t.Fatalf("wrong code err = %v, want ErrVerifyCodeInvalid", err)
	}

	// 人为过期
	if err := db.Model(&models.LoginVerifyCode{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire code failed: %v", err)
	}
	var code models.LoginVerifyCode
	if err := db.Where("user_id = ?", user.ID).First(&code).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}
	if _, err := svc.VerifySuperAdmin("root", code.Code, false); !errors.Is(err, ErrVerifyCodeExpired) {
		t.Fatalf("expired code err = %v, want ErrVerifyCodeExpired", err)
	}
}

func TestVerifySuperAdminRejectsDeactivatedAccount(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	roleID := constants.RoleIDSuperAdmin
	user := createTestUser(t, db, "root", "root@example.com", "secret123", &roleID, true)

	if _, err := svc.Login("root", "secret123", false); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	var code models.LoginVerifyCode
	if err := db.Where("user_id = ?", user.ID).First(&code).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}

	// 发码之后账号被停用，正确的验证码也不能换取令牌
	if err := db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user failed: %v", err)
	}
	if _, err := svc.VerifySuperAdmin("root", code.Code, false); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("verify err = %v, want ErrAccountDisabled", err)
	}
}

func TestResendSuperAdminCodeRateLimited(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	roleID := constants.RoleIDSuperAdmin
	createTestUser(t, db, "root", "root@example.com", "secret123", &roleID, true)

	if _, err := svc.Login("root", "secret123", false); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.ResendSuperAdminCode("root"); !errors.Is(err, ErrVerifyCodeTooFrequent) {
		t.Fatalf("resend err = %v, want ErrVerifyCodeTooFrequent", err)
	}

	// 无待验证状态时直接拒绝
	if err := db.Where("1 = 1").Delete(&models.LoginVerifyCode{}).Error; err != nil {
		t.Fatalf("clear codes failed: %v", err)
	}
	if err := svc.ResendSuperAdminCode("root"); !errors.Is(err, ErrVerificationNotPending) {
		t.Fatalf("resend err = %v, want ErrVerificationNotPending", err)
	}
}

func TestAuthenticateTokenLifecycle(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user := createTestUser(t, db, "budi", "budi@example.com", "secret123", nil, true)

	if _, err := svc.Authenticate("no-such-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown token err = %v, want ErrTokenInvalid", err)
	}

	result, err := svc.Login("budi", "secret123", false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	authCtx, err := svc.Authenticate(result.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authCtx.User.ID != user.ID {
		t.Fatalf("user id = %d, want %d", authCtx.User.ID, user.ID)
	}

	// 过期令牌被惰性删除
	expired := time.Now().Add(-time.Hour)
	if err := db.Model(&models.ApiToken{}).
		Where("token = ?", result.Token).
		Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire token failed: %v", err)
	}
	if _, err := svc.Authenticate(result.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token err = %v, want ErrTokenExpired", err)
	}
	var count int64
	db.Model(&models.ApiToken{}).Where("token = ?", result.Token).Count(&count)
	if count != 0 {
		t.Fatal("expired token should be deleted on use")
	}

	// 再次使用同一令牌按无效处理
	if _, err := svc.Authenticate(result.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("deleted token err = %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutDeletesToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestUser(t, db, "budi", "budi@example.com", "secret123", nil, true)

	result, err := svc.Login("budi", "secret123", false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Authenticate(result.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("after logout err = %v, want ErrTokenInvalid", err)
	}
	_ = db
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	user, err := svc.Register(RegisterInput{Name: "dewi", Email: "Dewi@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.IsActive {
		t.Fatal("new account must start inactive")
	}
	if user.Email != "dewi@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", user.Email)
	}

	if _, err := svc.Register(RegisterInput{Name: "other", Email: "dewi@example.com", Password: "x12345"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email err = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(RegisterInput{Name: "dewi", Email: "new@example.com", Password: "x12345"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("duplicate name err = %v, want ErrNameTaken", err)
	}
	_ = db
}
