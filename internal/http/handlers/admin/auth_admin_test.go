package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/provider"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	cfg.Auth.SuperAdmin.OperatorEmail = "ops@example.com"

	queueClient, _ := queue.NewClient(nil)
	authSvc := service.NewAuthService(
		cfg,
		repository.NewUserRepository(db),
		repository.NewApiTokenRepository(db),
		repository.NewLoginVerifyCodeRepository(db),
		service.NewEmailService(&config.EmailConfig{Enabled: false}),
		queueClient,
	)
	return New(&provider.Container{AuthService: authSvc}), db
}

func TestLoginSuperAdminResponseCarriesIdentity(t *testing.T) {
	h, db := setupAuthHandlerTest(t)
	roleID := constants.RoleIDSuperAdmin
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Name:         "root",
		Email:        "root@example.com",
		PasswordHash: string(hash),
		RoleID:       &roleID,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := httptest.NewRecorder()
	body := `{"identifier":"root","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			RequiresVerification bool `json:"requires_verification"`
			User                 struct {
				ID          uint    `json:"id"`
				Email       string  `json:"email"`
				Permissions []string `json:"permissions"`
			} `json:"user"`
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if !resp.Data.RequiresVerification {
		t.Fatal("requires_verification should be true")
	}
	if resp.Data.User.ID != user.ID || resp.Data.User.Email != "root@example.com" {
		t.Fatalf("user identity missing from response: %s", w.Body.String())
	}
	// 验证前不下发令牌和权限
	if resp.Data.Token != "" {
		t.Fatal("no token may be issued before verification")
	}
	if resp.Data.User.Permissions != nil {
		t.Fatal("permissions must not appear before verification")
	}
}
