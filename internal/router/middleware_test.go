package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tokoline/tokoline/internal/constants"
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://toko.example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://toko.example.com", []string{"*"}, true)
	if got != "https://toko.example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestTokenAuthMiddlewareMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(TokenAuthMiddleware(nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 前端未登录时 Authorization 可能缺失，也可能带字面量 null/undefined
	for _, header := range []string{"", "Bearer null", "Bearer undefined", "null"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q status want 401 got %d", header, w.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		if resp.Success {
			t.Fatalf("header %q success should be false", header)
		}
		if resp.Error != "No token provided" {
			t.Fatalf("header %q error want No token provided got %s", header, resp.Error)
		}
	}
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staffRole := uint(3)
	superRole := constants.RoleIDSuperAdmin

	serve := func(auth *service.AuthContext, perm string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if auth != nil {
				c.Set(handlershared.ContextKeyAuth, auth)
			}
		})
		r.Use(RequirePermission(perm))
		r.GET("/admin/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := serve(&service.AuthContext{
		User:        &models.User{RoleID: &staffRole},
		Permissions: []string{constants.PermProductsManage},
	}, constants.PermProductsManage)
	if w.Code != http.StatusOK {
		t.Fatalf("granted permission status want 200 got %d", w.Code)
	}

	w = serve(&service.AuthContext{
		User:        &models.User{RoleID: &staffRole},
		Permissions: []string{constants.PermProductsManage},
	}, constants.PermUsersManage)
	if w.Code != http.StatusForbidden {
		t.Fatalf("missing permission status want 403 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Permission denied") {
		t.Fatalf("forbidden body should mention Permission denied, got %s", w.Body.String())
	}

	w = serve(&service.AuthContext{
		User: &models.User{RoleID: &superRole},
	}, constants.PermUsersManage)
	if w.Code != http.StatusOK {
		t.Fatalf("super admin bypass status want 200 got %d", w.Code)
	}

	w = serve(nil, constants.PermUsersManage)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing auth context status want 401 got %d", w.Code)
	}
}
