package shared

import (
	"strings"

	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextKeyAuth 鉴权上下文键
const ContextKeyAuth = "auth_context"

// AuthFromContext 读取鉴权上下文，缺失时写响应并返回 false
func AuthFromContext(c *gin.Context) (*service.AuthContext, bool) {
	value, exists := c.Get(ContextKeyAuth)
	if !exists {
		response.Unauthorized(c, "No token provided")
		return nil, false
	}
	auth, ok := value.(*service.AuthContext)
	if !ok || auth == nil {
		response.Unauthorized(c, "Invalid token")
		return nil, false
	}
	return auth, true
}

// TokenFromRequest 从 Authorization 头提取不透明令牌，兼容裸令牌。
// "null"/"undefined" 按未携带处理，前端未登录时会原样传这两个字面量。
func TokenFromRequest(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
		raw = strings.TrimSpace(after)
	}
	if raw == "" || strings.EqualFold(raw, "null") || strings.EqualFold(raw, "undefined") {
		return ""
	}
	return raw
}
