package models

import "time"

// ApiToken 会话令牌表
// 说明：一次登录对应一行，允许同一用户并发持有多个令牌；
// 过期令牌在下次校验时惰性删除。
type ApiToken struct {
	ID        uint       `gorm:"primarykey" json:"id"`             // 主键
	UserID    uint       `gorm:"index;not null" json:"user_id"`    // 所属用户ID
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`    // 不透明令牌串（不返回给前端）
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`          // 过期时间（空表示不过期）
	CreatedAt time.Time  `gorm:"index" json:"created_at"`          // 创建时间
}

// TableName 指定表名
func (ApiToken) TableName() string {
	return "api_tokens"
}

// Expired 判断令牌是否已过期
func (t *ApiToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
