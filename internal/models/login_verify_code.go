package models

import "time"

// LoginVerifyCode 超级管理员登录验证码记录
// 说明：6 位数字码，10 分钟有效，校验通过后立即删除（单次使用）。
type LoginVerifyCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"` // 关联用户ID
	Code      string    `gorm:"not null" json:"-"`             // 验证码（不返回给前端）
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`       // 过期时间
	SentAt    time.Time `json:"sent_at"`                       // 发送时间
	CreatedAt time.Time `json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (LoginVerifyCode) TableName() string {
	return "login_verify_codes"
}
