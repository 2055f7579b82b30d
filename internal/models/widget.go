package models

import "time"

// Widget 店铺页面挂件表（轮播图、公告等前台展示配置）
type Widget struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	Type      string    `gorm:"not null;index" json:"type"`        // 挂件类型 banner/announcement/...
	Title     string    `json:"title"`                             // 标题
	Content   string    `gorm:"type:text" json:"content"`          // 正文
	ImagePath string    `json:"image_path"`                        // 图片路径
	LinkURL   string    `json:"link_url"`                          // 跳转链接
	SortOrder int       `gorm:"default:0;index" json:"sort_order"` // 排序权重
	IsActive  bool      `gorm:"default:true;index" json:"is_active"` // 是否展示
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (Widget) TableName() string {
	return "widgets"
}
