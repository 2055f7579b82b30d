package models

import "time"

// Order 订单表
type Order struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo         string    `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单号
	CustomerName    string    `gorm:"not null" json:"customer_name"`                              // 客户姓名
	CustomerEmail   string    `gorm:"index;not null" json:"customer_email"`                       // 客户邮箱
	CustomerPhone   string    `json:"customer_phone"`                                             // 客户电话
	ShippingAddress string    `gorm:"type:text" json:"shipping_address"`                          // 收货地址
	Status          string    `gorm:"default:'pending';index" json:"status"`                      // 订单状态
	TotalAmount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 订单总额（下单时确定，后续不重算）
	VoucherCode     string    `gorm:"index" json:"voucher_code"`                                  // 使用的优惠券码
	DiscountAmount  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TrackingNumber  string    `json:"tracking_number"`                                            // 物流单号
	Notes           string    `gorm:"type:text" json:"notes"`                                     // 备注
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                 // 更新时间

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细表
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                               // 主键
	OrderID      uint      `gorm:"index;not null" json:"order_id"`                     // 订单ID
	ProductID    *uint     `gorm:"index" json:"product_id"`                            // 商品ID（商品删除后置空，快照字段保留）
	ProductName  string    `gorm:"not null" json:"product_name"`                       // 商品名称快照
	ProductImage string    `json:"product_image"`                                      // 商品图片快照
	VariantName  string    `json:"variant_name"`                                       // 规格名称快照
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`                 // 数量
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 成交单价快照
	CreatedAt    time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
