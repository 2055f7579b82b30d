package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses 全部合法订单状态
func OrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// 角色常量：超级管理员固定为 1 号角色
const (
	RoleIDSuperAdmin uint = 1
	RoleNameSuper         = "super_admin"
	RoleNameAdmin         = "admin"
	RoleNameStaff         = "staff"
)

// 权限标识常量
const (
	PermProductsManage   = "products.manage"
	PermCategoriesManage = "categories.manage"
	PermOrdersManage     = "orders.manage"
	PermVouchersManage   = "vouchers.manage"
	PermPromosManage     = "promotions.manage"
	PermReviewsManage    = "reviews.manage"
	PermUsersManage      = "users.manage"
	PermWidgetsManage    = "widgets.manage"
	PermCustomersManage  = "customers.manage"
	PermAnalyticsView    = "analytics.view"
)

// AllPermissions 当前定义的全部权限
func AllPermissions() []string {
	return []string{
		PermProductsManage,
		PermCategoriesManage,
		PermOrdersManage,
		PermVouchersManage,
		PermPromosManage,
		PermReviewsManage,
		PermUsersManage,
		PermWidgetsManage,
		PermCustomersManage,
		PermAnalyticsView,
	}
}

// 优惠类型常量
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// 优惠券适用范围常量
const (
	VoucherScopeStore    = "store"
	VoucherScopeProduct  = "product"
	VoucherScopeCategory = "category"
)

// 免运费规则类型常量
const (
	FreeShippingRuleLocation  = "location"
	FreeShippingRuleMinAmount = "min_amount"
	FreeShippingRuleCategory  = "category"
)

// 商品状态常量
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// 客户状态常量
const (
	CustomerStatusPending = "pending"
	CustomerStatusActive  = "active"
	CustomerStatusBlocked = "blocked"
)

// 异步任务类型常量
const (
	TaskSuperAdminCode   = "email:superadmin_code"
	TaskOrderStatusEmail = "email:order_status"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)
