package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	Category   string
	Status     string
	SortBy     string
	SortOrder  string
	OnlyActive bool
	WithAssets bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	Search        string
	Status        string
	CustomerEmail string
	SortBy        string
	SortOrder     string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	WithItems     bool
}

// VoucherListFilter 查询优惠券列表的过滤条件
type VoucherListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// ProductVoucherListFilter 查询商品券列表的过滤条件
type ProductVoucherListFilter struct {
	Page       int
	PageSize   int
	Search     string
	Scope      string
	ProductID  uint
	Category   string
	OnlyActive bool
}

// FlashSaleListFilter 查询限时抢购列表的过滤条件
type FlashSaleListFilter struct {
	Page        int
	PageSize    int
	Search      string
	ProductID   uint
	OnlyRunning bool
	WithProduct bool
}

// FreeShippingListFilter 查询包邮活动列表的过滤条件
type FreeShippingListFilter struct {
	Page       int
	PageSize   int
	RuleType   string
	OnlyActive bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	OrderID   uint
	Rating    int
	Search    string
}

// WidgetListFilter 查询挂件列表的过滤条件
type WidgetListFilter struct {
	Page       int
	PageSize   int
	Type       string
	OnlyActive bool
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page        int
	PageSize    int
	Search      string
	Status      string
	SortBy      string
	SortOrder   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询后台用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	RoleID   uint
	IsActive *bool
	WithRole bool
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page     int
	PageSize int
	Search   string
}
