package repository

import (
	"fmt"
	"time"

	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// AnalyticsRepository 销售统计聚合查询接口
// 说明：仅聚合原始数据，降级与估算规则由服务层决定。
type AnalyticsRepository interface {
	RevenueByStatuses(startAt, endAt time.Time, statuses []string) (RevenueAggRow, error)
	RevenueAllOrders(startAt, endAt time.Time) (RevenueAggRow, error)
	ProductSalesEstimate() (RevenueAggRow, error)
	CountOrdersByStatus(startAt, endAt time.Time) (map[string]int64, error)
	CountCustomers() (int64, error)
	CountActiveProducts() (int64, error)
	MonthlyRevenue(year int, statuses []string) ([]PeriodBucketRow, error)
	DailyRevenue(startAt, endAt time.Time, statuses []string) ([]PeriodBucketRow, error)
	ProductSalesTotals(startAt, endAt time.Time, statuses []string, limit int) ([]ProductSalesRow, error)
	CategorySalesTotals(statuses []string) ([]CategorySalesRow, error)
	BestSellersFromProducts(limit int) ([]ProductSalesRow, error)
	LatestProducts(limit int) ([]ProductSalesRow, error)
}

// RevenueAggRow 营收聚合结果
type RevenueAggRow struct {
	Revenue float64
	Orders  int64
}

// PeriodBucketRow 时间桶聚合结果，Bucket 为 YYYY-MM-DD 或两位月份
type PeriodBucketRow struct {
	Bucket  string
	Revenue float64
	Orders  int64
}

// ProductSalesRow 商品销售聚合结果
type ProductSalesRow struct {
	ProductID uint
	Name      string
	Quantity  int64
	Revenue   float64
}

// CategorySalesRow 分类销售聚合结果
type CategorySalesRow struct {
	Category string
	Quantity int64
	Revenue  float64
}

// GormAnalyticsRepository GORM 聚合实现
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建统计仓库
func NewAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// RevenueByStatuses 按状态集合统计营收与订单数
func (r *GormAnalyticsRepository) RevenueByStatuses(startAt, endAt time.Time, statuses []string) (RevenueAggRow, error) {
	var row RevenueAggRow
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders").
		Where("created_at >= ? AND created_at < ? AND status IN ?", startAt, endAt, statuses).
		Scan(&row).Error
	return row, err
}

// RevenueAllOrders 不区分状态统计营收与订单数
func (r *GormAnalyticsRepository) RevenueAllOrders(startAt, endAt time.Time) (RevenueAggRow, error) {
	var row RevenueAggRow
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Scan(&row).Error
	return row, err
}

// ProductSalesEstimate 基于商品累计销量估算营收。
// 没有任何订单数据时的兜底口径：促销价优先，无促销价按原价。
func (r *GormAnalyticsRepository) ProductSalesEstimate() (RevenueAggRow, error) {
	var row RevenueAggRow
	err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(CASE WHEN promo_price > 0 THEN promo_price ELSE regular_price END * sold_count), 0) as revenue, COALESCE(SUM(sold_count), 0) as orders").
		Scan(&row).Error
	return row, err
}

// CountOrdersByStatus 按状态分桶统计订单数
func (r *GormAnalyticsRepository) CountOrdersByStatus(startAt, endAt time.Time) (map[string]int64, error) {
	type countRow struct {
		Status string
		Total  int64
	}
	var rows []countRow
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) as total").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

// CountCustomers 统计客户总数
func (r *GormAnalyticsRepository) CountCustomers() (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Count(&count).Error
	return count, err
}

// CountActiveProducts 统计上架商品数
func (r *GormAnalyticsRepository) CountActiveProducts() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("status = ?", "active").Count(&count).Error
	return count, err
}

// MonthlyRevenue 统计某年逐月营收，缺失月份由服务层补零
func (r *GormAnalyticsRepository) MonthlyRevenue(year int, statuses []string) ([]PeriodBucketRow, error) {
	mExpr := monthExpr(r.db, "created_at")
	yExpr := yearExpr(r.db, "created_at")

	var rows []PeriodBucketRow
	query := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as bucket, COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders", mExpr)).
		Where(fmt.Sprintf("%s = ?", yExpr), fmt.Sprintf("%04d", year))
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Group(mExpr).Order("bucket asc").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyRevenue 统计区间内逐日营收，缺失日期由服务层补零
func (r *GormAnalyticsRepository) DailyRevenue(startAt, endAt time.Time, statuses []string) ([]PeriodBucketRow, error) {
	dExpr := dayExpr(r.db, "created_at")

	var rows []PeriodBucketRow
	query := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as bucket, COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders", dExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Group(dExpr).Order("bucket asc").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ProductSalesTotals 按订单明细统计逐商品销量与营收。
// startAt/endAt 为零值时不限定时间范围。
func (r *GormAnalyticsRepository) ProductSalesTotals(startAt, endAt time.Time, statuses []string, limit int) ([]ProductSalesRow, error) {
	rows := make([]ProductSalesRow, 0)
	query := r.db.Model(&models.OrderItem{}).
		Select(`
			order_items.product_id as product_id,
			order_items.product_name as name,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.price * order_items.quantity), 0) as revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id")
	if !startAt.IsZero() {
		query = query.Where("orders.created_at >= ?", startAt)
	}
	if !endAt.IsZero() {
		query = query.Where("orders.created_at < ?", endAt)
	}
	if len(statuses) > 0 {
		query = query.Where("orders.status IN ?", statuses)
	}
	query = query.
		Group("order_items.product_id, order_items.product_name").
		Having("SUM(order_items.quantity) > 0").
		Order("quantity DESC, revenue DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CategorySalesTotals 按商品分类统计销量与营收。
// 明细的商品可能已被删除，按快照关联不到分类时归入空分类。
func (r *GormAnalyticsRepository) CategorySalesTotals(statuses []string) ([]CategorySalesRow, error) {
	rows := make([]CategorySalesRow, 0)
	query := r.db.Model(&models.OrderItem{}).
		Select(`
			COALESCE(products.category, '') as category,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.price * order_items.quantity), 0) as revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id")
	if len(statuses) > 0 {
		query = query.Where("orders.status IN ?", statuses)
	}
	err := query.
		Group("products.category").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BestSellersFromProducts 无订单明细时按商品累计销量兜底
func (r *GormAnalyticsRepository) BestSellersFromProducts(limit int) ([]ProductSalesRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]ProductSalesRow, 0)
	err := r.db.Model(&models.Product{}).
		Select(`
			id as product_id,
			name,
			sold_count as quantity,
			(CASE WHEN promo_price > 0 THEN promo_price ELSE regular_price END * sold_count) as revenue
		`).
		Where("sold_count > 0").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestProducts 最新商品清单，销量营收按零返回，作为最后一级兜底
func (r *GormAnalyticsRepository) LatestProducts(limit int) ([]ProductSalesRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]ProductSalesRow, 0)
	err := r.db.Model(&models.Product{}).
		Select("id as product_id, name, 0 as quantity, 0 as revenue").
		Order("created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
