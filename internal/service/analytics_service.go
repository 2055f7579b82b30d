package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tokoline/tokoline/internal/cache"
	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/repository"
)

// 营收口径名称，随响应返回，前端据此标注数据可信度
const (
	RevenueSourceCompleted = "completed_orders"
	RevenueSourceAllOrders = "all_orders"
	RevenueSourceEstimate  = "product_estimate"
)

// 畅销榜取数口径，随响应返回
const (
	BestSellerSourceOrders   = "order_items"
	BestSellerSourceProducts = "product_sold_count"
	BestSellerSourceLatest   = "latest_products"
)

// 销售趋势支持的时间窗
var trendWindows = map[int]bool{7: true, 30: true, 90: true, 365: true}

// 月度畅销榜条数上限
const monthlyBestSellerLimit = 20

// AnalyticsService 经营统计服务
// 说明：营收口径按「已完成订单 → 全部订单 → 商品销量估算」三级降级，
// 数据越稀疏口径越宽松，保证后台图表永远有数而不是空白。
// 成本与利润都是比例估算值，不代表真实账务数据。
type AnalyticsService struct {
	repo repository.AnalyticsRepository
	cfg  *config.AnalyticsConfig
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(repo repository.AnalyticsRepository, cfg *config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{repo: repo, cfg: cfg}
}

// revenueStrategy 营收取数策略，按声明顺序降级
type revenueStrategy struct {
	source string
	fetch  func(startAt, endAt time.Time) (repository.RevenueAggRow, error)
}

func (s *AnalyticsService) revenueStrategies() []revenueStrategy {
	return []revenueStrategy{
		{
			source: RevenueSourceCompleted,
			fetch: func(startAt, endAt time.Time) (repository.RevenueAggRow, error) {
				return s.repo.RevenueByStatuses(startAt, endAt, []string{constants.OrderStatusCompleted})
			},
		},
		{
			source: RevenueSourceAllOrders,
			fetch: func(startAt, endAt time.Time) (repository.RevenueAggRow, error) {
				return s.repo.RevenueAllOrders(startAt, endAt)
			},
		},
		{
			source: RevenueSourceEstimate,
			fetch: func(startAt, endAt time.Time) (repository.RevenueAggRow, error) {
				return s.repo.ProductSalesEstimate()
			},
		},
	}
}

// resolveRevenue 依次尝试各营收口径，返回首个有数据的结果
func (s *AnalyticsService) resolveRevenue(startAt, endAt time.Time) (repository.RevenueAggRow, string, error) {
	var last repository.RevenueAggRow
	source := RevenueSourceEstimate
	for _, strategy := range s.revenueStrategies() {
		row, err := strategy.fetch(startAt, endAt)
		if err != nil {
			return repository.RevenueAggRow{}, "", err
		}
		if row.Orders > 0 || row.Revenue > 0 {
			return row, strategy.source, nil
		}
		last = row
	}
	return last, source, nil
}

// PeriodStat 单时间段营收与订单数
type PeriodStat struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// ProductShare 概览页商品营收占比条目
type ProductShare struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	Quantity     int64   `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	SharePercent float64 `json:"share_percent"`
}

// SummaryResponse 经营概览响应
type SummaryResponse struct {
	PeriodDays        int              `json:"period_days"`
	Today             PeriodStat       `json:"today"`
	Week              PeriodStat       `json:"week"`
	Month             PeriodStat       `json:"month"`
	TotalRevenue      float64          `json:"total_revenue"`
	TotalOrders       int64            `json:"total_orders"`
	TotalCustomers    int64            `json:"total_customers"`
	ActiveProducts    int64            `json:"active_products"`
	EstimatedCost     float64          `json:"estimated_cost"`
	EstimatedProfit   float64          `json:"estimated_profit"`
	EstimatedVisitors int64            `json:"estimated_visitors"`
	RevenueSource     string           `json:"revenue_source"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TopProducts       []ProductShare   `json:"top_products"`
}

// Summary 经营概览：今日/本周/本月营收、状态分布、估算访客与商品营收占比
func (s *AnalyticsService) Summary(ctx context.Context, forceRefresh bool) (*SummaryResponse, error) {
	periodDays := s.periodDays()
	cacheKey := fmt.Sprintf("analytics:summary:%dd", periodDays)
	if !forceRefresh {
		var cached SummaryResponse
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	now := time.Now()
	endAt := now
	startAt := endAt.AddDate(0, 0, -periodDays)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := endAt.AddDate(0, 0, -7)
	monthStart := endAt.AddDate(0, 0, -30)

	revenue, source, err := s.resolveRevenue(startAt, endAt)
	if err != nil {
		return nil, err
	}
	today, err := s.repo.RevenueAllOrders(todayStart, endAt)
	if err != nil {
		return nil, err
	}
	week, err := s.repo.RevenueAllOrders(weekStart, endAt)
	if err != nil {
		return nil, err
	}
	month, err := s.repo.RevenueAllOrders(monthStart, endAt)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountOrdersByStatus(startAt, endAt)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.CountCustomers()
	if err != nil {
		return nil, err
	}
	products, err := s.repo.CountActiveProducts()
	if err != nil {
		return nil, err
	}
	topProducts, err := s.topProductShares(startAt, endAt)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{
		PeriodDays:        periodDays,
		Today:             PeriodStat{Revenue: today.Revenue, Orders: today.Orders},
		Week:              PeriodStat{Revenue: week.Revenue, Orders: week.Orders},
		Month:             PeriodStat{Revenue: month.Revenue, Orders: month.Orders},
		TotalRevenue:      revenue.Revenue,
		TotalOrders:       revenue.Orders,
		TotalCustomers:    customers,
		ActiveProducts:    products,
		EstimatedCost:     revenue.Revenue * s.costRatio(),
		EstimatedProfit:   revenue.Revenue * s.profitRatio(),
		EstimatedVisitors: EstimateVisitors(revenue.Orders),
		RevenueSource:     source,
		OrdersByStatus:    byStatus,
		TopProducts:       topProducts,
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, s.cacheTTL()); err != nil {
		logger.Warnw("analytics_summary_cache_write_failed", "error", err)
	}
	return resp, nil
}

// topProductShares 时间段内营收占比前几名的商品
func (s *AnalyticsService) topProductShares(startAt, endAt time.Time) ([]ProductShare, error) {
	limit := s.cfg.TopPerformanceLimit
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.repo.ProductSalesTotals(startAt, endAt, []string{constants.OrderStatusCompleted}, limit)
	if err != nil {
		return nil, err
	}
	var totalRevenue float64
	for _, row := range rows {
		totalRevenue += row.Revenue
	}
	shares := make([]ProductShare, 0, len(rows))
	for _, row := range rows {
		share := 0.0
		if totalRevenue > 0 {
			share = round1(row.Revenue / totalRevenue * 100)
		}
		shares = append(shares, ProductShare{
			ProductID:    row.ProductID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Revenue:      row.Revenue,
			SharePercent: share,
		})
	}
	return shares, nil
}

// MonthlyProfitPoint 月度损益数据点
type MonthlyProfitPoint struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
}

// MonthlyProfitLossResponse 年度损益响应
type MonthlyProfitLossResponse struct {
	Year      int                  `json:"year"`
	Months    []MonthlyProfitPoint `json:"months"`
	BestMonth int                  `json:"best_month"`
	Revenue   float64              `json:"revenue"`
	Cost      float64              `json:"cost"`
	Profit    float64              `json:"profit"`
	Margin    float64              `json:"margin"`
}

// MonthlyProfitLoss 某年逐月损益，12 个月全量补零。
// 口径为全部订单而非已完成订单，与其他报表口径不一致是历史行为，前端有标注。
// 成本按配置比例估算，毛利率保留一位小数，零营收月份按 0 处理。
func (s *AnalyticsService) MonthlyProfitLoss(ctx context.Context, year int) (*MonthlyProfitLossResponse, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	cacheKey := fmt.Sprintf("analytics:profit:%d", year)
	var cached MonthlyProfitLossResponse
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	rows, err := s.repo.MonthlyRevenue(year, nil)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]repository.PeriodBucketRow, len(rows))
	for _, row := range rows {
		byMonth[row.Bucket] = row
	}

	resp := &MonthlyProfitLossResponse{Year: year, Months: make([]MonthlyProfitPoint, 0, 12)}
	bestProfit := math.Inf(-1)
	for m := 1; m <= 12; m++ {
		bucket := fmt.Sprintf("%02d", m)
		row := byMonth[bucket]
		cost := row.Revenue * s.costRatio()
		profit := row.Revenue - cost
		margin := 0.0
		if row.Revenue > 0 {
			margin = round1(profit / row.Revenue * 100)
		}
		resp.Months = append(resp.Months, MonthlyProfitPoint{
			Month:   m,
			Revenue: row.Revenue,
			Orders:  row.Orders,
			Cost:    cost,
			Profit:  profit,
			Margin:  margin,
		})
		resp.Revenue += row.Revenue
		resp.Cost += cost
		resp.Profit += profit
		if profit > bestProfit && row.Revenue > 0 {
			bestProfit = profit
			resp.BestMonth = m
		}
	}
	if resp.Revenue > 0 {
		resp.Margin = round1(resp.Profit / resp.Revenue * 100)
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, s.cacheTTL()); err != nil {
		logger.Warnw("analytics_profit_cache_write_failed", "error", err)
	}
	return resp, nil
}

// TrendPoint 日度趋势数据点
type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// SalesTrend 近 N 天已完成订单的销售趋势，逐日补零。
// days 只接受 7/30/90/365，非法值回退 30。
func (s *AnalyticsService) SalesTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if !trendWindows[days] {
		days = 30
	}
	cacheKey := fmt.Sprintf("analytics:trend:%dd", days)
	var cached []TrendPoint
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	endAt := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	startAt := endAt.AddDate(0, 0, -days)

	rows, err := s.repo.DailyRevenue(startAt, endAt, []string{constants.OrderStatusCompleted})
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.PeriodBucketRow, len(rows))
	for _, row := range rows {
		byDay[row.Bucket] = row
	}

	points := make([]TrendPoint, 0, days)
	for d := 0; d < days; d++ {
		day := startAt.AddDate(0, 0, d).Format("2006-01-02")
		row := byDay[day]
		points = append(points, TrendPoint{Date: day, Revenue: row.Revenue, Orders: row.Orders})
	}

	if err := cache.SetJSON(ctx, cacheKey, points, s.cacheTTL()); err != nil {
		logger.Warnw("analytics_trend_cache_write_failed", "error", err)
	}
	return points, nil
}

// BestSellerItem 畅销榜条目
type BestSellerItem struct {
	ProductID       uint    `json:"product_id"`
	Name            string  `json:"name"`
	Quantity        int64   `json:"quantity"`
	Revenue         float64 `json:"revenue"`
	EstimatedProfit float64 `json:"estimated_profit"`
}

// BestSellersResponse 畅销榜响应，Source 标注取数口径
type BestSellersResponse struct {
	Source string           `json:"source"`
	Items  []BestSellerItem `json:"items"`
}

// BestSellers 畅销商品榜，三级降级保证总有返回：
// 已完成订单明细 → 商品累计销量估算 → 最新商品按零销量兜底。
func (s *AnalyticsService) BestSellers(ctx context.Context, limit int) (*BestSellersResponse, error) {
	if limit <= 0 || limit > s.bestSellerLimit() {
		limit = s.bestSellerLimit()
	}

	rows, err := s.repo.ProductSalesTotals(time.Time{}, time.Time{}, []string{constants.OrderStatusCompleted}, limit)
	source := BestSellerSourceOrders
	if err != nil {
		logger.Warnw("analytics_best_sellers_orders_failed", "error", err)
		rows = nil
	}
	if len(rows) == 0 {
		rows, err = s.repo.BestSellersFromProducts(limit)
		source = BestSellerSourceProducts
		if err != nil {
			logger.Warnw("analytics_best_sellers_products_failed", "error", err)
			rows = nil
		}
	}
	if len(rows) == 0 {
		rows, err = s.repo.LatestProducts(limit)
		source = BestSellerSourceLatest
		if err != nil {
			// 兜底口径也失败时返回空榜而不是报错
			logger.Errorw("analytics_best_sellers_latest_failed", "error", err)
			rows = nil
		}
	}

	items := make([]BestSellerItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, BestSellerItem{
			ProductID:       row.ProductID,
			Name:            row.Name,
			Quantity:        row.Quantity,
			Revenue:         row.Revenue,
			EstimatedProfit: row.Revenue * s.profitRatio(),
		})
	}
	return &BestSellersResponse{Source: source, Items: items}, nil
}

// MonthlyBestSellers 某月已完成订单的畅销榜，只含有销量的商品，上限 20 条
func (s *AnalyticsService) MonthlyBestSellers(ctx context.Context, year, month int) ([]BestSellerItem, error) {
	now := time.Now()
	if year <= 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	startAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	endAt := startAt.AddDate(0, 1, 0)

	rows, err := s.repo.ProductSalesTotals(startAt, endAt, []string{constants.OrderStatusCompleted}, monthlyBestSellerLimit)
	if err != nil {
		return nil, err
	}
	items := make([]BestSellerItem, 0, len(rows))
	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}
		items = append(items, BestSellerItem{
			ProductID:       row.ProductID,
			Name:            row.Name,
			Quantity:        row.Quantity,
			Revenue:         row.Revenue,
			EstimatedProfit: row.Revenue * s.profitRatio(),
		})
	}
	return items, nil
}

// ProductSales 已完成订单的逐商品销售汇总
func (s *AnalyticsService) ProductSales(ctx context.Context) ([]BestSellerItem, error) {
	rows, err := s.repo.ProductSalesTotals(time.Time{}, time.Time{}, []string{constants.OrderStatusCompleted}, 0)
	if err != nil {
		return nil, err
	}
	items := make([]BestSellerItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, BestSellerItem{
			ProductID:       row.ProductID,
			Name:            row.Name,
			Quantity:        row.Quantity,
			Revenue:         row.Revenue,
			EstimatedProfit: row.Revenue * s.profitRatio(),
		})
	}
	return items, nil
}

// CategorySalesItem 分类销售汇总条目
type CategorySalesItem struct {
	Category string  `json:"category"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategorySales 已完成订单的逐分类销售汇总
func (s *AnalyticsService) CategorySales(ctx context.Context) ([]CategorySalesItem, error) {
	rows, err := s.repo.CategorySalesTotals([]string{constants.OrderStatusCompleted})
	if err != nil {
		return nil, err
	}
	items := make([]CategorySalesItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, CategorySalesItem{
			Category: row.Category,
			Quantity: row.Quantity,
			Revenue:  row.Revenue,
		})
	}
	return items, nil
}

// EstimateVisitors 估算访客数。
// 无真实流量埋点，按订单量放大估算；没有订单就不编造访客。
func EstimateVisitors(orders int64) int64 {
	if orders <= 0 {
		return 0
	}
	byRatio := orders * 10
	byFloor := orders + 5
	if byRatio > byFloor {
		return byRatio
	}
	return byFloor
}

// round1 保留一位小数
func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func (s *AnalyticsService) costRatio() float64 {
	if s.cfg.AssumedCostRatio > 0 {
		return s.cfg.AssumedCostRatio
	}
	return 0.70
}

func (s *AnalyticsService) profitRatio() float64 {
	if s.cfg.AssumedProfitRatio > 0 {
		return s.cfg.AssumedProfitRatio
	}
	return 0.30
}

func (s *AnalyticsService) periodDays() int {
	if s.cfg.SummaryPeriodDays > 0 {
		return s.cfg.SummaryPeriodDays
	}
	return 30
}

func (s *AnalyticsService) bestSellerLimit() int {
	if s.cfg.BestSellerLimit > 0 {
		return s.cfg.BestSellerLimit
	}
	return 100
}

func (s *AnalyticsService) cacheTTL() time.Duration {
	if s.cfg.CacheTTLSeconds > 0 {
		return time.Duration(s.cfg.CacheTTLSeconds) * time.Second
	}
	return 45 * time.Second
}
