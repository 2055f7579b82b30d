package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupAnalyticsServiceTest(t *testing.T) (*AnalyticsService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	cfg := &config.AnalyticsConfig{
		AssumedCostRatio:    0.70,
		AssumedProfitRatio:  0.30,
		SummaryPeriodDays:   30,
		CacheTTLSeconds:     45,
		BestSellerLimit:     100,
		TopPerformanceLimit: 5,
	}
	return NewAnalyticsService(repository.NewAnalyticsRepository(db), cfg), db
}

func amount(value int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(value))
}

func TestSummaryUsesCompletedOrdersFirst(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	orders := []models.Order{
		{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: amount(100000)},
		{OrderNo: "TK-2", CustomerName: "Sari", CustomerEmail: "sari@example.com", Status: "pending", TotalAmount: amount(999999)},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.RevenueSource != RevenueSourceCompleted {
		t.Fatalf("source = %q, want %q", summary.RevenueSource, RevenueSourceCompleted)
	}
	if summary.TotalRevenue != 100000 {
		t.Fatalf("revenue = %v, want 100000", summary.TotalRevenue)
	}
	if summary.TotalOrders != 1 {
		t.Fatalf("orders = %d, want 1", summary.TotalOrders)
	}
	if summary.EstimatedCost != 70000 {
		t.Fatalf("cost = %v, want 70000", summary.EstimatedCost)
	}
	if summary.EstimatedProfit != 30000 {
		t.Fatalf("profit = %v, want 30000", summary.EstimatedProfit)
	}
	// 访客按 max(orders*10, orders+5) 估算
	if summary.EstimatedVisitors != 10 {
		t.Fatalf("visitors = %d, want 10", summary.EstimatedVisitors)
	}
	// 今日/本周/本月口径不区分状态
	if summary.Today.Orders != 2 || summary.Week.Orders != 2 || summary.Month.Orders != 2 {
		t.Fatalf("period stats = today %+v week %+v month %+v", summary.Today, summary.Week, summary.Month)
	}
}

func TestSummaryTopProductsRevenueShare(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	order := models.Order{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: amount(100000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	kopiID, tehID := uint(1), uint(2)
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: &kopiID, ProductName: "Kopi", Quantity: 3, Price: amount(25000)},
		{OrderID: order.ID, ProductID: &tehID, ProductName: "Teh", Quantity: 1, Price: amount(25000)},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(summary.TopProducts) != 2 {
		t.Fatalf("top products = %d, want 2", len(summary.TopProducts))
	}
	if summary.TopProducts[0].Name != "Kopi" || summary.TopProducts[0].SharePercent != 75.0 {
		t.Fatalf("top product = %+v", summary.TopProducts[0])
	}
	if summary.TopProducts[1].SharePercent != 25.0 {
		t.Fatalf("second product share = %v, want 25", summary.TopProducts[1].SharePercent)
	}
}

func TestSummaryFallsBackToAllOrders(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	order := models.Order{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "pending", TotalAmount: amount(50000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.RevenueSource != RevenueSourceAllOrders {
		t.Fatalf("source = %q, want %q", summary.RevenueSource, RevenueSourceAllOrders)
	}
	if summary.TotalRevenue != 50000 {
		t.Fatalf("revenue = %v, want 50000", summary.TotalRevenue)
	}
}

func TestSummaryFallsBackToProductEstimate(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	product := models.Product{Name: "Kopi", RegularPrice: amount(20000), PromoPrice: amount(15000), SoldCount: 4, Status: "active"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.RevenueSource != RevenueSourceEstimate {
		t.Fatalf("source = %q, want %q", summary.RevenueSource, RevenueSourceEstimate)
	}
	if summary.TotalRevenue != 60000 {
		t.Fatalf("revenue = %v, want 60000", summary.TotalRevenue)
	}
}

func TestSummaryAllEmptyReturnsZeros(t *testing.T) {
	svc, _ := setupAnalyticsServiceTest(t)

	summary, err := svc.Summary(context.Background(), true)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalRevenue != 0 || summary.TotalOrders != 0 || summary.EstimatedVisitors != 0 {
		t.Fatalf("summary not zeroed: %+v", summary)
	}
}

func TestMonthlyProfitLossZeroFillsTwelveMonths(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	year := time.Now().Year()
	// 损益口径取全部订单，pending 也计入
	orders := []models.Order{
		{
			OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com",
			Status: "completed", TotalAmount: amount(120000),
			CreatedAt: time.Date(year, time.April, 5, 9, 0, 0, 0, time.UTC),
		},
		{
			OrderNo: "TK-2", CustomerName: "Sari", CustomerEmail: "sari@example.com",
			Status: "pending", TotalAmount: amount(80000),
			CreatedAt: time.Date(year, time.July, 1, 9, 0, 0, 0, time.UTC),
		},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	report, err := svc.MonthlyProfitLoss(context.Background(), year)
	if err != nil {
		t.Fatalf("MonthlyProfitLoss failed: %v", err)
	}
	if len(report.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(report.Months))
	}
	for i, p := range report.Months {
		if p.Month != i+1 {
			t.Fatalf("month order broken at index %d: %+v", i, p)
		}
	}
	april := report.Months[3]
	if april.Revenue != 120000 || april.Orders != 1 {
		t.Fatalf("april point = %+v", april)
	}
	if april.Cost != 84000 || april.Profit != 36000 || april.Margin != 30.0 {
		t.Fatalf("april estimates = %+v", april)
	}
	july := report.Months[6]
	if july.Revenue != 80000 {
		t.Fatalf("july point = %+v", july)
	}
	if report.BestMonth != 4 {
		t.Fatalf("best month = %d, want 4", report.BestMonth)
	}
	if report.Revenue != 200000 || report.Margin != 30.0 {
		t.Fatalf("yearly aggregate = revenue %v margin %v", report.Revenue, report.Margin)
	}
	for i, p := range report.Months {
		if i == 3 || i == 6 {
			continue
		}
		if p.Revenue != 0 || p.Orders != 0 || p.Margin != 0 {
			t.Fatalf("month %d should be zero: %+v", p.Month, p)
		}
	}
}

func TestMonthlyProfitLossEmptyYearDoesNotFail(t *testing.T) {
	svc, _ := setupAnalyticsServiceTest(t)

	report, err := svc.MonthlyProfitLoss(context.Background(), 2020)
	if err != nil {
		t.Fatalf("MonthlyProfitLoss failed: %v", err)
	}
	if len(report.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(report.Months))
	}
	for _, p := range report.Months {
		if p.Revenue != 0 || p.Profit != 0 || p.Margin != 0 {
			t.Fatalf("month %d should be zero: %+v", p.Month, p)
		}
	}
	if report.BestMonth != 0 || report.Profit != 0 || report.Margin != 0 {
		t.Fatalf("empty year aggregate = %+v", report)
	}
}

func TestSalesTrendZeroFillsWindow(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	today := time.Now().Truncate(24 * time.Hour).Add(12 * time.Hour)
	order := models.Order{
		OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com",
		Status: "completed", TotalAmount: amount(100000), CreatedAt: today,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	points, err := svc.SalesTrend(context.Background(), 7)
	if err != nil {
		t.Fatalf("SalesTrend failed: %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("points = %d, want 7", len(points))
	}

	wantDay := today.Format("2006-01-02")
	var nonZero int
	for _, p := range points {
		if p.Orders == 0 && p.Revenue == 0 {
			continue
		}
		nonZero++
		if p.Date != wantDay {
			t.Fatalf("non-zero bucket on %q, want %q", p.Date, wantDay)
		}
		if p.Orders != 1 || p.Revenue != 100000 {
			t.Fatalf("bucket = %+v", p)
		}
	}
	if nonZero != 1 {
		t.Fatalf("non-zero buckets = %d, want 1", nonZero)
	}

	// 非法窗口回退 30 天
	points, err = svc.SalesTrend(context.Background(), 13)
	if err != nil {
		t.Fatalf("SalesTrend fallback failed: %v", err)
	}
	if len(points) != 30 {
		t.Fatalf("fallback points = %d, want 30", len(points))
	}
}

func TestBestSellersFallsBackToSoldCount(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	products := []models.Product{
		{Name: "Kopi", RegularPrice: amount(20000), SoldCount: 9, Status: "active"},
		{Name: "Teh", RegularPrice: amount(10000), SoldCount: 3, Status: "active"},
		{Name: "Gula", RegularPrice: amount(5000), SoldCount: 0, Status: "active"},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	result, err := svc.BestSellers(context.Background(), 10)
	if err != nil {
		t.Fatalf("BestSellers failed: %v", err)
	}
	if result.Source != BestSellerSourceProducts {
		t.Fatalf("source = %q, want %q", result.Source, BestSellerSourceProducts)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Items))
	}
	if result.Items[0].Name != "Kopi" || result.Items[0].Quantity != 9 {
		t.Fatalf("top item = %+v", result.Items[0])
	}
	if result.Items[0].Revenue != 180000 {
		t.Fatalf("top revenue = %v, want 180000", result.Items[0].Revenue)
	}
}

func TestBestSellersUsesOrderItemsFirst(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	product := models.Product{Name: "Kopi", RegularPrice: amount(20000), SoldCount: 99, Status: "active"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := models.Order{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: amount(60000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{OrderID: order.ID, ProductID: &product.ID, ProductName: "Kopi", Quantity: 3, Price: amount(20000)}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}

	result, err := svc.BestSellers(context.Background(), 10)
	if err != nil {
		t.Fatalf("BestSellers failed: %v", err)
	}
	if result.Source != BestSellerSourceOrders {
		t.Fatalf("source = %q, want %q", result.Source, BestSellerSourceOrders)
	}
	if len(result.Items) != 1 || result.Items[0].Quantity != 3 || result.Items[0].Revenue != 60000 {
		t.Fatalf("items = %+v", result.Items)
	}
	if result.Items[0].EstimatedProfit != 18000 {
		t.Fatalf("estimated profit = %v, want 18000", result.Items[0].EstimatedProfit)
	}
}

func TestBestSellersFallsBackToLatestProducts(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	// 没有任何销量，只有商品本身：最后一级兜底按零销量返回最新商品
	product := models.Product{Name: "Baru", RegularPrice: amount(20000), SoldCount: 0, Status: "active"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	result, err := svc.BestSellers(context.Background(), 10)
	if err != nil {
		t.Fatalf("BestSellers failed: %v", err)
	}
	if result.Source != BestSellerSourceLatest {
		t.Fatalf("source = %q, want %q", result.Source, BestSellerSourceLatest)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "Baru" {
		t.Fatalf("items = %+v", result.Items)
	}
	if result.Items[0].Quantity != 0 || result.Items[0].Revenue != 0 {
		t.Fatalf("fallback item should be zeroed: %+v", result.Items[0])
	}
}

func TestMonthlyBestSellersOnlyCompletedWithSales(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	now := time.Now()
	completed := models.Order{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: amount(40000), CreatedAt: now}
	pending := models.Order{OrderNo: "TK-2", CustomerName: "Sari", CustomerEmail: "sari@example.com", Status: "pending", TotalAmount: amount(90000), CreatedAt: now}
	for _, o := range []*models.Order{&completed, &pending} {
		if err := db.Create(o).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	productID := uint(5)
	items := []models.OrderItem{
		{OrderID: completed.ID, ProductID: &productID, ProductName: "Kopi", Quantity: 2, Price: amount(20000)},
		{OrderID: pending.ID, ProductID: &productID, ProductName: "Kopi", Quantity: 9, Price: amount(10000)},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}

	got, err := svc.MonthlyBestSellers(context.Background(), now.Year(), int(now.Month()))
	if err != nil {
		t.Fatalf("MonthlyBestSellers failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("items = %d, want 1", len(got))
	}
	if got[0].Quantity != 2 || got[0].Revenue != 40000 {
		t.Fatalf("item = %+v", got[0])
	}
	if got[0].EstimatedProfit != 12000 {
		t.Fatalf("estimated profit = %v, want 12000", got[0].EstimatedProfit)
	}
}

func TestCategorySalesAggregatesByCategory(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	products := []models.Product{
		{Name: "Kopi Susu", Category: "Kopi", RegularPrice: amount(20000), Status: "active"},
		{Name: "Keripik", Category: "Snack", RegularPrice: amount(15000), Status: "active"},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	order := models.Order{OrderNo: "TK-1", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: amount(55000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: &products[0].ID, ProductName: "Kopi Susu", Quantity: 2, Price: amount(20000)},
		{OrderID: order.ID, ProductID: &products[1].ID, ProductName: "Keripik", Quantity: 1, Price: amount(15000)},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}

	got, err := svc.CategorySales(context.Background())
	if err != nil {
		t.Fatalf("CategorySales failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("categories = %d, want 2", len(got))
	}
	if got[0].Category != "Kopi" || got[0].Revenue != 40000 {
		t.Fatalf("top category = %+v", got[0])
	}
}

func TestEstimateVisitors(t *testing.T) {
	cases := map[int64]int64{
		0:  0,
		1:  10,
		2:  20,
		10: 100,
	}
	for orders, want := range cases {
		if got := EstimateVisitors(orders); got != want {
			t.Fatalf("EstimateVisitors(%d) = %d, want %d", orders, got, want)
		}
	}
}
