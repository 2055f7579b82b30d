package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tokoline/tokoline/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupAnalyticsRepositoryTest(t *testing.T) (*GormAnalyticsRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate analytics models failed: %v", err)
	}
	return NewAnalyticsRepository(db), db
}

func money(value int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(value))
}

func TestRevenueByStatusesOnlyCountsGivenStatuses(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)
	now := time.Now()

	orders := []models.Order{
		{OrderNo: "TK-001", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(150000)},
		{OrderNo: "TK-002", CustomerName: "Sari", CustomerEmail: "sari@example.com", Status: "completed", TotalAmount: money(50000)},
		{OrderNo: "TK-003", CustomerName: "Adi", CustomerEmail: "adi@example.com", Status: "pending", TotalAmount: money(999999)},
		{OrderNo: "TK-004", CustomerName: "Dewi", CustomerEmail: "dewi@example.com", Status: "cancelled", TotalAmount: money(70000)},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	row, err := repo.RevenueByStatuses(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), []string{"completed"})
	if err != nil {
		t.Fatalf("RevenueByStatuses failed: %v", err)
	}
	if row.Orders != 2 {
		t.Fatalf("orders = %d, want 2", row.Orders)
	}
	if row.Revenue != 200000 {
		t.Fatalf("revenue = %v, want 200000", row.Revenue)
	}

	all, err := repo.RevenueAllOrders(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RevenueAllOrders failed: %v", err)
	}
	if all.Orders != 4 {
		t.Fatalf("all orders = %d, want 4", all.Orders)
	}
}

func TestProductSalesEstimatePrefersPromoPrice(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	products := []models.Product{
		{Name: "Kopi", RegularPrice: money(20000), PromoPrice: money(15000), SoldCount: 10, Status: "active"},
		{Name: "Teh", RegularPrice: money(10000), PromoPrice: money(0), SoldCount: 5, Status: "active"},
		{Name: "Gula", RegularPrice: money(8000), PromoPrice: money(0), SoldCount: 0, Status: "active"},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	row, err := repo.ProductSalesEstimate()
	if err != nil {
		t.Fatalf("ProductSalesEstimate failed: %v", err)
	}
	// 15000*10 + 10000*5
	if row.Revenue != 200000 {
		t.Fatalf("revenue = %v, want 200000", row.Revenue)
	}
	if row.Orders != 15 {
		t.Fatalf("units = %d, want 15", row.Orders)
	}
}

func TestMonthlyRevenueGroupsByMonth(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	year := time.Now().Year()
	jan := time.Date(year, time.January, 15, 10, 0, 0, 0, time.UTC)
	mar := time.Date(year, time.March, 3, 10, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{OrderNo: "TK-101", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(100000), CreatedAt: jan},
		{OrderNo: "TK-102", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(50000), CreatedAt: jan},
		{OrderNo: "TK-103", CustomerName: "Sari", CustomerEmail: "sari@example.com", Status: "completed", TotalAmount: money(30000), CreatedAt: mar},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	rows, err := repo.MonthlyRevenue(year, []string{"completed"})
	if err != nil {
		t.Fatalf("MonthlyRevenue failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Bucket != "01" || rows[0].Revenue != 150000 || rows[0].Orders != 2 {
		t.Fatalf("january row = %+v", rows[0])
	}
	if rows[1].Bucket != "03" || rows[1].Revenue != 30000 {
		t.Fatalf("march row = %+v", rows[1])
	}
}

func TestProductSalesTotalsAggregatesOrderItems(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)
	now := time.Now()

	order := models.Order{OrderNo: "TK-201", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(90000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	cancelled := models.Order{OrderNo: "TK-202", CustomerName: "Adi", CustomerEmail: "adi@example.com", Status: "cancelled", TotalAmount: money(500000)}
	if err := db.Create(&cancelled).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	productID := uint(7)
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: &productID, ProductName: "Kopi", Quantity: 3, Price: money(20000)},
		{OrderID: order.ID, ProductID: nil, ProductName: "Teh", Quantity: 1, Price: money(30000)},
		{OrderID: cancelled.ID, ProductID: &productID, ProductName: "Kopi", Quantity: 25, Price: money(20000)},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}

	rows, err := repo.ProductSalesTotals(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), []string{"completed"}, 10)
	if err != nil {
		t.Fatalf("ProductSalesTotals failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// 取消订单不计入销量
	if rows[0].Name != "Kopi" || rows[0].Quantity != 3 || rows[0].Revenue != 60000 {
		t.Fatalf("top row = %+v", rows[0])
	}
}

func TestDailyRevenueBucketsAreSorted(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	base := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{OrderNo: "TK-301", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(10000), CreatedAt: base.AddDate(0, 0, 2)},
		{OrderNo: "TK-302", CustomerName: "Sari", CustomerEmail: "sari@example.com", Status: "completed", TotalAmount: money(20000), CreatedAt: base},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	rows, err := repo.DailyRevenue(base.AddDate(0, 0, -1), base.AddDate(0, 0, 5), []string{"completed"})
	if err != nil {
		t.Fatalf("DailyRevenue failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Bucket != "2026-05-10" || rows[1].Bucket != "2026-05-12" {
		t.Fatalf("buckets = %q, %q", rows[0].Bucket, rows[1].Bucket)
	}
}

func TestCategorySalesTotalsGroupsByProductCategory(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	products := []models.Product{
		{Name: "Kopi Susu", Category: "Kopi", RegularPrice: money(20000), Status: "active"},
		{Name: "Keripik", Category: "Snack", RegularPrice: money(15000), Status: "active"},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	order := models.Order{OrderNo: "TK-401", CustomerName: "Budi", CustomerEmail: "budi@example.com", Status: "completed", TotalAmount: money(95000)}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: &products[0].ID, ProductName: "Kopi Susu", Quantity: 4, Price: money(20000)},
		{OrderID: order.ID, ProductID: &products[1].ID, ProductName: "Keripik", Quantity: 1, Price: money(15000)},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}

	rows, err := repo.CategorySalesTotals([]string{"completed"})
	if err != nil {
		t.Fatalf("CategorySalesTotals failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Category != "Kopi" || rows[0].Quantity != 4 || rows[0].Revenue != 80000 {
		t.Fatalf("top category = %+v", rows[0])
	}
	if rows[1].Category != "Snack" || rows[1].Revenue != 15000 {
		t.Fatalf("second category = %+v", rows[1])
	}
}

func TestLatestProductsReturnsZeroedRows(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	products := []models.Product{
		{Name: "Lama", RegularPrice: money(10000), SoldCount: 50, Status: "active", CreatedAt: time.Now().AddDate(0, 0, -3)},
		{Name: "Baru", RegularPrice: money(20000), SoldCount: 0, Status: "active", CreatedAt: time.Now()},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	rows, err := repo.LatestProducts(10)
	if err != nil {
		t.Fatalf("LatestProducts failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Baru" {
		t.Fatalf("latest first, got %q", rows[0].Name)
	}
	for _, row := range rows {
		if row.Quantity != 0 || row.Revenue != 0 {
			t.Fatalf("row should be zeroed: %+v", row)
		}
	}
}
