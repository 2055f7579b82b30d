package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{}, &models.ProductImage{}, &models.ProductVariant{},
		&models.Order{}, &models.OrderItem{},
		&models.Voucher{}, &models.ProductVoucher{},
		&models.FlashSale{}, &models.Customer{},
	); err != nil {
		t.Fatalf("migrate order models failed: %v", err)
	}

	voucherSvc := NewVoucherService(
		repository.NewVoucherRepository(db),
		repository.NewProductVoucherRepository(db),
		repository.NewProductRepository(db),
	)
	queueClient, _ := queue.NewClient(nil)
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewFlashSaleRepository(db),
		voucherSvc,
		repository.NewCustomerRepository(db),
		NewEmailService(nil),
		queueClient,
	)
	return svc, db
}

func seedOrderProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         name,
		Category:     "minuman",
		RegularPrice: amount(price),
		Stock:        stock,
		Status:       "active",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func TestCreateOrderTransactionally(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi Susu", 25000, 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerName:    "Budi",
		CustomerEmail:   "Budi@Example.com",
		CustomerPhone:   "0812",
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !strings.HasPrefix(order.OrderNo, "TL") {
		t.Fatalf("order no = %q, want TL prefix", order.OrderNo)
	}
	if order.Status != "pending" {
		t.Fatalf("status = %q, want pending", order.Status)
	}
	if !order.TotalAmount.Decimal.Equal(amount(75000).Decimal) {
		t.Fatalf("total = %s, want 75000", order.TotalAmount.Decimal)
	}
	if order.CustomerEmail != "budi@example.com" {
		t.Fatalf("email = %q, want lowercased", order.CustomerEmail)
	}
	if len(order.Items) != 1 || order.Items[0].ProductName != "Kopi Susu" {
		t.Fatalf("items = %+v, want single snapshot line", order.Items)
	}

	// 库存与销量在同一事务里调整
	var reloaded models.Product
	if err := db.First(&reloaded, kopi.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 7 {
		t.Fatalf("stock = %d, want 7", reloaded.Stock)
	}
	if reloaded.SoldCount != 3 {
		t.Fatalf("sold_count = %d, want 3", reloaded.SoldCount)
	}

	// 下单即登记客户档案
	var customer models.Customer
	if err := db.Where("email = ?", "budi@example.com").First(&customer).Error; err != nil {
		t.Fatalf("customer not registered: %v", err)
	}
	if customer.Status != "pending" {
		t.Fatalf("customer status = %q, want pending", customer.Status)
	}
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi", 20000, 2)

	cases := []CreateOrderInput{
		{CustomerEmail: "a@b.c", Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}}},
		{CustomerName: "Budi", Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}}},
		{CustomerName: "Budi", CustomerEmail: "a@b.c"},
		{CustomerName: "Budi", CustomerEmail: "a@b.c", Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 0}}},
	}
	for i, input := range cases {
		if _, err := svc.CreateOrder(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d err = %v, want ErrInvalidInput", i, err)
		}
	}

	if _, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Budi", CustomerEmail: "a@b.c",
		Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 5}},
	}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("overdraw err = %v, want ErrInsufficientStock", err)
	}

	if _, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Budi", CustomerEmail: "a@b.c",
		Items: []CreateOrderItemInput{{ProductID: 9999, Quantity: 1}},
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err = %v, want ErrNotFound", err)
	}
}

func TestCreateOrderAppliesVoucher(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi", 50000, 10)

	voucher := &models.Voucher{
		Code: "POTONG10RB", DiscountType: "fixed", DiscountValue: amount(10000),
		UsageLimit: 1, IsActive: true,
	}
	if err := db.Create(voucher).Error; err != nil {
		t.Fatalf("seed voucher failed: %v", err)
	}

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Sari", CustomerEmail: "sari@example.com",
		VoucherCode: "potong10rb",
		Items:       []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalAmount.Decimal.Equal(amount(40000).Decimal) {
		t.Fatalf("total = %s, want 40000", order.TotalAmount.Decimal)
	}
	if !order.DiscountAmount.Decimal.Equal(amount(10000).Decimal) {
		t.Fatalf("discount = %s, want 10000", order.DiscountAmount.Decimal)
	}
	if order.VoucherCode != "POTONG10RB" {
		t.Fatalf("voucher code = %q, want POTONG10RB", order.VoucherCode)
	}

	// 次数用尽后整单失败，不产生半截订单
	_, err = svc.CreateOrder(CreateOrderInput{
		CustomerName: "Sari", CustomerEmail: "sari@example.com",
		VoucherCode: "POTONG10RB",
		Items:       []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrVoucherExhausted) {
		t.Fatalf("second redeem err = %v, want ErrVoucherExhausted", err)
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("orders = %d, want 1 (failed order rolled back)", count)
	}
}

func TestCreateOrderFlashSalePricing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi", 100000, 10)
	kopi.PromoPrice = amount(80000)
	if err := db.Save(kopi).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	sale := &models.FlashSale{
		Name: "Gajian Sale", ProductID: kopi.ID,
		DiscountType: "percentage", DiscountValue: amount(50),
		StockLimit: 2, IsActive: true,
		StartTime: &start,
		EndTime:   &end,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("seed flash sale failed: %v", err)
	}

	// 闪购价优先于促销价：100000 * 50% = 50000
	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Budi", CustomerEmail: "budi@example.com",
		Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalAmount.Decimal.Equal(amount(100000).Decimal) {
		t.Fatalf("total = %s, want 100000", order.TotalAmount.Decimal)
	}

	// 名额用尽
	_, err = svc.CreateOrder(CreateOrderInput{
		CustomerName: "Sari", CustomerEmail: "sari@example.com",
		Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrFlashSaleSoldOut) {
		t.Fatalf("sold-out err = %v, want ErrFlashSaleSoldOut", err)
	}

	var reloadedSale models.FlashSale
	if err := db.First(&reloadedSale, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if reloadedSale.SoldCount != 2 {
		t.Fatalf("sold_count = %d, want 2", reloadedSale.SoldCount)
	}
}

func TestUpdateStatusNormalizesSynonyms(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi", 20000, 5)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Budi", CustomerEmail: "budi@example.com",
		Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cases := map[string]string{
		"delivered":   "completed",
		"in_process":  "processing",
		"shipping":    "shipped",
		"canceled":    "cancelled",
		"  Completed": "completed",
	}
	for raw, want := range cases {
		updated, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: raw})
		if err != nil {
			t.Fatalf("update %q failed: %v", raw, err)
		}
		if updated.Status != want {
			t.Fatalf("status for %q = %q, want %q", raw, updated.Status, want)
		}
	}

	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: "teleported"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown status err = %v, want ErrInvalidStatus", err)
	}

	// 状态流转不重算金额
	tracking := "JNE-123"
	updated, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: "shipped", TrackingNumber: &tracking})
	if err != nil {
		t.Fatalf("update tracking failed: %v", err)
	}
	if updated.TrackingNumber != "JNE-123" {
		t.Fatalf("tracking = %q, want JNE-123", updated.TrackingNumber)
	}
	if !updated.TotalAmount.Decimal.Equal(amount(20000).Decimal) {
		t.Fatalf("total = %s, want unchanged 20000", updated.TotalAmount.Decimal)
	}
	_ = db
}

func TestListOrdersByCustomerCaseInsensitive(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kopi := seedOrderProduct(t, db, "Kopi", 20000, 5)

	if _, err := svc.CreateOrder(CreateOrderInput{
		CustomerName: "Budi", CustomerEmail: "Budi@Example.com",
		Items: []CreateOrderItemInput{{ProductID: kopi.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	orders, err := svc.ListOrdersByCustomer("BUDI@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items not preloaded: %+v", orders[0])
	}
	_ = db
}
