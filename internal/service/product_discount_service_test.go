package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductDiscountTest(t *testing.T) (*ProductDiscountService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	migrations := []interface{}{
		&models.Product{}, &models.ProductImage{}, &models.ProductVariant{},
		&models.FlashSale{}, &models.ProductVoucher{},
	}
	if err := db.AutoMigrate(migrations...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewProductDiscountService(
		repository.NewProductRepository(db),
		repository.NewFlashSaleRepository(db),
		repository.NewProductVoucherRepository(db),
	)
	return svc, db
}

func TestSetDiscountValidatesPromoPrice(t *testing.T) {
	svc, db := setupProductDiscountTest(t)

	product := &models.Product{Name: "Kopi Susu", Category: "Kopi", RegularPrice: amount(25000), Status: "active"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	// 促销价不能高于等于原价，也不能为零
	for _, promo := range []int64{0, 25000, 30000} {
		_, err := svc.SetDiscount(ProductDiscountInput{ProductID: product.ID, PromoPrice: amount(promo)})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("promo %d err = %v, want ErrInvalidInput", promo, err)
		}
	}

	entry, err := svc.SetDiscount(ProductDiscountInput{ProductID: product.ID, PromoPrice: amount(20000)})
	if err != nil {
		t.Fatalf("set discount failed: %v", err)
	}
	if entry.DiscountPercent != 20.0 {
		t.Fatalf("discount percent = %v, want 20.0", entry.DiscountPercent)
	}

	if _, err := svc.SetDiscount(ProductDiscountInput{ProductID: 999, PromoPrice: amount(100)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err = %v, want ErrNotFound", err)
	}
}

func TestListDiscountsIncludesRunningFlashSale(t *testing.T) {
	svc, db := setupProductDiscountTest(t)

	discounted := &models.Product{Name: "Biji Gayo", Category: "Kopi", RegularPrice: amount(50000), PromoPrice: amount(40000), Status: "active"}
	fullPrice := &models.Product{Name: "V60 Dripper", Category: "Peralatan", RegularPrice: amount(90000), Status: "active"}
	for _, p := range []*models.Product{discounted, fullPrice} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	sale := &models.FlashSale{
		Name: "Gajian Sale", ProductID: discounted.ID,
		DiscountType: "percentage", DiscountValue: amount(30),
		StartTime: &start, EndTime: &end, IsActive: true,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("seed flash sale failed: %v", err)
	}

	items, err := svc.ListDiscounts()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1 (only products with promo price)", len(items))
	}
	if items[0].ProductID != discounted.ID {
		t.Fatalf("product = %d, want %d", items[0].ProductID, discounted.ID)
	}
	if items[0].FlashSale == nil || items[0].FlashSale.ID != sale.ID {
		t.Fatal("running flash sale should be attached")
	}
}

func TestRemoveDiscountClearsPromoPrice(t *testing.T) {
	svc, db := setupProductDiscountTest(t)

	product := &models.Product{Name: "Keripik", Category: "Snack", RegularPrice: amount(15000), PromoPrice: amount(12000), Status: "active"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	if err := svc.RemoveDiscount(product.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	entry, err := svc.GetDiscount(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if entry.DiscountPercent != 0 {
		t.Fatalf("discount percent = %v, want 0 after removal", entry.DiscountPercent)
	}
	if !entry.PromoPrice.Decimal.IsZero() {
		t.Fatalf("promo price = %s, want 0", entry.PromoPrice.Decimal)
	}

	if err := svc.RemoveDiscount(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err = %v, want ErrNotFound", err)
	}
}
